package repository

import (
	"TripPlanner-App/internal/domain/model"
	"context"
)

// TripPlanGenerationRepository は旅行プランのテキスト生成の責務を持つリポジトリインターフェース
type TripPlanGenerationRepository interface {
	// GenerateTripPlanText はプロンプトを構築して生成APIを1回だけ呼び出し、モデルの生テキストを返す
	// 失敗は model.PlanError として分類済みで返す
	GenerateTripPlanText(ctx context.Context, input model.TripInput) (string, error)
}
