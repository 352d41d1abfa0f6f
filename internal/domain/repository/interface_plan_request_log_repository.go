package repository

import (
	"TripPlanner-App/internal/domain/model"
	"context"
)

// PlanRequestLogRepository はプラン生成の運用ログの保存先
type PlanRequestLogRepository interface {
	Save(ctx context.Context, entry *model.PlanRequestLog) error
}
