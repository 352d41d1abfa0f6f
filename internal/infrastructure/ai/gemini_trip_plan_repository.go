package ai

import (
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/logger"
	"context"
	"time"

	"go.uber.org/zap"
)

// TextGenerator はプロンプトからテキストを生成するクライアント
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// geminiTripPlanRepository はGemini APIを使用してTripPlanGenerationRepositoryを実装
type geminiTripPlanRepository struct {
	client TextGenerator
	policy *model.PromptPolicy
}

// NewGeminiTripPlanRepository は新しいgeminiTripPlanRepositoryインスタンスを作成
func NewGeminiTripPlanRepository(client TextGenerator, policy *model.PromptPolicy) repository.TripPlanGenerationRepository {
	if policy == nil {
		policy = model.DefaultPromptPolicy()
	}
	return &geminiTripPlanRepository{
		client: client,
		policy: policy,
	}
}

// GenerateTripPlanText はプロンプトを構築してモデルの生テキストを取得する
func (g *geminiTripPlanRepository) GenerateTripPlanText(ctx context.Context, input model.TripInput) (string, error) {
	prompt := BuildTripPlanPrompt(input, g.policy)

	logger.Log.Info("🤖 Gemini APIで旅行プランを生成中...",
		zap.String("destination", input.Destination),
		zap.Int("days", input.Days),
		zap.String("travelType", string(input.TravelType)),
		zap.Int("promptLength", len(prompt)),
	)

	started := time.Now()
	text, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		logger.Log.Warn("⚠️ 旅行プランのテキスト生成に失敗",
			zap.String("kind", model.KindOf(err).String()),
			zap.Duration("elapsed", time.Since(started)),
		)
		return "", err
	}

	logger.Log.Info("✅ 旅行プランのテキスト生成完了",
		zap.Int("textLength", len(text)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}
