package usecase

import (
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/logger"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// requestLogTimeout は運用ログ保存の上限時間
const requestLogTimeout = 3 * time.Second

type TripPlanUseCase interface {
	// GeneratePlan は検証済みの入力から旅行プランを生成する
	// 生成APIの呼び出しは1回のみで、リトライは呼び出し元の判断に任せる
	GeneratePlan(ctx context.Context, input model.TripInput) (*model.PlanResult, error)
}

// tripPlanUseCaseImpl はTripPlanUseCaseの実装
type tripPlanUseCaseImpl struct {
	generationRepository repository.TripPlanGenerationRepository
	normalizer           *service.TripPlanNormalizer
	fallbackPolicy       model.FallbackPolicy
	// nil の場合は運用ログを保存しない
	requestLogRepository repository.PlanRequestLogRepository
}

// NewTripPlanUseCase は新しいTripPlanUseCaseインスタンスを作成
func NewTripPlanUseCase(
	generationRepo repository.TripPlanGenerationRepository,
	normalizer *service.TripPlanNormalizer,
	fallbackPolicy model.FallbackPolicy,
	requestLogRepo repository.PlanRequestLogRepository,
) TripPlanUseCase {
	if fallbackPolicy == "" {
		fallbackPolicy = model.FallbackStrict
	}
	return &tripPlanUseCaseImpl{
		generationRepository: generationRepo,
		normalizer:           normalizer,
		fallbackPolicy:       fallbackPolicy,
		requestLogRepository: requestLogRepo,
	}
}

// GeneratePlan は入力から旅行プランを生成する
func (u *tripPlanUseCaseImpl) GeneratePlan(ctx context.Context, input model.TripInput) (*model.PlanResult, error) {
	started := time.Now()
	logger.Log.Info("🚀 旅行プラン生成開始",
		zap.String("requestId", model.RequestIDFrom(ctx)),
		zap.String("destination", input.Destination),
		zap.Int("days", input.Days),
	)

	result, err := u.generate(ctx, input)
	if err != nil && u.shouldFallback(ctx, err) {
		logger.Log.Warn("⚠️ 旅行プラン生成に失敗、代替プランを使用",
			zap.String("kind", model.KindOf(err).String()),
			zap.Error(err),
		)
		result = &model.PlanResult{
			Plan:       service.BuildFallbackPlan(input),
			Provenance: model.ProvenanceFallback,
		}
		err = nil
	}

	u.recordRequest(ctx, input, result, err, time.Since(started))

	if err != nil {
		logger.Log.Error("❌ 旅行プラン生成に失敗",
			zap.String("kind", model.KindOf(err).String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("🎉 旅行プラン生成完了",
		zap.String("provenance", string(result.Provenance)),
		zap.Int("days", len(result.Plan.Itinerary)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// generate は生成APIの呼び出しと正規化を行う
func (u *tripPlanUseCaseImpl) generate(ctx context.Context, input model.TripInput) (*model.PlanResult, error) {
	// Step 1: モデルの生テキストを取得
	text, err := u.generationRepository.GenerateTripPlanText(ctx, input)
	if err != nil {
		if _, ok := model.AsPlanError(err); !ok {
			err = model.NewInternalError(err)
		}
		return nil, err
	}

	// Step 2: JSON抽出とスキーマ検証
	plan, err := u.normalizer.Normalize(text)
	if err != nil {
		return nil, err
	}

	// Step 3: モデルに要求した制約の確認（警告のみ）
	warnings := service.CheckPlanConsistency(plan, input)
	for _, w := range warnings {
		logger.Log.Warn("⚠️ プランの整合性に問題があります", zap.String("warning", w))
	}

	return &model.PlanResult{
		Plan:       plan,
		Provenance: model.ProvenanceModel,
		Warnings:   warnings,
	}, nil
}

// shouldFallback は代替プランに切り替えるかを判定する
// 設定ミスと呼び出し元による中断は degraded でもそのまま返す
func (u *tripPlanUseCaseImpl) shouldFallback(ctx context.Context, err error) bool {
	if u.fallbackPolicy != model.FallbackDegraded {
		return false
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return false
	}
	switch model.KindOf(err) {
	case model.KindTimeout, model.KindUpstream, model.KindEmptyResponse, model.KindParse, model.KindSchemaValidation:
		return true
	default:
		return false
	}
}

// recordRequest は運用ログを保存する。保存の失敗はリクエストの結果に影響させない
func (u *tripPlanUseCaseImpl) recordRequest(ctx context.Context, input model.TripInput, result *model.PlanResult, err error, elapsed time.Duration) {
	if u.requestLogRepository == nil {
		return
	}

	outcome := model.OutcomeOK
	var provenance model.PlanProvenance
	if err != nil {
		outcome = model.KindOf(err).String()
	} else if result != nil {
		provenance = result.Provenance
	}

	entry := model.NewPlanRequestLog(model.RequestIDFrom(ctx), input, outcome, provenance, elapsed)

	// 呼び出し元が中断していても記録は残す
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestLogTimeout)
	defer cancel()

	if saveErr := u.requestLogRepository.Save(saveCtx, entry); saveErr != nil {
		logger.Log.Warn("⚠️ 運用ログの保存に失敗", zap.String("id", entry.ID.String()), zap.Error(saveErr))
	}
}
