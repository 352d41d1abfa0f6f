package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"TripPlanner-App/internal/config"
	"TripPlanner-App/internal/domain/model"
	domainrepo "TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/handler"
	"TripPlanner-App/internal/infrastructure/ai"
	"TripPlanner-App/internal/infrastructure/database"
	"TripPlanner-App/internal/infrastructure/firestore"
	"TripPlanner-App/internal/logger"
	"TripPlanner-App/internal/middleware"
	"TripPlanner-App/internal/repository"
	"TripPlanner-App/internal/usecase"
)

func main() {
	if !config.LoadDotEnv() {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Production); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GeminiAPIKey == "" {
		// 起動は継続し、最初のリクエストで CONFIG_ERROR を返す
		logger.Log.Warn("⚠️ GEMINI_API_KEY が設定されていません。プラン生成は失敗します")
	}

	policy, closePolicy := loadPromptPolicy(ctx, cfg)
	defer closePolicy()

	requestLogRepo, dbChecker, closeRequestLog := setupRequestLogRepository(ctx, cfg)
	defer closeRequestLog()

	// Dependency injection
	geminiClient := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:          cfg.GeminiAPIKey,
		BaseURL:         cfg.GeminiBaseURL,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
		Timeout:         cfg.GeminiTimeout,
		Production:      cfg.Production,
	}, nil)
	generationRepo := ai.NewGeminiTripPlanRepository(geminiClient, policy)
	normalizer := service.NewTripPlanNormalizer(cfg.Production)
	tripPlanUseCase := usecase.NewTripPlanUseCase(generationRepo, normalizer, cfg.FallbackPolicy, requestLogRepo)

	router := setupRouter(cfg,
		handler.NewTripPlanHandler(tripPlanUseCase),
		handler.NewPreferencesHandler(),
		handler.NewHealthHandler(dbChecker),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.NewCORSHandler(cfg.CORSOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("🚀 TripPlanner-App server starting",
			zap.String("addr", srv.Addr),
			zap.String("fallbackPolicy", string(cfg.FallbackPolicy)),
			zap.Duration("geminiTimeout", cfg.GeminiTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("❌ サーバーの起動に失敗", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("🛑 シャットダウン中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GeminiTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("❌ シャットダウンに失敗", zap.Error(err))
	}
}

// setupRouter はGinルーターを設定する
func setupRouter(
	cfg *config.Config,
	tripPlanHandler *handler.TripPlanHandler,
	preferencesHandler *handler.PreferencesHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.HealthCheck)
		api.POST("/trip-plan", middleware.MaxBodySize(cfg.MaxBodyBytes), tripPlanHandler.PostTripPlan)
		api.GET("/trip-preferences", preferencesHandler.GetPreferences)
		api.GET("/trip-preferences/:category", preferencesHandler.GetPreferenceCategory)
	}

	return r
}

// loadPromptPolicy はプロンプトポリシーを起動時に一度だけ読み込む
// 読み込めない場合は組み込みの既定値で起動を続ける
func loadPromptPolicy(ctx context.Context, cfg *config.Config) (*model.PromptPolicy, func()) {
	noop := func() {}

	var source domainrepo.PromptPolicyRepository
	closeFn := noop

	switch {
	case cfg.PromptPolicyFile != "":
		source = repository.NewFilePromptPolicyRepository(cfg.PromptPolicyFile)
	case cfg.FirestoreProjectID != "":
		fsClient, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleApplicationCredential)
		if err != nil {
			logger.Log.Warn("⚠️ Firestore初期化失敗、既定のプロンプトポリシーを使用", zap.Error(err))
			return model.DefaultPromptPolicy(), noop
		}
		source = repository.NewFirestorePromptPolicyRepository(fsClient.GetClient(), cfg.PromptPolicyDoc)
		closeFn = func() { _ = fsClient.Close() }
	default:
		return model.DefaultPromptPolicy(), noop
	}

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	policy, err := source.LoadPromptPolicy(loadCtx)
	if err != nil {
		logger.Log.Warn("⚠️ プロンプトポリシーの読み込みに失敗、既定値を使用", zap.Error(err))
		return model.DefaultPromptPolicy(), closeFn
	}

	logger.Log.Info("✅ プロンプトポリシーを読み込みました",
		zap.Int("preambleLines", len(policy.Preamble)),
		zap.Int("destinationRules", len(policy.DestinationRules)),
	)
	return policy, closeFn
}

// setupRequestLogRepository は運用ログの保存先を選ぶ。設定がなければ nil
// PostgreSQL を使う場合は /api/health 用の疎通確認も返す
func setupRequestLogRepository(ctx context.Context, cfg *config.Config) (domainrepo.PlanRequestLogRepository, handler.HealthChecker, func()) {
	noop := func() {}

	switch {
	case cfg.DatabaseURL != "":
		pgClient, err := database.NewPostgreSQLClient(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Warn("⚠️ PostgreSQL初期化失敗、運用ログは保存しません", zap.Error(err))
			return nil, nil, noop
		}
		repo := repository.NewPostgresPlanRequestLogRepository(pgClient)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Log.Warn("⚠️ 運用ログテーブルの準備に失敗", zap.Error(err))
		}
		logger.Log.Info("✅ 運用ログの保存先: PostgreSQL")
		return repo, pgClient, func() { _ = pgClient.Close() }
	case cfg.SupabaseURL != "":
		sbClient, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			logger.Log.Warn("⚠️ Supabase初期化失敗、運用ログは保存しません", zap.Error(err))
			return nil, nil, noop
		}
		logger.Log.Info("✅ 運用ログの保存先: Supabase")
		return repository.NewSupabasePlanRequestLogRepository(sbClient), nil, noop
	default:
		return nil, nil, noop
	}
}
