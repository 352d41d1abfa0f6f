package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"TripPlanner-App/internal/domain/model"

	"github.com/joho/godotenv"
)

// Config はAPIサーバーの設定
type Config struct {
	Port       string
	Production bool
	GinMode    string
	LogLevel   string

	// GeminiAPIKey は起動時には検証しない。未設定の場合は最初の呼び出しで CONFIG_ERROR になる
	GeminiAPIKey          string
	GeminiBaseURL         string
	GeminiModel           string
	GeminiTemperature     float64
	GeminiMaxOutputTokens int
	GeminiTimeout         time.Duration

	FallbackPolicy model.FallbackPolicy
	CORSOrigins    []string
	MaxBodyBytes   int64

	// プロンプトポリシー。ファイルが優先、次に Firestore、どちらもなければ組み込みの既定値
	PromptPolicyFile            string
	FirestoreProjectID          string
	PromptPolicyDoc             string
	GoogleApplicationCredential string

	// 運用ログの保存先。DATABASE_URL が優先、次に Supabase、どちらもなければ保存しない
	DatabaseURL     string
	SupabaseURL     string
	SupabaseAnonKey string
}

// LoadDotEnv は .env を読み込む。存在しない場合は環境変数のみを使う
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

// Load は環境変数から設定を読み込む
// 値の形式が不正な場合は該当する変数をすべて列挙したエラーを返す
func Load() (*Config, error) {
	var problems []string

	cfg := &Config{
		Port:                        getEnv("PORT", "8080"),
		GinMode:                     os.Getenv("GIN_MODE"),
		LogLevel:                    getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:                os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:               getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:                 getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		CORSOrigins:                 splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		PromptPolicyFile:            os.Getenv("PROMPT_POLICY_FILE"),
		FirestoreProjectID:          os.Getenv("FIRESTORE_PROJECT_ID"),
		PromptPolicyDoc:             getEnv("PROMPT_POLICY_DOC", "default"),
		GoogleApplicationCredential: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DatabaseURL:                 os.Getenv("DATABASE_URL"),
		SupabaseURL:                 os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:             os.Getenv("SUPABASE_ANON_KEY"),
	}

	switch env := getEnv("APP_ENV", "development"); env {
	case "production":
		cfg.Production = true
	case "development", "test":
	default:
		problems = append(problems, fmt.Sprintf("APP_ENV must be development, test or production (got %q)", env))
	}

	temperature, err := strconv.ParseFloat(getEnv("GEMINI_TEMPERATURE", "0.7"), 64)
	if err != nil || temperature < 0 || temperature > 2 {
		problems = append(problems, "GEMINI_TEMPERATURE must be a number between 0 and 2")
	}
	cfg.GeminiTemperature = temperature

	maxTokens, err := strconv.Atoi(getEnv("GEMINI_MAX_OUTPUT_TOKENS", "2048"))
	if err != nil || maxTokens < 0 {
		problems = append(problems, "GEMINI_MAX_OUTPUT_TOKENS must be a non-negative integer (0 disables the bound)")
	}
	cfg.GeminiMaxOutputTokens = maxTokens

	timeout, err := time.ParseDuration(getEnv("GEMINI_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		problems = append(problems, "GEMINI_TIMEOUT must be a positive duration such as 15s")
	}
	cfg.GeminiTimeout = timeout

	policy, ok := model.ParseFallbackPolicy(getEnv("FALLBACK_POLICY", string(model.FallbackStrict)))
	if !ok {
		problems = append(problems, "FALLBACK_POLICY must be strict or degraded")
	}
	cfg.FallbackPolicy = policy

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64)
	if err != nil || maxBody <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey == "" {
		problems = append(problems, "SUPABASE_ANON_KEY is required when SUPABASE_URL is set")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("設定が不正です: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// getEnv は環境変数の値を返す。未設定または空の場合は fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV はカンマ区切りの文字列を空要素を除いて分割する
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
