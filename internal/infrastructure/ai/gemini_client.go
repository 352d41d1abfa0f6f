package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultGeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel       = "gemini-1.5-flash"
	DefaultGeminiTimeout     = 15 * time.Second
	DefaultTemperature       = 0.7
	DefaultMaxOutputTokens   = 2048
	errorBodyPreviewBytes    = 1000
	maxResponseBodyBytes     = 4 << 20
	geminiRoleUser           = "user"
	geminiContentTypeJSONHdr = "application/json"
)

// GeminiConfig はGeminiクライアントの設定。プロセスの環境変数は直接参照しない
type GeminiConfig struct {
	// APIKey が空の場合は呼び出し時に MissingCredential を返す
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
	// Production ではエラーレスポンスの本文をログに出さない
	Production bool
}

// GeminiClient はGemini APIとの通信を担当するクライアント
type GeminiClient struct {
	cfg        GeminiConfig
	httpClient *http.Client
}

// NewGeminiClient は新しいGeminiClientインスタンスを作成
// httpClient が nil の場合は http.DefaultTransport を使う
func NewGeminiClient(cfg GeminiConfig, httpClient *http.Client) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGeminiTimeout
	}
	if httpClient == nil {
		// タイムアウトはリクエストごとのコンテキストで管理する
		httpClient = &http.Client{}
	}
	return &GeminiClient{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// GeminiRequest はGemini APIへのリクエスト構造体
type GeminiRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content はリクエストの内容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part はテキスト部分
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig は生成パラメータ
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GeminiResponse はGemini APIからのレスポンス構造体
type GeminiResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate は生成された候補
type Candidate struct {
	Content Content `json:"content"`
}

// GenerateContent はGemini APIを1回だけ呼び出し、最初の候補のテキストを返す
// 失敗はすべて model.PlanError に分類して返す。リトライはしない
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	// 認証情報はネットワークに触れる前に確認する
	if c.cfg.APIKey == "" {
		logger.Log.Error("❌ GEMINI_API_KEY が設定されていません")
		return "", model.NewMissingCredentialError()
	}

	reqBody, err := json.Marshal(GeminiRequest{
		Contents: []Content{
			{
				Role:  geminiRoleUser,
				Parts: []Part{{Text: prompt}},
			},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", model.NewInternalError(fmt.Errorf("リクエストのシリアライズに失敗: %w", err))
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return "", model.NewInternalError(err)
	}

	// タイマーは成功・失敗・中断のどの経路でも解放する
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", model.NewInternalError(fmt.Errorf("HTTPリクエストの作成に失敗: %w", err))
	}
	httpReq.Header.Set("Content-Type", geminiContentTypeJSONHdr)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", c.classifyTransportError(callCtx, err, time.Since(started))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.upstreamError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return "", c.classifyTransportError(callCtx, fmt.Errorf("レスポンスの読み取りに失敗: %w", err), time.Since(started))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		logger.Log.Error("❌ Gemini APIレスポンスのデコードに失敗", zap.Error(err))
		return "", model.NewEmptyResponseError("generation API returned an undecodable response")
	}

	text := firstCandidateText(&geminiResp)
	if strings.TrimSpace(text) == "" {
		return "", model.NewEmptyResponseError("generation API returned an empty response")
	}

	logger.Log.Debug("✅ Gemini API応答を受信",
		zap.Int("textLength", len(text)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}

// endpoint は generateContent のURLを組み立てる。キーはクエリ文字列で渡す
func (c *GeminiClient) endpoint() (string, error) {
	u, err := url.Parse(fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model))
	if err != nil {
		return "", fmt.Errorf("Gemini APIのURLが不正です: %w", err)
	}
	q := u.Query()
	q.Set("key", c.cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// classifyTransportError は送受信中のエラーを分類する
// 期限切れ（自身のタイムアウトでも呼び出し元の期限でも）は Timeout
func (c *GeminiClient) classifyTransportError(callCtx context.Context, err error, elapsed time.Duration) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		logger.Log.Warn("⏱️ Gemini APIリクエストがタイムアウトしました",
			zap.Duration("timeout", c.cfg.Timeout),
			zap.Duration("elapsed", elapsed),
		)
		return model.NewTimeoutError(err)
	}
	if errors.Is(callCtx.Err(), context.Canceled) {
		logger.Log.Info("🛑 呼び出し元によりGemini APIリクエストが中断されました", zap.Duration("elapsed", elapsed))
		return model.NewInternalError(fmt.Errorf("リクエストが中断されました: %w", context.Canceled))
	}
	// URLにキーが含まれるため url.Error の文字列はログに出さない
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	logger.Log.Error("❌ Gemini APIリクエストに失敗", zap.Error(err))
	return model.NewInternalError(fmt.Errorf("APIリクエストに失敗: %w", err))
}

// upstreamError は非2xxレスポンスを UpstreamError に変換する
// 本文はログにのみ残し、呼び出し元には返さない
func (c *GeminiClient) upstreamError(resp *http.Response) error {
	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if statusText == "" {
		statusText = http.StatusText(resp.StatusCode)
	}

	fields := []zap.Field{
		zap.Int("status", resp.StatusCode),
		zap.String("statusText", statusText),
	}
	if !c.cfg.Production {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreviewBytes))
		fields = append(fields, zap.String("bodyPreview", string(preview)))
	}
	logger.Log.Error("❌ Gemini APIエラーレスポンス", fields...)

	return model.NewUpstreamError(resp.StatusCode, statusText)
}

// firstCandidateText は最初の候補のテキスト部分を連結する
func firstCandidateText(resp *GeminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}
