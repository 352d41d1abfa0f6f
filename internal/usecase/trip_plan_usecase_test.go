package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/infrastructure/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport は Gemini API の代わりに固定のレスポンスを返す
type stubTransport struct {
	calls  int32
	status int
	text   string
	raw    string
	block  bool
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.block {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}

	body := s.raw
	if body == "" {
		b, _ := json.Marshal(ai.GeminiResponse{Candidates: []ai.Candidate{{
			Content: ai.Content{Role: "model", Parts: []ai.Part{{Text: s.text}}},
		}}})
		body = string(b)
	}
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

// memoryRequestLogRepository は保存された運用ログを保持する
type memoryRequestLogRepository struct {
	mu      sync.Mutex
	entries []*model.PlanRequestLog
	err     error
}

func (m *memoryRequestLogRepository) Save(_ context.Context, entry *model.PlanRequestLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func planJSON(days int) string {
	itinerary := make([]string, 0, days)
	for d := 1; d <= days; d++ {
		itinerary = append(itinerary, fmt.Sprintf(
			`{"day":%d,"title":"Day %d","activities":[{"time":"09:00","activity":"Explore","duration":"3 hours","cost":"€20"}]}`, d, d))
	}
	return `{"itinerary":[` + strings.Join(itinerary, ",") + `],` +
		`"budget":{"accommodation":360,"food":225,"transport":135,"activities":180,"total":900},` +
		`"places":[{"name":"Belém Tower","category":"Landmark","bestTime":"Morning","estimatedCost":"€10"}],` +
		`"food":[{"name":"Time Out Market","cuisine":"Portuguese","specialty":"Pastel de nata","priceRange":"$$"}],` +
		`"tips":["Wear comfortable shoes"]}`
}

var lisbon = model.TripInput{Destination: "Lisbon", Days: 3, Budget: 900, TravelType: model.TravelTypeSolo}

func newPipeline(transport http.RoundTripper, apiKey string, policy model.FallbackPolicy, requestLogs repository.PlanRequestLogRepository) TripPlanUseCase {
	client := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  apiKey,
		BaseURL: "https://gemini.test/v1beta",
		Timeout: 100 * time.Millisecond,
	}, &http.Client{Transport: transport})

	return NewTripPlanUseCase(
		ai.NewGeminiTripPlanRepository(client, nil),
		service.NewTripPlanNormalizer(false),
		policy,
		requestLogs,
	)
}

func dayNumbers(plan *model.TripPlan) []int {
	days := make([]int, 0, len(plan.Itinerary))
	for _, d := range plan.Itinerary {
		days = append(days, d.Day)
	}
	return days
}

func TestTripPlanUseCase_GeneratePlan(t *testing.T) {
	t.Run("フェンス付きの正しいJSONからプランを生成する", func(t *testing.T) {
		transport := &stubTransport{text: "```json\n" + planJSON(3) + "\n```"}
		uc := newPipeline(transport, "k", model.FallbackStrict, nil)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.Equal(t, model.ProvenanceModel, result.Provenance)
		assert.Len(t, result.Plan.Itinerary, 3)
		assert.Equal(t, []int{1, 2, 3}, dayNumbers(result.Plan))
		assert.Empty(t, result.Warnings)
		assert.Equal(t, int32(1), atomic.LoadInt32(&transport.calls))
	})

	t.Run("503 は UpstreamError", func(t *testing.T) {
		transport := &stubTransport{status: http.StatusServiceUnavailable, raw: `{"error":"unavailable"}`}
		uc := newPipeline(transport, "k", model.FallbackStrict, nil)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		assert.Nil(t, result)
		assert.Equal(t, model.KindUpstream, model.KindOf(err))
		// リトライしない
		assert.Equal(t, int32(1), atomic.LoadInt32(&transport.calls))
	})

	t.Run("前後に文章が付いた出力からプランを取り出す", func(t *testing.T) {
		transport := &stubTransport{text: "Sure! ```json\n" + planJSON(3) + "\n``` Hope that helps!"}
		uc := newPipeline(transport, "k", model.FallbackStrict, nil)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, dayNumbers(result.Plan))
		assert.Equal(t, "Belém Tower", result.Plan.Places[0].Name)
	})

	t.Run("APIキー未設定では通信せずに MissingCredential", func(t *testing.T) {
		transport := &stubTransport{text: planJSON(3)}
		uc := newPipeline(transport, "", model.FallbackDegraded, nil)

		_, err := uc.GeneratePlan(context.Background(), lisbon)
		assert.Equal(t, model.KindMissingCredential, model.KindOf(err))
		assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
	})

	t.Run("JSONでない出力は ParseError", func(t *testing.T) {
		uc := newPipeline(&stubTransport{text: "I cannot help with that."}, "k", model.FallbackStrict, nil)

		_, err := uc.GeneratePlan(context.Background(), lisbon)
		assert.Equal(t, model.KindParse, model.KindOf(err))
	})

	t.Run("スキーマ違反は SchemaValidationError", func(t *testing.T) {
		uc := newPipeline(&stubTransport{text: `{"itinerary":[],"budget":{}}`}, "k", model.FallbackStrict, nil)

		_, err := uc.GeneratePlan(context.Background(), lisbon)
		assert.Equal(t, model.KindSchemaValidation, model.KindOf(err))
	})

	t.Run("タイムアウト", func(t *testing.T) {
		uc := newPipeline(&stubTransport{block: true}, "k", model.FallbackStrict, nil)

		_, err := uc.GeneratePlan(context.Background(), lisbon)
		assert.Equal(t, model.KindTimeout, model.KindOf(err))
	})

	t.Run("日数が合わないプランは警告付きで返す", func(t *testing.T) {
		uc := newPipeline(&stubTransport{text: planJSON(2)}, "k", model.FallbackStrict, nil)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.Len(t, result.Plan.Itinerary, 2)
		assert.NotEmpty(t, result.Warnings)
	})
}

func TestTripPlanUseCase_DegradedFallback(t *testing.T) {
	t.Run("上流の失敗時は代替プランを返す", func(t *testing.T) {
		uc := newPipeline(&stubTransport{status: http.StatusInternalServerError, raw: "boom"}, "k", model.FallbackDegraded, nil)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.Equal(t, model.ProvenanceFallback, result.Provenance)
		assert.Equal(t, []int{1, 2, 3}, dayNumbers(result.Plan))
		assert.Equal(t, 900.0, result.Plan.Budget.Total)
	})

	t.Run("パース失敗時も代替プランを返す", func(t *testing.T) {
		uc := newPipeline(&stubTransport{text: "not json"}, "k", model.FallbackDegraded, nil)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.Equal(t, model.ProvenanceFallback, result.Provenance)
	})

	t.Run("呼び出し元の中断では代替プランを返さない", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		uc := newPipeline(&stubTransport{block: true}, "k", model.FallbackDegraded, nil)

		result, err := uc.GeneratePlan(ctx, lisbon)
		assert.Nil(t, result)
		assert.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTripPlanUseCase_RequestLog(t *testing.T) {
	t.Run("成功時は ok と出所を記録する", func(t *testing.T) {
		logs := &memoryRequestLogRepository{}
		uc := newPipeline(&stubTransport{text: planJSON(3)}, "k", model.FallbackStrict, logs)

		ctx := model.WithRequestID(context.Background(), "req-1")
		_, err := uc.GeneratePlan(ctx, lisbon)
		require.NoError(t, err)

		require.Len(t, logs.entries, 1)
		entry := logs.entries[0]
		assert.Equal(t, "req-1", entry.RequestID)
		assert.Equal(t, model.OutcomeOK, entry.Outcome)
		assert.Equal(t, model.ProvenanceModel, entry.Provenance)
		assert.Equal(t, "Lisbon", entry.Destination)
		assert.Equal(t, 3, entry.Days)
	})

	t.Run("失敗時はエラー分類を記録する", func(t *testing.T) {
		logs := &memoryRequestLogRepository{}
		uc := newPipeline(&stubTransport{status: http.StatusServiceUnavailable, raw: "x"}, "k", model.FallbackStrict, logs)

		_, err := uc.GeneratePlan(context.Background(), lisbon)
		require.Error(t, err)

		require.Len(t, logs.entries, 1)
		assert.Equal(t, "UpstreamError", logs.entries[0].Outcome)
		assert.Empty(t, logs.entries[0].Provenance)
	})

	t.Run("保存の失敗はレスポンスに影響しない", func(t *testing.T) {
		logs := &memoryRequestLogRepository{err: errors.New("db down")}
		uc := newPipeline(&stubTransport{text: planJSON(3)}, "k", model.FallbackStrict, logs)

		result, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.NotNil(t, result.Plan)
	})
}

// deadlineRecordingRepository は Save に渡されたコンテキストの状態を記録する
type deadlineRecordingRepository struct {
	hasDeadline bool
	remaining   time.Duration
	ctxErr      error
}

func (d *deadlineRecordingRepository) Save(ctx context.Context, _ *model.PlanRequestLog) error {
	deadline, ok := ctx.Deadline()
	d.hasDeadline = ok
	d.remaining = time.Until(deadline)
	d.ctxErr = ctx.Err()
	return nil
}

func TestTripPlanUseCase_RequestLogDeadline(t *testing.T) {
	t.Run("保存には上限時間付きのコンテキストを渡す", func(t *testing.T) {
		logs := &deadlineRecordingRepository{}
		uc := newPipeline(&stubTransport{text: planJSON(3)}, "k", model.FallbackStrict, logs)

		_, err := uc.GeneratePlan(context.Background(), lisbon)
		require.NoError(t, err)
		assert.True(t, logs.hasDeadline)
		assert.LessOrEqual(t, logs.remaining, requestLogTimeout)
	})

	t.Run("呼び出し元が中断していても保存用のコンテキストは生きている", func(t *testing.T) {
		logs := &deadlineRecordingRepository{}
		uc := newPipeline(&stubTransport{block: true}, "k", model.FallbackStrict, logs)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := uc.GeneratePlan(ctx, lisbon)
		require.Error(t, err)
		assert.True(t, logs.hasDeadline)
		assert.NoError(t, logs.ctxErr)
	})
}
