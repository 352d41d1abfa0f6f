package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlanRequestLog はプラン生成1回分の運用ログ。プランの内容は保持しない
type PlanRequestLog struct {
	ID          uuid.UUID      `json:"id"`
	RequestID   string         `json:"request_id"`
	Destination string         `json:"destination"`
	Days        int            `json:"days"`
	Budget      int            `json:"budget"`
	TravelType  TravelType     `json:"travel_type"`
	Outcome     string         `json:"outcome"`
	Provenance  PlanProvenance `json:"provenance,omitempty"`
	LatencyMS   int64          `json:"latency_ms"`
	CreatedAt   time.Time      `json:"created_at"`
}

// OutcomeOK は成功時の Outcome
const OutcomeOK = "ok"

// NewPlanRequestLog は入力と結果から運用ログを作成する
func NewPlanRequestLog(requestID string, input TripInput, outcome string, provenance PlanProvenance, latency time.Duration) *PlanRequestLog {
	return &PlanRequestLog{
		ID:          uuid.New(),
		RequestID:   requestID,
		Destination: input.Destination,
		Days:        input.Days,
		Budget:      input.Budget,
		TravelType:  input.TravelType,
		Outcome:     outcome,
		Provenance:  provenance,
		LatencyMS:   latency.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
}

type requestIDKey struct{}

// WithRequestID はリクエストIDをコンテキストに格納する
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom はコンテキストからリクエストIDを取り出す
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
