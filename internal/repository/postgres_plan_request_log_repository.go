package repository

import (
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/infrastructure/database"
	"context"
	"fmt"
)

const createPlanRequestLogsTable = `
CREATE TABLE IF NOT EXISTS plan_request_logs (
	id          UUID PRIMARY KEY,
	request_id  TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL,
	days        INTEGER NOT NULL,
	budget      BIGINT NOT NULL,
	travel_type TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	provenance  TEXT NOT NULL DEFAULT '',
	latency_ms  BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// widenPlanRequestLogsBudget は budget を INTEGER で作成した既存テーブルを BIGINT にそろえる
const widenPlanRequestLogsBudget = `ALTER TABLE plan_request_logs ALTER COLUMN budget TYPE BIGINT`

const insertPlanRequestLog = `
INSERT INTO plan_request_logs
	(id, request_id, destination, days, budget, travel_type, outcome, provenance, latency_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// PostgresPlanRequestLogRepository PostgreSQLを使用した運用ログリポジトリ
type PostgresPlanRequestLogRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresPlanRequestLogRepository 新しいPostgresPlanRequestLogRepositoryインスタンスを作成
func NewPostgresPlanRequestLogRepository(client *database.PostgreSQLClient) *PostgresPlanRequestLogRepository {
	return &PostgresPlanRequestLogRepository{client: client}
}

var _ repository.PlanRequestLogRepository = (*PostgresPlanRequestLogRepository)(nil)

// EnsureSchema はテーブルがなければ作成する
func (r *PostgresPlanRequestLogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.DB.ExecContext(ctx, createPlanRequestLogsTable); err != nil {
		return fmt.Errorf("plan_request_logsテーブルの作成に失敗: %w", err)
	}
	if _, err := r.client.DB.ExecContext(ctx, widenPlanRequestLogsBudget); err != nil {
		return fmt.Errorf("plan_request_logs.budgetの型変更に失敗: %w", err)
	}
	return nil
}

// Save は運用ログを1件保存する
func (r *PostgresPlanRequestLogRepository) Save(ctx context.Context, entry *model.PlanRequestLog) error {
	_, err := r.client.DB.ExecContext(ctx, insertPlanRequestLog,
		entry.ID,
		entry.RequestID,
		entry.Destination,
		entry.Days,
		entry.Budget,
		string(entry.TravelType),
		entry.Outcome,
		string(entry.Provenance),
		entry.LatencyMS,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("運用ログの保存に失敗: %w", err)
	}
	return nil
}
