package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresPlanRequestLogRepository は DATABASE_URL がある場合のみ実行する統合テスト
func TestPostgresPlanRequestLogRepository(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URLが設定されていません。統合テストをスキップします。")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.NewPostgreSQLClient(ctx, databaseURL)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.HealthCheck(ctx))

	repo := NewPostgresPlanRequestLogRepository(client)
	require.NoError(t, repo.EnsureSchema(ctx))
	// 2回目も失敗しない
	require.NoError(t, repo.EnsureSchema(ctx))

	input := model.TripInput{Destination: "Kyoto", Days: 2, Budget: 5_000_000_000, TravelType: model.TravelTypeSolo}
	entry := model.NewPlanRequestLog("integration-test", input, model.OutcomeOK, model.ProvenanceModel, 1500*time.Millisecond)
	require.NoError(t, repo.Save(ctx, entry))

	var outcome, provenance string
	var latency, budget int64
	err = client.DB.QueryRowContext(ctx,
		`SELECT outcome, provenance, latency_ms, budget FROM plan_request_logs WHERE id = $1`, entry.ID,
	).Scan(&outcome, &provenance, &latency, &budget)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeOK, outcome)
	assert.Equal(t, "model", provenance)
	assert.Equal(t, int64(1500), latency)
	// int32 を超える予算（IDR や VND など）も保存できる
	assert.Equal(t, int64(5_000_000_000), budget)

	_, _ = client.DB.ExecContext(ctx, `DELETE FROM plan_request_logs WHERE id = $1`, entry.ID)
}

func TestPlanRequestLogsSchema_BudgetIsBigint(t *testing.T) {
	assert.Contains(t, createPlanRequestLogsTable, "budget      BIGINT NOT NULL")
	assert.Contains(t, widenPlanRequestLogsBudget, "TYPE BIGINT")
}

func TestNewPostgreSQLClient_RequiresURL(t *testing.T) {
	_, err := database.NewPostgreSQLClient(context.Background(), "")
	assert.Error(t, err)
}
