package repository

import (
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/infrastructure/database"
	"context"
	"fmt"
)

const planRequestLogsTable = "plan_request_logs"

type SupabasePlanRequestLogRepository struct {
	client *database.SupabaseClient
}

func NewSupabasePlanRequestLogRepository(client *database.SupabaseClient) repository.PlanRequestLogRepository {
	return &SupabasePlanRequestLogRepository{
		client: client,
	}
}

// Save は PostgREST 経由で運用ログを1件保存する
// supabase-go はコンテキストを受け取らないため、ctx の期限が来たら書き込みの完了を待たずに返る
func (r *SupabasePlanRequestLogRepository) Save(ctx context.Context, entry *model.PlanRequestLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// 期限切れで先に返っても送信側が詰まらないようにバッファを1つ持たせる
	done := make(chan error, 1)
	go func() {
		_, _, err := r.client.GetClient().From(planRequestLogsTable).Insert(entry, false, "", "minimal", "").Execute()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("運用ログの保存失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("運用ログの保存が時間内に完了しませんでした: %w", ctx.Err())
	}
}
