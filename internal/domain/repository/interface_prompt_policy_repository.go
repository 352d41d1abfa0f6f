package repository

import (
	"TripPlanner-App/internal/domain/model"
	"context"
)

// PromptPolicyRepository はプロンプトポリシー文書の取得元
type PromptPolicyRepository interface {
	LoadPromptPolicy(ctx context.Context) (*model.PromptPolicy, error)
}
