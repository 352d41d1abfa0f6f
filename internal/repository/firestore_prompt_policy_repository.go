package repository

import (
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const promptPoliciesCollection = "promptPolicies"

// FirestorePromptPolicyRepository Firestoreのドキュメントからプロンプトポリシーを読み込む
type FirestorePromptPolicyRepository struct {
	client *firestore.Client
	docID  string
}

// NewFirestorePromptPolicyRepository 新しいFirestorePromptPolicyRepositoryインスタンスを作成
func NewFirestorePromptPolicyRepository(client *firestore.Client, docID string) repository.PromptPolicyRepository {
	return &FirestorePromptPolicyRepository{
		client: client,
		docID:  docID,
	}
}

// LoadPromptPolicy は promptPolicies/{docID} を取得する
func (r *FirestorePromptPolicyRepository) LoadPromptPolicy(ctx context.Context) (*model.PromptPolicy, error) {
	doc, err := r.client.Collection(promptPoliciesCollection).Doc(r.docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("プロンプトポリシーが見つかりません: %s/%s", promptPoliciesCollection, r.docID)
		}
		return nil, fmt.Errorf("プロンプトポリシーの取得に失敗しました: %w", err)
	}

	var policy model.PromptPolicy
	if err := doc.DataTo(&policy); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return &policy, nil
}
