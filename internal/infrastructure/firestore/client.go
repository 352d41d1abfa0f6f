package firestore

import (
	"context"
	"fmt"
	"os"

	"TripPlanner-App/internal/logger"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient はFirestoreクライアントを作成する
// credentialsFile が存在すればそれを使い、なければデフォルト認証（Cloud Run 等）を使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	var opts []option.ClientOption

	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			logger.Log.Warn("⚠️ Credentials file not found, trying with default authentication", zap.String("file", credentialsFile))
		} else {
			logger.Log.Info("📄 Using credentials file", zap.String("file", credentialsFile))
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	logger.Log.Info("✅ Firestore client initialized", zap.String("project", projectID))

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
