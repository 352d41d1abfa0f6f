package repository

import (
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FilePromptPolicyRepository YAMLファイルからプロンプトポリシーを読み込む
type FilePromptPolicyRepository struct {
	path string
}

// NewFilePromptPolicyRepository 新しいFilePromptPolicyRepositoryインスタンスを作成
func NewFilePromptPolicyRepository(path string) repository.PromptPolicyRepository {
	return &FilePromptPolicyRepository{path: path}
}

// LoadPromptPolicy はファイルを読み込み、未知のキーがあればエラーにする
func (r *FilePromptPolicyRepository) LoadPromptPolicy(ctx context.Context) (*model.PromptPolicy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("プロンプトポリシーファイルの読み込みに失敗: %w", err)
	}

	var policy model.PromptPolicy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&policy); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("プロンプトポリシーファイルの解析に失敗 (%s): %w", r.path, err)
	}
	return &policy, nil
}
