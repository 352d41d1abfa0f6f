package service

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/logger"

	"go.uber.org/zap"
)

const (
	// DefaultMaxModelTextBytes はパース前にモデル出力を切り詰める上限
	DefaultMaxModelTextBytes = 20000
	// DefaultPreviewBytes はパース失敗時に残すプレビューの上限
	DefaultPreviewBytes = 1000

	codeFence = "```"
)

var errNoJSONObject = errors.New("no JSON object found in model response")

// TripPlanNormalizer はモデルの生テキストを TripPlan に変換する
// ネットワークI/Oは行わず、入力テキストに対して決定的に振る舞う
type TripPlanNormalizer struct {
	maxTextBytes int
	previewBytes int
	// production ではプレビューをログに出さない
	production bool
}

// NewTripPlanNormalizer は新しいTripPlanNormalizerインスタンスを作成
func NewTripPlanNormalizer(production bool) *TripPlanNormalizer {
	return &TripPlanNormalizer{
		maxTextBytes: DefaultMaxModelTextBytes,
		previewBytes: DefaultPreviewBytes,
		production:   production,
	}
}

// Normalize はコードフェンスの除去、JSONの抽出、スキーマ検証を順に行う
func (n *TripPlanNormalizer) Normalize(text string) (*model.TripPlan, error) {
	raw, err := n.ParseModelJSON(text)
	if err != nil {
		return nil, err
	}

	plan, err := model.ValidateTripPlanJSON(raw)
	if err != nil {
		if pe, ok := model.AsPlanError(err); ok {
			logger.Log.Warn("⚠️ モデル出力がスキーマに一致しません", zap.String("path", pe.Path), zap.String("reason", pe.Message))
		}
		return nil, err
	}
	return plan, nil
}

// ParseModelJSON はモデル出力から1つのJSON値を取り出す
// 直接パースに失敗した場合は最初の '{' から最後の '}' までを再度パースする
func (n *TripPlanNormalizer) ParseModelJSON(text string) (json.RawMessage, error) {
	stripped := truncateUTF8(StripCodeFences(text), n.maxTextBytes)

	if json.Valid([]byte(stripped)) {
		return json.RawMessage(strings.TrimSpace(stripped)), nil
	}

	if candidate, ok := salvageJSONObject(stripped); ok {
		return json.RawMessage(candidate), nil
	}

	preview := truncateUTF8(stripped, n.previewBytes)
	if n.production {
		logger.Log.Error("❌ モデル出力のJSONパースに失敗", zap.Int("length", len(stripped)))
	} else {
		logger.Log.Error("❌ モデル出力のJSONパースに失敗", zap.Int("length", len(stripped)), zap.String("preview", preview))
	}
	return nil, model.NewParseError(preview, errNoJSONObject)
}

// StripCodeFences はテキスト全体が ``` で囲まれている場合に囲みを取り除く
// 閉じフェンスがない場合は壊さずにそのまま返す。不動点まで繰り返すので冪等
func StripCodeFences(text string) string {
	for {
		next, ok := stripCodeFenceOnce(text)
		if !ok || next == text {
			return text
		}
		text = next
	}
}

func stripCodeFenceOnce(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, codeFence) {
		return text, false
	}

	// 開きフェンスの行（```json など）を読み飛ばす
	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline == -1 {
		return text, false
	}

	endFence := strings.LastIndex(trimmed, codeFence)
	if endFence <= firstNewline {
		return text, false
	}

	return strings.TrimSpace(trimmed[firstNewline+1 : endFence]), true
}

// salvageJSONObject は前後に余計な文章が付いたテキストからJSONオブジェクトを取り出す
func salvageJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}

	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}

// truncateUTF8 は文字の途中で切らないように max バイト以下に切り詰める
func truncateUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
