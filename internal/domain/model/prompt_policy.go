package model

import "strings"

// PromptPolicy はプロンプトの前文と目的地ごとの追加ルールをまとめた外部設定
// 起動時に一度だけ読み込み、以後は読み取り専用で共有する
type PromptPolicy struct {
	Preamble         []string          `json:"preamble" yaml:"preamble" firestore:"preamble"`
	DestinationRules []DestinationRule `json:"destinationRules" yaml:"destination_rules" firestore:"destinationRules"`
}

// DestinationRule は目的地に Match のいずれかが含まれる場合に追加する制約
type DestinationRule struct {
	Match []string `json:"match" yaml:"match" firestore:"match"`
	Rules []string `json:"rules" yaml:"rules" firestore:"rules"`
}

// DefaultPromptPolicy は外部設定がない場合のポリシー
func DefaultPromptPolicy() *PromptPolicy {
	return &PromptPolicy{
		Preamble: []string{"You are a travel planning assistant."},
	}
}

// RulesFor は目的地に一致するルールを定義順に返す（大文字小文字は区別しない）
func (p *PromptPolicy) RulesFor(destination string) []string {
	if p == nil {
		return nil
	}

	dest := strings.ToLower(destination)
	var rules []string
	for _, r := range p.DestinationRules {
		for _, m := range r.Match {
			m = strings.ToLower(strings.TrimSpace(m))
			if m != "" && strings.Contains(dest, m) {
				rules = append(rules, r.Rules...)
				break
			}
		}
	}
	return rules
}
