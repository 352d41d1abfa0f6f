package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log はアプリケーション全体で使うロガー
// Init を呼ぶまでは何も出力しない
var Log = zap.NewNop()

// Init はログレベルと実行環境に応じてロガーを初期化する
// production では JSON、それ以外では人が読みやすいコンソール形式で出力する
func Init(level string, production bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("ログレベルが不正です (%s): %w", level, err)
	}

	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}
	Log = l
	return nil
}

// Sync はバッファされたログを書き出す
func Sync() {
	_ = Log.Sync()
}
