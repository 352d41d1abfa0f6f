package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Log = zap.NewNop() })

	t.Run("レベルと環境を反映する", func(t *testing.T) {
		require.NoError(t, Init("warn", true))
		assert.False(t, Log.Core().Enabled(zap.InfoLevel))
		assert.True(t, Log.Core().Enabled(zap.WarnLevel))

		require.NoError(t, Init("debug", false))
		assert.True(t, Log.Core().Enabled(zap.DebugLevel))
	})

	t.Run("不正なレベル", func(t *testing.T) {
		assert.Error(t, Init("loud", false))
	})
}
