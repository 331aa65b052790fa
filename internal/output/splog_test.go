package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplogClose(t *testing.T) {
	t.Run("closes the log file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "logs", "jf.log")
		splog, err := NewSplogWithFile(logPath)
		require.NoError(t, err)
		splog.SetQuiet(true)

		splog.Info("hello")
		require.NoError(t, splog.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "hello")
	})

	t.Run("console-only instance has nothing to close", func(t *testing.T) {
		splog := NewSplog()
		require.NoError(t, splog.Close())
	})
}
