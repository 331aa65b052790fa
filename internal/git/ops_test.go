package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveFiles(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, path string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	}

	t.Run("removes listed files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "junk.txt"))
		writeFile(t, filepath.Join(dir, "sub", "leftover.txt"))

		require.NoError(t, removeFiles(dir, []string{"junk.txt", "sub/leftover.txt"}))
		require.NoFileExists(t, filepath.Join(dir, "junk.txt"))
		require.NoFileExists(t, filepath.Join(dir, "sub", "leftover.txt"))
	})

	t.Run("missing files and empty lines are fine", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		require.NoError(t, removeFiles(dir, []string{"", "already-gone.txt"}))
	})
}
