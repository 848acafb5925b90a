package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteToStdout(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(nil)
	w.Stdout = buf

	require.NoError(t, w.Write("", "generated text"))
	require.Equal(t, "generated text", buf.String())
}

func TestWriteToFileCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.txt")

	w := New(nil)
	require.NoError(t, w.Write(path, "world"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "world", string(data))
}

func TestWriteDoesNotTransformContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	content := "no trailing newline added"

	w := New(nil)
	require.NoError(t, w.Write(path, content))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestWriteFailsOnUnwritableDestination(t *testing.T) {
	// The destination is a directory, so the file write must fail.
	dir := t.TempDir()

	w := New(nil)
	err := w.Write(dir, "text")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrOutputWrite)
	require.Contains(t, err.Error(), dir)
}

func TestWriteFailureIsMatchableKind(t *testing.T) {
	// Parent creation fails because a file sits where a directory is needed.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := New(nil)
	err := w.Write(filepath.Join(blocker, "sub", "out.txt"), "text")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrOutputWrite)
}
