package filesink

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriter_CreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	w := NewWriter(dir, slog.Default())

	path, err := w.Write(context.Background(), "EU_pipelines.jpg", writeString("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "EU_pipelines.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
	assert.Equal(t, []string{"EU_pipelines.jpg"}, listDir(t, dir))
}

func TestWriter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.Default())

	_, err := w.Write(context.Background(), "a.png", writeString("old"))
	require.NoError(t, err)
	path, err := w.Write(context.Background(), "a.png", writeString("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriter_EncodeErrorKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.Default())
	_, err := w.Write(context.Background(), "a.png", writeString("old"))
	require.NoError(t, err)

	boom := errors.New("encoder failed")
	_, err = w.Write(context.Background(), "a.png", func(io.Writer) error { return boom })
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.Equal(t, []string{"a.png"}, listDir(t, dir), "temp file should be removed")
}

func TestWriter_InvalidName(t *testing.T) {
	w := NewWriter(t.TempDir(), slog.Default())
	for _, name := range []string{"", "../escape.jpg", "sub/dir.jpg"} {
		_, err := w.Write(context.Background(), name, writeString("x"))
		assert.Error(t, err, name)
	}
}

func TestWriter_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Write(ctx, "a.png", writeString("x"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listDir(t, dir))
}
