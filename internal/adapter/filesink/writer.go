package filesink

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Writer stores rendered figures in a directory. Files appear atomically:
// readers see either the previous version or the complete new one.
// It implements pipeline.FigureWriter.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer for dir. The directory is created on first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write streams encode into a temporary file next to the target and renames
// it to name once encode succeeds. It returns the final path.
func (w *Writer) Write(ctx context.Context, name string, encode func(io.Writer) error) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", errors.Errorf("invalid output name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create output directory %s", w.dir)
	}

	tmp, err := os.CreateTemp(w.dir, "."+name+".*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := encode(buf); err != nil {
		return "", errors.Wrapf(err, "encode %s", name)
	}
	if err := buf.Flush(); err != nil {
		return "", errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	final := filepath.Join(w.dir, name)
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errors.Wrapf(err, "chmod %s", name)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", errors.Wrapf(err, "rename to %s", final)
	}
	committed = true

	w.logger.Debug("figure written", "path", final)
	return final, nil
}
