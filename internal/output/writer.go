package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrOutputWrite indicates the generated text could not be persisted to the
// requested destination. Matchable via errors.Is like the assembly and
// backend failure kinds.
var ErrOutputWrite = errors.New("output write failed")

// Writer persists generated text verbatim to a file or to standard output.
type Writer struct {
	// Stdout receives the text when no destination path is given.
	Stdout io.Writer

	logger *zap.Logger
}

// New constructs a Writer targeting os.Stdout.
func New(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Stdout: os.Stdout, logger: logger}
}

// Write sends text to path, creating parent directories as needed. An empty
// path writes to Stdout. The text is not transformed or normalized.
func (w *Writer) Write(path, text string) error {
	if path == "" {
		if _, err := io.WriteString(w.Stdout, text); err != nil {
			w.logger.Error("output write failed",
				zap.String("event", "output_write"),
				zap.String("destination", "stdout"),
				zap.Error(err))
			return fmt.Errorf("%w: stdout: %w", ErrOutputWrite, err)
		}
		w.logger.Info("output written",
			zap.String("event", "output_write"),
			zap.String("destination", "stdout"))
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.logger.Error("output write failed",
				zap.String("event", "output_write"),
				zap.String("destination", path),
				zap.Error(err))
			return fmt.Errorf("%w: create output directory %q: %w", ErrOutputWrite, dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		w.logger.Error("output write failed",
			zap.String("event", "output_write"),
			zap.String("destination", path),
			zap.Error(err))
		return fmt.Errorf("%w: write output file %q: %w", ErrOutputWrite, path, err)
	}

	w.logger.Info("output written",
		zap.String("event", "output_write"),
		zap.String("destination", path))
	return nil
}
