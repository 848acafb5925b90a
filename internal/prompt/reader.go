package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates the context file path does not exist.
	ErrNotFound = errors.New("context file not found")

	// ErrUnreadable indicates the context file exists but could not be read
	// or decoded as UTF-8.
	ErrUnreadable = errors.New("context file unreadable")
)

// FileError reports a context file that could not be loaded, carrying the
// offending path. Matches ErrNotFound or ErrUnreadable via errors.Is.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("context file %q: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Reader loads context files as whole-file UTF-8 text. Purely observational;
// relative paths resolve against the process working directory.
type Reader struct {
	logger *zap.Logger
}

// NewReader constructs a Reader emitting events through the given logger.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// Read returns the full content of the file at path.
func (r *Reader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Error("context file missing",
				zap.String("event", "read_file"),
				zap.String("file_path", path))
			return "", &FileError{Path: path, Err: ErrNotFound}
		}
		r.logger.Error("context file read failed",
			zap.String("event", "read_file"),
			zap.String("file_path", path),
			zap.Error(err))
		return "", &FileError{Path: path, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}

	if !utf8.Valid(data) {
		r.logger.Error("context file is not valid UTF-8",
			zap.String("event", "read_file"),
			zap.String("file_path", path))
		return "", &FileError{Path: path, Err: fmt.Errorf("%w: invalid UTF-8", ErrUnreadable)}
	}

	r.logger.Debug("context file read",
		zap.String("event", "read_file"),
		zap.String("file_path", path),
		zap.Int("file_size_bytes", len(data)))

	return string(data), nil
}
