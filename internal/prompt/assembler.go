package prompt

import (
	"fmt"

	"go.uber.org/zap"
)

// Tag markers for the structured prompt. These strings are a wire-format
// contract with downstream tooling that parses generated transcripts; do not
// change them without versioning.
const (
	repoTagMarker   = "⫻const:repo_name"
	fileTagMarker   = "⫻context/file:"
	targetDirective = "Generate content for the file: %s\n"
)

// Assembler composes the ordered prompt segments for a generation request:
// the raw instruction first, then a repository tag, one tag per context file
// in caller order, and a final directive naming the target file.
type Assembler struct {
	reader *Reader
	logger *zap.Logger
}

// NewAssembler constructs an Assembler reading context files through reader.
func NewAssembler(reader *Reader, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{reader: reader, logger: logger}
}

// Assemble builds the segment list. Files are read strictly in input order
// and the first failure aborts the whole assembly; no partial segment list is
// ever returned.
func (a *Assembler) Assemble(repoName string, filePaths []string, targetFileName, instruction string) ([]string, error) {
	a.logger.Debug("prompt build start",
		zap.String("event", "prompt_build_start"),
		zap.String("repo_name", repoName),
		zap.Int("context_files", len(filePaths)))

	segments := make([]string, 0, len(filePaths)+3)
	segments = append(segments, instruction)
	segments = append(segments, fmt.Sprintf("%s\n%s", repoTagMarker, repoName))

	for _, path := range filePaths {
		content, err := a.reader.Read(path)
		if err != nil {
			return nil, err
		}
		segments = append(segments, fmt.Sprintf("%s%s\n%s", fileTagMarker, path, content))
		a.logger.Debug("context file added",
			zap.String("event", "prompt_add_context"),
			zap.String("file_path", path),
			zap.Int("file_size_bytes", len(content)))
	}

	segments = append(segments, fmt.Sprintf(targetDirective, targetFileName))

	a.logger.Debug("prompt build complete",
		zap.String("event", "prompt_build_complete"),
		zap.String("target_file_name", targetFileName),
		zap.Int("segments", len(segments)))

	return segments, nil
}
