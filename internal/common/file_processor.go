package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"resumatch/internal/errors"
)

// DocumentReader loads the text of a document source
type DocumentReader interface {
	Read(ctx context.Context, source string) (string, error)
}

// InputSource is one command input, given either inline or as a document
// source. Inline text wins when both are set.
type InputSource struct {
	Name   string
	Source string
	Text   string
}

// FileProcessor handles common file operations
type FileProcessor struct {
	reader DocumentReader
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(reader DocumentReader, logger *errors.Logger) *FileProcessor {
	return &FileProcessor{reader: reader, logger: logger}
}

// LoadInputs resolves every input to text and rejects blank ones
func (fp *FileProcessor) LoadInputs(ctx context.Context, inputs ...InputSource) ([]string, error) {
	contents := make([]string, len(inputs))

	for i, input := range inputs {
		text := input.Text
		if text == "" && input.Source != "" {
			var err error
			text, err = fp.reader.Read(ctx, input.Source)
			if err != nil {
				return nil, err
			}
		}

		if err := RequireText(input.Name, text); err != nil {
			if input.Source != "" {
				if appErr, ok := errors.AsAppError(err); ok {
					appErr.WithContext("source", input.Source)
				}
			}
			return nil, err
		}
		contents[i] = text
	}

	return contents, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	info, err := os.Stat(filename)
	if err == nil && info.IsDir() {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename),
			fmt.Errorf("path is a directory, not a file: %s", filename))
	}

	return nil
}
