package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"resumatch/internal/config"
	"resumatch/internal/errors"
)

// DefaultMaxFileSize applies when the document config leaves the limit unset
const DefaultMaxFileSize = 10 << 20

// Reader turns résumé and job description documents into plain text.
// Sources are local paths or s3://bucket/key URIs.
type Reader struct {
	maxSize  int64
	region   string
	logger   *errors.Logger
	s3Once   sync.Once
	s3Client ObjectGetter
	s3Err    error
}

// NewReader creates a document reader
func NewReader(cfg config.DocumentConfig, logger *errors.Logger) *Reader {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Reader{maxSize: maxSize, region: cfg.S3Region, logger: logger}
}

// NewReaderWithS3 creates a reader backed by the given S3 client
func NewReaderWithS3(cfg config.DocumentConfig, client ObjectGetter, logger *errors.Logger) *Reader {
	r := NewReader(cfg, logger)
	r.s3Once.Do(func() { r.s3Client = client })
	return r
}

// Read loads source and extracts its text
func (r *Reader) Read(ctx context.Context, source string) (string, error) {
	var data []byte
	var err error
	if IsS3URI(source) {
		data, err = r.readS3(ctx, source)
	} else {
		data, err = r.readFile(source)
	}
	if err != nil {
		return "", err
	}

	text, err := ExtractText(source, data)
	if err != nil {
		return "", err
	}

	r.logger.Debug("Document loaded",
		"source", source,
		"bytes", len(data),
		"characters", utf8.RuneCountInString(text))
	return text, nil
}

func (r *Reader) readFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", filename), err)
	}
	if info.IsDir() {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Path is a directory, not a file: %s", filename), nil)
	}
	if info.Size() > r.maxSize {
		return nil, tooLarge(filename, info.Size(), r.maxSize)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	return r.readLimited(file, filename)
}

// readLimited reads at most maxSize bytes, failing if the source is larger
func (r *Reader) readLimited(src io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(src, r.maxSize+1))
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read content: %s", name), err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, tooLarge(name, int64(len(data)), r.maxSize)
	}
	return data, nil
}

func tooLarge(name string, size, limit int64) error {
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("Document %s exceeds the %s limit", name, FormatFileSize(limit)), nil).
		WithContext("size", size)
}

// ExtractText converts raw document bytes to text based on the file
// extension of name: .pdf, .docx, otherwise UTF-8 text
func ExtractText(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".doc", ".rtf", ".odt", ".pages":
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
			fmt.Sprintf("Unsupported document type: %s", filepath.Ext(name)), nil)
	default:
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	}
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
