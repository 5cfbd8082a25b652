package document

import (
	"bytes"
	"fmt"
	"strings"

	"resumatch/internal/errors"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the plain text of every page, one page per line group
func extractPDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if p := recover(); p != nil {
			text = ""
			err = errors.NewValidationError(errors.ErrCodeInvalidFormat, "Malformed PDF", fmt.Errorf("%v", p))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "Failed to open PDF", err)
	}

	pages := make([]string, 0, r.NumPage())
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimSpace(pageText))
	}

	return strings.Join(pages, "\n"), nil
}
