package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"resumatch/internal/errors"
)

const docxBodyPart = "word/document.xml"

// extractDOCX returns the paragraphs of the main document part joined by
// newlines. Tabs and breaks inside a paragraph become whitespace.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "Failed to open DOCX archive", err)
	}

	for _, file := range archive.File {
		if file.Name != docxBodyPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "Failed to open DOCX body", err)
		}
		defer rc.Close()
		return docxParagraphs(rc)
	}

	return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "DOCX archive has no "+docxBodyPart, nil)
}

func docxParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "Malformed DOCX body", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte(' ')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return strings.Join(paragraphs, "\n"), nil
}
