// Package document extracts transcript text from files that skip transcription.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/devbush/lecturenotes/internal/domain"
)

var textExtensions = map[string]bool{".txt": true, ".md": true, ".pdf": true}

// IsDocument reports whether path has an extension ReadText understands
func IsDocument(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadText returns the text of a .txt, .md or .pdf file.
// A document with no extractable text fails with ErrEmptyTranscript.
func ReadText(path string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	case ".pdf":
		text, err = readPDF(path)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, filepath.Base(path))
	}
	if err != nil {
		return "", &domain.FileIOError{Op: "read", Path: path, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text in %s", domain.ErrEmptyTranscript, filepath.Base(path))
	}
	return text, nil
}

func readPDF(path string) (text string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// The parser panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
