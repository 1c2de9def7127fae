package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbush/lecturenotes/internal/domain"
)

// buildPDF writes a single-page PDF whose content stream is content.
func buildPDF(t *testing.T, content string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "slides.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadText_PDF(t *testing.T) {
	path := buildPDF(t, "BT /F1 12 Tf 72 712 Td (Dijkstra) Tj ET")

	text, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if !strings.Contains(text, "Dijkstra") {
		t.Errorf("ReadText() = %q, want page text", text)
	}
}

func TestReadText_EmptyPDF(t *testing.T) {
	path := buildPDF(t, "BT ET")

	_, err := ReadText(path)
	if !errors.Is(err, domain.ErrEmptyTranscript) {
		t.Errorf("ReadText() error = %v, want ErrEmptyTranscript", err)
	}
}

func TestReadText_PlainText(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"notes.txt", "Graphs have vertices.", nil},
		{"Lecture.MD", "# Week 1\nTrees", nil},
		{"blank.txt", "  \n\t", domain.ErrEmptyTranscript},
		{"slides.pptx", "binary", domain.ErrUnsupportedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			text, err := ReadText(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadText() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadText() error = %v", err)
			}
			if text != tt.content {
				t.Errorf("ReadText() = %q, want %q", text, tt.content)
			}
		})
	}
}

func TestReadText_Missing(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "gone.pdf"))
	if !errors.Is(err, domain.ErrFileIO) {
		t.Errorf("ReadText() error = %v, want ErrFileIO", err)
	}
}

func TestIsDocument(t *testing.T) {
	for path, want := range map[string]bool{
		"a.txt": true, "b.md": true, "C.PDF": true, "d.m4a": false, "https://youtu.be/x": false,
	} {
		if got := IsDocument(path); got != want {
			t.Errorf("IsDocument(%q) = %v, want %v", path, got, want)
		}
	}
}
