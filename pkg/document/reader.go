package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Reader extracts plain text from a document.
type Reader interface {
	Text(ctx context.Context, data []byte) (string, error)
}

// FitzReader extracts PDF text with MuPDF.
type FitzReader struct{}

func NewFitzReader() *FitzReader {
	return &FitzReader{}
}

// Text concatenates the text of every page.
func (r *FitzReader) Text(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", page+1, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
