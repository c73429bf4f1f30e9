// Package pdf opens PDF receipts locally with MuPDF.
package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

// Inspector implements port.PDFInspector.
type Inspector struct{}

// NewInspector creates an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

var _ port.PDFInspector = (*Inspector)(nil)

// PageCount opens data as a PDF document and returns its number of pages.
func (i *Inspector) PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty PDF")
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}
