// Package pdfdoc wraps the PDF collaborators: signature detection, decoding a
// document held in memory, and file-level validation for CLI inputs.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// MediaType is the only media type accepted for local viewing.
	MediaType = "application/pdf"

	// MaxUploadSize caps the size of documents accepted for processing.
	MaxUploadSize = 10 * 1024 * 1024
)

var pdfSignature = []byte("%PDF-")

var (
	// ErrEmpty is returned for zero-length input.
	ErrEmpty = errors.New("document is empty")
	// ErrNotPDF is returned when the input does not carry a PDF signature.
	ErrNotPDF = errors.New("document does not look like a PDF")
	// ErrTooLarge is returned when the input exceeds MaxUploadSize.
	ErrTooLarge = errors.New("document exceeds the maximum allowed size")
)

// IsPDF reports whether the data starts with the PDF file signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfSignature)
}

// AcceptableUpload reports whether the name or declared media type marks the
// file as a PDF. The extension check covers pickers that do not set a type.
func AcceptableUpload(name, mediaType string) bool {
	if strings.EqualFold(strings.TrimSpace(mediaType), MediaType) {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// CheckBytes rejects input that must not reach the decoder: empty payloads,
// oversized payloads and payloads without a PDF signature.
func CheckBytes(data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > MaxUploadSize {
		return ErrTooLarge
	}
	if !IsPDF(data) {
		return ErrNotPDF
	}
	return nil
}

// Document is a decoded in-memory PDF.
type Document struct {
	reader *pdf.Reader
	pages  int
}

// Open decodes the provided bytes into a Document. The input is checked with
// CheckBytes before the decoder runs.
func Open(data []byte) (*Document, error) {
	if err := CheckBytes(data); err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding pdf: %w", err)
	}

	return &Document{reader: reader, pages: reader.NumPage()}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return d.pages
}

// PageText extracts the plain text of the 1-based page number.
func (d *Document) PageText(number int) (text string, err error) {
	if d == nil || d.reader == nil {
		return "", errors.New("document is not loaded")
	}
	if number < 1 || number > d.pages {
		return "", fmt.Errorf("page %d out of range [1, %d]", number, d.pages)
	}

	// The underlying reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting page %d: %v", number, r)
		}
	}()

	page := d.reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no content", number)
	}

	return page.GetPlainText(nil)
}
