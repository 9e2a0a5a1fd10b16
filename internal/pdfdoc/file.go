package pdfdoc

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidateFile checks that the file at path is a well-formed PDF.
func ValidateFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%s: %w", path, ErrNotPDF)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	return nil
}

// PageCountFile returns the number of pages of the PDF at path.
func PageCountFile(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}

	return count, nil
}
