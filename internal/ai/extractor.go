package ai

import (
	"context"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"
)

// Extractor turns the raw bytes of a PDF resume into a structured record.
type Extractor interface {
	ExtractResume(ctx context.Context, document []byte) (resume.Record, error)
}
