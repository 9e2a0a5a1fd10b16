package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/util"
	"go.uber.org/zap"
)

//go:embed prompt.md
var systemInstruction string

const (
	userPrompt          = "Parse the resume and use only ASCII characters in response"
	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateDocumentContent(ctx context.Context, system, prompt string, document []byte) (string, error)
	Model() string
}

// Extractor parses PDF resumes into structured records through Gemini.
type Extractor struct {
	generator contentGenerator
	pipeline  *resume.Pipeline
	logger    *zap.Logger
	maxLogLen int
}

// NewExtractor creates an extractor on top of the provided generator.
func NewExtractor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		pipeline:  resume.DefaultPipeline(logger),
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// ExtractResume sends the document to Gemini and normalizes the response.
func (e *Extractor) ExtractResume(ctx context.Context, document []byte) (resume.Record, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("document is required")
	}

	e.logger.Debug("gemini extraction request",
		zap.String("model", e.generator.Model()),
		zap.Int("document_bytes", len(document)),
	)

	raw, err := e.generator.GenerateDocumentContent(ctx, systemInstruction, userPrompt, document)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, e.maxLogLen)),
	)

	record, err := parseRecord(raw)
	if err != nil {
		return nil, err
	}

	normalized, err := e.pipeline.Run(record)
	if err != nil {
		return nil, fmt.Errorf("normalizing record: %w", err)
	}

	return normalized, nil
}

func parseRecord(raw string) (resume.Record, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return resume.Record(data), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
