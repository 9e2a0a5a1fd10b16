package resume

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Step represents a single normalization step applied to an extracted record.
type Step interface {
	Name() string
	Apply(logger *zap.Logger, r Record) (Record, error)
}

// Pipeline runs normalization steps sequentially over a record.
type Pipeline struct {
	steps  []Step
	logger *zap.Logger
}

// NewPipeline creates a pipeline with the provided steps.
func NewPipeline(logger *zap.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// DefaultPipeline returns the normalization applied to every extraction
// response before it is handed to callers.
func DefaultPipeline(logger *zap.Logger) *Pipeline {
	return NewPipeline(logger,
		NewEmbeddedJSON(),
		NewCleanText(),
		NewDefaults(),
	)
}

// Run executes the steps in order, returning the normalized record.
func (p *Pipeline) Run(r Record) (Record, error) {
	for _, step := range p.steps {
		next, err := step.Apply(p.logger, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Debug("normalization step", zap.String("name", step.Name()))
		r = next
	}

	return r, nil
}

type embeddedJSONStep struct{}

// NewEmbeddedJSON creates a step that repairs section fields the model
// occasionally returns as JSON-encoded strings instead of real structures.
func NewEmbeddedJSON() Step {
	return &embeddedJSONStep{}
}

func (s *embeddedJSONStep) Name() string { return "embedded_json" }

func (s *embeddedJSONStep) Apply(logger *zap.Logger, r Record) (Record, error) {
	if r == nil {
		return r, nil
	}

	for _, field := range ListFields {
		raw, ok := r[field].(string)
		if !ok {
			continue
		}

		var parsed []any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			logger.Debug("dropping unparseable list field",
				zap.String("field", field),
				zap.Error(err),
			)
			r[field] = []any{}
			continue
		}
		r[field] = parsed
	}

	if raw, ok := r["other"].(string); ok {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			logger.Debug("dropping unparseable other field", zap.Error(err))
			r["other"] = map[string]any{}
		} else {
			r["other"] = parsed
		}
	}

	return r, nil
}

type cleanTextStep struct{}

// NewCleanText creates a step that sanitizes every string in the record.
func NewCleanText() Step {
	return &cleanTextStep{}
}

func (s *cleanTextStep) Name() string { return "clean_text" }

func (s *cleanTextStep) Apply(_ *zap.Logger, r Record) (Record, error) {
	if r == nil {
		return r, nil
	}

	cleaned, ok := CleanValue(map[string]any(r)).(map[string]any)
	if !ok {
		return r, nil
	}

	return Record(cleaned), nil
}

type defaultsStep struct{}

// NewDefaults creates a step that fills missing schema keys with empty values
// so downstream consumers never see absent fields.
func NewDefaults() Step {
	return &defaultsStep{}
}

func (s *defaultsStep) Name() string { return "defaults" }

func (s *defaultsStep) Apply(_ *zap.Logger, r Record) (Record, error) {
	if r == nil {
		r = Record{}
	}

	for _, field := range ScalarFields {
		if _, ok := r[field]; !ok {
			r[field] = ""
		}
	}

	for _, field := range ListFields {
		if _, ok := r[field].([]any); !ok {
			r[field] = []any{}
		}
	}

	if _, ok := r["social"].(map[string]any); !ok {
		r["social"] = map[string]any{}
	}
	if _, ok := r["other"].(map[string]any); !ok {
		r["other"] = map[string]any{}
	}

	return r, nil
}
