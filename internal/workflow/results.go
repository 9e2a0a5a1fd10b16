package workflow

import "github.com/karthikeyakondabathula/llm-resume-parser/internal/processor"

// Results holds the last extraction result for display. It survives mode
// switches and is dropped only on explicit clearing.
type Results struct {
	current *processor.Result
}

// NewResults creates an empty results state.
func NewResults() *Results {
	return &Results{}
}

// Set stores the extraction result.
func (r *Results) Set(result *processor.Result) {
	r.current = result
}

// Current returns the last stored result, nil when none.
func (r *Results) Current() *processor.Result {
	return r.current
}

// Clear drops the stored result. It is idempotent.
func (r *Results) Clear() {
	r.current = nil
}
