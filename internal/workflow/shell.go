// Package workflow coordinates the upload/view/process flows and the
// top-level display mode selection.
package workflow

import "go.uber.org/zap"

// DisplayMode is the single active top-level view.
type DisplayMode int

const (
	// ModeUpload shows the file selection surface.
	ModeUpload DisplayMode = iota
	// ModeViewer shows the locally loaded document.
	ModeViewer
	// ModeResults shows the last extraction result.
	ModeResults
)

func (m DisplayMode) String() string {
	switch m {
	case ModeUpload:
		return "upload"
	case ModeViewer:
		return "viewer"
	case ModeResults:
		return "results"
	default:
		return "unknown"
	}
}

// Shell selects exactly one of the display modes. Transitions are triggered
// by flow outcomes or explicit user navigation, never concurrently.
type Shell struct {
	mode   DisplayMode
	logger *zap.Logger
}

// NewShell creates a shell starting in upload mode.
func NewShell(logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{mode: ModeUpload, logger: logger}
}

// Mode returns the active display mode.
func (s *Shell) Mode() DisplayMode {
	return s.mode
}

// Show activates the given display mode.
func (s *Shell) Show(mode DisplayMode) {
	if mode == s.mode {
		return
	}

	s.logger.Debug("display mode transition",
		zap.Stringer("from", s.mode),
		zap.Stringer("to", mode),
	)
	s.mode = mode
}
