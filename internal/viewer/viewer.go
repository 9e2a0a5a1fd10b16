// Package viewer holds the local document viewing state: the loaded document
// handle, the active page and the zoom scale, and drives the page renderer.
package viewer

import (
	"errors"
	"fmt"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/pdfdoc"
	"go.uber.org/zap"
)

// Scale bounds for the zoom factor. Requests outside the bounds are ignored.
const (
	MinScale     = 0.5
	MaxScale     = 3.0
	DefaultScale = 1.5
)

// ErrBusy is returned when a load is requested while another one is running.
var ErrBusy = errors.New("viewer is busy")

// Document is the opaque handle to a decoded local PDF.
type Document interface {
	PageCount() int
	PageText(number int) (string, error)
}

// Opener decodes raw bytes into a Document.
type Opener interface {
	Open(data []byte) (Document, error)
}

// Renderer paints a single page of a document at the given scale.
type Renderer interface {
	RenderPage(doc Document, page int, scale float64) error
}

// Summary describes a freshly loaded document.
type Summary struct {
	PageCount   int
	InitialPage int
}

// State drives the renderer and owns the loaded document handle for its
// lifetime. All invariants hold on a single logical thread; State is not safe
// for concurrent use.
type State struct {
	opener   Opener
	renderer Renderer
	logger   *zap.Logger

	doc       Document
	fileName  string
	page      int
	pageCount int
	scale     float64
	busy      bool
}

// New creates a viewer state with default scale and no document.
func New(opener Opener, renderer Renderer, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &State{
		opener:   opener,
		renderer: renderer,
		logger:   logger,
		page:     1,
		scale:    DefaultScale,
	}
}

// NewPDFOpener returns the bundled opener backed by the in-memory PDF decoder.
func NewPDFOpener() Opener {
	return pdfOpener{}
}

type pdfOpener struct{}

func (pdfOpener) Open(data []byte) (Document, error) {
	doc, err := pdfdoc.Open(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadLocal decodes the provided bytes and makes the document current. On
// failure the previous document and all view settings are kept. A successful
// load resets the page to 1 and the scale to the default, then triggers an
// initial render.
func (s *State) LoadLocal(data []byte, fileName string) (*Summary, error) {
	if s.busy {
		return nil, ErrBusy
	}

	s.busy = true
	defer func() { s.busy = false }()

	doc, err := s.opener.Open(data)
	if err != nil {
		s.logger.Debug("local load rejected",
			zap.String("file", fileName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("loading %s: %w", fileName, err)
	}

	s.doc = doc
	s.fileName = fileName
	s.pageCount = doc.PageCount()
	s.page = 1
	s.scale = DefaultScale

	if err := s.RenderCurrentPage(); err != nil {
		s.logger.Warn("initial render failed", zap.Error(err))
	}

	return &Summary{PageCount: s.pageCount, InitialPage: s.page}, nil
}

// RenderCurrentPage re-renders the active page at the active scale. A render
// failure leaves page and scale untouched.
func (s *State) RenderCurrentPage() error {
	if s.doc == nil {
		return errors.New("no document loaded")
	}

	if err := s.renderer.RenderPage(s.doc, s.page, s.scale); err != nil {
		return fmt.Errorf("rendering page %d: %w", s.page, err)
	}

	return nil
}

// GoToPage activates page n. Requests outside [1, pageCount], or issued with
// no document loaded, are ignored.
func (s *State) GoToPage(n int) {
	if s.doc == nil || n < 1 || n > s.pageCount {
		s.logger.Debug("page request ignored", zap.Int("page", n))
		return
	}

	s.page = n
	if err := s.RenderCurrentPage(); err != nil {
		s.logger.Warn("render failed", zap.Error(err))
	}
}

// SetScale activates the zoom factor. Requests outside the scale bounds, or
// issued with no document loaded, are ignored.
func (s *State) SetScale(scale float64) {
	if s.doc == nil || scale < MinScale || scale > MaxScale {
		s.logger.Debug("scale request ignored", zap.Float64("scale", scale))
		return
	}

	s.scale = scale
	if err := s.RenderCurrentPage(); err != nil {
		s.logger.Warn("render failed", zap.Error(err))
	}
}

// Clear releases the document handle and resets all fields to defaults. It is
// idempotent.
func (s *State) Clear() {
	s.doc = nil
	s.fileName = ""
	s.page = 1
	s.pageCount = 0
	s.scale = DefaultScale
}

// Loaded reports whether a document is currently loaded.
func (s *State) Loaded() bool { return s.doc != nil }

// PageNumber returns the active 1-based page number.
func (s *State) PageNumber() int { return s.page }

// PageCount returns the page count of the loaded document, 0 when none.
func (s *State) PageCount() int { return s.pageCount }

// Scale returns the active zoom factor.
func (s *State) Scale() float64 { return s.scale }

// FileName returns the name of the loaded file.
func (s *State) FileName() string { return s.fileName }

// Busy reports whether a load is currently running.
func (s *State) Busy() bool { return s.busy }
