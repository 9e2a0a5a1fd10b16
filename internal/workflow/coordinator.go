package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/pdfdoc"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/processor"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/viewer"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when an upload flow of the same kind is already
	// in flight. There is no queueing and no cancellation.
	ErrBusy = errors.New("upload already in flight")

	// ErrUnsupportedType marks files rejected by the local-view gate. The
	// UI treats it as a silent no-op.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// File is a user-selected file handed to one of the upload flows.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// LocalViewer loads a document for local display.
type LocalViewer interface {
	LoadLocal(data []byte, fileName string) (*viewer.Summary, error)
}

// RemoteProcessor sends a document to the processing service.
type RemoteProcessor interface {
	ProcessResume(ctx context.Context, fileName string, data []byte) (*processor.Result, error)
	Ping(ctx context.Context) error
}

// Coordinator manages the two independent upload flows. Each flow is
// single-flight: a request arriving while one of its kind is running is
// rejected with ErrBusy. The busy flags are always reset, whatever the
// outcome.
type Coordinator struct {
	viewer    LocalViewer
	processor RemoteProcessor
	shell     *Shell
	results   *Results
	logger    *zap.Logger

	mu         sync.Mutex
	localBusy  bool
	remoteBusy bool
}

// NewCoordinator wires the coordinator to its collaborators.
func NewCoordinator(v LocalViewer, p RemoteProcessor, shell *Shell, results *Results, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		viewer:    v,
		processor: p,
		shell:     shell,
		results:   results,
		logger:    logger,
	}
}

// UploadForLocalView hands the file to the viewer. Files without a PDF media
// type or extension are rejected before any processing; the viewer state is
// never touched for them.
func (c *Coordinator) UploadForLocalView(file File) error {
	if !pdfdoc.AcceptableUpload(file.Name, file.MediaType) {
		c.logger.Debug("ignoring non-pdf file for local viewing",
			zap.String("file", file.Name),
			zap.String("media_type", file.MediaType),
		)
		return ErrUnsupportedType
	}

	if !c.begin(&c.localBusy) {
		return ErrBusy
	}
	defer c.end(&c.localBusy)

	summary, err := c.viewer.LoadLocal(file.Data, file.Name)
	if err != nil {
		c.logger.Warn("local load failed",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("document loaded for local viewing",
		zap.String("file", file.Name),
		zap.Int("pages", summary.PageCount),
	)

	c.shell.Show(ModeViewer)
	return nil
}

// UploadForProcessing transmits the file to the processing service. On
// success the result is stored and the shell switches to the results mode; on
// failure the results state is left untouched.
func (c *Coordinator) UploadForProcessing(ctx context.Context, file File) (*processor.Result, error) {
	if !c.begin(&c.remoteBusy) {
		return nil, ErrBusy
	}
	defer c.end(&c.remoteBusy)

	if len(file.Data) == 0 {
		return nil, fmt.Errorf("%s: %w", file.Name, pdfdoc.ErrEmpty)
	}

	result, err := c.processor.ProcessResume(ctx, file.Name, file.Data)
	if err != nil {
		c.logger.Error("remote processing failed",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		return nil, err
	}

	c.results.Set(result)
	c.shell.Show(ModeResults)

	c.logger.Info("resume processed",
		zap.String("file", file.Name),
		zap.String("generated_pdf", result.PDFURL),
	)

	return result, nil
}

// TestConnection probes the processing service root. Purely diagnostic, no
// state change.
func (c *Coordinator) TestConnection(ctx context.Context) error {
	return c.processor.Ping(ctx)
}

// LocalBusy reports whether a local-view upload is in flight.
func (c *Coordinator) LocalBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localBusy
}

// RemoteBusy reports whether a processing upload is in flight.
func (c *Coordinator) RemoteBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteBusy
}

func (c *Coordinator) begin(flag *bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (c *Coordinator) end(flag *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*flag = false
}
