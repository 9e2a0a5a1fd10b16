// Package processor is the HTTP client for the resume processing service.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL points at a locally running processing service.
	DefaultBaseURL = "http://localhost:8000"

	uploadPath = "/upload-resume"
	userAgent  = "llm-resume-parser"

	// formField is the multipart field name the service expects.
	formField = "file"
)

// Client talks to the resume processing service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

// New creates a client for the service at baseURL. The underlying HTTP client
// carries no timeout: a processing call waits for a response or a
// transport-level error.
func New(baseURL string, logger *zap.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
		logger:     logger,
	}
}

// Result is the outcome of a successful processing call.
type Result struct {
	// Record is the structured value extracted by the service.
	Record resume.Record
	// PDFURL is the absolute address of the generated document.
	PDFURL string
	// OriginalFilename echoes the uploaded file name when the service
	// reports it.
	OriginalFilename string
}

// ProcessError carries a human-readable diagnostic for a failed call.
type ProcessError struct {
	Op   string
	Hint string
	Err  error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

type uploadResponse struct {
	Message          string         `json:"message"`
	JSON             map[string]any `json:"json"`
	PDFURL           string         `json:"pdf_url"`
	OriginalFilename string         `json:"original_filename"`
}

// ProcessResume transmits the file to the service and returns the structured
// record together with the resolved address of the generated PDF.
func (c *Client) ProcessResume(ctx context.Context, fileName string, data []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(formField, fileName)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+uploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", c.UserAgent)

	c.logger.Debug("uploading resume for processing",
		zap.String("url", req.URL.String()),
		zap.String("file", fileName),
		zap.Int("bytes", len(data)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &ProcessError{
			Op:   "upload resume",
			Hint: fmt.Sprintf("check that the processing service is reachable at %s", c.BaseURL),
			Err:  err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ProcessError{
			Op:   "upload resume",
			Hint: readErrorDetail(resp.Body),
			Err:  fmt.Errorf("bad status: %s", resp.Status),
		}
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProcessError{Op: "decode response", Err: err}
	}

	pdfURL, err := c.resolve(parsed.PDFURL)
	if err != nil {
		return nil, &ProcessError{Op: "resolve generated pdf address", Err: err}
	}

	return &Result{
		Record:           resume.Record(parsed.JSON),
		PDFURL:           pdfURL,
		OriginalFilename: parsed.OriginalFilename,
	}, nil
}

// Ping issues a lightweight GET to the service root. Any 2xx response counts
// as healthy.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return nil
}

// resolve turns the service-relative reference into an absolute address.
func (c *Client) resolve(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("response carries no pdf_url")
	}

	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing pdf_url %q: %w", ref, err)
	}

	return base.ResolveReference(parsed).String(), nil
}

func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil {
		return ""
	}

	detail := strings.TrimSpace(string(data))
	if detail == "" {
		return ""
	}

	return "service said: " + detail
}
