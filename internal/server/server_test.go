package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"
	"go.uber.org/zap"
)

type stubExtractor struct {
	record resume.Record
	err    error
}

func (s *stubExtractor) ExtractResume(_ context.Context, _ []byte) (resume.Record, error) {
	return s.record, s.err
}

func newTestServer(t *testing.T, extractor *stubExtractor) *Server {
	t.Helper()

	return New(Config{StaticDir: t.TempDir()}, extractor, zap.NewNop())
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})
	handler := srv.Handler()

	for _, path := range []string{"/", "/health"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s returned %d, want 200", path, rec.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("GET %s returned invalid json: %v", path, err)
		}
		if body["status"] != "healthy" {
			t.Errorf("GET %s status is %q, want healthy", path, body["status"])
		}
	}
}

func TestUploadSuccess(t *testing.T) {
	record := resume.Record{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "grace@example.com",
	}
	srv := newTestServer(t, &stubExtractor{record: record})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "my resume.pdf", []byte("%PDF-1.4 data")))

	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message          string        `json:"message"`
		JSON             resume.Record `json:"json"`
		PDFURL           string        `json:"pdf_url"`
		DownloadURL      string        `json:"download_url"`
		OriginalFilename string        `json:"original_filename"`
		FileSize         int           `json:"file_size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.JSON["first_name"] != "Grace" {
		t.Errorf("response record is %v", resp.JSON)
	}
	if resp.OriginalFilename != "my resume.pdf" {
		t.Errorf("original filename is %q", resp.OriginalFilename)
	}
	if resp.FileSize != len("%PDF-1.4 data") {
		t.Errorf("file size is %d", resp.FileSize)
	}
	if !strings.HasPrefix(resp.PDFURL, "/static/resume_") {
		t.Errorf("pdf url is %q", resp.PDFURL)
	}
	if strings.Contains(resp.PDFURL, " ") {
		t.Errorf("pdf url %q contains unsafe characters", resp.PDFURL)
	}
	if !strings.HasPrefix(resp.DownloadURL, "/download-pdf/") {
		t.Errorf("download url is %q", resp.DownloadURL)
	}

	name := strings.TrimPrefix(resp.PDFURL, "/static/")
	data, err := os.ReadFile(filepath.Join(srv.cfg.StaticDir, name))
	if err != nil {
		t.Fatalf("generated document is missing: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("generated file is not a pdf")
	}
}

func TestUploadRejections(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{record: resume.Record{}})
	handler := srv.Handler()

	tests := []struct {
		name     string
		filename string
		content  []byte
		detail   string
	}{
		{"not a pdf", "resume.txt", []byte("plain text"), "Only PDF files"},
		{"empty file", "resume.pdf", nil, "Empty file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, uploadRequest(t, tt.filename, tt.content))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("returned %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.detail) {
				t.Errorf("detail %q does not mention %q", rec.Body.String(), tt.detail)
			}
		})
	}
}

func TestUploadMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload-resume", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("returned %d, want 405", rec.Code)
	}
}

func TestUploadExtractionFailure(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{err: errors.New("model unavailable")})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "resume.pdf", []byte("%PDF-1.4")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("returned %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "model unavailable") {
		t.Errorf("detail %q does not carry the cause", rec.Body.String())
	}
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})
	handler := srv.Handler()

	path := filepath.Join(srv.cfg.StaticDir, "resume_1_abc_cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 generated"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download-pdf/resume_1_abc_cv.pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("returned %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Errorf("content disposition is %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download-pdf/missing.pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file returned %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download-pdf/..%2Fsecret.pdf", nil))
	if rec.Code == http.StatusOK {
		t.Error("traversal attempt was served")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/download-pdf/resume_1_abc_cv.pdf", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST returned %d, want 405", rec.Code)
	}
}

func TestStaticServesFilesButNotListings(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})
	handler := srv.Handler()

	path := filepath.Join(srv.cfg.StaticDir, "resume_2_def_cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 generated"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/resume_2_def_cv.pdf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("file request returned %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("directory index returned %d, want 404", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/upload-resume", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight returned %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin is %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin was allowed: %q", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response has no request id")
	}
}
