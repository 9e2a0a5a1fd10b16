package processor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestProcessResume(t *testing.T) {
	var gotPath, gotField, gotFile string
	var gotBytes []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("reading form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()

		gotField = "file"
		gotFile = header.Filename
		gotBytes, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"message": "Resume processed successfully",
			"json": {"first_name": "Jane"},
			"pdf_url": "/static/resume_gen.pdf",
			"original_filename": "resume.pdf"
		}`)
	}))
	defer srv.Close()

	client := New(srv.URL, zap.NewNop())

	result, err := client.ProcessResume(context.Background(), "resume.pdf", []byte("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/upload-resume" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotField != "file" || gotFile != "resume.pdf" {
		t.Fatalf("unexpected form: field=%q file=%q", gotField, gotFile)
	}
	if string(gotBytes) != "%PDF-1.4 body" {
		t.Fatalf("unexpected bytes: %q", gotBytes)
	}

	if result.Record.String("first_name") != "Jane" {
		t.Fatalf("unexpected record: %v", result.Record)
	}

	if result.PDFURL != srv.URL+"/static/resume_gen.pdf" {
		t.Fatalf("unexpected pdf url: %q", result.PDFURL)
	}

	if result.OriginalFilename != "resume.pdf" {
		t.Fatalf("unexpected original filename: %q", result.OriginalFilename)
	}
}

func TestProcessResumeBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := New(srv.URL, zap.NewNop())

	_, err := client.ProcessResume(context.Background(), "resume.txt", []byte("hello"))
	if err == nil {
		t.Fatal("expected error")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessError, got %T", err)
	}

	if !strings.Contains(procErr.Hint, "Only PDF files are allowed") {
		t.Fatalf("expected service detail in hint, got %q", procErr.Hint)
	}
}

func TestProcessResumeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := New(srv.URL, zap.NewNop())

	_, err := client.ProcessResume(context.Background(), "resume.pdf", []byte("%PDF-1.4"))
	if err == nil {
		t.Fatal("expected error")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessError, got %T", err)
	}

	if !strings.Contains(procErr.Hint, "reachable") {
		t.Fatalf("expected remediation hint, got %q", procErr.Hint)
	}
}

func TestProcessResumeMissingPDFURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"json": {}}`)
	}))
	defer srv.Close()

	client := New(srv.URL, zap.NewNop())

	if _, err := client.ProcessResume(context.Background(), "resume.pdf", []byte("%PDF-1.4")); err == nil {
		t.Fatal("expected error for missing pdf_url")
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		expectErr bool
	}{
		{name: "ok", status: http.StatusOK, expectErr: false},
		{name: "no content", status: http.StatusNoContent, expectErr: false},
		{name: "server error", status: http.StatusInternalServerError, expectErr: true},
		{name: "not found", status: http.StatusNotFound, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/" {
					t.Errorf("unexpected path: %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := New(srv.URL, zap.NewNop()).Ping(context.Background())
			if tt.expectErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewDefaultsBaseURL(t *testing.T) {
	t.Parallel()

	client := New("  ", zap.NewNop())
	if client.BaseURL != DefaultBaseURL {
		t.Fatalf("unexpected base url: %q", client.BaseURL)
	}
}
