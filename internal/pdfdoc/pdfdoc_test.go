package pdfdoc

import (
	"bytes"
	"errors"
	"testing"
)

func TestIsPDF(t *testing.T) {
	t.Parallel()

	if !IsPDF([]byte("%PDF-1.7\n...")) {
		t.Fatal("expected signature match")
	}

	if IsPDF([]byte("<!doctype html>")) {
		t.Fatal("expected signature mismatch")
	}
}

func TestAcceptableUpload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fileName  string
		mediaType string
		expect    bool
	}{
		{name: "media type", fileName: "resume", mediaType: "application/pdf", expect: true},
		{name: "media type case insensitive", fileName: "resume", mediaType: "Application/PDF", expect: true},
		{name: "extension fallback", fileName: "resume.PDF", mediaType: "", expect: true},
		{name: "plain text", fileName: "resume.txt", mediaType: "text/plain", expect: false},
		{name: "no hints", fileName: "resume", mediaType: "", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AcceptableUpload(tt.fileName, tt.mediaType); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestCheckBytes(t *testing.T) {
	t.Parallel()

	if err := CheckBytes(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	if err := CheckBytes([]byte("plain text")); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}

	oversized := append([]byte("%PDF-1.4"), bytes.Repeat([]byte{0}, MaxUploadSize)...)
	if err := CheckBytes(oversized); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	if err := CheckBytes([]byte("%PDF-1.4\nsmall")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Open([]byte("not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf input")
	}

	// A signature alone is not a decodable document.
	if _, err := Open([]byte("%PDF-1.4 garbage body")); err == nil {
		t.Fatal("expected decode error for truncated input")
	}
}

func TestDocumentNilSafety(t *testing.T) {
	t.Parallel()

	var doc *Document
	if doc.PageCount() != 0 {
		t.Fatal("expected zero page count on nil document")
	}

	if _, err := doc.PageText(1); err == nil {
		t.Fatal("expected error on nil document")
	}
}
