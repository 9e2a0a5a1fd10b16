package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/pdfdoc"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/pdfgen"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"
	"go.uber.org/zap"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-.]`)

// uploadResponse is the contract consumed by the frontend and the CLI
// client.
type uploadResponse struct {
	Message          string        `json:"message"`
	JSON             resume.Record `json:"json"`
	PDFURL           string        `json:"pdf_url"`
	DownloadURL      string        `json:"download_url"`
	OriginalFilename string        `json:"original_filename"`
	ProcessedAt      string        `json:"processed_at"`
	FileSize         int           `json:"file_size"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Resume processing service is running",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "No filename provided")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		s.writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, pdfdoc.MaxUploadSize+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	if len(data) == 0 {
		s.writeError(w, http.StatusBadRequest, "Empty file uploaded")
		return
	}
	if int64(len(data)) > pdfdoc.MaxUploadSize {
		s.writeError(w, http.StatusBadRequest, "File too large. Maximum size is 10MB")
		return
	}

	s.logger.Info("processing the uploaded resume",
		zap.String("filename", header.Filename),
		zap.Int("size", len(data)),
	)

	record, err := s.extractor.ExtractResume(r.Context(), data)
	if err != nil {
		s.logger.Error("resume extraction failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("Error processing resume: %v", err))
		return
	}

	name := s.generatedFilename(header.Filename)
	if err := s.writeResumePDF(record, name); err != nil {
		s.logger.Error("generating the resume document failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error generating the PDF")
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		Message:          "Resume processed successfully",
		JSON:             record,
		PDFURL:           "/static/" + name,
		DownloadURL:      "/download-pdf/" + name,
		OriginalFilename: header.Filename,
		ProcessedAt:      time.Now().UTC().Format(time.RFC3339),
		FileSize:         len(data),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/download-pdf/")
	name = sanitizeFilename(filepath.Base(name))
	if name == "" || name == "." {
		s.writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	path := filepath.Join(s.cfg.StaticDir, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", pdfdoc.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// generatedFilename produces a unique, filesystem safe name for the
// reformatted document.
func (s *Server) generatedFilename(original string) string {
	safe := sanitizeFilename(filepath.Base(original))
	if safe == "" {
		safe = "resume.pdf"
	}

	return fmt.Sprintf("resume_%d_%s_%s",
		time.Now().Unix(), uuid.New().String()[:8], safe)
}

// writeResumePDF renders the record into the static directory, falling
// back to a minimal error document when the record cannot be laid out.
func (s *Server) writeResumePDF(record resume.Record, name string) error {
	f, err := os.Create(filepath.Join(s.cfg.StaticDir, name))
	if err != nil {
		return fmt.Errorf("creating the output file: %w", err)
	}
	defer f.Close()

	profile, err := resume.DecodeProfile(record)
	if err == nil {
		err = pdfgen.Build(profile, f)
	}
	if err != nil {
		s.logger.Warn("falling back to the error document", zap.Error(err))
		if _, serr := f.Seek(0, io.SeekStart); serr != nil {
			return serr
		}
		if terr := f.Truncate(0); terr != nil {
			return terr
		}
		return pdfgen.BuildFallback(f)
	}

	return nil
}

func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("writing the response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
