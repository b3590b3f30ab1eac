package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/divvit/divvit-backend/internal/config"
	"github.com/divvit/divvit-backend/internal/scanning"
)

// maxUploadSize caps the multipart form memory. High-resolution phone photos
// run 5-10MB; 20MB leaves headroom without letting a single request pin
// arbitrary memory.
const maxUploadSize = int64(20 << 20)

// allowedTypes is the set of declared content types accepted for upload.
// The check is on the declared header, not on sniffed bytes; decodability
// is verified separately by the scanner.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// writeDetail writes a JSON error body in the {"detail": ...} envelope
func writeDetail(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// handleRoot serves the root liveness probe
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": config.AppName,
	})
}

// handleHealth serves the detailed health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScanReceipt accepts a multipart receipt image upload, runs it
// through the scanner, and returns the extracted fields. Bad uploads and
// uninterpretable model output map to 400, upstream failures to 500.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeDetail(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeDetail(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeDetail(w, http.StatusBadRequest,
			"File is too large. Maximum size is 20MB. Please compress or resize your image.")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if !allowedTypes[contentType] {
		writeDetail(w, http.StatusBadRequest,
			"Invalid file type. Allowed types: image/jpeg, image/png, image/webp, image/heic")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeDetail(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	result, err := s.scanner.ScanReceipt(r.Context(), data, contentType)
	if err != nil {
		s.writeScanError(w, err, header.Filename, contentType, len(data))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeScanError maps the scanner's error kinds to HTTP status codes. Bad
// input and unparseable model output are the caller's problem (400);
// anything else is a server-side failure (500).
func (s *Server) writeScanError(w http.ResponseWriter, err error, filename, contentType string, size int) {
	slog.Error("Error scanning receipt",
		"filename", filename,
		"content_type", contentType,
		"file_size", size,
		"error", err,
	)

	var invalidImage *scanning.InvalidImageError
	var malformed *scanning.MalformedResponseError
	switch {
	case errors.As(err, &invalidImage):
		writeDetail(w, http.StatusBadRequest, invalidImage.Error())
	case errors.As(err, &malformed):
		writeDetail(w, http.StatusBadRequest, malformed.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, "Failed to process receipt: "+err.Error())
	}
}
