// Package httpapi serves an OCR engine over HTTP, so that other docscan
// instances (or any client) can use it as their "http" engine.
//
// Routes:
//
//	POST /api/ocr   multipart form with an "image" file field
//	GET  /health    liveness check
//	GET  /          status message
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/logger"
)

const (
	// FormField is the multipart field carrying the image.
	FormField = "image"

	// MaxUploadSize bounds the request body.
	MaxUploadSize = 50 << 20

	serviceName = "docscan"
)

// Server exposes an OCR engine over HTTP.
type Server struct {
	engine       driven.OCREngine
	preprocessor driven.Preprocessor
}

// NewServer creates a server. The preprocessor is optional.
func NewServer(engine driven.OCREngine, preprocessor driven.Preprocessor) *Server {
	return &Server{engine: engine, preprocessor: preprocessor}
}

// Handler returns the HTTP routes with CORS enabled for browser clients.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ocr", s.handleOCR)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return allowCORS(mux)
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type ocrResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	file, header, err := r.FormFile(FormField)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No image file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Failed to read upload", Details: err.Error()})
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Uploaded image is empty"})
		return
	}

	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Unsupported file type",
			Details: fmt.Sprintf("%s is %s", header.Filename, mime),
		})
		return
	}

	img := domain.PageImage{Data: data, MIMEType: mime}
	if s.preprocessor != nil {
		if pre, err := s.preprocessor.Preprocess(r.Context(), img); err != nil {
			logger.Warn("Preprocessing %s failed, using original: %v", header.Filename, err)
		} else {
			img = pre
		}
	}

	logger.Debug("Recognising %s (%d bytes)", header.Filename, len(img.Data))
	result, err := s.engine.Recognize(r.Context(), img)
	if err != nil {
		logger.Error("OCR failed for %s: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to process image",
			Details: engineDetail(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{Text: result.Text, Confidence: result.Confidence})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "docscan OCR service is running"})
}

// engineDetail prefers the engine's own message over the wrapped error text.
func engineDetail(err error) string {
	var engineErr *domain.EngineError
	if errors.As(err, &engineErr) && engineErr.Detail != "" {
		return engineErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Writing response: %v", err)
	}
}

// allowCORS accepts requests from any origin and answers preflight requests.
// Credentials are never allowed.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
