// Package httpapi exposes the question-answering service over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pdfqa/internal/domain"
)

// QA is the service surface the handlers need.
type QA interface {
	Upload(ctx context.Context, filename string, raw []byte) (domain.UploadResult, error)
	Ask(ctx context.Context, id, question string) (domain.AskTrace, error)
	Document(id string) (domain.Document, error)
}

// Config holds transport settings.
type Config struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter creates the API router with all routes configured.
func NewRouter(qa QA, cfg Config, log zerolog.Logger) http.Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	h := &handler{qa: qa, maxUpload: cfg.MaxUploadBytes, log: log.With().Str("component", "http").Logger()}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors(cfg.AllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "pdfqa"})
	})
	r.Post("/upload_pdf", h.upload)
	r.Post("/ask", h.ask)
	r.Get("/documents/{id}", h.document)

	return r
}
