// Package server exposes the annotator as a JSON REST API.
//
// Endpoints:
//
//	POST /api/annotate        body: {"text":"...", "format":"html|plain|json"}
//	POST /api/annotate/batch  body: {"texts":["...", ...]}
//	GET  /api/healthz
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"furigana/model"
	"furigana/render"
)

const maxBatch = 256

// Annotator is the part of annotate.Annotator the server needs.
type Annotator interface {
	Annotate(ctx context.Context, text string) (model.Segments, error)
	AnnotateAll(ctx context.Context, texts []string, workers int) ([]model.Segments, error)
}

// ---- JSON request / response types --------------------------------------

type annotateRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
}

type annotateResponse struct {
	Segments model.Segments `json:"segments"`
	Rendered string         `json:"rendered"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

type batchResponse struct {
	Results []model.Segments `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ---- handlers -----------------------------------------------------------

func handleAnnotate(a Annotator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body annotateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
			return
		}
		renderFn, err := render.ByName(body.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		segs, err := a.Annotate(r.Context(), body.Text)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if segs == nil {
			segs = model.Segments{}
		}
		writeJSON(w, http.StatusOK, annotateResponse{Segments: segs, Rendered: renderFn(segs)})
	}
}

func handleBatch(a Annotator, workers int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body batchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Texts) == 0 {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'texts' array")
			return
		}
		if len(body.Texts) > maxBatch {
			writeError(w, http.StatusRequestEntityTooLarge, "too many texts in one batch")
			return
		}

		results, err := a.AnnotateAll(r.Context(), body.Texts, workers)
		if err != nil {
			writeFailure(w, err)
			return
		}
		for i := range results {
			if results[i] == nil {
				results[i] = model.Segments{}
			}
		}
		writeJSON(w, http.StatusOK, batchResponse{Results: results})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	slog.Error("annotate failed", "error", err)
	writeError(w, http.StatusInternalServerError, "annotation failed")
}

// New returns the API handler with CORS applied for allowedOrigins.
func New(a Annotator, workers int, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/annotate/batch", handleBatch(a, workers))
	mux.HandleFunc("/api/annotate", handleAnnotate(a))
	mux.HandleFunc("/api/healthz", handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}
