package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/reviewlens/reviewlens/internal/domain"
	"github.com/reviewlens/reviewlens/internal/tabular"

	"github.com/google/uuid"
)

// Handler exposes the ingestion workflow over HTTP.
type Handler struct {
	service        *Service
	maxUploadBytes int64
}

// NewHTTPHandler mounts the workflow endpoints on a mux.
func NewHTTPHandler(service *Service, maxUploadBytes int64) http.Handler {
	h := &Handler{service: service, maxUploadBytes: maxUploadBytes}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reviews/detect", h.detect)
	mux.HandleFunc("POST /api/reviews/preflight", h.preflight)
	mux.HandleFunc("POST /api/reviews/sessions", h.openSession)
	mux.HandleFunc("POST /api/reviews/sessions/{id}/confirm", h.confirmSession)
	mux.HandleFunc("POST /api/reviews/sessions/{id}/process", h.processSession)
	mux.HandleFunc("POST /api/reviews/ingest", h.ingest)
	return mux
}

type detectRequest struct {
	Headers []string `json:"headers"`
}

func (h *Handler) detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Headers) == 0 {
		http.Error(w, "headers are required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, Classify(req.Headers))
}

func (h *Handler) preflight(w http.ResponseWriter, r *http.Request) {
	payload, _, err := h.readFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, Preflight(string(payload)))
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	payload, fileName, err := h.readFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Open(r.Context(), OpenRequest{
		FileName: fileName,
		Data:     bytes.NewReader(payload),
	})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type confirmRequest struct {
	Mapping   domain.ColumnMapping      `json:"mapping"`
	Overrides domain.VariationOverrides `json:"overrides,omitempty"`
}

func (h *Handler) confirmSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	session, err := h.service.Confirm(r.Context(), sessionID, req.Mapping, req.Overrides)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) processSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.Process(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	payload, fileName, err := h.readFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mappingRaw := strings.TrimSpace(r.FormValue("mapping"))
	if mappingRaw == "" {
		http.Error(w, "mapping is required", http.StatusBadRequest)
		return
	}
	var mapping domain.ColumnMapping
	if err := json.Unmarshal([]byte(mappingRaw), &mapping); err != nil {
		http.Error(w, fmt.Sprintf("invalid mapping: %v", err), http.StatusBadRequest)
		return
	}

	var overrides domain.VariationOverrides
	if overridesRaw := strings.TrimSpace(r.FormValue("overrides")); overridesRaw != "" {
		if err := json.Unmarshal([]byte(overridesRaw), &overrides); err != nil {
			http.Error(w, fmt.Sprintf("invalid overrides: %v", err), http.StatusBadRequest)
			return
		}
	}

	result, err := h.service.IngestDirect(r.Context(), DirectRequest{
		FileName:  fileName,
		Data:      bytes.NewReader(payload),
		Mapping:   mapping,
		Overrides: overrides,
	})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) readFile(r *http.Request) ([]byte, string, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, "", fmt.Errorf("invalid form data: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file required: %w", err)
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	return payload, header.Filename, nil
}

func statusForError(err error) int {
	if errors.Is(err, ErrSessionNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, tabular.ErrUnsupportedFormat) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
