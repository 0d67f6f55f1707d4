package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"contentflow/internal/pipeline"
)

const progressPrefix = "/api/generation-progress/"

// StartResponse acknowledges a started generation.
type StartResponse struct {
	Success      bool   `json:"success"`
	GenerationID string `json:"generationId"`
	Message      string `json:"message"`
}

// CreateGeneration starts a tracked generation under a new id
// @Summary Start a generation
// @Tags generation
// @Accept json
// @Produce json
// @Param request body GenerationRequest true "Generation input"
// @Success 200 {object} StartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /generation-progress [post]
func (h *Handler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, uuid.NewString())
}

// StartGeneration starts a tracked generation under the id in the path
// @Summary Start a generation with a caller-chosen id
// @Tags generation
// @Accept json
// @Produce json
// @Param id path string true "Generation ID"
// @Param request body GenerationRequest true "Generation input"
// @Success 200 {object} StartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Generation already running"
// @Failure 500 {object} ErrorResponse
// @Router /generation-progress/{id} [post]
func (h *Handler) StartGeneration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, progressPrefix, "")
	if !ok {
		writeError(w, http.StatusBadRequest, "Generation ID is required")
		return
	}
	h.start(w, r, id)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request, id string) {
	req, ok := h.bindGeneration(w, r)
	if !ok {
		return
	}

	err := h.Runner.Start(r.Context(), id, req.Input, req.Type, req.Options)
	switch {
	case errors.Is(err, pipeline.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, "Generation already running")
		return
	case errors.Is(err, pipeline.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "Server is shutting down")
		return
	case err != nil:
		h.Logger.Error("start generation", "generation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start generation")
		return
	}

	writeJSON(w, http.StatusOK, StartResponse{
		Success:      true,
		GenerationID: id,
		Message:      "Generation started successfully",
	})
}

// GetGeneration returns the progress record of a generation
// @Summary Get generation progress
// @Tags generation
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} model.GenerationRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Generation not found"
// @Router /generation-progress/{id} [get]
func (h *Handler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, progressPrefix, "")
	if !ok {
		writeError(w, http.StatusBadRequest, "Generation ID is required")
		return
	}

	rec, found := h.Progress.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "Generation not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CancelGeneration stops a running generation
// @Summary Cancel a generation
// @Tags generation
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} StartResponse
// @Failure 404 {object} ErrorResponse "Generation not found"
// @Failure 409 {object} ErrorResponse "Generation is not running"
// @Router /generation-progress/{id} [delete]
func (h *Handler) CancelGeneration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, progressPrefix, "")
	if !ok {
		writeError(w, http.StatusBadRequest, "Generation ID is required")
		return
	}

	if _, found := h.Progress.Get(id); !found {
		writeError(w, http.StatusNotFound, "Generation not found")
		return
	}
	if !h.Runner.Cancel(id) {
		writeError(w, http.StatusConflict, "Generation is not running")
		return
	}

	writeJSON(w, http.StatusOK, StartResponse{
		Success:      true,
		GenerationID: id,
		Message:      "Generation cancelled",
	})
}
