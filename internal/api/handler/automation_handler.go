package handler

import (
	"errors"
	"net/http"

	"contentflow/internal/store"
)

// AutomationResponse is returned once an automation request has produced its article.
type AutomationResponse struct {
	Success   bool   `json:"success"`
	ArticleID string `json:"articleId"`
	Message   string `json:"message"`
}

// CreateAutomation researches and writes an article synchronously
// @Summary Run an automation request
// @Description Research the input, write an article and archive both
// @Tags automation
// @Accept json
// @Produce json
// @Param request body GenerationRequest true "Automation request"
// @Success 200 {object} AutomationResponse
// @Failure 400 {object} ErrorResponse "Input and type are required"
// @Failure 500 {object} ErrorResponse "Automation process failed"
// @Router /automation [post]
func (h *Handler) CreateAutomation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.bindGeneration(w, r)
	if !ok {
		return
	}

	articleID, err := h.Engine.ProcessRequest(r.Context(), req.Input, req.Type, req.Options)
	if err != nil {
		h.Logger.Error("automation failed", "input", req.Input, "error", err)
		writeError(w, http.StatusInternalServerError, "Automation process failed")
		return
	}

	writeJSON(w, http.StatusOK, AutomationResponse{
		Success:   true,
		ArticleID: articleID,
		Message:   "Article generation started successfully",
	})
}

// GetAutomation returns one request, one article, or the recent history
// @Summary Get automation requests and articles
// @Tags automation
// @Produce json
// @Param requestId query string false "Request ID"
// @Param articleId query string false "Article ID"
// @Param limit query int false "Maximum items per list"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /automation [get]
func (h *Handler) GetAutomation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if id := q.Get("requestId"); id != "" {
		req, err := h.Engine.GetRequest(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Request not found")
			return
		}
		if err != nil {
			h.Logger.Error("get request", "request_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch automation data")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"request": req})
		return
	}

	if id := q.Get("articleId"); id != "" {
		article, err := h.Engine.GetArticle(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Article not found")
			return
		}
		if err != nil {
			h.Logger.Error("get article", "article_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch automation data")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"article": article})
		return
	}

	limit := queryLimit(r, 100)
	requests, err := h.Engine.ListRequests(ctx, limit)
	if err != nil {
		h.Logger.Error("list requests", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch automation data")
		return
	}
	articles, err := h.Engine.ListArticles(ctx, limit)
	if err != nil {
		h.Logger.Error("list articles", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch automation data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests, "articles": articles})
}
