package handler

import (
	"net/http"
	"time"

	"contentflow/internal/content"
	"contentflow/internal/model"
)

// QueryRequest is the body of research and web-search calls.
type QueryRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// GenerateRequest is the body of a direct writer call.
type GenerateRequest struct {
	Prompt       string              `json:"prompt" validate:"required,max=20000"`
	WordCount    int                 `json:"wordCount" validate:"omitempty,min=100,max=10000"`
	Tone         model.Tone          `json:"tone" validate:"omitempty,oneof=professional casual authoritative friendly"`
	ResearchData *model.ResearchData `json:"researchData"`
}

// SearchResponse lists web-search hits.
type SearchResponse struct {
	Results   []model.SearchResult `json:"results"`
	Query     string               `json:"query"`
	Timestamp time.Time            `json:"timestamp"`
}

// Research runs the research provider for a query
// @Summary Research a query
// @Tags content
// @Accept json
// @Produce json
// @Param request body QueryRequest true "Query"
// @Success 200 {object} model.ResearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Research failed"
// @Router /research [post]
func (h *Handler) Research(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Researcher.Research(r.Context(), req.Query)
	if err != nil {
		h.Logger.Error("research", "query", req.Query, "error", err)
		writeError(w, http.StatusInternalServerError, "Research failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Generate runs the writer for a prompt
// @Summary Generate an article from a prompt
// @Tags content
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Prompt and options"
// @Success 200 {object} model.GenerationResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Content generation failed"
// @Router /generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := model.GenerationOptions{WordCount: req.WordCount, Tone: req.Tone}.WithDefaults()

	res, err := h.Writer.Generate(r.Context(), content.GenerateRequest{
		Prompt:    req.Prompt,
		WordCount: opts.WordCount,
		Tone:      opts.Tone,
		Research:  req.ResearchData,
	})
	if err != nil {
		h.Logger.Error("generate", "error", err)
		writeError(w, http.StatusInternalServerError, "Content generation failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// WebSearch answers a query with de-duplicated source links
// @Summary Web search
// @Tags content
// @Accept json
// @Produce json
// @Param request body QueryRequest true "Query"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} map[string]interface{} "Web search failed"
// @Router /web-search [post]
func (h *Handler) WebSearch(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.Searcher.Search(r.Context(), req.Query)
	if err != nil {
		h.Logger.Error("web search", "query", req.Query, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Web search failed",
			"results": []model.SearchResult{},
		})
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Results:   results,
		Query:     req.Query,
		Timestamp: h.Now().UTC(),
	})
}
