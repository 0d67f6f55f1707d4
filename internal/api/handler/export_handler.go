package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"contentflow/internal/export"
	"contentflow/internal/model"
	"contentflow/internal/store"
)

const articlesPrefix = "/api/articles/"

// ExportArticle renders an archived article, or the article of a finished generation
// @Summary Export an article
// @Tags articles
// @Produce text/html
// @Produce text/markdown
// @Produce json
// @Param id path string true "Article ID or generation ID"
// @Param format query string false "html, markdown or json" default(html)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Article not found"
// @Failure 500 {object} ErrorResponse "Export failed"
// @Router /articles/{id}/export [get]
func (h *Handler) ExportArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, articlesPrefix, "/export")
	if !ok {
		writeError(w, http.StatusBadRequest, "Article ID is required")
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.findArticle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		h.Logger.Error("find article", "article_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	body, err := export.Render(article, format)
	if err != nil {
		h.Logger.Error("render article", "article_id", id, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(article, format.Ext())))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// findArticle looks in the archive first, then at in-memory progress records by generation or
// article id.
func (h *Handler) findArticle(ctx context.Context, id string) (*model.Article, error) {
	if h.Engine != nil {
		article, err := h.Engine.GetArticle(ctx, id)
		if err == nil || !errors.Is(err, store.ErrNotFound) {
			return article, err
		}
	}
	if h.Progress != nil {
		if rec, ok := h.Progress.Get(id); ok && rec.Article != nil {
			return rec.Article, nil
		}
		for _, rec := range h.Progress.List() {
			if rec.Article != nil && rec.Article.ID == id {
				return rec.Article, nil
			}
		}
	}
	return nil, fmt.Errorf("article %s: %w", id, store.ErrNotFound)
}
