package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "contentflow/docs"
	"contentflow/internal/api/handler"
	"contentflow/pkg/router"
)

// RegisterRoutes mounts the API, metrics and swagger UI on r. Metrics are served from gatherer.
func RegisterRoutes(r *router.Router, h *handler.Handler, gatherer prometheus.Gatherer) {
	r.POST("/api/automation", h.CreateAutomation)
	r.GET("/api/automation", h.GetAutomation)

	r.POST("/api/generation-progress", h.CreateGeneration)
	r.POST("/api/generation-progress/*", h.StartGeneration)
	r.GET("/api/generation-progress/*", h.GetGeneration)
	r.DELETE("/api/generation-progress/*", h.CancelGeneration)

	r.POST("/api/research", h.Research)
	r.POST("/api/generate", h.Generate)
	r.POST("/api/web-search", h.WebSearch)

	r.GET("/api/articles/*/export", h.ExportArticle)

	r.GET("/healthz", h.Healthz)
	r.Handle(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Handle(http.MethodGet, "/swagger/*", httpSwagger.WrapHandler)
}
