package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"contentflow/internal/automation"
	"contentflow/internal/content"
	"contentflow/internal/model"
	"contentflow/internal/pipeline"
	"contentflow/internal/progress"
	"contentflow/internal/research"
)

const maxBodyBytes = 1 << 20

// Deps are the services the handlers call into.
type Deps struct {
	Runner     *pipeline.Runner
	Progress   *progress.Store
	Engine     *automation.Engine
	Researcher research.Provider
	Writer     content.Writer
	Searcher   *research.Searcher
	Logger     *slog.Logger
	Now        func() time.Time
}

// Handler serves the JSON API.
type Handler struct {
	Deps
	validate *validator.Validate
}

// New builds a Handler.
func New(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.Logger = deps.Logger.With("component", "api")

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{Deps: deps, validate: v}
}

// GenerationRequest starts an automation request or a tracked generation.
type GenerationRequest struct {
	Input   string                  `json:"input" validate:"required,max=2000"`
	Type    model.InputKind         `json:"type" validate:"required,oneof=keyword url topic"`
	Options model.GenerationOptions `json:"options"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

var errInvalidJSON = errors.New("invalid JSON payload")

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errInvalidJSON
	}
	if err := h.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// bindGeneration decodes and validates a GenerationRequest, writing a 400 on failure.
func (h *Handler) bindGeneration(w http.ResponseWriter, r *http.Request) (GenerationRequest, bool) {
	var req GenerationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSON.Error())
		return req, false
	}
	req.Input = strings.TrimSpace(req.Input)
	req.Type = model.InputKind(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if req.Input == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "Input and type are required")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationError(err).Error())
		return req, false
	}
	if req.Type == model.KindURL && h.validate.Var(req.Input, "url") != nil {
		writeError(w, http.StatusBadRequest, "input must be a valid URL for type url")
		return req, false
	}
	return req, true
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", fe.Field(), map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// pathID extracts the segment between prefix and suffix of the request path.
func pathID(r *http.Request, prefix, suffix string) (string, bool) {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) || len(path) < len(prefix)+len(suffix) {
		return "", false
	}
	id := path[len(prefix) : len(path)-len(suffix)]
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func queryLimit(r *http.Request, def int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Healthz reports liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
