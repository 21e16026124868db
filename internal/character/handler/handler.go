package handler

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"grimoire/internal/character/models"
	"grimoire/internal/platform/middleware"
	"grimoire/internal/views"
	"grimoire/pkg/platform/httputil"
)

//go:embed static
var staticFS embed.FS

// Service is the document store behind the sheet.
type Service interface {
	SetField(ctx context.Context, path, raw string) error
	AddEntry(ctx context.Context, collection string, template map[string]string) (int, error)
	MergeHeader(ctx context.Context, fields map[string]string) error
	Reset(ctx context.Context) error
	Snapshot() models.Record
}

// Handler serves the app shell, tab markup and the edit API.
type Handler struct {
	logger *slog.Logger
	store  Service
}

// New creates a new character Handler.
func New(store Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, store: store}
}

// Register registers the page, asset and API routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handlePage)
	r.Get("/index.html", h.handlePage)
	r.Get("/tabs/{tab}", h.handleTab)

	r.Get("/script.js", h.asset("static/script.js"))
	r.Get("/style.css", h.asset("static/style.css"))
	r.Get("/manifest.json", h.asset("static/manifest.json"))

	r.Route("/api/character", func(r chi.Router) {
		r.Get("/", h.handleGetCharacter)
		r.Delete("/", h.handleReset)
		r.Put("/fields", h.handleSetField)
		r.Post("/entries", h.handleAddEntry)
		r.Post("/header", h.handleMergeHeader)
	})
}

type setFieldRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

type addEntryRequest struct {
	Collection string            `json:"collection"`
	Template   map[string]string `json:"template"`
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := views.Page(h.store.Snapshot(), r.URL.Query().Get("tab"), views.DetectInstallPrompt(r.UserAgent()))

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		h.logger.ErrorContext(ctx, "failed to render page",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handler) handleTab(w http.ResponseWriter, r *http.Request) {
	h.renderTab(w, r, chi.URLParam(r, "tab"))
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.Snapshot())
}

// handleReset discards the saved sheet and answers with the default one.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.store.Reset(ctx); err != nil {
		h.writeEditError(ctx, w, err)
		return
	}
	h.respond(w, r)
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(ctx, w, err)
		return
	}
	raw, err := rawValue(req.Value)
	if err != nil {
		h.badBody(ctx, w, err)
		return
	}
	if err := h.store.SetField(ctx, req.Path, raw); err != nil {
		h.writeEditError(ctx, w, err)
		return
	}
	h.respond(w, r)
}

func (h *Handler) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(ctx, w, err)
		return
	}
	idx, err := h.store.AddEntry(ctx, req.Collection, req.Template)
	if err != nil {
		h.writeEditError(ctx, w, err)
		return
	}
	w.Header().Set("X-Entry-Index", strconv.Itoa(idx))
	h.respond(w, r)
}

// handleMergeHeader accepts either a form post or a JSON object of strings.
func (h *Handler) handleMergeHeader(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fields := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			h.badBody(ctx, w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.badBody(ctx, w, err)
			return
		}
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
	}
	if err := h.store.MergeHeader(ctx, fields); err != nil {
		h.writeEditError(ctx, w, err)
		return
	}
	h.respond(w, r)
}

// respond answers an edit with the re-rendered tab when ?tab= is given,
// otherwise with the JSON record.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		h.renderTab(w, r, tab)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) renderTab(w http.ResponseWriter, r *http.Request, tab string) {
	ctx := r.Context()
	var buf bytes.Buffer
	if err := views.Render(ctx, &buf, tab, h.store.Snapshot()); err != nil {
		h.logger.ErrorContext(ctx, "failed to render tab",
			"request_id", middleware.GetRequestID(ctx),
			"tab", tab,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handler) writeEditError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidPath) {
		h.logger.WarnContext(ctx, "rejected edit",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, httputil.BadRequest(err.Error()))
		return
	}
	h.logger.ErrorContext(ctx, "edit failed",
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}

func (h *Handler) badBody(ctx context.Context, w http.ResponseWriter, err error) {
	h.logger.WarnContext(ctx, "invalid request body",
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, httputil.BadRequest("invalid request body"))
}

func (h *Handler) asset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, name)
	}
}

// rawValue turns a JSON string or number into the raw form value the store
// coerces. Numbers keep their literal text.
func rawValue(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", nil
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if v[0] == '{' || v[0] == '[' {
		return "", errors.New("value must be a string or number")
	}
	return string(v), nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
