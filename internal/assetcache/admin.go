package assetcache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"grimoire/internal/assetcache/models"
	"grimoire/pkg/platform/httputil"
)

// ControllerFactory builds a controller for version that shares the
// registration's origin, manifest and bucket store.
type ControllerFactory func(version string, skipWaiting bool) (*Controller, error)

// Admin exposes the registration lifecycle over HTTP: inspect the active and
// waiting versions, register a new version and promote the waiting one.
type Admin struct {
	registration *Registration
	build        ControllerFactory
	onActive     func(version string)
	logger       *slog.Logger
}

// NewAdmin creates the lifecycle handler. onActive, when set, is told the
// version served after every change.
func NewAdmin(registration *Registration, build ControllerFactory, logger *slog.Logger, onActive func(version string)) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	if onActive == nil {
		onActive = func(string) {}
	}
	return &Admin{registration: registration, build: build, onActive: onActive, logger: logger}
}

// Register mounts the lifecycle routes under /_edge.
func (a *Admin) Register(r chi.Router) {
	r.Route("/_edge", func(r chi.Router) {
		r.Get("/status", a.handleStatus)
		r.Post("/versions", a.handleRegister)
		r.Post("/promote", a.handlePromote)
	})
}

type controllerStatus struct {
	Version string       `json:"version"`
	State   models.State `json:"state"`
}

type statusResponse struct {
	Active  *controllerStatus `json:"active"`
	Waiting *controllerStatus `json:"waiting"`
}

type registerRequest struct {
	Version     string `json:"version"`
	SkipWaiting bool   `json:"skipWaiting"`
}

func (a *Admin) handleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, a.status())
}

func (a *Admin) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, httputil.BadRequest("invalid request body"))
		return
	}
	req.Version = strings.TrimSpace(req.Version)
	if req.Version == "" {
		httputil.WriteError(w, httputil.BadRequest("version is required"))
		return
	}
	if a.known(req.Version) {
		httputil.WriteError(w, httputil.Conflict("version already registered"))
		return
	}

	c, err := a.build(req.Version, req.SkipWaiting)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to build cache controller", "version", req.Version, "error", err)
		httputil.WriteError(w, err)
		return
	}
	// the install outlives a client that hangs up mid-precache
	a.registration.Register(context.WithoutCancel(ctx), c)
	a.activeChanged()
	httputil.WriteJSON(w, http.StatusOK, a.status())
}

func (a *Admin) handlePromote(w http.ResponseWriter, r *http.Request) {
	if err := a.registration.Promote(context.WithoutCancel(r.Context())); err != nil {
		if errors.Is(err, ErrNothingWaiting) {
			httputil.WriteError(w, httputil.Conflict(err.Error()))
			return
		}
		httputil.WriteError(w, err)
		return
	}
	a.activeChanged()
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) known(version string) bool {
	for _, c := range []*Controller{a.registration.Active(), a.registration.Waiting()} {
		if c != nil && c.Version() == version {
			return true
		}
	}
	return false
}

func (a *Admin) activeChanged() {
	if c := a.registration.Active(); c != nil {
		a.onActive(c.Version())
	}
}

func (a *Admin) status() statusResponse {
	return statusResponse{
		Active:  describe(a.registration.Active()),
		Waiting: describe(a.registration.Waiting()),
	}
}

func describe(c *Controller) *controllerStatus {
	if c == nil {
		return nil
	}
	return &controllerStatus{Version: c.Version(), State: c.State()}
}
