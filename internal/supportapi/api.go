// Package supportapi exposes severity classification, resolution drafting
// and model retraining over HTTP.
package supportapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/supportflow/internal/authmw"
	"github.com/linnemanlabs/supportflow/internal/resolution"
	"github.com/linnemanlabs/supportflow/internal/severity"
	"github.com/linnemanlabs/supportflow/internal/support"
)

// SupportService defines the business operations supportapi needs.
type SupportService interface {
	Classify(ctx context.Context, text string) (severity.Result, error)
	Suggest(ctx context.Context, text string) (*resolution.Draft, error)
	Retrain(ctx context.Context) (*support.RetrainResult, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger     log.Logger
	svc        SupportService
	adminToken string
}

// New creates a new API handler. An empty adminToken disables the admin
// routes.
func New(logger log.Logger, svc SupportService, adminToken string) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("support service is required"))
	}
	return &API{
		logger:     logger,
		svc:        svc,
		adminToken: adminToken,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/severity", a.handleSeverity)
		r.Post("/resolutions", a.handleResolution)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.BearerToken(a.adminToken, authmw.Options{OnReject: a.logReject}))
			r.Post("/retrain", a.handleRetrain)
		})
	})
}

func (a *API) logReject(r *http.Request, reason string) {
	if reason == authmw.ReasonDisabled {
		return
	}
	a.logger.Warn(r.Context(), "admin request rejected", "reason", reason, "path", r.URL.Path, "remote", r.RemoteAddr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nothing to do with errors here
	_ = json.NewEncoder(w).Encode(v)
}
