package http

import (
	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-blueprint/internal/auth/middleware"
	"github.com/mind-engage/mindengage-blueprint/internal/exam"
	"github.com/mind-engage/mindengage-blueprint/internal/metrics"
	"github.com/mind-engage/mindengage-blueprint/internal/rbac"
	"github.com/mind-engage/mindengage-blueprint/internal/storage"
	syncx "github.com/mind-engage/mindengage-blueprint/internal/sync"
)

// EventLog is the audit log the API appends to and serves.
type EventLog interface {
	syncx.Appender
	syncx.Reader
}

type Deps struct {
	Store      exam.Store
	Events     EventLog
	Sheets     storage.SheetStore // optional
	Metrics    *metrics.Metrics
	Auth       *authmw.AuthService
	RBAC       *rbac.Checker
	AllowForce bool
}

// Mount registers the protected API on r: JWT first, then a permission per route.
func Mount(r chi.Router, d Deps) {
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.Route("/blueprints", func(br chi.Router) {
			br.With(d.RBAC.Require(rbac.PermBlueprintAuthor)).
				Post("/generate", GenerateBlueprintHandler(d.Metrics))
			br.With(d.RBAC.Require(rbac.PermBlueprintAuthor)).
				Post("/validate", ValidateBlueprintHandler(d.Metrics))
			br.With(d.RBAC.Require(rbac.PermBlueprintAuthor)).
				Post("/", SaveBlueprintHandler(d.Store, d.Events, d.Metrics, d.AllowForce))
			br.With(d.RBAC.Require(rbac.PermBlueprintView)).
				Get("/", ListBlueprintsHandler(d.Store))
			br.With(d.RBAC.Require(rbac.PermBlueprintView)).
				Get("/{id}", GetBlueprintHandler(d.Store))

			br.With(d.RBAC.Require(rbac.PermMarksCompute)).
				Post("/{id}/sections/{index}/marks/import", ImportMarksHandler(d.Store, d.Sheets, d.Events, d.Metrics))
			br.With(d.RBAC.Require(rbac.PermMarksView)).
				Get("/{id}/sections/{index}/marks", ListMarksHandler(d.Store))
		})

		pr.With(d.RBAC.Require(rbac.PermMarksCompute)).
			Post("/marks/smart", SmartMarksHandler(d.Metrics))
		pr.With(d.RBAC.Require(rbac.PermAuditView)).
			Get("/audit/events", AuditEventsHandler(d.Events))
	})
}
