package http

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-blueprint/internal/auth/middleware"
	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/exam"
	"github.com/mind-engage/mindengage-blueprint/internal/metrics"
	syncx "github.com/mind-engage/mindengage-blueprint/internal/sync"
)

type generateReq struct {
	ExamType        string  `json:"exam_type" validate:"required"`
	TotalMarks      float64 `json:"total_marks" validate:"gt=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0"`
	Title           string  `json:"title"`
	Scaffold        bool    `json:"scaffold,omitempty"` // pre-fill question skeletons
}

type generateResp struct {
	Blueprint blueprint.ExamBlueprint `json:"blueprint"`
	Issues    blueprint.Issues        `json:"issues"`
}

// POST /blueprints/generate
func GenerateBlueprintHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateReq
		if err := bind(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
		bp := blueprint.New(req.ExamType, req.TotalMarks, req.DurationMinutes)
		bp.Title = strings.TrimSpace(req.Title)
		if req.Scaffold {
			bp = bp.Scaffold()
		}
		issues := blueprint.Validate(bp)
		m.Generated(bp.ExamType)
		m.Issues(issues)
		respondJSON(w, http.StatusOK, generateResp{Blueprint: bp, Issues: issues})
	}
}

type validateResp struct {
	Valid  bool             `json:"valid"`
	Issues blueprint.Issues `json:"issues"`
}

// POST /blueprints/validate
func ValidateBlueprintHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bp blueprint.ExamBlueprint
		if err := bind(r, &bp); err != nil {
			respondError(w, r, err)
			return
		}
		issues := blueprint.Validate(bp)
		m.Issues(issues)
		respondJSON(w, http.StatusOK, validateResp{Valid: len(issues) == 0, Issues: issues})
	}
}

// POST /blueprints[?force=true]
// A blueprint with issues is refused with 422 unless forced and allowForce is set.
func SaveBlueprintHandler(store exam.Store, events syncx.Appender, m *metrics.Metrics, allowForce bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bp blueprint.ExamBlueprint
		if err := bind(r, &bp); err != nil {
			respondError(w, r, err)
			return
		}
		issues := blueprint.Validate(bp)
		m.Issues(issues)
		force := allowForce && r.URL.Query().Get("force") == "true"
		if len(issues) > 0 && !force {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  issues.Err().Error(),
				"issues": issues,
			})
			return
		}
		// Authorship comes from the token only; the store keeps the first author on updates.
		p, _ := authmw.PrincipalFrom(r.Context())
		bp.CreatedBy = p.Subject
		saved, err := store.PutBlueprint(r.Context(), bp)
		if err != nil {
			respondError(w, r, err)
			return
		}
		audit(r.Context(), events, syncx.TypeBlueprintSaved, saved.ID, map[string]interface{}{
			"title":     saved.Title,
			"exam_type": saved.ExamType,
			"by":        p.Subject,
			"forced":    len(issues) > 0,
		})
		respondJSON(w, http.StatusCreated, saved)
	}
}

// GET /blueprints?q=&exam_type=&limit=&offset=
func ListBlueprintsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := store.ListBlueprints(r.Context(), exam.ListOpts{
			Q:        strings.TrimSpace(q.Get("q")),
			ExamType: q.Get("exam_type"),
			Limit:    parseIntDefault(q.Get("limit"), 50),
			Offset:   parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GET /blueprints/{id}
func GetBlueprintHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bp, err := store.GetBlueprint(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, bp)
	}
}

// GET /audit/events?after=&limit=
func AuditEventsHandler(events syncx.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := events.Since(r.Context(), int64(parseIntDefault(q.Get("after"), 0)), parseIntDefault(q.Get("limit"), 100))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// audit records an event; a failing event log never fails the request.
func audit(ctx context.Context, events syncx.Appender, typ, key string, payload interface{}) {
	if events == nil {
		return
	}
	e, err := syncx.NewEvent(typ, key, payload)
	if err == nil {
		err = events.Append(ctx, e)
	}
	if err != nil {
		log.Printf("audit %s %s: %v", typ, key, err)
	}
}
