package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/exam"
	"github.com/mind-engage/mindengage-blueprint/internal/grading"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Error  string                 `json:"error"`
	Fields []blueprint.FieldError `json:"fields,omitempty"`
}

// respondError maps err's cause onto a status code. Unknown causes are logged
// and reported as 500 without detail.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch cause := errors.Cause(err).(type) {
	case *blueprint.ValidationError:
		respondJSON(w, http.StatusBadRequest, errorBody{Error: cause.Error(), Fields: cause.Fields})
	case *grading.ConfigurationError:
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: cause.Error()})
	default:
		if cause == exam.ErrNotFound || cause == exam.ErrSectionNotFound {
			respondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
			return
		}
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
