package http

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/exam"
	"github.com/mind-engage/mindengage-blueprint/internal/grading"
	"github.com/mind-engage/mindengage-blueprint/internal/metrics"
	"github.com/mind-engage/mindengage-blueprint/internal/storage"
	syncx "github.com/mind-engage/mindengage-blueprint/internal/sync"
)

// maxSheetBytes bounds an uploaded marks sheet.
const maxSheetBytes = 8 << 20

type smartMarksReq struct {
	Section blueprint.Section          `json:"section"`
	Answers []grading.AnsweredQuestion `json:"answers" validate:"dive"`
}

// POST /marks/smart
func SmartMarksHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req smartMarksReq
		if err := bind(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
		res, err := grading.ComputeSmartMarks(req.Section, req.Answers)
		if err != nil {
			m.Scored(0, err)
			respondError(w, r, err)
			return
		}
		m.Scored(1, nil)
		respondJSON(w, http.StatusOK, res)
	}
}

type importResp struct {
	BlueprintID  string                  `json:"blueprint_id"`
	SectionIndex int                     `json:"section_index"`
	Students     int                     `json:"students"`
	Sheet        string                  `json:"sheet,omitempty"`
	Results      []grading.StudentResult `json:"results"`
}

// POST /blueprints/{id}/sections/{index}/marks/import
// Accepts the sheet as a multipart "file" field or as the raw request body.
// Marks above a question's maximum are clamped before scoring. When sheets is set the
// sheet is archived as received.
func ImportMarksHandler(store exam.Store, sheets storage.SheetStore, events syncx.Appender, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		idx, err := sectionIndex(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		sec, err := exam.SectionAt(r.Context(), store, id, idx)
		if err != nil {
			respondError(w, r, err)
			return
		}

		sheet, err := readSheet(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		rows, err := grading.ParseAnswersCSV(bytes.NewReader(sheet))
		if err != nil {
			respondError(w, r, blueprint.NewValidationError(errors.Wrap(err, "bad csv")))
			return
		}
		for i := range rows {
			max := rows[i].MaxMarks
			if max <= 0 {
				max = sec.QuestionMarks
			}
			rows[i].MarksObtained = grading.ClampMarks(rows[i].MarksObtained, max)
		}

		results, err := grading.ComputeBulk(sec, rows)
		m.Scored(len(results), err)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if err := store.SaveResults(r.Context(), id, idx, results); err != nil {
			respondError(w, r, err)
			return
		}
		var ref string
		if sheets != nil {
			key := storage.SheetKey{BlueprintID: id, SectionIndex: idx, ReceivedAt: time.Now()}
			if ref, err = sheets.PutSheet(key, bytes.NewReader(sheet)); err != nil {
				log.Printf("archive sheet %s: %v", key.Path(), err)
			}
		}
		audit(r.Context(), events, syncx.TypeSmartMarksComputed, id+"/"+strconv.Itoa(idx), map[string]interface{}{
			"section":  sec.Name,
			"students": len(results),
			"sheet":    ref,
		})
		respondJSON(w, http.StatusOK, importResp{
			BlueprintID:  id,
			SectionIndex: idx,
			Students:     len(results),
			Sheet:        ref,
			Results:      results,
		})
	}
}

// GET /blueprints/{id}/sections/{index}/marks
func ListMarksHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := sectionIndex(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		list, err := store.ListResults(r.Context(), chi.URLParam(r, "id"), idx)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func sectionIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, blueprint.NewValidationError(errors.New("invalid section index"),
			blueprint.FieldError{Field: "index", Error: "must be a non-negative integer, got " + strconv.Quote(raw)})
	}
	return idx, nil
}

func readSheet(r *http.Request) ([]byte, error) {
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxSheetBytes); err != nil {
			return nil, blueprint.NewValidationError(errors.Wrap(err, "bad multipart body"))
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, blueprint.NewValidationError(errors.New("missing file field: file"))
		}
		defer f.Close()
		src = f
	}
	// One byte past the limit tells a full sheet from a truncated one.
	buf, err := io.ReadAll(io.LimitReader(src, maxSheetBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read sheet")
	}
	if len(buf) > maxSheetBytes {
		return nil, blueprint.NewValidationError(errors.Errorf("marks sheet exceeds %d bytes", maxSheetBytes))
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, blueprint.NewValidationError(errors.New("empty marks sheet"))
	}
	return buf, nil
}
