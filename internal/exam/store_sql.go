package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/grading"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver, now: time.Now}
}

func (s *SQLStore) PutBlueprint(ctx context.Context, bp blueprint.ExamBlueprint) (blueprint.ExamBlueprint, error) {
	bp.CreatedAt = 0
	if bp.ID != "" {
		var (
			created int64
			author  string
		)
		err := s.db.QueryRowContext(ctx, `SELECT created_at, created_by FROM blueprints WHERE id=$1`, bp.ID).Scan(&created, &author)
		switch {
		case err == nil:
			bp.CreatedAt, bp.CreatedBy = created, author
		case !errors.Is(err, sql.ErrNoRows):
			return blueprint.ExamBlueprint{}, errors.Wrap(err, "lookup blueprint")
		}
	}
	bp = withIDs(bp, s.now())
	sj, err := json.Marshal(bp.Sections)
	if err != nil {
		return blueprint.ExamBlueprint{}, errors.Wrap(err, "marshal sections")
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO blueprints
		(id,title,exam_type,total_marks,duration_minutes,sections_json,created_by,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, exam_type=EXCLUDED.exam_type,
			total_marks=EXCLUDED.total_marks, duration_minutes=EXCLUDED.duration_minutes,
			sections_json=EXCLUDED.sections_json, updated_at=EXCLUDED.updated_at`,
		bp.ID, bp.Title, bp.ExamType, bp.TotalMarks, bp.DurationMinutes, string(sj), bp.CreatedBy, bp.CreatedAt, bp.UpdatedAt)
	if err != nil {
		return blueprint.ExamBlueprint{}, errors.Wrap(err, "upsert blueprint")
	}
	return bp, nil
}

func (s *SQLStore) GetBlueprint(ctx context.Context, id string) (blueprint.ExamBlueprint, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,exam_type,total_marks,duration_minutes,sections_json,created_by,created_at,updated_at
		FROM blueprints WHERE id=$1`, id)
	var bp blueprint.ExamBlueprint
	var sj string
	if err := row.Scan(&bp.ID, &bp.Title, &bp.ExamType, &bp.TotalMarks, &bp.DurationMinutes, &sj, &bp.CreatedBy, &bp.CreatedAt, &bp.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return blueprint.ExamBlueprint{}, ErrNotFound
		}
		return blueprint.ExamBlueprint{}, errors.Wrap(err, "get blueprint")
	}
	if err := json.Unmarshal([]byte(sj), &bp.Sections); err != nil {
		return blueprint.ExamBlueprint{}, errors.Wrap(err, "decode sections")
	}
	return bp, nil
}

func (s *SQLStore) ListBlueprints(ctx context.Context, opts ListOpts) ([]Summary, error) {
	opts = normalizeList(opts)
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,exam_type,total_marks,duration_minutes,sections_json,created_by,updated_at
		FROM blueprints
		WHERE ($1 = '' OR LOWER(title) LIKE $2)
		  AND ($3 = '' OR LOWER(exam_type) = $3)
		ORDER BY updated_at DESC, id ASC
		LIMIT $4 OFFSET $5`,
		opts.Q, "%"+strings.ToLower(strings.TrimSpace(opts.Q))+"%",
		strings.ToLower(strings.TrimSpace(opts.ExamType)), opts.Limit, opts.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "list blueprints")
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sm       Summary
			sj       string
			sections []json.RawMessage
		)
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.ExamType, &sm.TotalMarks, &sm.DurationMinutes, &sj, &sm.CreatedBy, &sm.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan blueprint")
		}
		if err := json.Unmarshal([]byte(sj), &sections); err == nil {
			sm.SectionCount = len(sections)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveResults(ctx context.Context, blueprintID string, idx int, results []grading.StudentResult) (err error) {
	if _, err := SectionAt(ctx, s, blueprintID, idx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	now := s.now().Unix()
	for _, r := range results {
		buf, mErr := json.Marshal(r.Result)
		if mErr != nil {
			return errors.Wrap(mErr, "marshal result")
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO section_results
			(blueprint_id,section_index,student_id,total_marks,percentage,result_json,computed_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (blueprint_id,section_index,student_id) DO UPDATE SET
				total_marks=EXCLUDED.total_marks, percentage=EXCLUDED.percentage,
				result_json=EXCLUDED.result_json, computed_at=EXCLUDED.computed_at`,
			blueprintID, idx, r.StudentID, r.Result.TotalMarks, r.Result.Percentage, string(buf), now); err != nil {
			return errors.Wrapf(err, "save result for %s", r.StudentID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLStore) ListResults(ctx context.Context, blueprintID string, idx int) ([]grading.StudentResult, error) {
	if _, err := s.GetBlueprint(ctx, blueprintID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT student_id,result_json FROM section_results
		WHERE blueprint_id=$1 AND section_index=$2 ORDER BY student_id`, blueprintID, idx)
	if err != nil {
		return nil, errors.Wrap(err, "list results")
	}
	defer rows.Close()
	out := []grading.StudentResult{}
	for rows.Next() {
		var (
			r  grading.StudentResult
			rj string
		)
		if err := rows.Scan(&r.StudentID, &rj); err != nil {
			return nil, errors.Wrap(err, "scan result")
		}
		if err := json.Unmarshal([]byte(rj), &r.Result); err != nil {
			return nil, errors.Wrap(err, "decode result")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
