package exam

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/grading"
)

var (
	ErrNotFound        = errors.New("blueprint not found")
	ErrSectionNotFound = errors.New("section not found")
)

type ListOpts struct {
	Q        string // case-insensitive match on title
	ExamType string
	Limit    int
	Offset   int
}

type Store interface {
	// PutBlueprint inserts or replaces a blueprint, assigning missing IDs. Creation time
	// is set by the store, and an update keeps the stored author and creation time.
	PutBlueprint(ctx context.Context, bp blueprint.ExamBlueprint) (blueprint.ExamBlueprint, error)
	GetBlueprint(ctx context.Context, id string) (blueprint.ExamBlueprint, error)
	ListBlueprints(ctx context.Context, opts ListOpts) ([]Summary, error)

	// SaveResults upserts per-student results of one section, keyed by student.
	SaveResults(ctx context.Context, blueprintID string, sectionIndex int, results []grading.StudentResult) error
	ListResults(ctx context.Context, blueprintID string, sectionIndex int) ([]grading.StudentResult, error)
}

// SectionAt returns the section at index idx of a stored blueprint.
func SectionAt(ctx context.Context, s Store, blueprintID string, idx int) (blueprint.Section, error) {
	bp, err := s.GetBlueprint(ctx, blueprintID)
	if err != nil {
		return blueprint.Section{}, err
	}
	if idx < 0 || idx >= len(bp.Sections) {
		return blueprint.Section{}, errors.Wrapf(ErrSectionNotFound, "index %d of %s", idx, blueprintID)
	}
	return bp.Sections[idx], nil
}

func normalizeList(opts ListOpts) ListOpts {
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
