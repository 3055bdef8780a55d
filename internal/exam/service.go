package exam

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/grading"
)

type resultKey struct {
	blueprintID string
	section     int
}

type memoryStore struct {
	mu         sync.RWMutex
	blueprints map[string][]byte // JSON snapshots so callers never share slices with the store
	results    map[resultKey][]grading.StudentResult
	now        func() time.Time
}

func NewInMemoryStore() Store {
	return &memoryStore{
		blueprints: map[string][]byte{},
		results:    map[resultKey][]grading.StudentResult{},
		now:        time.Now,
	}
}

func (m *memoryStore) PutBlueprint(_ context.Context, bp blueprint.ExamBlueprint) (blueprint.ExamBlueprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bp.CreatedAt = 0
	if bp.ID != "" {
		if prev, ok := m.blueprints[bp.ID]; ok {
			var old blueprint.ExamBlueprint
			if err := json.Unmarshal(prev, &old); err == nil {
				bp.CreatedAt, bp.CreatedBy = old.CreatedAt, old.CreatedBy
			}
		}
	}
	bp = withIDs(bp, m.now())
	buf, err := json.Marshal(bp)
	if err != nil {
		return blueprint.ExamBlueprint{}, errors.Wrap(err, "marshal blueprint")
	}
	m.blueprints[bp.ID] = buf
	return bp, nil
}

func (m *memoryStore) GetBlueprint(_ context.Context, id string) (blueprint.ExamBlueprint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(id)
}

func (m *memoryStore) get(id string) (blueprint.ExamBlueprint, error) {
	buf, ok := m.blueprints[id]
	if !ok {
		return blueprint.ExamBlueprint{}, ErrNotFound
	}
	var bp blueprint.ExamBlueprint
	if err := json.Unmarshal(buf, &bp); err != nil {
		return blueprint.ExamBlueprint{}, errors.Wrap(err, "unmarshal blueprint")
	}
	return bp, nil
}

func (m *memoryStore) ListBlueprints(_ context.Context, opts ListOpts) ([]Summary, error) {
	opts = normalizeList(opts)
	q := strings.ToLower(strings.TrimSpace(opts.Q))
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.blueprints))
	for id := range m.blueprints {
		bp, err := m.get(id)
		if err != nil {
			return nil, err
		}
		if q != "" && !strings.Contains(strings.ToLower(bp.Title), q) {
			continue
		}
		if opts.ExamType != "" && !strings.EqualFold(bp.ExamType, opts.ExamType) {
			continue
		}
		out = append(out, summarize(bp))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	if opts.Offset >= len(out) {
		return []Summary{}, nil
	}
	out = out[opts.Offset:]
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) SaveResults(_ context.Context, blueprintID string, idx int, results []grading.StudentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bp, err := m.get(blueprintID)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(bp.Sections) {
		return errors.Wrapf(ErrSectionNotFound, "index %d of %s", idx, blueprintID)
	}
	key := resultKey{blueprintID, idx}
	existing := m.results[key]
	pos := make(map[string]int, len(existing))
	for i, r := range existing {
		pos[r.StudentID] = i
	}
	for _, r := range results {
		if i, ok := pos[r.StudentID]; ok {
			existing[i] = r
			continue
		}
		pos[r.StudentID] = len(existing)
		existing = append(existing, r)
	}
	m.results[key] = existing
	return nil
}

func (m *memoryStore) ListResults(_ context.Context, blueprintID string, idx int) ([]grading.StudentResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.blueprints[blueprintID]; !ok {
		return nil, ErrNotFound
	}
	rs := m.results[resultKey{blueprintID, idx}]
	out := make([]grading.StudentResult, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}
