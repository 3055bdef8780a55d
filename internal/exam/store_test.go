package exam_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
	"github.com/mind-engage/mindengage-blueprint/internal/db"
	"github.com/mind-engage/mindengage-blueprint/internal/exam"
	"github.com/mind-engage/mindengage-blueprint/internal/grading"
)

func stores(t *testing.T) map[string]exam.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return map[string]exam.Store{
		"memory": exam.NewInMemoryStore(),
		"sqlite": exam.NewSQLStore(dbh, "sqlite"),
	}
}

func TestStorePutGet(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			bp := blueprint.New(blueprint.ExamInternal, 100, 90).Scaffold()
			bp.Title = "Physics Internal 1"
			bp.CreatedBy = "teacher1"
			bp.CreatedAt = 1

			saved, err := st.PutBlueprint(ctx, bp)
			require.NoError(t, err)
			require.NotEmpty(t, saved.ID)
			assert.Greater(t, saved.CreatedAt, int64(1), "creation time is set by the store")
			for _, s := range saved.Sections {
				require.NotEmpty(t, s.ID)
				for _, q := range s.Questions {
					assert.NotEmpty(t, q.ID)
					assert.Equal(t, s.ID, q.SectionID)
				}
			}
			assert.Empty(t, bp.Sections[0].ID, "input blueprint must not be mutated")

			got, err := st.GetBlueprint(ctx, saved.ID)
			require.NoError(t, err)
			assert.Equal(t, saved, got)
			assert.Empty(t, blueprint.Validate(got))

			got.Title = "Physics Internal 1 (rev)"
			got.CreatedBy = "teacher2"
			got.CreatedAt = 1
			updated, err := st.PutBlueprint(ctx, got)
			require.NoError(t, err)
			assert.Equal(t, saved.ID, updated.ID)
			assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
			assert.Equal(t, "teacher1", updated.CreatedBy)
			stored, err := st.GetBlueprint(ctx, saved.ID)
			require.NoError(t, err)
			assert.Equal(t, updated, stored)
			assert.Equal(t, saved.Sections[1].ID, updated.Sections[1].ID)

			_, err = st.GetBlueprint(ctx, "nope")
			assert.True(t, errors.Is(err, exam.ErrNotFound), "err = %v", err)
		})
	}
}

func TestStoreList(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, typ := range []string{"internal", "quiz", "internal"} {
				bp := blueprint.New(typ, 50, 60)
				bp.Title = fmt.Sprintf("Chemistry %s %d", typ, i)
				_, err := st.PutBlueprint(ctx, bp)
				require.NoError(t, err)
			}

			all, err := st.ListBlueprints(ctx, exam.ListOpts{})
			require.NoError(t, err)
			assert.Len(t, all, 3)

			quizzes, err := st.ListBlueprints(ctx, exam.ListOpts{ExamType: "QUIZ"})
			require.NoError(t, err)
			require.Len(t, quizzes, 1)
			assert.Equal(t, 1, quizzes[0].SectionCount)

			byTitle, err := st.ListBlueprints(ctx, exam.ListOpts{Q: "internal 2"})
			require.NoError(t, err)
			require.Len(t, byTitle, 1)
			assert.Equal(t, "Chemistry internal 2", byTitle[0].Title)

			page, err := st.ListBlueprints(ctx, exam.ListOpts{Limit: 2, Offset: 2})
			require.NoError(t, err)
			assert.Len(t, page, 1)
		})
	}
}

func TestStoreResults(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := st.PutBlueprint(ctx, blueprint.New(blueprint.ExamInternal, 100, 90))
			require.NoError(t, err)

			sec, err := exam.SectionAt(ctx, st, saved.ID, 1)
			require.NoError(t, err)
			results, err := grading.ComputeBulk(sec, []grading.StudentAnswer{
				{StudentID: "s2", AnsweredQuestion: grading.AnsweredQuestion{QuestionNumber: 1, MarksObtained: 8, IsOptional: true, IsSelected: true}},
				{StudentID: "s1", AnsweredQuestion: grading.AnsweredQuestion{QuestionNumber: 1, MarksObtained: 10, IsOptional: true, IsSelected: true}},
			})
			require.NoError(t, err)
			require.NoError(t, st.SaveResults(ctx, saved.ID, 1, results))

			// re-import overwrites per student
			again, err := grading.ComputeBulk(sec, []grading.StudentAnswer{
				{StudentID: "s2", AnsweredQuestion: grading.AnsweredQuestion{QuestionNumber: 2, MarksObtained: 9, IsOptional: true, IsSelected: true}},
			})
			require.NoError(t, err)
			require.NoError(t, st.SaveResults(ctx, saved.ID, 1, again))

			got, err := st.ListResults(ctx, saved.ID, 1)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "s1", got[0].StudentID)
			assert.Equal(t, 10.0, got[0].Result.TotalMarks)
			assert.Equal(t, 9.0, got[1].Result.TotalMarks)

			err = st.SaveResults(ctx, saved.ID, 7, results)
			assert.True(t, errors.Is(err, exam.ErrSectionNotFound), "err = %v", err)

			_, err = exam.SectionAt(ctx, st, "missing", 0)
			assert.True(t, errors.Is(err, exam.ErrNotFound), "err = %v", err)
		})
	}
}
