package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appaudit/playmeta/internal/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSaveAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	results := []catalog.Result{
		{
			Query: "Candy Crush",
			Kind:  catalog.ResultOK,
			Record: catalog.Record{
				AppID:     "com.king.candycrushsaga",
				Name:      "Candy Crush Saga",
				Rating:    4.35,
				HasRating: true,
				Price:     "0",
			},
		},
		{Query: "ghost", Kind: catalog.ResultNotFound},
	}

	run := Run{
		ID:         "0198f000-0000-7000-8000-000000000001",
		StartedAt:  time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC),
		InputPath:  "apps.csv",
		OutputPath: "apps_metadata_output_20260824.csv",
		Total:      2,
		Fetched:    1,
		NotFound:   1,
	}
	require.NoError(t, st.SaveRun(ctx, run, results))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, "apps.csv", got.InputPath)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Fetched)
	assert.Equal(t, 1, got.NotFound)
	assert.Equal(t, 0, got.Skipped)
}

func TestListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			ID:         string(rune('a' + i)),
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			InputPath:  "apps.csv",
			OutputPath: "out.csv",
		}
		require.NoError(t, st.SaveRun(ctx, run, nil))
	}

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
}

func TestSaveRunDuplicateID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := Run{ID: "dup", StartedAt: time.Now().UTC(), InputPath: "a", OutputPath: "b"}
	require.NoError(t, st.SaveRun(ctx, run, nil))
	assert.Error(t, st.SaveRun(ctx, run, nil))
}
