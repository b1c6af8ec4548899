package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdook/engage/pkg/db"
	"github.com/hackdook/engage/pkg/engage"
	hderrors "github.com/hackdook/engage/pkg/errors"
	"github.com/hackdook/engage/pkg/logging"
)

// testPool connects to the database named by DATABASE_URL, or skips the test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping live database test")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()))
	require.NoError(t, db.SyncSchema(context.Background(), pool))

	return pool
}

func TestCreateSession_RejectsNegativeWeek(t *testing.T) {
	repo := NewRepository(nil, logging.NewNopLogger())

	_, _, err := repo.CreateSession(context.Background(), -1, nil)
	require.Error(t, err)
	assert.True(t, hderrors.IsValidation(err))
}

func TestCreateSession_RejectsNegativeCounts(t *testing.T) {
	repo := NewRepository(nil, logging.NewNopLogger())

	_, _, err := repo.CreateSession(context.Background(), 3, map[string]engage.Tally{
		"Alex": {TranscriptLines: -1, ChatCount: 0},
	})
	require.Error(t, err)
	assert.True(t, hderrors.IsValidation(err))
}

func TestCreateSession_RoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	input := map[string]engage.Tally{
		"Alex":   {TranscriptLines: 2, ChatCount: 1},
		"Jordan": {TranscriptLines: 1, ChatCount: 0},
	}

	session, created, err := repo.CreateSession(ctx, 9001, input)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 9001, session.WeekNumber)
	assert.False(t, session.CreatedAt.IsZero())
	assert.Len(t, created, 2)

	got, tallies, err := repo.GetEngagementByWeek(ctx, 9001)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	// Tallies must round-trip as a set of {name, counts}.
	byName := make(map[string]engage.Tally, len(tallies))
	for _, tally := range tallies {
		assert.Equal(t, session.ID, tally.SessionID)
		byName[tally.Name] = engage.Tally{
			TranscriptLines: tally.TranscriptLines,
			ChatCount:       tally.ChatCount,
		}
	}
	assert.Equal(t, input, byName)
}

func TestCreateSession_DuplicateWeeksAreIndependent(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	first, _, err := repo.CreateSession(ctx, 9002, map[string]engage.Tally{
		"Alex": {TranscriptLines: 1},
	})
	require.NoError(t, err)

	second, _, err := repo.CreateSession(ctx, 9002, map[string]engage.Tally{
		"Priya": {ChatCount: 4},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Most recent upload wins on read.
	got, tallies, err := repo.GetEngagementByWeek(ctx, 9002)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	require.Len(t, tallies, 1)
	assert.Equal(t, "Priya", tallies[0].Name)
}

func TestGetEngagementByWeek_NotFound(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool, logging.NewNopLogger())

	_, _, err := repo.GetEngagementByWeek(context.Background(), -987654)
	require.Error(t, err)
	assert.True(t, hderrors.IsNotFound(err))
}

func TestListWeeks(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	_, _, err := repo.CreateSession(ctx, 9003, map[string]engage.Tally{"A": {ChatCount: 1}})
	require.NoError(t, err)

	weeks, err := repo.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Contains(t, weeks, 9003)
}
