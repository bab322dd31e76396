//go:build integration_test || all_tests

package profile

import (
	"testing"

	testingpkg "github.com/2beens/gymprofile/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Integration(t *testing.T) {
	ctx, rdb := testingpkg.GetRedisClientAndCtx(t)
	store := NewRedisStore(rdb)

	userID := "integration-user"
	require.NoError(t, rdb.Del(ctx, profileKey(userID)).Err())
	t.Cleanup(func() {
		rdb.Del(ctx, profileKey(userID))
	})

	_, err := store.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, store.UpsertMerge(ctx, userID, FullPatch(RecomputeProfile(benchLogs()))))
	require.NoError(t, store.UpsertMerge(ctx, userID, Patch{
		LastWorkedByExercise: map[string]string{"Squat": "2025-02-01"},
	}))

	p, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Squat": "2025-02-01"}, p.LastWorkedByExercise)
	assert.Equal(t, map[string]string{"Upper Body Push": "2025-01-05"}, p.LastWorkedByCategory)
	assert.Equal(t, OneRepMax{Value: 100, Reps: 10, Date: "2025-01-01"}, p.OneRepMaxByExercise["Bench"])
}
