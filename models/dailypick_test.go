package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"nikodex/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLocker struct {
	acquired int
	released int
	fail     bool
}

func (l *countingLocker) Acquire(context.Context, string, time.Duration, time.Duration) (func(), error) {
	if l.fail {
		return nil, errors.New("redis down")
	}
	l.acquired++
	return func() { l.released++ }, nil
}

func TestNextMidnight(t *testing.T) {
	utc := time.UTC
	assert.Equal(t,
		time.Date(2024, 3, 11, 0, 0, 0, 0, utc),
		nextMidnight(time.Date(2024, 3, 10, 23, 59, 59, 0, utc), utc))
	assert.Equal(t,
		time.Date(2024, 3, 11, 0, 0, 0, 0, utc),
		nextMidnight(time.Date(2024, 3, 10, 0, 0, 0, 0, utc), utc))
	assert.Equal(t,
		time.Date(2025, 1, 1, 0, 0, 0, 0, utc),
		nextMidnight(time.Date(2024, 12, 31, 12, 0, 0, 0, utc), utc))

	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC is already the next day in Tokyo
	assert.Equal(t,
		time.Date(2024, 3, 12, 0, 0, 0, 0, tokyo),
		nextMidnight(time.Date(2024, 3, 10, 20, 0, 0, 0, utc), tokyo))
}

func TestDailyPick_Empty(t *testing.T) {
	setup(t)
	_, _, err := DailyPickCurrent(context.Background())
	assert.ErrorIs(t, err, ErrNoPick)
	assert.NoError(t, RollDailyPick(context.Background()))
}

func TestDailyPick_SameDaySamePick(t *testing.T) {
	setup(t)
	for i := 0; i < 5; i++ {
		createNiko(t, userName(i), nil)
	}
	now := setNow(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	first, refresh, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), refresh.UTC())

	*now = now.Add(14 * time.Hour)
	second, refresh2, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, refresh, refresh2)

	var rows int64
	require.NoError(t, db.Instance.Model(&DailyPick{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestDailyPick_CyclesWithoutRepeats(t *testing.T) {
	setup(t)
	const total = 4
	for i := 0; i < total; i++ {
		createNiko(t, userName(i), nil)
	}
	now := setNow(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	seen := map[uint64]bool{}
	for day := 0; day < total; day++ {
		n, _, err := DailyPickCurrent(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[n.ID], "niko %d repeated before the cycle ended", n.ID)
		seen[n.ID] = true
		*now = now.Add(24 * time.Hour)
	}
	assert.Len(t, seen, total)

	// Everything has been featured, the history resets instead of locking out
	n, _, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	assert.True(t, seen[n.ID])
	var rows int64
	require.NoError(t, db.Instance.Model(&DailyPick{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestDailyPick_DeletedPickIsReplaced(t *testing.T) {
	setup(t)
	admin := createUser(t, "admin", true)
	createNiko(t, "a", nil)
	createNiko(t, "b", nil)
	setNow(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	picked, _, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	_, err = NikoDelete(admin, picked.ID)
	require.NoError(t, err)

	replacement, _, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, picked.ID, replacement.ID)
}

func TestDailyPick_UsesLock(t *testing.T) {
	setup(t)
	createNiko(t, "a", nil)
	now := setNow(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	locker := &countingLocker{}
	PickLocker = locker

	_, _, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	_, _, err = DailyPickCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, locker.acquired, "a fresh pick must not take the lock")
	assert.Equal(t, 1, locker.released)

	// A broken lock does not block the rotation
	locker.fail = true
	*now = now.Add(24 * time.Hour)
	n, _, err := DailyPickCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", n.Name)
}
