package tracker_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hwerle/tagtrack/internal/tracker"
)

func TestProjectStartPause(t *testing.T) {
	p := tracker.Project{Name: "Demo"}

	p.Start(1000)
	require.True(t, p.Active)
	require.Equal(t, uint64(1000), p.SessionStart)

	p.Pause(6000)
	require.False(t, p.Active)
	require.Equal(t, uint64(5000), p.AccumulatedMS)
}

func TestProjectStartWhileActiveIsNoop(t *testing.T) {
	p := tracker.Project{Name: "Demo"}
	p.Start(1000)
	p.Start(4000)
	require.Equal(t, uint64(1000), p.SessionStart)

	p.Pause(5000)
	require.Equal(t, uint64(4000), p.AccumulatedMS)
}

func TestProjectPauseWhileInactiveIsNoop(t *testing.T) {
	p := tracker.Project{Name: "Demo", AccumulatedMS: 1234}
	p.Pause(9999)
	require.Equal(t, uint64(1234), p.AccumulatedMS)
}

func TestProjectTotalContinuity(t *testing.T) {
	p := tracker.Project{Name: "Demo"}
	p.Start(0)

	before := p.TotalMS(7500)
	p.Pause(7500)
	after := p.TotalMS(7500)

	require.Equal(t, before, after, "total must not jump across pause")
	require.Equal(t, uint64(7500), after)
}

func TestProjectTotalMonotonic(t *testing.T) {
	p := tracker.Project{Name: "Demo"}
	p.Start(100)

	var last uint64
	for now := uint64(100); now <= 5100; now += 500 {
		total := p.TotalMS(now)
		require.GreaterOrEqual(t, total, last)
		last = total
	}
}

func TestProjectElapsedAcrossClockWrap(t *testing.T) {
	// A session spanning the counter wrap still measures correctly
	// through unsigned modular subtraction.
	p := tracker.Project{Name: "Demo"}
	p.Start(math.MaxUint64 - 999)
	p.Pause(1000)
	require.Equal(t, uint64(2000), p.AccumulatedMS)
}
