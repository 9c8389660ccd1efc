package tracker_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hwerle/tagtrack/internal/tracker"
)

func newRouter(t *testing.T, capacity int) *tracker.Router {
	t.Helper()
	return tracker.NewRouter(tracker.NewRegistry(adminTag, capacity), 0, nil)
}

func requireScreen(t *testing.T, eff tracker.Effects, line0, line1 string) {
	t.Helper()
	require.NotNil(t, eff.Screen)
	require.Equal(t, line0, eff.Screen[0])
	require.Equal(t, line1, eff.Screen[1])
}

// Scenario: an unknown tag asks the host for a name, and the host reply
// registers the project inactive with zero time.
func TestRouterRegistersUnknownTag(t *testing.T) {
	rt := newRouter(t, 10)
	tag := mustTag("aa:bb")

	eff := rt.HandleScan(0, tag)
	require.Equal(t, tracker.ModeAwaitingName, rt.Mode().Kind)
	require.Equal(t, tag, rt.Mode().PendingTag)
	require.Equal(t, []string{
		"aa:bb detected",
		"unknown tag: aa:bb",
		"enter project name:",
	}, eff.HostLines)
	requireScreen(t, eff, "Unknown tag", "-> name on host")

	eff = rt.HandleHostLine(100, "Demo\n")
	require.Equal(t, tracker.ModeIdle, rt.Mode().Kind)
	require.Equal(t, []string{"Demo added (aa:bb)"}, eff.HostLines)

	reg := rt.Registry()
	require.Equal(t, 1, reg.Len())
	p := reg.At(0)
	require.Equal(t, "Demo", p.Name)
	require.False(t, p.Active)
	require.Zero(t, p.AccumulatedMS)
}

// Scenario: touching a known tag toggles it between running and paused.
func TestRouterStartPause(t *testing.T) {
	rt := newRouter(t, 10)
	tag := mustTag("aa:bb")
	_, err := rt.Registry().Add(tag, "Demo")
	require.NoError(t, err)

	eff := rt.HandleScan(1000, tag)
	p := rt.Registry().At(0)
	require.True(t, p.Active)
	require.Equal(t, uint64(1000), p.SessionStart)
	require.Equal(t, []string{"aa:bb detected", "Demo started"}, eff.HostLines)
	requireScreen(t, eff, "Demo", "Started")

	eff = rt.HandleScan(6000, tag)
	require.False(t, p.Active)
	require.Equal(t, uint64(5000), p.AccumulatedMS)
	require.Equal(t, []string{"aa:bb detected", "Demo paused"}, eff.HostLines)
	requireScreen(t, eff, "Demo", "Paused")
}

// Scenario: starting one project pauses the other, so at most one is
// ever active.
func TestRouterMutualExclusion(t *testing.T) {
	rt := newRouter(t, 10)
	tagA, tagB := mustTag("11:11"), mustTag("22:22")
	_, err := rt.Registry().Add(tagA, "A")
	require.NoError(t, err)
	_, err = rt.Registry().Add(tagB, "B")
	require.NoError(t, err)

	rt.HandleScan(0, tagA)
	rt.HandleScan(2000, tagB)

	reg := rt.Registry()
	a, b := reg.At(0), reg.At(1)
	require.False(t, a.Active)
	require.Equal(t, uint64(2000), a.AccumulatedMS)
	require.True(t, b.Active)
	require.Equal(t, uint64(2000), b.SessionStart)

	activeCount := 0
	for _, p := range reg.Snapshot() {
		if p.Active {
			activeCount++
		}
	}
	require.Equal(t, 1, activeCount)
}

// Mutual exclusion holds after any random-ish scan sequence.
func TestRouterMutualExclusionUnderScanStream(t *testing.T) {
	rt := newRouter(t, 10)
	tags := []string{"01", "02", "03"}
	for i, s := range tags {
		_, err := rt.Registry().Add(mustTag(s), fmt.Sprintf("P%d", i))
		require.NoError(t, err)
	}

	now := uint64(0)
	for i := 0; i < 50; i++ {
		now += 137
		rt.HandleScan(now, mustTag(tags[i%len(tags)]))

		active := 0
		for _, p := range rt.Registry().Snapshot() {
			if p.Active {
				active++
			}
		}
		require.LessOrEqual(t, active, 1, "after scan %d", i)
	}
}

// Scenario: deleting a running project reports its full total,
// including the open session.
func TestRouterDeletionReportsTotal(t *testing.T) {
	rt := newRouter(t, 10)
	tag := mustTag("11:11")
	_, err := rt.Registry().Add(tag, "A")
	require.NoError(t, err)
	p := rt.Registry().At(0)
	p.AccumulatedMS = 2000
	p.Start(2000)

	rt.HandleScan(4000, adminTag)
	require.Equal(t, tracker.ModeDeletionArmed, rt.Mode().Kind)

	eff := rt.HandleScan(5000, tag)
	require.Equal(t, tracker.ModeIdle, rt.Mode().Kind)
	require.Zero(t, rt.Registry().Len())
	require.Equal(t, []string{"11:11 detected", "A deleted (0h 0m 5s)"}, eff.HostLines)
	requireScreen(t, eff, "A", "deleted")
}

func TestRouterDeletionMiss(t *testing.T) {
	rt := newRouter(t, 10)
	_, err := rt.Registry().Add(mustTag("11:11"), "A")
	require.NoError(t, err)

	rt.HandleScan(0, adminTag)
	eff := rt.HandleScan(1000, mustTag("99:99"))

	require.Equal(t, tracker.ModeIdle, rt.Mode().Kind)
	require.Equal(t, 1, rt.Registry().Len())
	require.Equal(t, []string{"99:99 detected", "unknown tag: 99:99"}, eff.HostLines)
	requireScreen(t, eff, "Not found", "")
}

// Scenario: a full registry still collects the name, then rejects the
// registration without mutating state.
func TestRouterCapacityExceeded(t *testing.T) {
	rt := newRouter(t, 2)
	_, err := rt.Registry().Add(mustTag("01"), "A")
	require.NoError(t, err)
	_, err = rt.Registry().Add(mustTag("02"), "B")
	require.NoError(t, err)

	rt.HandleScan(0, mustTag("03"))
	require.Equal(t, tracker.ModeAwaitingName, rt.Mode().Kind)

	eff := rt.HandleHostLine(100, "Overflow")
	require.Equal(t, tracker.ModeIdle, rt.Mode().Kind)
	require.Equal(t, 2, rt.Registry().Len())
	require.Equal(t, []string{"capacity exceeded"}, eff.HostLines)
	requireScreen(t, eff, "Max reached!", "")
}

// The admin tag toggles deletion mode; two touches land back where the
// mode started.
func TestRouterAdminToggleIdempotent(t *testing.T) {
	rt := newRouter(t, 10)

	eff := rt.HandleScan(0, adminTag)
	require.Equal(t, tracker.ModeDeletionArmed, rt.Mode().Kind)
	requireScreen(t, eff, "Delete mode on", "Scan project")

	eff = rt.HandleScan(100, adminTag)
	require.Equal(t, tracker.ModeIdle, rt.Mode().Kind)
	requireScreen(t, eff, "Canceled", "Back...")
}

func TestRouterIgnoresScansWhileAwaitingName(t *testing.T) {
	rt := newRouter(t, 10)
	pending := mustTag("aa:bb")
	rt.HandleScan(0, pending)

	// Project tag, admin tag: both ignored until the host answers.
	eff := rt.HandleScan(100, mustTag("cc:dd"))
	require.Empty(t, eff.HostLines)
	require.Nil(t, eff.Screen)
	eff = rt.HandleScan(200, adminTag)
	require.Empty(t, eff.HostLines)
	require.Equal(t, tracker.ModeAwaitingName, rt.Mode().Kind)
	require.Equal(t, pending, rt.Mode().PendingTag)
}

func TestRouterBlankNameReprompts(t *testing.T) {
	rt := newRouter(t, 10)
	rt.HandleScan(0, mustTag("aa:bb"))

	eff := rt.HandleHostLine(100, "   ")
	require.Equal(t, tracker.ModeAwaitingName, rt.Mode().Kind)
	require.Equal(t, []string{"enter project name:"}, eff.HostLines)

	rt.HandleHostLine(200, "Demo")
	require.Equal(t, 1, rt.Registry().Len())
}

func TestRouterIgnoresHostLineWhenIdle(t *testing.T) {
	rt := newRouter(t, 10)
	eff := rt.HandleHostLine(0, "stray")
	require.Empty(t, eff.HostLines)
	require.Zero(t, rt.Registry().Len())
}

func TestRouterFreezeWindow(t *testing.T) {
	rt := newRouter(t, 10)
	tag := mustTag("aa:bb")
	_, err := rt.Registry().Add(tag, "Demo")
	require.NoError(t, err)

	rt.HandleScan(1000, tag)
	require.True(t, rt.Frozen(1001))
	require.True(t, rt.Frozen(3999))
	require.False(t, rt.Frozen(4000))
}
