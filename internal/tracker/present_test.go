package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hwerle/tagtrack/internal/tracker"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		ms   uint64
		want string
	}{
		{0, "00h 00m 00s"},
		{999, "00h 00m 00s"},
		{5000, "00h 00m 05s"},
		{65000, "00h 01m 05s"},
		{3600000, "01h 00m 00s"},
		{3723000, "01h 02m 03s"},
		{360000000, "100h 00m 00s"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tracker.FormatClock(tt.ms))
	}
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "0h 0m 5s", tracker.FormatDuration(5000))
	require.Equal(t, "1h 2m 3s", tracker.FormatDuration(3723000))
}

func TestStatusScreenActiveProject(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)
	i, err := reg.Add(mustTag("aa:bb"), "Demo")
	require.NoError(t, err)
	reg.At(i).Start(1000)

	screen, ok := tracker.StatusScreen(reg, tracker.Mode{Kind: tracker.ModeIdle}, 66000)
	require.True(t, ok)
	require.Equal(t, "Demo", screen[0])
	require.Equal(t, "00h 01m 05s", screen[1])
}

func TestStatusScreenIdlePrompt(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)
	screen, ok := tracker.StatusScreen(reg, tracker.Mode{Kind: tracker.ModeIdle}, 0)
	require.True(t, ok)
	require.Equal(t, tracker.PromptLine, screen[0])
	require.Equal(t, "", screen[1])
}

func TestStatusScreenModeOwnsDisplay(t *testing.T) {
	reg := tracker.NewRegistry(adminTag, 10)

	_, ok := tracker.StatusScreen(reg, tracker.Mode{Kind: tracker.ModeAwaitingName}, 0)
	require.False(t, ok)
	_, ok = tracker.StatusScreen(reg, tracker.Mode{Kind: tracker.ModeDeletionArmed}, 0)
	require.False(t, ok)
}
