package tracker

import (
	"fmt"

	"github.com/hwerle/tagtrack/internal/device"
)

// PromptLine is the neutral screen shown when nothing is running.
const PromptLine = "Project?"

// FormatClock renders elapsed milliseconds for the display timer line:
// zero-padded hours, minutes, and seconds ("01h 05m 09s"). Hours are
// unbounded.
func FormatClock(ms uint64) string {
	h, m, s := splitClock(ms)
	return fmt.Sprintf("%02dh %02dm %02ds", h, m, s)
}

// FormatDuration renders elapsed milliseconds for host messages,
// without padding ("0h 5m 9s").
func FormatDuration(ms uint64) string {
	h, m, s := splitClock(ms)
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

func splitClock(ms uint64) (h, m, s uint64) {
	s = (ms / 1000) % 60
	m = (ms / 60000) % 60
	h = ms / 3600000
	return h, m, s
}

// StatusScreen computes the idle-tick screen: the running project with
// its live timer, or the neutral prompt when idle. ok is false when the
// current mode owns the display (awaiting a name, deletion armed) and
// the previous screen must stay up.
func StatusScreen(reg *Registry, mode Mode, now uint64) ([device.DisplayRows]string, bool) {
	if i, active := reg.ActiveIndex(); active {
		p := reg.At(i)
		return [device.DisplayRows]string{p.Name, FormatClock(p.TotalMS(now))}, true
	}
	if mode.Kind == ModeIdle {
		return [device.DisplayRows]string{PromptLine, ""}, true
	}
	return [device.DisplayRows]string{}, false
}
