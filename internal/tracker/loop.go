package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hwerle/tagtrack/internal/device"
)

// DefaultPollInterval is the cadence of the device loop.
const DefaultPollInterval = 50 * time.Millisecond

// Loop drives the router against the peripherals. Single-threaded
// cooperative scheduling: each tick performs at most one unit of work,
// in strict priority order — pending-name host input, then one tag
// scan, then a display refresh when no confirmation is frozen on
// screen. All registry and mode mutation happens on the Run goroutine.
type Loop struct {
	router   *Router
	reader   device.TagReader
	display  device.Display
	host     device.HostLink
	clock    device.Clock
	interval time.Duration
	logger   *slog.Logger
}

// NewLoop wires a loop. A nil clock uses a boot-relative wall clock; a
// non-positive interval uses DefaultPollInterval.
func NewLoop(router *Router, reader device.TagReader, display device.Display,
	host device.HostLink, clock device.Clock, interval time.Duration,
	logger *slog.Logger) *Loop {

	if clock == nil {
		clock = device.BootClock()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		router:   router,
		reader:   reader,
		display:  display,
		host:     host,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Run shows the neutral prompt and polls until the context is canceled.
// Peripheral errors are logged and the loop keeps going; a dropped
// serial byte must not stop time accrual.
func (l *Loop) Run(ctx context.Context) error {
	l.showScreen([device.DisplayRows]string{PromptLine, ""})

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Step(); err != nil {
				l.logger.Error("loop step failed", "error", err)
			}
		}
	}
}

// Step runs exactly one loop iteration. Exported so tests and the demo
// harness can drive the loop deterministically.
func (l *Loop) Step() error {
	now := l.clock()

	if l.router.Mode().Kind == ModeAwaitingName {
		line, ok, err := l.host.ReadLine()
		if err != nil {
			return fmt.Errorf("reading host line: %w", err)
		}
		if ok {
			l.apply(l.router.HandleHostLine(now, line))
			return nil
		}
	}

	id, ok, err := l.reader.Poll()
	if err != nil {
		return fmt.Errorf("polling tag reader: %w", err)
	}
	if ok {
		l.apply(l.router.HandleScan(now, id))
		return nil
	}

	if l.router.Frozen(now) {
		return nil
	}
	if screen, ok := StatusScreen(l.router.Registry(), l.router.Mode(), now); ok {
		l.showScreen(screen)
	}
	return nil
}

func (l *Loop) apply(eff Effects) {
	if eff.Screen != nil {
		l.showScreen(*eff.Screen)
	}
	for _, line := range eff.HostLines {
		if err := l.host.WriteLine(line); err != nil {
			l.logger.Warn("host write failed", "error", err)
		}
	}
}

func (l *Loop) showScreen(screen [device.DisplayRows]string) {
	for row, text := range screen {
		if err := l.display.SetLine(row, text); err != nil {
			l.logger.Warn("display write failed", "row", row, "error", err)
		}
	}
}
