package hostapp

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hwerle/tagtrack/internal/device"
	"github.com/hwerle/tagtrack/internal/journal"
)

// Options configures the host application.
type Options struct {
	// Link is the host end of the device link.
	Link device.HostLink
	// Store receives the event journal; nil disables journaling.
	Store *journal.Store
	// Demo, when set, is the embedded device the UI can scan tags on.
	Demo   *Demo
	Logger *slog.Logger
}

// Run starts the terminal UI and pumps device lines into it until the
// UI exits or the context is canceled.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	model := newModel(opts.Link, opts.Store, opts.Demo, opts.Logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	pumpCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go pumpLines(pumpCtx, program, opts.Link)

	_, err := program.Run()
	return err
}

// pumpLines forwards device lines to the UI. The link reads are
// non-blocking, so this polls on a short ticker instead of spinning.
func pumpLines(ctx context.Context, program *tea.Program, link device.HostLink) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for {
			line, ok, err := link.ReadLine()
			if err != nil {
				program.Send(linkErrMsg{err: err})
				return
			}
			if !ok {
				break
			}
			program.Send(deviceLineMsg(line))
		}
	}
}
