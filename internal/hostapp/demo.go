package hostapp

import (
	"context"
	"log/slog"
	"time"

	"github.com/hwerle/tagtrack/internal/device"
	"github.com/hwerle/tagtrack/internal/device/sim"
	"github.com/hwerle/tagtrack/internal/tracker"
)

// Demo embeds a complete device loop in the host process, wired over an
// in-memory link. It stands in for real hardware: the UI presents tags
// to its reader and renders its panel next to the live table.
type Demo struct {
	adminTag device.TagID
	reader   *sim.Reader
	display  *sim.Display
	hostEnd  *sim.Link
	loop     *tracker.Loop
}

// NewDemo builds the embedded device.
func NewDemo(adminTag device.TagID, capacity int, freeze, interval time.Duration, logger *slog.Logger) *Demo {
	reader := sim.NewReader()
	display := sim.NewDisplay(nil)
	deviceEnd, hostEnd := sim.NewLinkPair()

	registry := tracker.NewRegistry(adminTag, capacity)
	router := tracker.NewRouter(registry, freeze, logger)
	loop := tracker.NewLoop(router, reader, display, deviceEnd, nil, interval, logger)

	return &Demo{
		adminTag: adminTag,
		reader:   reader,
		display:  display,
		hostEnd:  hostEnd,
		loop:     loop,
	}
}

// Start runs the device loop until the context is canceled.
func (d *Demo) Start(ctx context.Context) {
	go d.loop.Run(ctx)
}

// Link returns the host end of the device link.
func (d *Demo) Link() device.HostLink { return d.hostEnd }

// AdminTag returns the embedded device's admin identifier.
func (d *Demo) AdminTag() device.TagID { return d.adminTag }

// Present simulates touching a tag to the reader.
func (d *Demo) Present(id device.TagID) { d.reader.Present(id) }

// Panel returns the simulated 16x2 display contents.
func (d *Demo) Panel() [device.DisplayRows]string { return d.display.Snapshot() }
