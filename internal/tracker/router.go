package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hwerle/tagtrack/internal/device"
)

// DefaultFreeze is how long a confirmation screen stays up before the
// live timer may overwrite it.
const DefaultFreeze = 3 * time.Second

// Effects is what one event asks the loop to do. The router itself
// performs no I/O. A nil Screen leaves the display untouched.
type Effects struct {
	Screen    *[device.DisplayRows]string
	HostLines []string
}

func (e *Effects) screen(line0, line1 string) {
	e.Screen = &[device.DisplayRows]string{line0, line1}
}

func (e *Effects) host(lines ...string) {
	e.HostLines = append(e.HostLines, lines...)
}

// Router is the tag-event state machine. It consumes one event at a
// time, mutates the registry and mode, and returns the display and
// host-link output the event produced. Not safe for concurrent use;
// the loop serializes all calls.
type Router struct {
	registry    *Registry
	mode        Mode
	freezeMS    uint64
	freezeUntil uint64
	logger      *slog.Logger
}

// NewRouter creates a router in idle mode. A non-positive freeze falls
// back to DefaultFreeze.
func NewRouter(registry *Registry, freeze time.Duration, logger *slog.Logger) *Router {
	if freeze <= 0 {
		freeze = DefaultFreeze
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{
		registry: registry,
		mode:     idleMode(),
		freezeMS: uint64(freeze.Milliseconds()),
		logger:   logger,
	}
}

// Mode returns the current tracker mode.
func (rt *Router) Mode() Mode { return rt.mode }

// Registry returns the registry the router drives.
func (rt *Router) Registry() *Registry { return rt.registry }

// Frozen reports whether a recent confirmation still owns the display.
// The signed comparison of the unsigned difference keeps the check
// correct across a clock wrap.
func (rt *Router) Frozen(now uint64) bool {
	return int64(rt.freezeUntil-now) > 0
}

func (rt *Router) freeze(now uint64) {
	rt.freezeUntil = now + rt.freezeMS
}

// HandleScan runs the transition table for one tag touch.
//
// Scans that arrive while a registration is pending are ignored, admin
// tag included: the pending tag keeps its claim until the host answers.
func (rt *Router) HandleScan(now uint64, tag device.TagID) Effects {
	if rt.mode.Kind == ModeAwaitingName {
		rt.logger.Debug("scan ignored while awaiting project name",
			"tag", tag.String(), "pending", rt.mode.PendingTag.String())
		return Effects{}
	}

	var eff Effects
	eff.host(tag.String() + " detected")

	if tag == rt.registry.AdminTag() {
		rt.toggleDeletion(now, &eff)
		return eff
	}

	if rt.mode.Kind == ModeDeletionArmed {
		rt.deleteByTag(now, tag, &eff)
		return eff
	}

	if i, ok := rt.registry.Find(tag); ok {
		rt.toggleProject(now, i, &eff)
		return eff
	}

	// Unknown tag: ask the host for a name. The mode-specific screen
	// stays up on its own, no freeze needed.
	rt.mode = awaitingName(tag)
	rt.logger.Info("unknown tag, awaiting name", "tag", tag.String())
	eff.host("unknown tag: "+tag.String(), "enter project name:")
	eff.screen("Unknown tag", "-> name on host")
	return eff
}

// HandleHostLine resolves a pending registration with the name the
// operator typed. Lines arriving in any other mode are ignored. A blank
// name re-prompts and keeps the registration pending.
func (rt *Router) HandleHostLine(now uint64, line string) Effects {
	if rt.mode.Kind != ModeAwaitingName {
		rt.logger.Debug("host line ignored", "mode", rt.mode.Kind.String())
		return Effects{}
	}

	name := strings.TrimSpace(line)
	if name == "" {
		var eff Effects
		eff.host("enter project name:")
		return eff
	}

	pending := rt.mode.PendingTag
	rt.mode = idleMode()

	var eff Effects
	if _, err := rt.registry.Add(pending, name); err != nil {
		if !errors.Is(err, ErrCapacityExceeded) {
			rt.logger.Warn("registration rejected", "tag", pending.String(), "error", err)
		}
		eff.host("capacity exceeded")
		eff.screen("Max reached!", "")
		rt.freeze(now)
		return eff
	}

	rt.logger.Info("project added", "name", name, "tag", pending.String())
	eff.host(fmt.Sprintf("%s added (%s)", name, pending))
	eff.screen("Project added:", name)
	rt.freeze(now)
	return eff
}

func (rt *Router) toggleDeletion(now uint64, eff *Effects) {
	if rt.mode.Kind == ModeDeletionArmed {
		rt.mode = idleMode()
		rt.logger.Info("deletion mode disarmed")
		eff.screen("Canceled", "Back...")
	} else {
		rt.mode = deletionArmedMode()
		rt.logger.Info("deletion mode armed")
		eff.screen("Delete mode on", "Scan project")
	}
	rt.freeze(now)
}

func (rt *Router) deleteByTag(now uint64, tag device.TagID, eff *Effects) {
	rt.mode = idleMode()

	removed, err := rt.registry.RemoveByTag(tag, now)
	if errors.Is(err, ErrTagNotFound) {
		rt.logger.Info("deletion target not found", "tag", tag.String())
		eff.host("unknown tag: " + tag.String())
		eff.screen("Not found", "")
		rt.freeze(now)
		return
	}

	total := removed.TotalMS(now)
	rt.logger.Info("project deleted",
		"name", removed.Name, "tag", tag.String(), "total_ms", total)
	eff.host(fmt.Sprintf("%s deleted (%s)", removed.Name, FormatDuration(total)))
	eff.screen(removed.Name, "deleted")
	rt.freeze(now)
}

func (rt *Router) toggleProject(now uint64, i int, eff *Effects) {
	p := rt.registry.At(i)
	if !p.Active {
		rt.registry.DeactivateAll(now)
		p.Start(now)
		rt.logger.Info("project started", "name", p.Name)
		eff.host(p.Name + " started")
		eff.screen(p.Name, "Started")
	} else {
		p.Pause(now)
		rt.logger.Info("project paused", "name", p.Name, "total_ms", p.AccumulatedMS)
		eff.host(p.Name + " paused")
		eff.screen(p.Name, "Paused")
	}
	rt.freeze(now)
}
