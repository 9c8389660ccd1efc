// Package hostapp implements the operator-side companion: it parses
// the device's line protocol, mirrors project state for a live table,
// journals events, and drives the terminal UI.
package hostapp

import (
	"regexp"
	"strconv"

	"github.com/hwerle/tagtrack/internal/device"
)

// EventKind classifies one device line.
type EventKind string

const (
	KindDetected EventKind = "detected"
	KindUnknown  EventKind = "unknown"
	KindPrompt   EventKind = "prompt"
	KindAdded    EventKind = "added"
	KindStarted  EventKind = "started"
	KindPaused   EventKind = "paused"
	KindDeleted  EventKind = "deleted"
	KindCapacity EventKind = "capacity"
	KindOther    EventKind = "other"
)

// DeviceEvent is one parsed device line. Tag, Project, and TotalMS are
// filled only where the line carries them.
type DeviceEvent struct {
	Kind    EventKind
	Tag     string
	Project string
	TotalMS uint64
	Raw     string
}

var (
	addedRe    = regexp.MustCompile(`^(.+) added \(([0-9a-f:]+)\)$`)
	deletedRe  = regexp.MustCompile(`^(.+) deleted \((\d+)h (\d+)m (\d+)s\)$`)
	detectedRe = regexp.MustCompile(`^([0-9a-f:]+) detected$`)
	startedRe  = regexp.MustCompile(`^(.+) started$`)
	pausedRe   = regexp.MustCompile(`^(.+) paused$`)
	unknownRe  = regexp.MustCompile(`^unknown tag: ([0-9a-f:]+)$`)
)

// ParseLine classifies one device line. Lines that match nothing are
// passed through as KindOther so they still reach the console and the
// journal.
func ParseLine(line string) DeviceEvent {
	ev := DeviceEvent{Kind: KindOther, Raw: line}

	switch line {
	case "enter project name:":
		ev.Kind = KindPrompt
		return ev
	case "capacity exceeded":
		ev.Kind = KindCapacity
		return ev
	}

	if m := unknownRe.FindStringSubmatch(line); m != nil {
		if _, err := device.ParseTagID(m[1]); err == nil {
			ev.Kind = KindUnknown
			ev.Tag = m[1]
			return ev
		}
	}
	if m := detectedRe.FindStringSubmatch(line); m != nil {
		if _, err := device.ParseTagID(m[1]); err == nil {
			ev.Kind = KindDetected
			ev.Tag = m[1]
			return ev
		}
	}
	if m := addedRe.FindStringSubmatch(line); m != nil {
		ev.Kind = KindAdded
		ev.Project = m[1]
		ev.Tag = m[2]
		return ev
	}
	if m := deletedRe.FindStringSubmatch(line); m != nil {
		ev.Kind = KindDeleted
		ev.Project = m[1]
		ev.TotalMS = clockMS(m[2], m[3], m[4])
		return ev
	}
	if m := startedRe.FindStringSubmatch(line); m != nil {
		ev.Kind = KindStarted
		ev.Project = m[1]
		return ev
	}
	if m := pausedRe.FindStringSubmatch(line); m != nil {
		ev.Kind = KindPaused
		ev.Project = m[1]
		return ev
	}
	return ev
}

func clockMS(h, m, s string) uint64 {
	hours, _ := strconv.ParseUint(h, 10, 64)
	minutes, _ := strconv.ParseUint(m, 10, 64)
	seconds, _ := strconv.ParseUint(s, 10, 64)
	return ((hours*60+minutes)*60 + seconds) * 1000
}
