package tracker

import "github.com/hwerle/tagtrack/internal/device"

// ModeKind enumerates the tracker's process-wide modes. Exactly one
// holds at a time; modeling the old waiting/deleting flag pair as one
// variant type makes the illegal combination unrepresentable.
type ModeKind int

const (
	// ModeIdle is the resting state: scans start, pause, or enroll.
	ModeIdle ModeKind = iota
	// ModeAwaitingName waits for the host to name a new tag.
	ModeAwaitingName
	// ModeDeletionArmed deletes the next recognized project tag.
	ModeDeletionArmed
)

func (k ModeKind) String() string {
	switch k {
	case ModeIdle:
		return "idle"
	case ModeAwaitingName:
		return "awaiting-name"
	case ModeDeletionArmed:
		return "deletion-armed"
	default:
		return "unknown"
	}
}

// Mode is the current tracker mode. PendingTag is meaningful only while
// Kind is ModeAwaitingName.
type Mode struct {
	Kind       ModeKind
	PendingTag device.TagID
}

func idleMode() Mode          { return Mode{Kind: ModeIdle} }
func deletionArmedMode() Mode { return Mode{Kind: ModeDeletionArmed} }

func awaitingName(t device.TagID) Mode {
	return Mode{Kind: ModeAwaitingName, PendingTag: t}
}
