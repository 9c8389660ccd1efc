package tracker

import "github.com/hwerle/tagtrack/internal/device"

// Project is one registered tag with its elapsed-time bookkeeping.
// AccumulatedMS holds completed sessions only; the running session is
// added on read by TotalMS. All timestamps are milliseconds since boot
// and are subtracted with unsigned arithmetic, so a single clock wrap
// self-corrects as long as no session spans the full wrap period.
type Project struct {
	ID            string
	Tag           device.TagID
	Name          string
	Active        bool
	SessionStart  uint64
	AccumulatedMS uint64
}

// Start opens a session. No-op while already active; the registry
// enforces mutual exclusion before this is called.
func (p *Project) Start(now uint64) {
	if p.Active {
		return
	}
	p.SessionStart = now
	p.Active = true
}

// Pause closes the running session and banks its duration. No-op while
// inactive.
func (p *Project) Pause(now uint64) {
	if !p.Active {
		return
	}
	p.AccumulatedMS += now - p.SessionStart
	p.Active = false
	p.SessionStart = 0
}

// TotalMS returns the total elapsed time including the running session.
// Pure read, no mutation.
func (p *Project) TotalMS(now uint64) uint64 {
	if !p.Active {
		return p.AccumulatedMS
	}
	return p.AccumulatedMS + (now - p.SessionStart)
}
