// Package device defines the peripheral contracts the tracker core runs
// against: a tag reader, a two-line character display, a line-oriented
// host link, and a millisecond clock. Implementations live in the
// sub-packages; the core never talks to hardware directly.
package device

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DisplayRows and DisplayCols describe the character panel geometry.
const (
	DisplayRows = 2
	DisplayCols = 16
)

// TagID is the fixed-format identifier a reader reports for one tag.
// It holds the raw identifier bytes and compares by exact equality.
type TagID string

// String renders the identifier as lowercase hex with colon separators,
// the conventional form for logs and host messages ("74:8a:71:16").
func (t TagID) String() string {
	if len(t) == 0 {
		return ""
	}
	parts := make([]string, len(t))
	for i := 0; i < len(t); i++ {
		parts[i] = hex.EncodeToString([]byte{t[i]})
	}
	return strings.Join(parts, ":")
}

// IsZero reports whether the identifier is empty.
func (t TagID) IsZero() bool { return len(t) == 0 }

// ParseTagID parses the colon-separated hex form produced by String.
func ParseTagID(s string) (TagID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty tag id")
	}
	parts := strings.Split(s, ":")
	raw := make([]byte, 0, len(parts))
	for _, part := range parts {
		b, err := hex.DecodeString(part)
		if err != nil || len(b) != 1 {
			return "", fmt.Errorf("invalid tag id %q", s)
		}
		raw = append(raw, b[0])
	}
	return TagID(raw), nil
}

// TagReader yields at most one tag scan per poll. Poll never blocks;
// ok is false when no tag is present at the reader.
type TagReader interface {
	Poll() (id TagID, ok bool, err error)
}

// Display is a two-line character panel. SetLine overwrites a full row;
// implementations space-pad short text to DisplayCols so no stale
// characters survive a rewrite.
type Display interface {
	SetLine(row int, text string) error
	Clear() error
}

// HostLink carries newline-terminated text between device and host.
// ReadLine never blocks; ok is false when no complete line is buffered.
type HostLink interface {
	ReadLine() (line string, ok bool, err error)
	WriteLine(line string) error
}

// Clock reports milliseconds since boot. The counter is monotonic;
// consumers subtract readings with unsigned arithmetic, so a single
// wrap self-corrects as long as no session spans the full wrap period.
type Clock func() uint64

// BootClock returns a Clock counting from the moment it is created.
func BootClock() Clock {
	start := time.Now()
	return func() uint64 {
		return uint64(time.Since(start).Milliseconds())
	}
}

// PadLine space-pads or truncates text to the full display width.
func PadLine(text string) string {
	if len(text) > DisplayCols {
		return text[:DisplayCols]
	}
	return text + strings.Repeat(" ", DisplayCols-len(text))
}
