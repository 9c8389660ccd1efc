// Package sim provides in-memory peripheral implementations: a
// channel-fed tag reader, a snapshotting display, paired host links,
// and a hand-cranked clock. They back the package tests, trackerd's
// script mode, and the host application's demo mode.
package sim

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/hwerle/tagtrack/internal/device"
)

// Reader is a TagReader fed by Present. It buffers scans so a test or
// simulator can queue several touches ahead of the loop.
type Reader struct {
	scans chan device.TagID
}

// NewReader creates a Reader with room for buffered scans.
func NewReader() *Reader {
	return &Reader{scans: make(chan device.TagID, 16)}
}

// Present queues one tag touch.
func (r *Reader) Present(id device.TagID) {
	r.scans <- id
}

// Poll returns the next queued scan, if any.
func (r *Reader) Poll() (device.TagID, bool, error) {
	select {
	case id := <-r.scans:
		return id, true, nil
	default:
		return "", false, nil
	}
}

// Display records what a 16x2 panel would show and notifies an optional
// callback on every change, which the demo UI uses to repaint.
type Display struct {
	mu       sync.Mutex
	rows     [device.DisplayRows]string
	onChange func([device.DisplayRows]string)
}

// NewDisplay creates a cleared display. onChange may be nil.
func NewDisplay(onChange func([device.DisplayRows]string)) *Display {
	d := &Display{onChange: onChange}
	for i := range d.rows {
		d.rows[i] = device.PadLine("")
	}
	return d
}

// SetLine overwrites one row, padded to the panel width.
func (d *Display) SetLine(row int, text string) error {
	d.mu.Lock()
	d.rows[row] = device.PadLine(text)
	rows := d.rows
	onChange := d.onChange
	d.mu.Unlock()
	if onChange != nil {
		onChange(rows)
	}
	return nil
}

// Clear blanks both rows.
func (d *Display) Clear() error {
	for i := 0; i < device.DisplayRows; i++ {
		if err := d.SetLine(i, ""); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns the current panel contents.
func (d *Display) Snapshot() [device.DisplayRows]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows
}

// Line returns one row without trailing padding.
func (d *Display) Line(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimRight(d.rows[row], " ")
}

// Link is one end of an in-memory host link. NewLinkPair wires two ends
// together the way a serial cable would.
type Link struct {
	in  chan string
	out chan string
}

// NewLinkPair returns the device end and the host end of a duplex link.
func NewLinkPair() (deviceEnd, hostEnd *Link) {
	a := make(chan string, 64)
	b := make(chan string, 64)
	return &Link{in: a, out: b}, &Link{in: b, out: a}
}

// ReadLine returns the next line sent by the peer, if any.
func (l *Link) ReadLine() (string, bool, error) {
	select {
	case line := <-l.in:
		return line, true, nil
	default:
		return "", false, nil
	}
}

// WriteLine sends one line to the peer. Lines are dropped when the peer
// stops draining, matching a serial link with nobody listening.
func (l *Link) WriteLine(line string) error {
	select {
	case l.out <- line:
	default:
	}
	return nil
}

// ScriptReader feeds scans from an io.Reader carrying one tag id per
// line, the trackerd script-mode input format. Blank lines and lines
// starting with '#' are skipped. Reading happens on a goroutine so Poll
// stays non-blocking.
type ScriptReader struct {
	inner *Reader
}

// NewScriptReader starts consuming src immediately.
func NewScriptReader(src io.Reader) *ScriptReader {
	sr := &ScriptReader{inner: NewReader()}
	go func() {
		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			id, err := device.ParseTagID(text)
			if err != nil {
				continue
			}
			sr.inner.Present(id)
		}
	}()
	return sr
}

// Poll returns the next scripted scan, if any.
func (sr *ScriptReader) Poll() (device.TagID, bool, error) {
	return sr.inner.Poll()
}

// ManualClock is a Clock advanced explicitly by tests.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

// NewManualClock starts at the given millisecond count.
func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

// Now reads the clock.
func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(ms uint64) {
	c.mu.Lock()
	c.now += ms
	c.mu.Unlock()
}

// Set jumps the clock to an absolute value, wraparound tests included.
func (c *ManualClock) Set(ms uint64) {
	c.mu.Lock()
	c.now = ms
	c.mu.Unlock()
}
