// Package serialport implements device.HostLink over a serial port.
package serialport

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/hwerle/tagtrack/internal/device"
)

// Link is a device.HostLink backed by a serial port. Incoming bytes are
// assembled into lines on a background goroutine so ReadLine never
// blocks the polling loop.
type Link struct {
	port  serial.Port
	lines chan string

	mu      sync.Mutex
	readErr error
	closed  bool
}

// Open opens the named port at the given baud rate (8N1).
func Open(portName string, baud int) (*Link, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	l := &Link{
		port:  port,
		lines: make(chan string, 64),
	}
	go l.readLoop()
	return l, nil
}

func (l *Link) readLoop() {
	scanner := bufio.NewScanner(l.port)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		select {
		case l.lines <- line:
		default:
			// Receiver stopped draining; drop rather than stall the port.
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.readErr = scanner.Err()
	}
}

// ReadLine returns the next complete line received, if any.
func (l *Link) ReadLine() (string, bool, error) {
	select {
	case line := <-l.lines:
		return line, true, nil
	default:
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return "", false, l.readErr
}

// WriteLine sends one newline-terminated line.
func (l *Link) WriteLine(line string) error {
	if _, err := l.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("write serial line: %w", err)
	}
	return nil
}

// Close shuts the port down.
func (l *Link) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return l.port.Close()
}

var _ device.HostLink = (*Link)(nil)
