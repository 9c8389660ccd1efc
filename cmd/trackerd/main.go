package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/hwerle/tagtrack/internal/config"
	"github.com/hwerle/tagtrack/internal/device"
	"github.com/hwerle/tagtrack/internal/device/serialport"
	"github.com/hwerle/tagtrack/internal/device/sim"
	"github.com/hwerle/tagtrack/internal/tracker"
)

func main() {
	scansPath := flag.String("scans", "-", "file or FIFO with one tag id per line (\"-\" = stdin)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	adminTag, err := device.ParseTagID(cfg.Tracker.AdminTag)
	if err != nil {
		logger.Error("invalid admin tag", "value", cfg.Tracker.AdminTag, "error", err)
		os.Exit(1)
	}

	link, err := openLink(cfg.Link)
	if err != nil {
		logger.Error("failed to open host link", "error", err)
		os.Exit(1)
	}
	if closer, ok := link.(io.Closer); ok {
		defer closer.Close()
	}

	reader, err := openReader(cfg.Link.Mode, *scansPath)
	if err != nil {
		logger.Error("failed to open scan source", "error", err)
		os.Exit(1)
	}

	registry := tracker.NewRegistry(adminTag, cfg.Tracker.Capacity)
	router := tracker.NewRouter(registry, cfg.Tracker.Freeze(), logger)
	loop := tracker.NewLoop(router, reader, newConsoleDisplay(os.Stderr), link,
		nil, cfg.Tracker.PollInterval(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("tracker running",
		"link", cfg.Link.Mode, "admin_tag", adminTag.String(),
		"capacity", cfg.Tracker.Capacity)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("loop error", "error", err)
		os.Exit(1)
	}
}

func openLink(cfg config.LinkConfig) (device.HostLink, error) {
	switch cfg.Mode {
	case "serial":
		return serialport.Open(cfg.Port, cfg.Baud)
	case "stdio":
		return newStdioLink(), nil
	default:
		return nil, fmt.Errorf("unknown link mode %q", cfg.Mode)
	}
}

func openReader(linkMode, scansPath string) (device.TagReader, error) {
	if scansPath == "-" {
		if linkMode == "stdio" {
			return nil, fmt.Errorf("stdin carries the host link in stdio mode, use -scans")
		}
		return sim.NewScriptReader(os.Stdin), nil
	}
	f, err := os.Open(scansPath)
	if err != nil {
		return nil, fmt.Errorf("open scan source %s: %w", scansPath, err)
	}
	return sim.NewScriptReader(f), nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// stdioLink speaks the host-link line protocol over the process's own
// stdin/stdout, the way the firmware spoke over its serial pins. Lines
// in are buffered on a goroutine so ReadLine never blocks the loop.
type stdioLink struct {
	lines chan string
	out   io.Writer
	mu    sync.Mutex
}

func newStdioLink() *stdioLink {
	l := &stdioLink{
		lines: make(chan string, 64),
		out:   os.Stdout,
	}
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			l.lines <- scanner.Text()
		}
	}()
	return l
}

func (l *stdioLink) ReadLine() (string, bool, error) {
	select {
	case line := <-l.lines:
		return line, true, nil
	default:
		return "", false, nil
	}
}

func (l *stdioLink) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintln(l.out, line)
	return err
}

// consoleDisplay renders the would-be 16x2 panel to a writer, one
// bordered block per repaint.
type consoleDisplay struct {
	mu   sync.Mutex
	rows [device.DisplayRows]string
	out  io.Writer
}

func newConsoleDisplay(out io.Writer) *consoleDisplay {
	d := &consoleDisplay{out: out}
	for i := range d.rows {
		d.rows[i] = device.PadLine("")
	}
	return d
}

func (d *consoleDisplay) SetLine(row int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	padded := device.PadLine(text)
	if d.rows[row] == padded {
		return nil
	}
	d.rows[row] = padded

	border := "+" + strings.Repeat("-", device.DisplayCols) + "+"
	_, err := fmt.Fprintf(d.out, "%s\n|%s|\n|%s|\n%s\n",
		border, d.rows[0], d.rows[1], border)
	return err
}

func (d *consoleDisplay) Clear() error {
	for i := 0; i < device.DisplayRows; i++ {
		if err := d.SetLine(i, ""); err != nil {
			return err
		}
	}
	return nil
}
