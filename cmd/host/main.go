package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hwerle/tagtrack/internal/config"
	"github.com/hwerle/tagtrack/internal/device"
	"github.com/hwerle/tagtrack/internal/device/serialport"
	"github.com/hwerle/tagtrack/internal/hostapp"
	"github.com/hwerle/tagtrack/internal/journal"
)

func main() {
	demoMode := flag.Bool("demo", false, "run against an embedded device instead of a serial port")
	noJournal := flag.Bool("no-journal", false, "disable the SQLite event journal")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// The UI owns the terminal, so logs go to a file or nowhere.
	logWriter := io.Writer(io.Discard)
	if logPath := os.Getenv("TAGTRACK_LOG_PATH"); logPath != "" {
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = file
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	var (
		link device.HostLink
		demo *hostapp.Demo
	)
	if *demoMode {
		adminTag, err := device.ParseTagID(cfg.Tracker.AdminTag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid admin tag: %v\n", err)
			os.Exit(1)
		}
		demo = hostapp.NewDemo(adminTag, cfg.Tracker.Capacity,
			cfg.Tracker.Freeze(), cfg.Tracker.PollInterval(), logger)
		demo.Start(ctx)
		link = demo.Link()
	} else {
		serialLink, err := serialport.Open(cfg.Link.Port, cfg.Link.Baud)
		if err != nil {
			fmt.Fprintf(os.Stderr, "serial error: %v\n", err)
			os.Exit(1)
		}
		defer serialLink.Close()
		link = serialLink
	}

	var store *journal.Store
	if !*noJournal {
		db, err := journal.New(cfg.Journal.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "journal error: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		store = journal.NewStore(db)
	}

	if err := hostapp.Run(ctx, hostapp.Options{
		Link:   link,
		Store:  store,
		Demo:   demo,
		Logger: logger,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "ui error: %v\n", err)
		os.Exit(1)
	}
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
