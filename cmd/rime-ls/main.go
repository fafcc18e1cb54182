// Package main is the entry point for the rime-ls language server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/rime-ls/rime-ls/internal/lspserver"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	listen   string
	logPath  string
	logLevel string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger, closeLog, err := newLogger(opts.logPath, opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	if opts.listen != "" {
		return runListener(opts.listen, logger)
	}
	return runStdio(logger)
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.listen, "listen", "", "Listen for TCP connections at addr:port instead of using stdio")
	flag.StringVar(&opts.logPath, "log-file", "", "Path to the server log file (default: stderr)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rime-ls - a Rime input method language server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rime-ls [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("rime-ls %s\n", version)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}

// newLogger opens the server's diagnostic log. Stdout is reserved for the
// JSON-RPC stream when running over stdio, so diagnostics always go to a
// file or stderr, never stdout.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, handlerOpts)), func() { _ = f.Close() }, nil
}

// runStdio serves exactly one connection over the process's own stdin and
// stdout, the normal mode an editor spawns the server in.
func runStdio(logger *slog.Logger) int {
	t := lspserver.NewTransport(os.Stdin, os.Stdout, os.Stdin)
	server := lspserver.NewServer(lspserver.NewTransportClient(t), lspserver.DefaultEngineFactory, version)
	if err := lspserver.NewDispatcher(t, server).Run(); err != nil {
		logger.Error("connection ended", "error", err)
		return 1
	}
	return 0
}

// runListener accepts TCP connections at addr, serving one Server per
// connection (spec §6: "a fresh document/input-state/config universe per
// connection"). SO_REUSEADDR is set on the listening socket and
// TCP_NODELAY on every accepted connection, since LSP traffic is
// latency-sensitive request/response chatter rather than bulk transfer —
// grounded on golang.org/x/sys/unix's raw setsockopt access.
func runListener(addr string, logger *slog.Logger) int {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		logger.Error("failed to listen", "addr", addr, "error", err)
		return 1
	}
	defer ln.Close()
	logger.Info("listening", "addr", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Error("accept error", "error", err)
			return 1
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}

		go func() {
			defer conn.Close()
			t := lspserver.NewTransport(conn, conn, conn)
			server := lspserver.NewServer(lspserver.NewTransportClient(t), lspserver.DefaultEngineFactory, version)
			if err := lspserver.NewDispatcher(t, server).Run(); err != nil {
				logger.Error("connection ended", "error", err)
			}
		}()
	}
}
