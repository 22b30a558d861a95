// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file inside the log directory.
const FileName = "mlbvalue-mcp.log"

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
// Stdout stays reserved for the MCP stdio transport.
func Init(verbose bool) {
	// 0. Load .env from binary directory to ensure LOGS_FOLDER is available.
	// Init runs before config.Load.
	exePath, err := os.Executable()
	if err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if err == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		} else {
			logDir = "logs"
		}
	}

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	logger, err := New(verbose, logDir, os.Stderr, !isTerminal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger
}

// New builds a logger writing human-readable lines to console and JSON lines to a
// lumberjack-rotated file in logDir. The level is set globally.
func New(verbose bool, logDir string, console io.Writer, noColor bool) (zerolog.Logger, error) {
	// 1. Determine log level
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// 2. Ensure log directory exists and is writable
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return zerolog.Nop(), fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	// 3. Combine Writers
	multi := zerolog.MultiLevelWriter(consoleWriter, fileWriter)
	return zerolog.New(multi).With().Timestamp().Logger(), nil
}
