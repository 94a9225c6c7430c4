// Package clog provides colorized leveled logging for the conversion
// pipeline, grounded on e88z4-kojirou's cmd/formats/logging/logging.go
// (FormatInfo/FormatSuccess/FormatError/FormatDebug, color gated by an
// EnableColor flag, TimedOperation), adapted from a per-format-type
// logger to a per-stage one (ingest/transform/split/assemble) and with
// color auto-detection added via a TTY check.
package clog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	debugMode    = false
	colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	out          io.Writer = os.Stderr
)

// EnableDebug toggles debug-level output.
func EnableDebug(enable bool) { debugMode = enable }

// EnableColor overrides the TTY auto-detection.
func EnableColor(enable bool) {
	colorEnabled = enable
	color.NoColor = !enable
}

// SetOutput redirects log output, for tests.
func SetOutput(w io.Writer) { out = w }

func prefix(stage string, c *color.Color) string {
	if colorEnabled {
		return c.Sprintf("[%s]", stage)
	}
	return fmt.Sprintf("[%s]", stage)
}

// Info logs a neutral progress message for stage.
func Info(stage, message string) {
	fmt.Fprintf(out, "%s %s\n", prefix(stage, color.New(color.FgBlue)), message)
}

// Success logs a completed operation for stage.
func Success(stage, message string) {
	fmt.Fprintf(out, "%s %s\n", prefix(stage, color.New(color.FgGreen)), message)
}

// Error logs a failure for stage.
func Error(stage string, err error) {
	fmt.Fprintf(out, "%s Error: %v\n", prefix(stage, color.New(color.FgRed)), err)
}

// Warn logs a soft warning for stage (§7: quality-loss/stretch warnings).
func Warn(stage, message string) {
	fmt.Fprintf(out, "%s Warning: %s\n", prefix(stage, color.New(color.FgYellow)), message)
}

// Debug logs a message only when debug mode is enabled.
func Debug(stage, message string) {
	if !debugMode {
		return
	}
	fmt.Fprintf(out, "%s DEBUG: %s\n", prefix(stage, color.New(color.FgYellow)), message)
}

// TimedOperation runs fn, logging its start and its successful completion
// with elapsed time in debug mode only; an error is always logged, with
// elapsed time.
func TimedOperation(stage, operation string, fn func() error) error {
	if debugMode {
		Debug(stage, fmt.Sprintf("starting %s", operation))
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		Error(stage, fmt.Errorf("%s: %w (took %s)", operation, err, elapsed))
		return err
	}
	if debugMode {
		Debug(stage, fmt.Sprintf("completed %s in %s", operation, elapsed))
	}
	return nil
}
