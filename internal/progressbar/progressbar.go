// Package progressbar wraps github.com/cheggaaa/pb/v3 into the
// pipeline's per-input progress indicator, adapted from
// e88z4-kojirou's cmd/formats/progress/progress.go: the teacher tracks
// progress per output format (epub/mobi/kepub); this module tracks
// progress per pipeline stage (ingest/transform/split/assemble) for a
// single input, one bar per input being converted.
package progressbar

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
)

const barTemplate = `` +
	`{{ string . "prefix" | printf "%-20v" }}` +
	`{{ if string . "stage" }}` +
	`[{{ string . "stage" | printf "%-9v" }}]` +
	`{{ else }}` +
	`{{ printf "%-11v" "" }}` +
	`{{ end }}` +
	`{{ bar . "|" "█" "▌" " " "|" }}` + `{{ " " }}` +
	`{{ if string . "message" }}` +
	`{{   string . "message" | printf "%-20v" }}` +
	`{{ else }}` +
	`{{   counters . | printf "%-20v" }}` +
	`{{ end }}` + `{{ " |" }}`

// Bar is a single input's progress indicator across pipeline stages.
type Bar struct {
	bar *pb.ProgressBar
}

// New starts a bar titled for one input (typically the source path or
// volume name), total counting pages processed so far across the
// whole pipeline run for that input.
func New(title string, total int) Bar {
	bar := pb.New(total).SetTemplate(barTemplate)
	bar.Set("prefix", title)
	bar.Start()
	return Bar{bar: bar}
}

// SetStage marks which pipeline phase is currently running.
func (b Bar) SetStage(stage string) { b.bar.Set("stage", stage) }

// SetMessage sets a free-form status message shown instead of the
// counters (used for terminal outcomes like "skipped" or "failed").
func (b Bar) SetMessage(message string) { b.bar.Set("message", message) }

// Add advances the bar by n units of work (e.g. pages transformed).
func (b Bar) Add(n int) { b.bar.Add(n) }

// Increase grows the bar's total, for when page counts aren't known
// until ingest finishes scanning the source.
func (b Bar) Increase(n int) { b.bar.AddTotal(int64(n)) }

// NewProxyWriter wraps w so writes to it advance the bar, used when
// copying the final archive to its destination.
func (b Bar) NewProxyWriter(w io.Writer) io.Writer { return b.bar.NewProxyWriter(w) }

// Done finalizes the bar.
func (b Bar) Done() { b.bar.Finish() }

// Cancel finalizes the bar early with a terminal message (e.g. a
// skip-existing short-circuit or a fatal input error).
func (b Bar) Cancel(message string) {
	b.SetMessage(message)
	b.bar.SetTotal(1).SetCurrent(1)
	b.Done()
}

// Summary renders a final one-line status, grounded on
// CliProgress.FormatCompleted's "format: status" accumulation idiom.
func Summary(title, status string) string {
	return fmt.Sprintf("%s: %s", title, status)
}
