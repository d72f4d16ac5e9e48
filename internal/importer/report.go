package importer

// report.go accumulates the outcome of one import run and renders the
// operator-facing summary. Rejected lines are echoed verbatim under the
// original header line so the block can be pasted back in as a new
// import file once the problems are fixed.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report is the accumulated outcome of one import run.
type Report struct {
	RunID      string
	Source     string
	Header     string
	DataLines  int
	Created    []string
	Rejections []Rejection
	Elapsed    time.Duration
	Phase      Phase

	fatal string
}

// AddCreated records one successfully persisted session path.
func (r *Report) AddCreated(path string) {
	r.Created = append(r.Created, path)
}

// AddRejection records one refused data line with its reasons.
func (r *Report) AddRejection(rej Rejection) {
	r.Rejections = append(r.Rejections, rej)
}

// RejectedLines returns the verbatim rejected lines in input order.
func (r *Report) RejectedLines() []string {
	lines := make([]string, 0, len(r.Rejections))
	for _, rej := range r.Rejections {
		lines = append(lines, rej.Line)
	}
	return lines
}

// SetFatal marks the run aborted with the given explanation.
func (r *Report) SetFatal(msg string) {
	r.fatal = msg
	r.Phase = PhaseAborted
}

// Aborted reports whether the run ended on a fatal error.
func (r *Report) Aborted() bool {
	return r.Phase == PhaseAborted
}

// FatalMessage returns the abort explanation, empty when not aborted.
func (r *Report) FatalMessage() string {
	return r.fatal
}

// Render produces the full multi-paragraph summary text.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Import run %s\nSource: %s\n\n", r.RunID, r.Source)

	if r.fatal != "" {
		fmt.Fprintf(&b, "The import was aborted:\n    %s\n\n", r.fatal)
	}

	if len(r.Rejections) > 0 {
		b.WriteString("The following lines were not imported. Fix the problems below,\n")
		b.WriteString("then resubmit this block (header included) as a new import file:\n\n")
		fmt.Fprintf(&b, "%s\n", r.Header)
		for _, rej := range r.Rejections {
			fmt.Fprintf(&b, "%s\n", rej.Line)
		}
		b.WriteString("\nErrors:\n")
		for _, rej := range r.Rejections {
			for _, reason := range rej.Reasons {
				fmt.Fprintf(&b, "  #%04d  %s\n", rej.LineNumber, reason)
				if action := reason.Action(); action != "" {
					fmt.Fprintf(&b, "         Fix: %s\n", action)
				}
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Completed in %.3f seconds.\n", r.Elapsed.Seconds())
	if len(r.Created) == 0 {
		fmt.Fprintf(&b, "No sessions were created from %d lines of data.\n", r.DataLines)
	} else {
		fmt.Fprintf(&b, "Created %d of %d sessions:\n", len(r.Created), r.DataLines)
		for _, path := range r.Created {
			fmt.Fprintf(&b, "  %s\n", path)
		}
	}

	return b.String()
}

// ErrNoWritableLocation means every candidate report directory refused
// the write; the caller should hand the summary to the operator
// directly instead.
var ErrNoWritableLocation = errors.New("no writable report location")

// ReportWriter persists rendered summaries, trying each candidate
// directory in order.
type ReportWriter struct {
	Locations []string
}

// Write stores the summary in the first writable location and returns
// the full file path. When every location fails it returns an error
// wrapping ErrNoWritableLocation.
func (w *ReportWriter) Write(runStamp, summary string) (string, error) {
	name := fmt.Sprintf("session-import-log-%s.txt", runStamp)
	var lastErr error
	for _, dir := range w.Locations {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
			lastErr = err
			continue
		}
		return path, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no report locations configured")
	}
	return "", fmt.Errorf("%w: %v", ErrNoWritableLocation, lastErr)
}

// DefaultReportLocations is the conventional fallback chain: the user's
// Documents folder, then Desktop, then the application config dir.
func DefaultReportLocations(configDir string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return []string{configDir}
	}
	return []string{
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Desktop"),
		configDir,
	}
}
