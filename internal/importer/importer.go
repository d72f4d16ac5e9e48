package importer

// importer.go drives one import run end to end: read the header, build
// the schema, normalize every data line, persist the survivors, and
// accumulate the report. The run is single-threaded and sequential so
// the report preserves input order.

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase tracks where a run is in its lifecycle.
type Phase string

const (
	PhaseAwaitingHeader Phase = "awaiting_header"
	PhaseProcessing     Phase = "processing"
	PhaseReporting      Phase = "reporting"
	PhaseDone           Phase = "done"
	PhaseAborted        Phase = "aborted"
)

// ErrEmptyInput means the import file had no lines at all.
var ErrEmptyInput = errors.New("import file is empty")

// ErrProtocolMismatch means the store persisted a session whose protocol
// does not match what was requested. This indicates the backing
// configuration is broken, so the whole run aborts.
var ErrProtocolMismatch = errors.New("persisted session protocol does not match the requested protocol")

// SessionStore is the persistence surface the importer needs.
type SessionStore interface {
	// Exists reports whether a session already lives at the path.
	Exists(path string) bool
	// Save persists the record at the path. An error wrapping
	// ErrProtocolMismatch aborts the run; any other error rejects
	// only the one line.
	Save(ctx context.Context, path string, rec *Record) error
}

// Options tune one import run.
type Options struct {
	// Delimiter separates fields; empty means ",". The literal
	// DelimiterNone selects single-field mode.
	Delimiter string
	// Overwrite replaces existing sessions instead of creating a
	// timestamp-suffixed sibling.
	Overwrite bool
	// Env is the host application environment for the emulation and
	// RDP gates.
	Env HostEnv
	// Defaults supplies the fallback protocol when the header carries
	// none. Usually the session store itself.
	Defaults DefaultProvider
	// PromptDelimiter, if set, is consulted once when the configured
	// delimiter is absent from the header line. It receives the
	// configured delimiter and returns a replacement.
	PromptDelimiter func(configured string) (string, error)
	// Clock supplies timestamps for duplicate-path suffixes.
	Clock func() time.Time
}

// Importer runs bulk session imports against a store.
type Importer struct {
	store SessionStore
	opts  Options
	log   *slog.Logger
}

// New builds an Importer. A nil logger discards log output.
func New(store SessionStore, opts Options, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Importer{store: store, opts: opts, log: log}
}

// Run executes one import over the reader's contents. The returned
// Report is always non-nil, even when the run aborted; err is non-nil
// only for fatal conditions.
func (imp *Importer) Run(ctx context.Context, r io.Reader, source string) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:  uuid.NewString(),
		Source: source,
		Phase:  PhaseAwaitingHeader,
	}
	log := imp.log.With("run_id", report.RunID, "source", source)

	scanner := bufio.NewScanner(NewImportReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	schema, err := imp.parseHeader(scanner, report)
	if err != nil {
		report.Elapsed = time.Since(start)
		report.SetFatal(err.Error())
		log.Error("import aborted", "error", err)
		return report, err
	}

	report.Phase = PhaseProcessing
	seenPaths := make(map[string]bool)
	lineNumber := 1 // header was line 1

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			report.SetFatal(err.Error())
			return report, err
		}
		lineNumber++
		line := cleanLine(scanner.Text())
		report.DataLines++

		if strings.TrimSpace(line) == "" {
			report.AddRejection(Rejection{
				LineNumber: lineNumber,
				Line:       "[Empty Line]",
				Reasons: []Reason{{
					Code:    ReasonInsufficientData,
					Message: "line is empty",
				}},
			})
			continue
		}

		rec, reasons := Normalize(schema, schema.Split(line), imp.opts.Env)
		if len(reasons) > 0 {
			report.AddRejection(Rejection{LineNumber: lineNumber, Line: line, Reasons: reasons})
			continue
		}

		path := imp.resolvePath(rec, seenPaths)
		seenPaths[path] = true

		if err := imp.store.Save(ctx, path, rec); err != nil {
			if errors.Is(err, ErrProtocolMismatch) {
				report.Elapsed = time.Since(start)
				report.SetFatal(err.Error())
				log.Error("import aborted", "error", err, "path", path)
				return report, err
			}
			log.Warn("session save failed", "path", path, "error", err)
			report.AddRejection(Rejection{
				LineNumber: lineNumber,
				Line:       line,
				Reasons: []Reason{{
					Code:    ReasonStoreFailure,
					Message: fmt.Sprintf("could not save session: %v", err),
				}},
			})
			continue
		}
		report.AddCreated(path)
	}
	if err := scanner.Err(); err != nil {
		report.Elapsed = time.Since(start)
		report.SetFatal(err.Error())
		return report, fmt.Errorf("reading import data: %w", err)
	}

	report.Phase = PhaseReporting
	report.Elapsed = time.Since(start)
	report.Phase = PhaseDone
	log.Info("import finished",
		"data_lines", report.DataLines,
		"created", len(report.Created),
		"rejected", len(report.Rejections),
		"elapsed", report.Elapsed)
	return report, nil
}

// parseHeader reads the first line and builds the schema, prompting
// once for a replacement delimiter when the configured one is absent.
func (imp *Importer) parseHeader(scanner *bufio.Scanner, report *Report) (*Schema, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading header line: %w", err)
		}
		return nil, ErrEmptyInput
	}
	header := cleanLine(scanner.Text())
	report.Header = header

	delimiter := imp.opts.Delimiter
	schema, err := ParseSchema(header, delimiter, imp.opts.Defaults)
	if errors.Is(err, ErrMissingDelimiter) && imp.opts.PromptDelimiter != nil {
		replacement, promptErr := imp.opts.PromptDelimiter(delimiter)
		if promptErr != nil {
			return nil, promptErr
		}
		schema, err = ParseSchema(header, replacement, imp.opts.Defaults)
	}
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// resolvePath maps a record to its session path, suffixing duplicates
// (already in the store, or created earlier in this run) with a
// timestamp unless overwrite is enabled.
func (imp *Importer) resolvePath(rec *Record, seen map[string]bool) string {
	folder := strings.Trim(rec.Folder, "/")
	path := rec.SessionName
	if folder != "" {
		path = folder + "/" + rec.SessionName
	}
	path = strings.TrimLeft(path, "/")

	if imp.opts.Overwrite {
		return path
	}
	if !seen[path] && !imp.store.Exists(path) {
		return path
	}

	stamp := imp.opts.Clock().Format("20060102_150405.000")
	candidate := fmt.Sprintf("%s (import %s)", path, stamp)
	for n := 2; seen[candidate] || imp.store.Exists(candidate); n++ {
		candidate = fmt.Sprintf("%s (import %s) #%d", path, stamp, n)
	}
	return candidate
}

// cleanLine strips a trailing CR and scrubs invalid UTF-8 sequences.
func cleanLine(line string) string {
	line = strings.TrimRight(line, "\r")
	return strings.ToValidUTF8(line, "�")
}
