package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"sessionctl/internal/audit"
	"sessionctl/internal/importer"
	"sessionctl/internal/store"
)

var (
	importFile      string
	importDelimiter string
	importOverwrite bool
	importDryRun    bool
	importSessions  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-create sessions from a delimited text file",
	Long: `Reads a text file whose first line names the fields each data line
carries (for example "hostname,protocol,folder") and creates one session
entry per valid data line. Lines that cannot become sessions are echoed
in the run report, ready to fix and resubmit.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "import file to read (required)")
	importCmd.Flags().StringVarP(&importDelimiter, "delimiter", "d", "", `field delimiter (default from config; "NONE" for single-field files)`)
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "replace existing sessions instead of creating suffixed copies")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate and report without writing any sessions")
	importCmd.Flags().StringVar(&importSessions, "sessions", "", "session tree directory (default from config)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := slog.Default()

	env, err := importer.ParseHostEnv(cfg.Host.AppVersion, cfg.Host.Platform)
	if err != nil {
		return err
	}

	delimiter := importDelimiter
	if delimiter == "" {
		delimiter = cfg.Import.Delimiter
	}

	root := importSessions
	if root == "" {
		root = cfg.Sessions.Root
	}
	if root == "" {
		root, err = defaultSessionRoot()
		if err != nil {
			return err
		}
	}

	var sessionStore interface {
		importer.SessionStore
		importer.DefaultProvider
	}
	if importDryRun {
		sessionStore = store.NewMemStore()
	} else {
		fileStore, err := store.NewFileStore(root)
		if err != nil {
			return err
		}
		sessionStore = fileStore
	}

	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	imp := importer.New(sessionStore, importer.Options{
		Delimiter:       delimiter,
		Overwrite:       importOverwrite || cfg.Import.Overwrite,
		Env:             env,
		Defaults:        sessionStore,
		PromptDelimiter: promptDelimiter,
	}, log)

	started := time.Now()
	report, runErr := imp.Run(ctx, f, importFile)
	summary := report.Render()

	writer := &importer.ReportWriter{Locations: reportLocations(root)}
	stamp := started.Format("20060102_150405")
	if path, werr := writer.Write(stamp, summary); werr != nil {
		if !errors.Is(werr, importer.ErrNoWritableLocation) {
			return werr
		}
		// Nowhere to put the file; the summary goes straight to
		// the operator instead.
		fmt.Fprintln(cmd.OutOrStdout(), summary)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d sessions (%d rejected).\n",
			len(report.Created), report.DataLines, len(report.Rejections))
	}

	if !importDryRun {
		recordAudit(ctx, log, report, started)
	}

	return runErr
}

// promptDelimiter asks the operator for a replacement delimiter when
// the configured one is absent from the header line.
func promptDelimiter(configured string) (string, error) {
	fmt.Fprintf(os.Stderr, "Delimiter %q was not found in the header line.\n", configured)
	fmt.Fprint(os.Stderr, `Enter the delimiter to use (or "NONE" for single-field files): `)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading delimiter answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("no delimiter provided")
	}
	return answer, nil
}

// reportLocations builds the report fallback chain from config
// overrides, defaulting to Documents, Desktop, then the session root.
func reportLocations(sessionRoot string) []string {
	if cfg.Report.PrimaryDir != "" || cfg.Report.SecondaryDir != "" {
		return []string{cfg.Report.PrimaryDir, cfg.Report.SecondaryDir, sessionRoot}
	}
	return importer.DefaultReportLocations(sessionRoot)
}

// recordAudit stores the run in the audit database when one is
// configured. Audit failures are logged, never fatal.
func recordAudit(ctx context.Context, log *slog.Logger, report *importer.Report, started time.Time) {
	if cfg.Audit.DatabaseURL == "" {
		return
	}

	pool, err := pgxpool.New(ctx, cfg.Audit.DatabaseURL)
	if err != nil {
		log.Warn("audit database unavailable", "error", err)
		return
	}
	defer pool.Close()

	svc := audit.New(pool)
	if err := svc.EnsureSchema(ctx); err != nil {
		log.Warn("audit schema setup failed", "error", err)
		return
	}
	err = svc.RecordRun(ctx, audit.Run{
		RunID:     report.RunID,
		Source:    report.Source,
		DataLines: report.DataLines,
		Created:   len(report.Created),
		Rejected:  len(report.Rejections),
		Duration:  report.Elapsed,
		StartedAt: started,
	})
	if err != nil {
		log.Warn("audit record failed", "error", err)
	}
}

func defaultSessionRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving session root: %w", err)
	}
	return filepath.Join(home, ".sessionctl", "sessions"), nil
}
