package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"wirsuchen.de/backend/internal/cli"
	"wirsuchen.de/backend/internal/config"
	"wirsuchen.de/backend/internal/content"
	"wirsuchen.de/backend/internal/logging"
	"wirsuchen.de/backend/internal/translation"
)

var errBulkStalled = errors.New("a full pass over the catalogue created no translations")

func runTranslate(args []string) int {
	if len(args) == 0 {
		printTranslateUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printTranslateUsage()
		return 0
	case "bulk":
		return runTranslateBulk(args[1:])
	case "status":
		return runTranslateStatus(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown translate command: %s\n\n", args[0])
		printTranslateUsage()
		return 2
	}
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  wirsuchen translate bulk [--batch-size N] [--offset N] [--type job|deal|blog] [--until-done] [--force]")
	fmt.Fprintln(os.Stderr, "  wirsuchen translate status [--detailed] [--content-id ID]")
}

func runTranslateBulk(args []string) int {
	fs := flag.NewFlagSet("translate bulk", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	batchSize := fs.Int("batch-size", 0, "Duplicate groups to translate per pass (default BULK_BATCH_SIZE)")
	offset := fs.Int("offset", 0, "Candidate offset to start from")
	typeRaw := fs.String("type", string(content.TypeJob), "Content type: job, deal or blog")
	untilDone := fs.Bool("until-done", false, "Keep running passes until nothing is left to translate")
	force := fs.Bool("force", false, "Retranslate items that already have stored translations")
	maxPasses := fs.Int("max-passes", 0, "Stop after this many passes (0 means no limit)")
	pause := fs.Duration("pause", time.Second, "Pause between passes with --until-done")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 2
	}

	contentType, err := content.ParseType(*typeRaw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--type must be job, deal or blog")
		return 2
	}
	if *batchSize < 0 || *batchSize > 100 {
		fmt.Fprintln(os.Stderr, "--batch-size must be between 1 and 100")
		return 2
	}
	if *offset < 0 || *maxPasses < 0 || *pause < 0 {
		fmt.Fprintln(os.Stderr, "--offset, --max-passes and --pause must not be negative")
		return 2
	}
	format, err := parseOutputFormat(*formatRaw, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	loadEnv(envLoader)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	svc, err := newServices(dbCtx, cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer svc.Close()

	loop := bulkLoop{
		runner:    svc.manager,
		untilDone: *untilDone,
		maxPasses: *maxPasses,
		pause:     *pause,
	}
	if format == outputFormatTable {
		loop.report = func(pass int, stats translation.BulkStats) error {
			return writeBulkPass(os.Stdout, pass, stats)
		}
	}

	totals, err := loop.run(ctx, translation.BulkOptions{
		Type:      contentType,
		BatchSize: *batchSize,
		Offset:    *offset,
		Force:     *force,
	})
	if format == outputFormatJSON {
		if printErr := printJSON(os.Stdout, totals); printErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", printErr)
			return 1
		}
	} else if writeErr := writeBulkTotals(os.Stdout, totals); writeErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", writeErr)
		return 1
	}
	if err != nil {
		logger.Error().Err(err).Str("content_type", string(contentType)).Msg("bulk translation stopped")
		fmt.Fprintf(os.Stderr, "Bulk translation stopped: %v\n", err)
		return 1
	}
	return 0
}

type bulkRunner interface {
	BulkTranslate(ctx context.Context, opts translation.BulkOptions) (translation.BulkStats, error)
}

type bulkTotals struct {
	Passes              int   `json:"passes"`
	ProcessedJobs       int   `json:"processedJobs"`
	TranslationsCreated int   `json:"translationsCreated"`
	Errors              int   `json:"errors"`
	Skipped             int   `json:"skipped"`
	Remaining           int64 `json:"remainingUntranslated"`
	NextOffset          int   `json:"nextOffset"`
	Done                bool  `json:"done"`
}

// bulkLoop repeats bulk passes, following nextOffset and wrapping to the
// start when the manager does.
type bulkLoop struct {
	runner    bulkRunner
	untilDone bool
	maxPasses int
	pause     time.Duration
	report    func(pass int, stats translation.BulkStats) error
}

func (l bulkLoop) run(ctx context.Context, opts translation.BulkOptions) (bulkTotals, error) {
	var (
		totals           bulkTotals
		createdSinceWrap int
	)
	for pass := 1; ; pass++ {
		stats, err := l.runner.BulkTranslate(ctx, opts)
		if err != nil {
			return totals, fmt.Errorf("pass %d at offset %d: %w", pass, opts.Offset, err)
		}

		totals.Passes = pass
		totals.ProcessedJobs += stats.ProcessedJobs
		totals.TranslationsCreated += stats.TranslationsCreated
		totals.Errors += stats.Errors
		totals.Skipped += stats.Skipped
		totals.Remaining = stats.RemainingUntranslated
		totals.NextOffset = stats.NextOffset
		totals.Done = stats.Done
		if l.report != nil {
			if err := l.report(pass, stats); err != nil {
				return totals, err
			}
		}

		if !l.untilDone || stats.Done || stats.RemainingUntranslated < 0 {
			return totals, nil
		}
		if l.maxPasses > 0 && pass >= l.maxPasses {
			return totals, nil
		}

		createdSinceWrap += stats.TranslationsCreated
		if stats.NextOffset <= opts.Offset {
			if createdSinceWrap == 0 {
				return totals, errBulkStalled
			}
			createdSinceWrap = 0
		}
		opts.Offset = stats.NextOffset

		if l.pause > 0 {
			select {
			case <-ctx.Done():
				return totals, ctx.Err()
			case <-time.After(l.pause):
			}
		}
	}
}

func writeBulkPass(w io.Writer, pass int, stats translation.BulkStats) error {
	_, err := fmt.Fprintf(w, "pass %d: processed=%d created=%d errors=%d skipped=%d remaining=%d next_offset=%d\n",
		pass, stats.ProcessedJobs, stats.TranslationsCreated, stats.Errors, stats.Skipped,
		stats.RemainingUntranslated, stats.NextOffset)
	return err
}

func writeBulkTotals(w io.Writer, totals bulkTotals) error {
	return writeTable(w, []string{"PASSES", "PROCESSED", "CREATED", "ERRORS", "SKIPPED", "REMAINING", "NEXT_OFFSET", "DONE"}, [][]string{{
		strconv.Itoa(totals.Passes),
		strconv.Itoa(totals.ProcessedJobs),
		strconv.Itoa(totals.TranslationsCreated),
		strconv.Itoa(totals.Errors),
		strconv.Itoa(totals.Skipped),
		strconv.FormatInt(totals.Remaining, 10),
		strconv.Itoa(totals.NextOffset),
		strconv.FormatBool(totals.Done),
	}})
}

func runTranslateStatus(args []string) int {
	fs := flag.NewFlagSet("translate status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	detailed := fs.Bool("detailed", false, "Include per-language counts")
	contentID := fs.String("content-id", "", "Report coverage of a single content item")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	format, err := parseOutputFormat(*formatRaw, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	id := strings.TrimSpace(*contentID)
	if id != "" {
		if _, err := content.ParseID(id); err != nil {
			fmt.Fprintln(os.Stderr, "--content-id must look like <type>-<source>-<id>")
			return 2
		}
	}

	loadEnv(envLoader)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	svc, err := newServices(ctx, cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer svc.Close()

	if id != "" {
		coverage, err := svc.manager.ItemCoverage(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load item coverage: %v\n", err)
			return 1
		}
		if format == outputFormatJSON {
			err = printJSON(os.Stdout, coverage)
		} else {
			err = writeItemCoverage(os.Stdout, coverage)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
		return 0
	}

	report, err := svc.manager.Coverage(ctx, *detailed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load coverage: %v\n", err)
		return 1
	}
	if format == outputFormatJSON {
		err = printJSON(os.Stdout, report)
	} else {
		err = writeCoverage(os.Stdout, report, *detailed)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func writeCoverage(w io.Writer, report translation.CoverageReport, detailed bool) error {
	headers := []string{"TYPE", "TOTAL", "FULLY_TRANSLATED", "REMAINING"}
	if detailed {
		for _, lang := range report.Languages {
			headers = append(headers, strings.ToUpper(lang))
		}
	}

	rows := make([][]string, 0, len(report.Types))
	for _, tc := range report.Types {
		row := []string{
			string(tc.Type),
			strconv.FormatInt(tc.Total, 10),
			strconv.FormatInt(tc.FullyTranslated, 10),
			strconv.FormatInt(tc.Remaining, 10),
		}
		if detailed {
			for _, lang := range report.Languages {
				row = append(row, strconv.FormatInt(tc.PerLanguage[lang], 10))
			}
		}
		rows = append(rows, row)
	}
	return writeTable(w, headers, rows)
}

func writeItemCoverage(w io.Writer, item translation.ItemCoverage) error {
	if _, err := fmt.Fprintf(w, "%s (%s) complete=%t\n", item.ContentID, item.Type, item.Complete); err != nil {
		return err
	}
	rows := make([][]string, 0, len(item.Languages))
	for _, lang := range item.Languages {
		rows = append(rows, []string{
			lang.Language,
			strconv.FormatBool(lang.Translated),
			lang.ProviderName,
			formatUTCTimestampPtr(lang.UpdatedAt),
		})
	}
	return writeTable(w, []string{"LANGUAGE", "TRANSLATED", "PROVIDER", "UPDATED_AT"}, rows)
}
