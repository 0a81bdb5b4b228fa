// cmd/harvester/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oby500/bizinfo-automation-sub001/internal/browser"
	"github.com/oby500/bizinfo-automation-sub001/internal/config"
	"github.com/oby500/bizinfo-automation-sub001/internal/filetype"
	"github.com/oby500/bizinfo-automation-sub001/internal/monitoring"
	"github.com/oby500/bizinfo-automation-sub001/internal/output"
	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
	"github.com/oby500/bizinfo-automation-sub001/internal/scraper"
	"github.com/oby500/bizinfo-automation-sub001/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "version":
		fmt.Printf("harvester %s (built %s)\n", version, buildTime)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: harvester <command> [flags]

commands:
  run       process pending announcements (or one record with -id/-url)
  validate  check a configuration file
  report    write the Excel attachment inventory
  version   print version information`)
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	source := fs.String("source", "", "restrict to one source (kstartup|bizinfo)")
	limit := fs.Int("limit", 0, "max records per source (0 = no limit)")
	recordID := fs.String("id", "", "process a single record id")
	recordURL := fs.String("url", "", "detail page URL for -id")
	fs.Parse(args)

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal("loading configuration: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	store, err := output.Open(cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		// Store connectivity is the only failure that exits non-zero.
		fatal("opening store: %v", err)
	}
	defer store.Close()

	pool := scraper.NewFetchPool(scraper.FetchConfig{
		Timeout:       cfg.Fetch.Timeout,
		RetryAttempts: cfg.Fetch.RetryAttempts,
		RetryDelay:    cfg.Fetch.RetryDelay,
		RateLimit:     cfg.Fetch.RateLimit,
		RateBurst:     cfg.Fetch.RateBurst,
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
		UserAgent:     cfg.Fetch.UserAgent,
	})
	classifier := filetype.NewClassifier(pool, oleDefault(cfg.Classifier.OLEDefault))

	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled {
		metrics = monitoring.NewMetrics("harvester")
		ops := monitoring.NewServer(cfg.Metrics.ListenAddress, metrics, logger)
		ops.Start()
		defer ops.Shutdown(context.Background())
	}

	var renderer pipeline.Renderer
	if cfg.Browser.Enabled {
		r := browser.NewRenderer(browser.Config{
			UserAgent:      cfg.Fetch.UserAgent,
			Timeout:        cfg.Browser.Timeout,
			WaitForElement: cfg.Browser.WaitForElement,
		})
		defer r.Close()
		renderer = r
	}

	proc := pipeline.NewProcessor(store, pool, classifier, pipeline.Options{
		Workers:  cfg.Workers,
		Renderer: renderer,
		Metrics:  metrics,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *recordID != "" {
		runSingle(ctx, store, proc, *recordID, *recordURL)
		return
	}

	sources := cfg.Sources.Enabled
	if *source != "" {
		sources = []string{*source}
	}

	var total pipeline.Summary
	for _, src := range sources {
		summary, err := proc.Run(ctx, src, *limit)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"source": src,
				"error":  err.Error(),
			}).Error("batch interrupted")
		}
		total.New += summary.New
		total.Updated += summary.Updated
		total.Failed += summary.Failed
		total.Skipped += summary.Skipped
	}

	fmt.Printf("new=%d updated=%d failed=%d skipped=%d\n",
		total.New, total.Updated, total.Failed, total.Skipped)
}

// runSingle processes one record end to end, printing its attachment list.
func runSingle(ctx context.Context, store pipeline.Store, proc *pipeline.Processor, id, detailURL string) {
	if detailURL == "" {
		fatal("-id requires -url")
	}

	record := pipeline.Announcement{ID: id, DetailURL: detailURL}
	if seeder, ok := store.(output.Seeder); ok {
		if err := seeder.Seed(ctx, record); err != nil {
			fatal("seeding record: %v", err)
		}
	}

	if err := store.SetStatus(ctx, id, pipeline.StatusProcessing); err != nil {
		fatal("claiming record: %v", err)
	}
	attachments, err := proc.ProcessAnnouncement(ctx, record)
	if err != nil {
		store.SetStatus(ctx, id, pipeline.StatusFailed)
		fmt.Fprintf(os.Stderr, "record %s failed: %v\n", id, err)
		return
	}
	if _, err := store.ReplaceAttachments(ctx, id, attachments); err != nil {
		fatal("persisting attachments: %v", err)
	}

	fmt.Printf("%s: %d attachment(s)\n", id, len(attachments))
	for _, att := range attachments {
		fmt.Printf("  %-6s %-14s %s -> %s\n",
			att.DetectedType, att.DetectedBy, att.DisplayFilename, att.SafeFilename)
	}
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	fs.Parse(args)

	if _, err := config.LoadFromFile(*configPath); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("configuration file %q is valid\n", *configPath)
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	outPath := fs.String("out", "", "report path (defaults to report.path from config)")
	source := fs.String("source", "", "restrict to one source")
	fs.Parse(args)

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal("loading configuration: %v", err)
	}
	path := *outPath
	if path == "" {
		path = cfg.Report.Path
	}
	if path == "" {
		path = "inventory.xlsx"
	}

	store, err := output.Open(cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		fatal("opening store: %v", err)
	}
	defer store.Close()

	lister, ok := store.(output.Lister)
	if !ok {
		fatal("store backend %q cannot enumerate completed records", cfg.Store.Backend)
	}
	records, err := lister.ListCompleted(context.Background(), *source, 0)
	if err != nil {
		fatal("listing completed records: %v", err)
	}

	err = output.WriteInventoryReport(path, records, output.ExcelReportConfig{
		AutoFilter:   true,
		FreezeHeader: true,
	})
	if err != nil {
		fatal("writing report: %v", err)
	}
	fmt.Printf("wrote %s (%d records)\n", path, len(records))
}

func newLogger(level string) utils.Logger {
	switch level {
	case "debug":
		return utils.NewLoggerWithLevel(utils.DebugLevel)
	case "warn":
		return utils.NewLoggerWithLevel(utils.WarnLevel)
	case "error":
		return utils.NewLoggerWithLevel(utils.ErrorLevel)
	}
	return utils.NewLoggerWithLevel(utils.InfoLevel)
}

func oleDefault(name string) filetype.Type {
	if name == "doc" {
		return filetype.TypeDOC
	}
	return filetype.TypeHWP
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "harvester: "+format+"\n", args...)
	os.Exit(1)
}
