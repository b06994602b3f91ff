package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bollette/internal/cli"
	"bollette/internal/draft"
	"bollette/internal/export"
	"bollette/internal/extract"
	"bollette/internal/pipeline"
	"bollette/internal/storage"
	"bollette/internal/transport"
)

func main() {
	monthFlag := flag.String("month", "", "aggregate a fixed month (1-12 or YYYY-MM) instead of each house's latest")
	exportFlag := flag.String("export", "", "write stored bills to an XLSX file and exit")
	dryRunFlag := flag.Bool("dry-run", false, "log drafts instead of publishing them")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting bollette")

	cfg := cli.LoadAndValidateConfig(logger)
	if *monthFlag != "" {
		cfg.OverrideMonth = *monthFlag
	}
	if *dryRunFlag {
		cfg.DryRun = true
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx := context.Background()

	if *exportFlag != "" {
		if err := exportBills(ctx, repo, *exportFlag); err != nil {
			logger.Error("Export failed", "error", err, "path", *exportFlag)
			os.Exit(1)
		}
		logger.Info("Stored bills exported", "path", *exportFlag)
		return
	}

	directory, policies := cli.InitRoster(logger, cfg)

	overrideYear, overrideMonth, err := cfg.ParseOverrideMonth()
	if err != nil {
		logger.Error("Invalid override month", "error", err)
		os.Exit(1)
	}

	var tr transport.Transport = transport.DryRun{}
	if !cfg.DryRun && cfg.AMQPURL != "" {
		client, err := transport.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		tr = client
	} else if !cfg.DryRun {
		logger.Warn("No AMQP URL configured, falling back to dry-run delivery")
	}
	defer tr.Close()

	runner := &pipeline.Runner{
		Source:        pipeline.DirSource{Dir: cfg.InboxDir},
		Classifier:    extract.NewClassifier(cfg.ClassifyPermissive, cfg.AtcoFilenameHint),
		Strategy:      cli.HouseStrategyFromConfig(cfg),
		Roster:        directory,
		Policies:      policies,
		Builder:       draft.NewBuilder(draft.NewDirStore(cfg.ImagesDir)),
		Transport:     tr,
		Recorder:      repo,
		OverrideMonth: overrideMonth,
		OverrideYear:  overrideYear,
	}

	report, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}

	for _, diag := range report.Diags {
		logger.Warn("Diagnostic", "source", diag.Source, "stage", diag.Stage, "detail", diag.Detail)
	}
	logger.Info("Done",
		"documents", report.Documents,
		"records", report.Records,
		"inserted", report.Inserted,
		"deduped", report.Deduped,
		"drafts", len(report.Drafts))
}

func exportBills(ctx context.Context, repo *storage.SQLiteRepository, path string) error {
	bills, err := repo.ListBills(ctx)
	if err != nil {
		return fmt.Errorf("list bills: %w", err)
	}
	data, err := export.BillsXLSX(bills)
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
