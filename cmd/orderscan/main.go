package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"orderscan/internal/app"
	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/logger"
	"orderscan/internal/service"
)

const usage = `Usage:
  orderscan scan <file> [file...]   scan documents and append the anomaly report
  orderscan watch                   poll the inbox directory on its schedule`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	switch args[0] {
	case "scan":
		if len(args) < 2 {
			return fmt.Errorf("scan requires at least one file\n%s", usage)
		}
		for _, path := range args[1:] {
			if err := scanFile(ctx, a, path, os.Stdout); err != nil {
				return err
			}
		}
		return nil
	case "watch":
		return a.InboxWorker().Start(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func scanFile(ctx context.Context, a *app.App, path string, out io.Writer) error {
	scan, err := a.Scans.Scan(ctx, service.ScanInput{Path: path})
	if err != nil {
		return err
	}
	outcome, err := a.Reports.Deliver(ctx, scan)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d pages, %d records, %d anomalies\n",
		scan.SourceName, scan.PageCount, len(scan.Records), len(scan.Anomalies))
	for _, f := range scan.Failures {
		fmt.Fprintf(out, "  skipped %s\n", f.Error())
	}
	printDiagnostics(out, scan.Diagnostics)

	switch {
	case outcome.FilePath != "":
		fmt.Fprintf(out, "report written to %s\n", outcome.FilePath)
	case outcome.S3Key != "":
		fmt.Fprintf(out, "report uploaded to %s\n", outcome.S3Key)
	case len(scan.Anomalies) == 0:
		fmt.Fprintln(out, "no orders matched the anomaly rule")
	}
	if outcome.CSVPath != "" {
		fmt.Fprintf(out, "csv written to %s\n", outcome.CSVPath)
	}
	if outcome.XLSXPath != "" {
		fmt.Fprintf(out, "xlsx written to %s\n", outcome.XLSXPath)
	}

	a.Log.Debug("scan finished", zap.Stringer("scan_id", scan.ID))
	return nil
}

func printDiagnostics(out io.Writer, diags []domain.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(out, "%d records missing a customer name:\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(out, "  page %d item %d: %s\n", d.PageIndex+1, d.ItemIndex+1, d.Message)
	}
}
