package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-flows/internal/flows"
	"github.com/dvloznov/finance-flows/internal/gcs"
	"github.com/dvloznov/finance-flows/internal/jobs"
	"github.com/dvloznov/finance-flows/internal/ledger"
	"github.com/dvloznov/finance-flows/internal/logger"
	"github.com/dvloznov/finance-flows/internal/reports"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "flows":
		runFlows(log)
	case "export":
		runExport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Flows CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  flows     Print the aggregated transfer flows for a date range")
	fmt.Println("  export    Compute the flows and write a JSON report to GCS")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func ledgerFlags(fs *flag.FlagSet) (project, dataset *string) {
	project = fs.String("project", os.Getenv("BIGQUERY_PROJECT"), "BigQuery project holding the ledger")
	dataset = fs.String("dataset", "finance", "BigQuery dataset holding the transactions table")
	return project, dataset
}

func parseBound(log zerolog.Logger, name, value string) *civil.Date {
	if value == "" {
		return nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		log.Fatal().Err(err).Msgf("Invalid --%s, expected YYYY-MM-DD", name)
	}
	return &d
}

func runFlows(log zerolog.Logger) {
	fs := flag.NewFlagSet("flows", flag.ExitOnError)
	project, dataset := ledgerFlags(fs)
	startStr := fs.String("start", "", "Inclusive start date (YYYY-MM-DD)")
	endStr := fs.String("end", "", "Inclusive end date (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	if *project == "" {
		log.Fatal().Msg("Error: --project or BIGQUERY_PROJECT is required")
	}

	start := parseBound(log, "start", *startStr)
	end := parseBound(log, "end", *endStr)
	if start != nil && end != nil && start.After(*end) {
		log.Fatal().Msg("Error: --start must be before --end")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := ledger.NewBigQueryStore(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger store")
	}
	defer store.Close()

	rows, err := store.QueryTransfersByDateRange(ctx, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query transfers")
	}

	edges := flows.ComputeTransferFlows(rows)
	if len(edges) == 0 {
		fmt.Println("No transfer flows in the requested range.")
		return
	}

	fmt.Printf("%-24s %-24s %14s %8s\n", "FROM", "TO", "TOTAL", "COUNT")
	for _, e := range edges {
		fmt.Printf("%-24s %-24s %14.2f %8d\n", e.SourceAccountName, e.DestinationAccountName, e.TotalAmount, e.TransferCount)
	}
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	project, dataset := ledgerFlags(fs)
	startStr := fs.String("start", "", "Inclusive start date (YYYY-MM-DD)")
	endStr := fs.String("end", "", "Inclusive end date (YYYY-MM-DD)")
	bucket := fs.String("bucket", os.Getenv("GCS_BUCKET"), "Destination GCS bucket")
	fs.Parse(os.Args[2:])

	if *project == "" {
		log.Fatal().Msg("Error: --project or BIGQUERY_PROJECT is required")
	}
	if *bucket == "" {
		log.Fatal().Msg("Error: --bucket or GCS_BUCKET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := ledger.NewBigQueryStore(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger store")
	}
	defer store.Close()

	builder := reports.NewBuilder(store, gcs.NewWriter(), log)

	job := &jobs.BuildFlowReportJob{
		JobID:     fmt.Sprintf("cli-%d", time.Now().Unix()),
		StartDate: *startStr,
		EndDate:   *endStr,
		Bucket:    *bucket,
	}

	objectName, err := builder.BuildAndUpload(ctx, job)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Report written to gs://%s/%s\n", *bucket, objectName)
}
