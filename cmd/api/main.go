package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/finance-flows/internal/api/handlers"
	"github.com/dvloznov/finance-flows/internal/api/middleware"
	"github.com/dvloznov/finance-flows/internal/gcs"
	"github.com/dvloznov/finance-flows/internal/jobs"
	"github.com/dvloznov/finance-flows/internal/jobs/inmemory"
	"github.com/dvloznov/finance-flows/internal/ledger"
	"github.com/dvloznov/finance-flows/internal/logger"
	"github.com/dvloznov/finance-flows/internal/reports"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		project = flag.String("project", os.Getenv("BIGQUERY_PROJECT"), "BigQuery project holding the ledger (or set BIGQUERY_PROJECT env)")
		dataset = flag.String("dataset", envOrDefault("BIGQUERY_DATASET", "finance"), "BigQuery dataset holding the transactions table (or set BIGQUERY_DATASET env)")
		bucket  = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name for report exports (or set GCS_BUCKET env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	if *project == "" {
		log.Fatal().Msg("No BigQuery project configured - set -project or BIGQUERY_PROJECT")
	}
	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - report exports will be disabled")
	}

	// Initialize ledger store
	ctx := context.Background()

	store, err := ledger.NewBigQueryStore(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger store")
	}
	defer store.Close()

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	// Start worker in background to process report jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	builder := reports.NewBuilder(store, gcs.NewWriter(), log)

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		reportJob, ok := job.(*jobs.BuildFlowReportJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", reportJob.JobID).
			Str("start_date", reportJob.StartDate).
			Str("end_date", reportJob.EndDate).
			Msg("Processing flow report job")

		objectName, err := builder.BuildAndUpload(ctx, reportJob)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", reportJob.JobID).
				Msg("Flow report export failed")
			return err
		}

		reportJob.ObjectName = objectName
		return nil
	}

	// Start job consumer in background
	go func() {
		log.Info().Msg("Starting report worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Report worker stopped with error")
		}
	}()

	// Initialize handlers
	flowsHandler := handlers.NewFlowsHandler(store, log)
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	reportsHandler := handlers.NewReportsHandler(jobQueue, *bucket, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	// Flow endpoints
	mux.HandleFunc("/api/flows/transfers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			flowsHandler.GetTransferFlows(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Report endpoints
	mux.HandleFunc("/api/reports/flows", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			reportsHandler.CreateFlowReport(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
