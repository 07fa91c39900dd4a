// Package reports renders transfer-flow reports and exports them to cloud
// storage.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-flows/internal/flows"
	"github.com/dvloznov/finance-flows/internal/gcs"
	"github.com/dvloznov/finance-flows/internal/jobs"
	"github.com/dvloznov/finance-flows/internal/ledger"
)

// FlowReport is the exported report document. Data carries the same shape
// the flows endpoint serves, so a stored report and a live response are
// interchangeable for the presentation layer.
type FlowReport struct {
	GeneratedAt time.Time  `json:"generated_at"`
	StartDate   string     `json:"start_date,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	Data        ReportData `json:"data"`
}

// ReportData wraps the flow edges.
type ReportData struct {
	Transfers []flows.TransferFlow `json:"transfers"`
}

// Builder computes transfer flows for a job's date range and writes the
// rendered report to storage.
type Builder struct {
	store  ledger.Store
	writer gcs.ObjectWriter
	log    zerolog.Logger
}

// NewBuilder creates a new report builder.
func NewBuilder(store ledger.Store, writer gcs.ObjectWriter, log zerolog.Logger) *Builder {
	return &Builder{
		store:  store,
		writer: writer,
		log:    log,
	}
}

// BuildAndUpload runs one report job: query the ledger, compute the flows,
// serialize and upload. It returns the object name the report was written
// to.
func (b *Builder) BuildAndUpload(ctx context.Context, job *jobs.BuildFlowReportJob) (string, error) {
	start, end, err := parseBounds(job.StartDate, job.EndDate)
	if err != nil {
		return "", fmt.Errorf("BuildAndUpload: %w", err)
	}
	if job.Bucket == "" {
		return "", fmt.Errorf("BuildAndUpload: destination bucket is required")
	}

	rows, err := b.store.QueryTransfersByDateRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("BuildAndUpload: querying transfers: %w", err)
	}

	report := FlowReport{
		GeneratedAt: time.Now().UTC(),
		StartDate:   job.StartDate,
		EndDate:     job.EndDate,
		Data: ReportData{
			Transfers: flows.ComputeTransferFlows(rows),
		},
	}

	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("BuildAndUpload: marshaling report: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/transfer-flows-%s.json", report.GeneratedAt.Format("2006/01/02"), job.JobID)

	if err := b.writer.WriteObject(ctx, job.Bucket, objectName, "application/json", data); err != nil {
		return "", fmt.Errorf("BuildAndUpload: writing report object: %w", err)
	}

	b.log.Info().
		Str("job_id", job.JobID).
		Str("bucket", job.Bucket).
		Str("object_name", objectName).
		Int("flows", len(report.Data.Transfers)).
		Msg("Flow report exported")

	return objectName, nil
}

// parseBounds parses the job's optional date bounds. Empty strings leave
// the bound open.
func parseBounds(startStr, endStr string) (start, end *civil.Date, err error) {
	if startStr != "" {
		d, err := civil.ParseDate(startStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date %q: %w", startStr, err)
		}
		start = &d
	}
	if endStr != "" {
		d, err := civil.ParseDate(endStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date %q: %w", endStr, err)
		}
		end = &d
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, fmt.Errorf("start_date %s is after end_date %s", startStr, endStr)
	}
	return start, end, nil
}
