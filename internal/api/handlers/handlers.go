package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-flows/internal/api/middleware"
	"github.com/dvloznov/finance-flows/internal/flows"
	"github.com/dvloznov/finance-flows/internal/jobs"
	"github.com/dvloznov/finance-flows/internal/ledger"
)

// parseDateRange reads the optional start_date/end_date query parameters.
// It writes a 400 response and returns ok=false when either bound is
// malformed or the bounds are out of order.
func parseDateRange(w http.ResponseWriter, r *http.Request) (start, end *civil.Date, ok bool) {
	query := r.URL.Query()

	if s := query.Get("start_date"); s != "" {
		d, err := civil.ParseDate(s)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid start_date format, expected YYYY-MM-DD")
			return nil, nil, false
		}
		start = &d
	}

	if s := query.Get("end_date"); s != "" {
		d, err := civil.ParseDate(s)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid end_date format, expected YYYY-MM-DD")
			return nil, nil, false
		}
		end = &d
	}

	if start != nil && end != nil && start.After(*end) {
		middleware.WriteError(w, http.StatusBadRequest, "start_date must be before end_date")
		return nil, nil, false
	}

	return start, end, true
}

// FlowsHandler serves the aggregated transfer-flow endpoints.
type FlowsHandler struct {
	store ledger.Store
	log   zerolog.Logger
}

// NewFlowsHandler creates a new flows handler.
func NewFlowsHandler(store ledger.Store, log zerolog.Logger) *FlowsHandler {
	return &FlowsHandler{
		store: store,
		log:   log,
	}
}

type transferFlowsData struct {
	Transfers []flows.TransferFlow `json:"transfers"`
}

type transferFlowsResponse struct {
	Data transferFlowsData `json:"data"`
}

// GetTransferFlows handles GET /api/flows/transfers
func (h *FlowsHandler) GetTransferFlows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.store.QueryTransfersByDateRange(ctx, start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query transfers")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query transfers")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, transferFlowsResponse{
		Data: transferFlowsData{
			Transfers: flows.ComputeTransferFlows(rows),
		},
	})
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store ledger.Store
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store ledger.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store: store,
		log:   log,
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	transactions, err := h.store.QueryTransactionsByDateRange(ctx, start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query transactions")
		return
	}

	// Return array directly for frontend compatibility
	if transactions == nil {
		transactions = []*ledger.TransactionRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, transactions)
}

// ReportsHandler handles flow-report export endpoints.
type ReportsHandler struct {
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(publisher jobs.Publisher, bucket string, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// CreateFlowReport handles POST /api/reports/flows
func (h *ReportsHandler) CreateFlowReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Bucket    string `json:"bucket"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var start, end *civil.Date
	if req.StartDate != "" {
		d, err := civil.ParseDate(req.StartDate)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid start_date format, expected YYYY-MM-DD")
			return
		}
		start = &d
	}
	if req.EndDate != "" {
		d, err := civil.ParseDate(req.EndDate)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid end_date format, expected YYYY-MM-DD")
			return
		}
		end = &d
	}
	if start != nil && end != nil && start.After(*end) {
		middleware.WriteError(w, http.StatusBadRequest, "start_date must be before end_date")
		return
	}

	bucket := req.Bucket
	if bucket == "" {
		bucket = h.bucket
	}
	if bucket == "" {
		middleware.WriteError(w, http.StatusBadRequest, "no destination bucket configured")
		return
	}

	job := &jobs.BuildFlowReportJob{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Bucket:    bucket,
	}

	if err := h.publisher.PublishBuildFlowReport(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue flow report job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue flow report job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("bucket", bucket).Msg("Flow report job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
