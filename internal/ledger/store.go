package ledger

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// BigQueryStore is the concrete implementation of Store that reads the
// ledger from BigQuery. It holds a shared client to avoid creating a new
// connection for each operation.
type BigQueryStore struct {
	client    *bigquery.Client
	datasetID string
}

// NewBigQueryStore creates a new BigQueryStore with a shared BigQuery client.
func NewBigQueryStore(ctx context.Context, projectID, datasetID string) (*BigQueryStore, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryStore: creating client: %w", err)
	}
	return &BigQueryStore{
		client:    client,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the store is no longer needed to release resources.
func (s *BigQueryStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// QueryTransactionsByDateRange implements the Store interface with the
// shared client.
func (s *BigQueryStore) QueryTransactionsByDateRange(ctx context.Context, start, end *civil.Date) ([]*TransactionRow, error) {
	return queryRowsWithClient(ctx, s.client, s.datasetID, "", start, end)
}

// QueryTransfersByDateRange implements the Store interface with the shared
// client.
func (s *BigQueryStore) QueryTransfersByDateRange(ctx context.Context, start, end *civil.Date) ([]*TransactionRow, error) {
	return queryRowsWithClient(ctx, s.client, s.datasetID, KindTransfer, start, end)
}

// Ensure BigQueryStore implements the Store interface.
var _ Store = (*BigQueryStore)(nil)
