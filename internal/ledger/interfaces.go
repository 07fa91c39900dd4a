package ledger

import (
	"context"

	"cloud.google.com/go/civil"
)

// Store defines the read interface over the transaction ledger.
// This abstraction enables mocking and testing of handlers and report
// builders without a live BigQuery connection.
type Store interface {
	// QueryTransactionsByDateRange retrieves transactions of any kind whose
	// transaction_date lies in [start, end], both ends inclusive. A nil
	// bound leaves that side of the range open. Rows come back in stable
	// (transaction_date, created_ts, transaction_id) order.
	QueryTransactionsByDateRange(ctx context.Context, start, end *civil.Date) ([]*TransactionRow, error)

	// QueryTransfersByDateRange is QueryTransactionsByDateRange restricted
	// to rows tagged Transfer.
	QueryTransfersByDateRange(ctx context.Context, start, end *civil.Date) ([]*TransactionRow, error)
}
