package ledger

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

const transactionsTable = "transactions"

// transactionQuery builds the parameterized SELECT for a date-range scan of
// the transactions table. kind narrows to a single transaction_type when
// non-empty; a nil date bound leaves that side of the range open.
func transactionQuery(datasetID, kind string, start, end *civil.Date) (string, []bigquery.QueryParameter) {
	query := fmt.Sprintf(`
		SELECT
			transaction_id,
			account_id,
			account_name,
			account_type,
			account_owner,
			transaction_date,
			amount,
			currency,
			transaction_type,
			description,
			category,
			subcategory,
			balance_after,
			is_recurring,
			recurring_frequency,
			notes,
			created_ts
		FROM %s.%s
		WHERE TRUE`, datasetID, transactionsTable)

	var params []bigquery.QueryParameter

	if kind != "" {
		query += "\n\t\t  AND transaction_type = @kind"
		params = append(params, bigquery.QueryParameter{Name: "kind", Value: kind})
	}
	if start != nil {
		query += "\n\t\t  AND transaction_date >= @start_date"
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: start.String()})
	}
	if end != nil {
		query += "\n\t\t  AND transaction_date <= @end_date"
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: end.String()})
	}

	query += "\n\t\tORDER BY transaction_date, created_ts, transaction_id"

	return query, params
}

// QueryTransactionsByDateRange queries transactions within the specified
// date range using a one-shot BigQuery client.
func QueryTransactionsByDateRange(ctx context.Context, projectID, datasetID string, start, end *civil.Date) ([]*TransactionRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactionsByDateRange: creating client: %w", err)
	}
	defer client.Close()

	return queryRowsWithClient(ctx, client, datasetID, "", start, end)
}

// QueryTransfersByDateRange queries Transfer rows within the specified date
// range using a one-shot BigQuery client.
func QueryTransfersByDateRange(ctx context.Context, projectID, datasetID string, start, end *civil.Date) ([]*TransactionRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("QueryTransfersByDateRange: creating client: %w", err)
	}
	defer client.Close()

	return queryRowsWithClient(ctx, client, datasetID, KindTransfer, start, end)
}

// queryRowsWithClient runs the date-range scan using the provided client.
func queryRowsWithClient(ctx context.Context, client *bigquery.Client, datasetID, kind string, start, end *civil.Date) ([]*TransactionRow, error) {
	queryStr, params := transactionQuery(datasetID, kind, start, end)

	q := client.Query(queryStr)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryRowsWithClient: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("queryRowsWithClient: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
