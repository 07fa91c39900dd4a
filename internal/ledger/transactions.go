package ledger

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// Transaction kinds carried in the transaction_type column.
const (
	KindIncome   = "Income"
	KindExpense  = "Expense"
	KindTransfer = "Transfer"
)

// TransactionRow mirrors the finance.transactions table. The ledger is
// append-only from this service's point of view; rows are only ever read.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	AccountID    string              `bigquery:"account_id"`    // REQUIRED
	AccountName  string              `bigquery:"account_name"`  // REQUIRED
	AccountType  bigquery.NullString `bigquery:"account_type"`  // NULLABLE
	AccountOwner bigquery.NullString `bigquery:"account_owner"` // NULLABLE

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	Amount   *big.Rat `bigquery:"amount"`   // REQUIRED NUMERIC, negative = money leaving the account
	Currency string   `bigquery:"currency"` // REQUIRED STRING

	Kind string `bigquery:"transaction_type"` // REQUIRED: Income, Expense or Transfer

	Description string              `bigquery:"description"` // REQUIRED STRING
	Category    bigquery.NullString `bigquery:"category"`    // NULLABLE
	Subcategory bigquery.NullString `bigquery:"subcategory"` // NULLABLE

	BalanceAfter *big.Rat `bigquery:"balance_after"` // NULLABLE NUMERIC

	IsRecurring        bigquery.NullBool   `bigquery:"is_recurring"`
	RecurringFrequency bigquery.NullString `bigquery:"recurring_frequency"`
	Notes              bigquery.NullString `bigquery:"notes"`

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}
