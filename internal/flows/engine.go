// Package flows derives directed money-movement edges between accounts
// from raw ledger transaction records: extract transfer legs, pair debits
// with credits that share a date and amount, then aggregate the pairs per
// ordered account pair.
//
// The computation is pure and request-scoped. It holds no state between
// calls, never errors on well-typed input, and is safe to run concurrently.
package flows

import (
	"github.com/dvloznov/finance-flows/internal/ledger"
)

// ComputeTransferFlows runs the full pipeline over a snapshot of ledger
// rows already filtered to the requested date range. Non-transfer rows are
// tolerated and ignored.
func ComputeTransferFlows(rows []*ledger.TransactionRow) []TransferFlow {
	outLegs, inLegs := ExtractLegs(rows)
	pairs := MatchLegs(outLegs, inLegs)
	return AggregateFlows(pairs)
}
