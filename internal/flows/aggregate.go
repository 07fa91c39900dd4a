package flows

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TransferFlow is a directed money-movement edge: the aggregated total of
// all matched pairs flowing from one account to another. (A,B) and (B,A)
// are distinct edges; flows are never netted.
type TransferFlow struct {
	SourceAccountID        string  `json:"source_account_id"`
	SourceAccountName      string  `json:"source_account_name"`
	DestinationAccountID   string  `json:"destination_account_id"`
	DestinationAccountName string  `json:"destination_account_name"`
	TotalAmount            float64 `json:"total_amount"`
	TransferCount          int     `json:"transfer_count"`
}

type flowKey struct {
	sourceID      string
	destinationID string
}

type flowTotal struct {
	sourceName      string
	destinationName string
	total           decimal.Decimal
	count           int
}

// AggregateFlows groups matched pairs by their ordered (source,
// destination) account pair and sums amounts and counts. Totals accumulate
// as exact decimals and convert to float64 only for the output edge, so
// two-decimal currency sums round-trip exactly.
//
// Edges come back sorted by total amount descending; equal totals keep the
// order in which the pair was first observed in the matched-pair stream.
// An empty input yields an empty, non-nil slice.
func AggregateFlows(pairs []MatchedPair) []TransferFlow {
	totals := make(map[flowKey]*flowTotal)
	var order []flowKey

	for _, p := range pairs {
		k := flowKey{sourceID: p.SourceAccountID, destinationID: p.DestinationAccountID}
		entry, ok := totals[k]
		if !ok {
			entry = &flowTotal{
				sourceName:      p.SourceAccountName,
				destinationName: p.DestinationAccountName,
			}
			totals[k] = entry
			order = append(order, k)
		}
		entry.total = entry.total.Add(p.Amount)
		entry.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]].total.Cmp(totals[order[j]].total) > 0
	})

	edges := make([]TransferFlow, 0, len(order))
	for _, k := range order {
		entry := totals[k]
		edges = append(edges, TransferFlow{
			SourceAccountID:        k.sourceID,
			SourceAccountName:      entry.sourceName,
			DestinationAccountID:   k.destinationID,
			DestinationAccountName: entry.destinationName,
			TotalAmount:            entry.total.InexactFloat64(),
			TransferCount:          entry.count,
		})
	}

	return edges
}
