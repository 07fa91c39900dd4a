package flows

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// MatchedPair is one out leg bound to one in leg: a single realized
// transfer between two accounts.
type MatchedPair struct {
	SourceAccountID        string
	SourceAccountName      string
	DestinationAccountID   string
	DestinationAccountName string
	Amount                 decimal.Decimal
	Date                   civil.Date
}

// bucketKey groups the legs that are eligible to match each other: same
// calendar date and same absolute amount.
type bucketKey struct {
	date   civil.Date
	amount string // magnitude at fixed two decimal places
}

func keyFor(leg Leg) bucketKey {
	return bucketKey{date: leg.Date, amount: leg.Magnitude.StringFixed(2)}
}

// MatchLegs pairs outgoing legs with incoming legs sharing a date and an
// absolute amount, first in first out. When several transfers share a day
// and a round amount there is no signal beyond insertion order to tell
// which debit belongs to which credit, so FIFO keeps the result
// deterministic and reproducible.
//
// A leg never matches another leg on the same account: the head of the in
// queue is rotated to the tail and the next candidate tried, for at most
// one full pass per out leg. Any leg left without a partner is dropped —
// a one-sided transfer leg must not fabricate a flow edge.
func MatchLegs(outLegs, inLegs []Leg) []MatchedPair {
	queues := make(map[bucketKey][]Leg)
	for _, leg := range inLegs {
		k := keyFor(leg)
		queues[k] = append(queues[k], leg)
	}

	var pairs []MatchedPair

	// Out legs arrive in sequence order, so processing them globally keeps
	// the per-bucket FIFO discipline and a deterministic pair order.
	for _, out := range outLegs {
		k := keyFor(out)
		queue := queues[k]

		for attempts := len(queue); attempts > 0; attempts-- {
			in := queue[0]
			queue = queue[1:]

			if in.AccountID == out.AccountID {
				// A transaction cannot transfer to itself; keep the leg
				// around for a later out leg in this bucket.
				queue = append(queue, in)
				continue
			}

			pairs = append(pairs, MatchedPair{
				SourceAccountID:        out.AccountID,
				SourceAccountName:      out.AccountName,
				DestinationAccountID:   in.AccountID,
				DestinationAccountName: in.AccountName,
				Amount:                 out.Magnitude,
				Date:                   out.Date,
			})
			break
		}

		queues[k] = queue
	}

	return pairs
}
