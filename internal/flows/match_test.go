package flows

import (
	"testing"
)

func TestMatchLegs_PairsSameDateAndAmount(t *testing.T) {
	outLegs := []Leg{legFor(t, "acc-checking", "Checking", "2024-01-15", "500", DirectionOut, 0)}
	inLegs := []Leg{legFor(t, "acc-savings", "Savings", "2024-01-15", "500", DirectionIn, 1)}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.SourceAccountID != "acc-checking" || p.DestinationAccountID != "acc-savings" {
		t.Errorf("unexpected pair direction: %s -> %s", p.SourceAccountID, p.DestinationAccountID)
	}
	if !p.Amount.Equal(dec(t, "500")) {
		t.Errorf("expected amount 500, got %s", p.Amount)
	}
	if p.Date != day(t, "2024-01-15") {
		t.Errorf("expected date 2024-01-15, got %s", p.Date)
	}
}

func TestMatchLegs_BucketBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		outLegs []Leg
		inLegs  []Leg
	}{
		{
			name:    "different dates never match",
			outLegs: []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0)},
			inLegs:  []Leg{legFor(t, "b", "B", "2024-01-16", "500", DirectionIn, 1)},
		},
		{
			name:    "different amounts never match",
			outLegs: []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0)},
			inLegs:  []Leg{legFor(t, "b", "B", "2024-01-15", "500.01", DirectionIn, 1)},
		},
		{
			name:    "lone out leg stays unmatched",
			outLegs: []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0)},
		},
		{
			name:   "lone in leg stays unmatched",
			inLegs: []Leg{legFor(t, "b", "B", "2024-01-15", "500", DirectionIn, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := MatchLegs(tt.outLegs, tt.inLegs)
			if len(pairs) != 0 {
				t.Errorf("expected no pairs, got %d: %+v", len(pairs), pairs)
			}
		})
	}
}

func TestMatchLegs_FIFOWithinBucket(t *testing.T) {
	// Two 500 transfers on the same day: a->c and b->d. FIFO must bind the
	// first debit to the first credit.
	outLegs := []Leg{
		legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0),
		legFor(t, "b", "B", "2024-01-15", "500", DirectionOut, 2),
	}
	inLegs := []Leg{
		legFor(t, "c", "C", "2024-01-15", "500", DirectionIn, 1),
		legFor(t, "d", "D", "2024-01-15", "500", DirectionIn, 3),
	}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].SourceAccountID != "a" || pairs[0].DestinationAccountID != "c" {
		t.Errorf("first pair: expected a->c, got %s->%s", pairs[0].SourceAccountID, pairs[0].DestinationAccountID)
	}
	if pairs[1].SourceAccountID != "b" || pairs[1].DestinationAccountID != "d" {
		t.Errorf("second pair: expected b->d, got %s->%s", pairs[1].SourceAccountID, pairs[1].DestinationAccountID)
	}
}

func TestMatchLegs_SameAccountHeadIsRotated(t *testing.T) {
	// The head credit is on the same account as the debit (e.g. a reversal
	// coincidence); the matcher must skip it and bind the next candidate.
	outLegs := []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0)}
	inLegs := []Leg{
		legFor(t, "a", "A", "2024-01-15", "500", DirectionIn, 1),
		legFor(t, "b", "B", "2024-01-15", "500", DirectionIn, 2),
	}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].SourceAccountID != "a" || pairs[0].DestinationAccountID != "b" {
		t.Errorf("expected a->b, got %s->%s", pairs[0].SourceAccountID, pairs[0].DestinationAccountID)
	}
}

func TestMatchLegs_AllSameAccountYieldsNothing(t *testing.T) {
	outLegs := []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0)}
	inLegs := []Leg{
		legFor(t, "a", "A", "2024-01-15", "500", DirectionIn, 1),
		legFor(t, "a", "A", "2024-01-15", "500", DirectionIn, 2),
	}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 0 {
		t.Errorf("expected no pairs for an all-same-account bucket, got %d", len(pairs))
	}
}

func TestMatchLegs_RotationPreservesLaterMatches(t *testing.T) {
	// First out leg is on account a; the only credits available at its turn
	// are a's own, so it stays unmatched. The second out leg on account b
	// must still bind a's credit.
	outLegs := []Leg{
		legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0),
		legFor(t, "b", "B", "2024-01-15", "500", DirectionOut, 1),
	}
	inLegs := []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionIn, 2)}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].SourceAccountID != "b" || pairs[0].DestinationAccountID != "a" {
		t.Errorf("expected b->a, got %s->%s", pairs[0].SourceAccountID, pairs[0].DestinationAccountID)
	}
}

func TestMatchLegs_SurplusLegsAreDropped(t *testing.T) {
	// Three debits, one credit: exactly one pair, no error, no fabricated
	// edges.
	outLegs := []Leg{
		legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0),
		legFor(t, "b", "B", "2024-01-15", "500", DirectionOut, 1),
		legFor(t, "c", "C", "2024-01-15", "500", DirectionOut, 2),
	}
	inLegs := []Leg{legFor(t, "d", "D", "2024-01-15", "500", DirectionIn, 3)}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].SourceAccountID != "a" {
		t.Errorf("expected the first debit to win, got source %s", pairs[0].SourceAccountID)
	}
}

func TestMatchLegs_EquivalentMagnitudesShareBucket(t *testing.T) {
	// 500 and 500.00 are the same money; representation must not split the
	// bucket.
	outLegs := []Leg{legFor(t, "a", "A", "2024-01-15", "500", DirectionOut, 0)}
	inLegs := []Leg{legFor(t, "b", "B", "2024-01-15", "500.00", DirectionIn, 1)}

	pairs := MatchLegs(outLegs, inLegs)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}
