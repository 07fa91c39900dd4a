package flows

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-flows/internal/ledger"
)

func TestComputeTransferFlows_SinglePair(t *testing.T) {
	rows := []*ledger.TransactionRow{
		transferRow(t, "t1", "chk", "Checking", "2024-01-15", "-500"),
		transferRow(t, "t2", "sav", "Savings", "2024-01-15", "500"),
	}

	edges := ComputeTransferFlows(rows)

	if len(edges) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(edges))
	}
	e := edges[0]
	if e.SourceAccountName != "Checking" || e.DestinationAccountName != "Savings" {
		t.Errorf("unexpected flow: %q -> %q", e.SourceAccountName, e.DestinationAccountName)
	}
	if e.TotalAmount != 500 || e.TransferCount != 1 {
		t.Errorf("expected total 500 count 1, got %v / %d", e.TotalAmount, e.TransferCount)
	}
}

func TestComputeTransferFlows_RepeatedPairAggregates(t *testing.T) {
	rows := []*ledger.TransactionRow{
		transferRow(t, "t1", "chk", "Checking", "2024-01-15", "-500"),
		transferRow(t, "t2", "sav", "Savings", "2024-01-15", "500"),
		transferRow(t, "t3", "chk", "Checking", "2024-01-20", "-300"),
		transferRow(t, "t4", "sav", "Savings", "2024-01-20", "300"),
	}

	edges := ComputeTransferFlows(rows)

	if len(edges) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(edges))
	}
	if edges[0].TotalAmount != 800 || edges[0].TransferCount != 2 {
		t.Errorf("expected total 800 count 2, got %v / %d", edges[0].TotalAmount, edges[0].TransferCount)
	}
}

func TestComputeTransferFlows_ReverseDirectionNotMerged(t *testing.T) {
	rows := []*ledger.TransactionRow{
		transferRow(t, "t1", "chk", "Checking", "2024-01-15", "-500"),
		transferRow(t, "t2", "sav", "Savings", "2024-01-15", "500"),
		transferRow(t, "t3", "sav", "Savings", "2024-01-18", "-200"),
		transferRow(t, "t4", "chk", "Checking", "2024-01-18", "200"),
	}

	edges := ComputeTransferFlows(rows)

	if len(edges) != 2 {
		t.Fatalf("expected 2 flows, got %d", len(edges))
	}
	if edges[0].SourceAccountName != "Checking" || edges[0].TotalAmount != 500 {
		t.Errorf("unexpected first flow: %+v", edges[0])
	}
	if edges[1].SourceAccountName != "Savings" || edges[1].TotalAmount != 200 {
		t.Errorf("unexpected second flow: %+v", edges[1])
	}
	for _, e := range edges {
		if e.SourceAccountID == e.DestinationAccountID {
			t.Errorf("self-flow emitted: %+v", e)
		}
	}
}

func TestComputeTransferFlows_IgnoresNonTransferRows(t *testing.T) {
	income := transferRow(t, "t1", "chk", "Checking", "2024-01-15", "5000")
	income.Kind = ledger.KindIncome
	expense := transferRow(t, "t2", "chk", "Checking", "2024-01-15", "-200")
	expense.Kind = ledger.KindExpense

	rows := []*ledger.TransactionRow{
		income,
		expense,
		transferRow(t, "t3", "chk", "Checking", "2024-01-15", "-500"),
		transferRow(t, "t4", "sav", "Savings", "2024-01-15", "500"),
	}

	edges := ComputeTransferFlows(rows)

	if len(edges) != 1 {
		t.Fatalf("expected exactly 1 flow, got %d", len(edges))
	}
	if edges[0].TotalAmount != 500 {
		t.Errorf("expected total 500, got %v", edges[0].TotalAmount)
	}
}

func TestComputeTransferFlows_LoneLegYieldsEmptyList(t *testing.T) {
	rows := []*ledger.TransactionRow{
		transferRow(t, "t1", "chk", "Checking", "2024-01-15", "-500"),
	}

	edges := ComputeTransferFlows(rows)

	if edges == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(edges) != 0 {
		t.Errorf("expected no flows, got %d", len(edges))
	}
}

func TestComputeTransferFlows_ConservesMatchedAmounts(t *testing.T) {
	// The sum of flow totals must equal the sum of magnitudes over all legs
	// that found a partner: matched 500+500+300 on one side, with one
	// surplus 300 debit and one lone 75 credit dropped.
	rows := []*ledger.TransactionRow{
		transferRow(t, "t1", "chk", "Checking", "2024-01-15", "-500"),
		transferRow(t, "t2", "sav", "Savings", "2024-01-15", "500"),
		transferRow(t, "t3", "chk", "Checking", "2024-01-15", "-500"),
		transferRow(t, "t4", "brk", "Brokerage", "2024-01-15", "500"),
		transferRow(t, "t5", "chk", "Checking", "2024-01-16", "-300"),
		transferRow(t, "t6", "chk", "Checking", "2024-01-17", "-300"),
		transferRow(t, "t7", "sav", "Savings", "2024-01-16", "300"),
		transferRow(t, "t8", "sav", "Savings", "2024-01-20", "75"),
	}

	outLegs, inLegs := ExtractLegs(rows)
	pairs := MatchLegs(outLegs, inLegs)
	edges := AggregateFlows(pairs)

	matchedTotal := decimal.Zero
	for _, p := range pairs {
		matchedTotal = matchedTotal.Add(p.Amount)
	}

	edgeTotal := decimal.Zero
	for _, e := range edges {
		edgeTotal = edgeTotal.Add(decimal.NewFromFloat(e.TotalAmount))
	}

	if !edgeTotal.Equal(matchedTotal) {
		t.Errorf("flow totals %s do not conserve matched amounts %s", edgeTotal, matchedTotal)
	}
	if !matchedTotal.Equal(dec(t, "1300")) {
		t.Errorf("expected matched total 1300, got %s", matchedTotal)
	}

	pairCount := 0
	for _, e := range edges {
		pairCount += e.TransferCount
	}
	if pairCount != len(pairs) {
		t.Errorf("transfer counts %d do not match pair count %d", pairCount, len(pairs))
	}
}
