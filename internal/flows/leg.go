package flows

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-flows/internal/ledger"
)

// Direction marks which side of a transfer a leg sits on.
type Direction string

const (
	// DirectionOut is money leaving an account (negative amount).
	DirectionOut Direction = "out"
	// DirectionIn is money entering an account (positive amount).
	DirectionIn Direction = "in"
)

// Leg is one half of a transfer: a single account's debit or credit entry.
type Leg struct {
	AccountID   string
	AccountName string
	Date        civil.Date
	Magnitude   decimal.Decimal
	Direction   Direction
	Sequence    int
}

// ExtractLegs splits transfer rows into outgoing and incoming legs,
// preserving relative input order. Rows that are not transfers contribute
// nothing, and neither do zero-amount rows. Rows missing a required field
// are skipped rather than failing the scan; one bad row must not take down
// the whole report.
func ExtractLegs(rows []*ledger.TransactionRow) (outLegs, inLegs []Leg) {
	for i, row := range rows {
		if row == nil || row.Kind != ledger.KindTransfer {
			continue
		}
		if row.TransactionID == "" || row.AccountID == "" || row.Amount == nil || !row.TransactionDate.IsValid() {
			continue
		}

		amount := decimal.NewFromBigRat(row.Amount, 2)
		leg := Leg{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			Date:        row.TransactionDate,
			Sequence:    i,
		}

		switch amount.Sign() {
		case -1:
			leg.Direction = DirectionOut
			leg.Magnitude = amount.Neg()
			outLegs = append(outLegs, leg)
		case 1:
			leg.Direction = DirectionIn
			leg.Magnitude = amount
			inLegs = append(inLegs, leg)
		}
	}

	return outLegs, inLegs
}
