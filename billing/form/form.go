package form

import (
	"fmt"
	"strconv"
	"strings"
)

// DenominationValues is the fixed set of cash denominations the service
// accepts, in the order they are rendered and submitted.
var DenominationValues = []int64{2000, 500, 200, 100, 50, 20, 10, 5, 2, 1}

type (
	// Row is a single editable product row. Quantity is kept raw until a
	// snapshot is taken so that nonsense input survives editing and is
	// reported by the validator instead of being silently dropped.
	Row struct {
		ProductCode string
		QuantityRaw string
	}

	// LineItemRow is the parsed form of a Row inside a Snapshot. A quantity
	// that could not be parsed as an integer becomes 0.
	LineItemRow struct {
		ProductCode string
		Quantity    int
	}

	// DenominationEntry holds the operator supplied note count for one
	// denomination value. Exactly one entry per value exists in a snapshot.
	DenominationEntry struct {
		Value int64
		Count int64
	}

	// Snapshot is an immutable read of the whole form at one instant. It is
	// built fresh for every validation/submission attempt and passed by
	// value, never cached.
	Snapshot struct {
		Email         string
		Rows          []LineItemRow
		Denominations []DenominationEntry
		PaidAmountRaw string
	}

	// Editor is the mutable form state: an ordered row list, the fixed
	// denomination counts, the customer email and the raw paid amount.
	Editor struct {
		email  string
		rows   []Row
		counts map[int64]int64
		paid   string
	}
)

func NewEditor() *Editor {
	return &Editor{counts: map[int64]int64{}}
}

// AddRow appends a row to the end of the ordered row set. Duplicate product
// codes are allowed, there is no upper bound on the row count.
func (e *Editor) AddRow(code string, quantityRaw string) {
	e.rows = append(e.rows, Row{ProductCode: code, QuantityRaw: quantityRaw})
}

// AddEmptyRow appends a fresh row with the defaults a new form row gets:
// empty product code and quantity 1.
func (e *Editor) AddEmptyRow() {
	e.AddRow("", "1")
}

// RemoveRow deletes the row at the given 1-based position immediately,
// shifting later rows up.
func (e *Editor) RemoveRow(pos int) error {
	if pos < 1 || pos > len(e.rows) {
		return fmt.Errorf("no product row %d to remove (form has %d)", pos, len(e.rows))
	}
	e.rows = append(e.rows[:pos-1], e.rows[pos:]...)
	return nil
}

func (e *Editor) RowCount() int {
	return len(e.rows)
}

func (e *Editor) Rows() []Row {
	rows := make([]Row, len(e.rows))
	copy(rows, e.rows)
	return rows
}

func (e *Editor) SetEmail(email string) {
	e.email = email
}

func (e *Editor) Email() string {
	return e.email
}

func (e *Editor) SetPaidAmount(raw string) {
	e.paid = raw
}

// SetDenominationCount sets the note count for one of the fixed denomination
// values. The value set itself is not editable.
func (e *Editor) SetDenominationCount(value, count int64) error {
	for _, v := range DenominationValues {
		if v == value {
			e.counts[value] = count
			return nil
		}
	}
	return fmt.Errorf("unknown denomination value %d", value)
}

// Snapshot reads the current form state into an immutable value. Every
// denomination gets an entry whether touched or not; untouched means count 0.
func (e *Editor) Snapshot() Snapshot {
	s := Snapshot{
		Email:         e.email,
		PaidAmountRaw: e.paid,
		Rows:          make([]LineItemRow, 0, len(e.rows)),
		Denominations: make([]DenominationEntry, 0, len(DenominationValues)),
	}
	for _, r := range e.rows {
		qty, err := strconv.Atoi(strings.TrimSpace(r.QuantityRaw))
		if err != nil {
			qty = 0
		}
		s.Rows = append(s.Rows, LineItemRow{ProductCode: r.ProductCode, Quantity: qty})
	}
	for _, v := range DenominationValues {
		s.Denominations = append(s.Denominations, DenominationEntry{Value: v, Count: e.counts[v]})
	}
	return s
}

// Eligible reports whether the row may be included in an outgoing bill
// request: non-empty product code and a positive quantity.
func (r LineItemRow) Eligible() bool {
	return strings.TrimSpace(r.ProductCode) != "" && r.Quantity > 0
}
