package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/suryaGMB/billing-fastapi/billing/form"
)

// Field identifies the form input a validation error is attached to, for
// inline presentation.
type Field int

const (
	FieldNone Field = iota
	FieldEmail
	FieldProductCode
	FieldQuantity
	FieldPaidAmount
	FieldDenomination
)

// Error is one validation finding. Row is the 1-based position of the
// offending product row, or 0 for form-wide errors.
type Error struct {
	Message string
	Row     int
	Field   Field
}

// Something before the '@', and a dot followed by something after it, no
// whitespace or second '@' anywhere.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate inspects a form snapshot and returns every rule violation, in
// presentation order. It is a pure function: all rules are evaluated on every
// call and the result is their union, not a fail-fast short-circuit. An empty
// result means the snapshot may be submitted.
func Validate(s form.Snapshot) []Error {
	var errs []Error

	email := strings.TrimSpace(s.Email)
	if email == "" {
		errs = append(errs, Error{Message: "Customer email is required.", Field: FieldEmail})
	} else if !emailRe.MatchString(email) {
		errs = append(errs, Error{Message: "Enter a valid email address.", Field: FieldEmail})
	}

	eligible := 0
	for i, row := range s.Rows {
		n := i + 1
		if strings.TrimSpace(row.ProductCode) == "" {
			errs = append(errs, Error{
				Message: fmt.Sprintf("Product row %d: product ID required.", n),
				Row:     n,
				Field:   FieldProductCode,
			})
		}
		if row.Quantity <= 0 {
			errs = append(errs, Error{
				Message: fmt.Sprintf("Product row %d: quantity must be at least 1.", n),
				Row:     n,
				Field:   FieldQuantity,
			})
		}
		if row.Eligible() {
			eligible++
		}
	}
	if eligible == 0 {
		errs = append(errs, Error{Message: "Add at least one valid product."})
	}

	if paid, err := PaidAmount(s.PaidAmountRaw); err != nil || paid.IsNegative() {
		errs = append(errs, Error{Message: "Paid amount must be a valid number (>= 0).", Field: FieldPaidAmount})
	}

	for _, d := range s.Denominations {
		if d.Count < 0 {
			errs = append(errs, Error{
				Message: fmt.Sprintf("Denomination %d: count cannot be negative.", d.Value),
				Field:   FieldDenomination,
			})
		}
	}

	return errs
}

// PaidAmount parses the raw paid amount field. An empty field counts as zero.
func PaidAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
