package client

import (
	"encoding/json"
	"fmt"
)

type (
	// BillItem is one line of the outgoing bill request.
	BillItem struct {
		ProductCode string `json:"product_code"`
		Quantity    int    `json:"quantity"`
	}

	// Denomination is one entry of the cash breakdown. The request always
	// carries all ten fixed values in descending order.
	Denomination struct {
		Value int64 `json:"value"`
		Count int64 `json:"count"`
	}

	// CreateBillRequest is the wire payload of POST /api/generate-bill.
	// PaidAmount is rounded to 2 decimal places before it gets here.
	CreateBillRequest struct {
		CustomerEmail string         `json:"customer_email"`
		Items         []BillItem     `json:"items"`
		Denominations []Denomination `json:"denominations"`
		PaidAmount    float64        `json:"paid_amount"`
	}

	// GenerateBillResponse is the success body of POST /api/generate-bill.
	// The change fields are informational extras the service may include.
	GenerateBillResponse struct {
		BillID              BillID           `json:"bill_id"`
		CustomerEmail       string           `json:"customer_email"`
		ChangeDistribution  map[string]int64 `json:"change_distribution,omitempty"`
		RemainderUnreturned string           `json:"remainder_unreturned,omitempty"`
	}

	// BillDetails is the body of GET /api/bill/{id}.
	BillDetails struct {
		Bill               BillSummary      `json:"bill"`
		Items              []BillLine       `json:"items"`
		ChangeDistribution map[string]int64 `json:"change_distribution,omitempty"`
	}

	BillSummary struct {
		ID              BillID `json:"id"`
		CustomerEmail   string `json:"customer_email"`
		CreatedAt       string `json:"created_at"`
		TotalWithoutTax string `json:"total_without_tax"`
		TotalTax        string `json:"total_tax"`
		TotalWithTax    string `json:"total_with_tax"`
		PaidAmount      string `json:"paid_amount"`
		ChangeGiven     string `json:"change_given"`
	}

	BillLine struct {
		ProductID     BillID  `json:"product_id"`
		ProductName   *string `json:"product_name"`
		Quantity      int     `json:"quantity"`
		UnitPrice     string  `json:"unit_price"`
		TaxPercentage string  `json:"tax_percentage"`
		LineTotal     string  `json:"line_total"`
	}
)

// BillID is a bill identifier as the service reports it. The service is free
// to use numeric or string ids so both JSON forms are accepted.
type BillID string

func (b *BillID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = BillID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bill id must be a string or a number: %w", err)
	}
	*b = BillID(n.String())
	return nil
}

func (b BillID) String() string {
	return string(b)
}

// APIError is a non-2xx reply from the billing service. Detail carries the
// server provided "detail" string, or the raw response body when the server
// did not provide one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("billing service returned status %d: %s", e.StatusCode, e.Detail)
}
