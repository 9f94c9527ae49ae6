package form

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// Draft is the YAML on-disk form of a partially or fully filled bill
	// form, so an operator can prepare a bill ahead of time and finish it
	// later.
	Draft struct {
		CustomerEmail string             `yaml:"customer_email"`
		Items         []DraftItem        `yaml:"items"`
		Denominations []DraftDenomination `yaml:"denominations,omitempty"`
		PaidAmount    string             `yaml:"paid_amount,omitempty"`
	}

	DraftItem struct {
		ProductCode string `yaml:"product_code"`
		Quantity    string `yaml:"quantity"`
	}

	DraftDenomination struct {
		Value int64 `yaml:"value"`
		Count int64 `yaml:"count"`
	}
)

// LoadDraft reads a draft file and replays it onto a fresh editor.
func LoadDraft(path string) (*Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft file: %w", err)
	}
	draft := &Draft{}
	if err := yaml.Unmarshal(data, draft); err != nil {
		return nil, fmt.Errorf("parsing draft file %q: %w", path, err)
	}

	editor := NewEditor()
	editor.SetEmail(draft.CustomerEmail)
	editor.SetPaidAmount(draft.PaidAmount)
	for _, item := range draft.Items {
		editor.AddRow(item.ProductCode, item.Quantity)
	}
	for _, d := range draft.Denominations {
		if err := editor.SetDenominationCount(d.Value, d.Count); err != nil {
			return nil, fmt.Errorf("draft file %q: %w", path, err)
		}
	}
	return editor, nil
}

// SaveDraft writes the editor contents to a draft file. Denominations with
// count 0 are omitted, matching an untouched form.
func SaveDraft(path string, editor *Editor) error {
	snapshot := editor.Snapshot()
	draft := &Draft{
		CustomerEmail: snapshot.Email,
		PaidAmount:    snapshot.PaidAmountRaw,
	}
	for _, r := range editor.Rows() {
		draft.Items = append(draft.Items, DraftItem{ProductCode: r.ProductCode, Quantity: r.QuantityRaw})
	}
	for _, d := range snapshot.Denominations {
		if d.Count != 0 {
			draft.Denominations = append(draft.Denominations, DraftDenomination{Value: d.Value, Count: d.Count})
		}
	}
	data, err := yaml.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing draft file: %w", err)
	}
	return nil
}
