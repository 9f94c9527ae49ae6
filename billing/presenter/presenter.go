package presenter

import (
	"fmt"
	"strings"

	"github.com/suryaGMB/billing-fastapi/billing/validation"
)

// Console is the output sink the presenter renders to. The CLI passes its
// console writer; tests pass a capturing implementation.
type Console interface {
	Println(a ...any)
	Print(a ...any)
}

// Presenter owns the result area of the form: the aggregate error list,
// per-row inline messages and field-invalid marks. State from a previous
// validation pass never leaks into the next one; every pass starts with
// Clear and re-renders from scratch.
type Presenter struct {
	console Console

	result string
	inline map[int][]string
	marked map[string]struct{}
}

func New(console Console) *Presenter {
	p := &Presenter{console: console}
	p.Clear()
	return p
}

// Clear drops all previously rendered errors, inline messages and invalid
// marks. Safe to call when none exist.
func (p *Presenter) Clear() {
	p.result = ""
	p.inline = map[int][]string{}
	p.marked = map[string]struct{}{}
}

// RenderErrors renders the aggregate error list in the order produced by the
// validator and records inline messages and invalid marks for the implicated
// fields. The caller is expected to Clear first.
func (p *Presenter) RenderErrors(errs []validation.Error) {
	var b strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&b, "  - %s\n", e.Message)

		switch e.Field {
		case validation.FieldProductCode:
			p.inline[e.Row] = append(p.inline[e.Row], "Product ID required")
			p.mark(rowFieldKey(e.Row, "product_code"))
		case validation.FieldQuantity:
			p.inline[e.Row] = append(p.inline[e.Row], "Quantity must be at least 1")
			p.mark(rowFieldKey(e.Row, "quantity"))
		case validation.FieldPaidAmount:
			p.mark("paid_amount")
		}
	}
	p.ShowResult(strings.TrimSuffix(b.String(), "\n"))
}

// ShowResult replaces the result area content and prints it.
func (p *Presenter) ShowResult(text string) {
	p.result = text
	p.console.Println(text)
}

// Result returns the current result area content.
func (p *Presenter) Result() string {
	return p.result
}

// InlineMessages returns the inline messages rendered under the given
// 1-based row, in the order they were produced.
func (p *Presenter) InlineMessages(row int) []string {
	return p.inline[row]
}

// FieldInvalid reports whether the named field was marked invalid by the
// last rendered pass. Row fields are addressed as "row[N].product_code" and
// "row[N].quantity" with N 1-based; the paid amount as "paid_amount".
func (p *Presenter) FieldInvalid(name string) bool {
	_, ok := p.marked[name]
	return ok
}

func (p *Presenter) mark(name string) {
	p.marked[name] = struct{}{}
}

func rowFieldKey(row int, field string) string {
	return fmt.Sprintf("row[%d].%s", row, field)
}
