package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suryaGMB/billing-fastapi/billing/form"
)

const (
	msgEmailRequired = "Customer email is required."
	msgEmailInvalid  = "Enter a valid email address."
	msgNoItems       = "Add at least one valid product."
	msgPaidInvalid   = "Paid amount must be a valid number (>= 0)."
)

func validSnapshot() form.Snapshot {
	editor := form.NewEditor()
	editor.SetEmail("a@b.com")
	editor.SetPaidAmount("100")
	editor.AddRow("P001", "2")
	return editor.Snapshot()
}

func messages(errs []Error) []string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func TestValidate_ValidSnapshot(t *testing.T) {
	require.Empty(t, Validate(validSnapshot()))
}

func TestValidate_Email(t *testing.T) {
	t.Run("empty email yields only the required message", func(t *testing.T) {
		s := validSnapshot()
		s.Email = ""
		msgs := messages(Validate(s))
		require.Contains(t, msgs, msgEmailRequired)
		require.NotContains(t, msgs, msgEmailInvalid)
	})

	t.Run("whitespace only counts as empty", func(t *testing.T) {
		s := validSnapshot()
		s.Email = "   "
		msgs := messages(Validate(s))
		require.Contains(t, msgs, msgEmailRequired)
		require.NotContains(t, msgs, msgEmailInvalid)
	})

	t.Run("invalid email yields only the pattern message", func(t *testing.T) {
		for _, email := range []string{"foo", "foo@bar", "foo@bar.", "@bar.com", "a b@c.de", "a@b@c.de"} {
			s := validSnapshot()
			s.Email = email
			msgs := messages(Validate(s))
			require.Contains(t, msgs, msgEmailInvalid, "email %q", email)
			require.NotContains(t, msgs, msgEmailRequired, "email %q", email)
		}
	})

	t.Run("accepted addresses", func(t *testing.T) {
		for _, email := range []string{"a@b.com", "first.last@sub.example.org", "x@y.z"} {
			s := validSnapshot()
			s.Email = email
			require.Empty(t, Validate(s), "email %q", email)
		}
	})
}

func TestValidate_Rows(t *testing.T) {
	t.Run("bad code and quantity produce two scoped errors", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("P001", "1")
		editor.AddRow("", "0")
		errs := Validate(editor.Snapshot())

		var rowErrs []Error
		for _, e := range errs {
			if e.Row == 2 {
				rowErrs = append(rowErrs, e)
			}
		}
		require.Len(t, rowErrs, 2)
		require.Equal(t, "Product row 2: product ID required.", rowErrs[0].Message)
		require.Equal(t, FieldProductCode, rowErrs[0].Field)
		require.Equal(t, "Product row 2: quantity must be at least 1.", rowErrs[1].Message)
		require.Equal(t, FieldQuantity, rowErrs[1].Field)
	})

	t.Run("valid row yields zero errors for that row", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("P001", "1")
		for _, e := range Validate(editor.Snapshot()) {
			require.NotEqual(t, 1, e.Row)
		}
	})

	t.Run("blank code is reported", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("   ", "1")
		msgs := messages(Validate(editor.Snapshot()))
		require.Contains(t, msgs, "Product row 1: product ID required.")
	})

	t.Run("unparseable quantity is reported as below one", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("P001", "abc")
		msgs := messages(Validate(editor.Snapshot()))
		require.Contains(t, msgs, "Product row 1: quantity must be at least 1.")
	})

	t.Run("rows are reported in display order", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("", "1")
		editor.AddRow("", "1")
		editor.AddRow("P003", "1")
		msgs := messages(Validate(editor.Snapshot()))
		require.Equal(t, []string{
			"Product row 1: product ID required.",
			"Product row 2: product ID required.",
		}, msgs)
	})
}

func TestValidate_AggregateItems(t *testing.T) {
	t.Run("no rows at all", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		msgs := messages(Validate(editor.Snapshot()))
		require.Equal(t, []string{msgNoItems}, msgs)
	})

	t.Run("aggregate message accompanies per row messages", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("", "0")
		msgs := messages(Validate(editor.Snapshot()))
		require.Equal(t, []string{
			"Product row 1: product ID required.",
			"Product row 1: quantity must be at least 1.",
			msgNoItems,
		}, msgs)
	})

	t.Run("one eligible row suppresses the aggregate message", func(t *testing.T) {
		editor := form.NewEditor()
		editor.SetEmail("a@b.com")
		editor.AddRow("", "0")
		editor.AddRow("P001", "1")
		msgs := messages(Validate(editor.Snapshot()))
		require.NotContains(t, msgs, msgNoItems)
	})
}

func TestValidate_PaidAmount(t *testing.T) {
	for _, raw := range []string{"-5", "abc", "1.2.3"} {
		s := validSnapshot()
		s.PaidAmountRaw = raw
		msgs := messages(Validate(s))
		require.Contains(t, msgs, msgPaidInvalid, "paid amount %q", raw)
	}
	for _, raw := range []string{"0", "12.5", "", "  ", "100.999"} {
		s := validSnapshot()
		s.PaidAmountRaw = raw
		msgs := messages(Validate(s))
		require.NotContains(t, msgs, msgPaidInvalid, "paid amount %q", raw)
	}
}

func TestValidate_PaidAmountDoesNotShortCircuit(t *testing.T) {
	editor := form.NewEditor()
	editor.SetPaidAmount("abc")
	msgs := messages(Validate(editor.Snapshot()))
	require.Equal(t, []string{msgEmailRequired, msgNoItems, msgPaidInvalid}, msgs)
}

func TestValidate_DenominationCounts(t *testing.T) {
	s := validSnapshot()
	require.Empty(t, Validate(s))

	editor := form.NewEditor()
	editor.SetEmail("a@b.com")
	editor.AddRow("P001", "1")
	require.NoError(t, editor.SetDenominationCount(500, -1))
	errs := Validate(editor.Snapshot())
	require.Len(t, errs, 1)
	require.Equal(t, "Denomination 500: count cannot be negative.", errs[0].Message)
	require.Equal(t, FieldDenomination, errs[0].Field)
}

func TestPaidAmount(t *testing.T) {
	d, err := PaidAmount("")
	require.NoError(t, err)
	require.True(t, d.IsZero())

	d, err = PaidAmount(" 12.345 ")
	require.NoError(t, err)
	require.Equal(t, "12.345", d.String())

	_, err = PaidAmount("abc")
	require.Error(t, err)
}
