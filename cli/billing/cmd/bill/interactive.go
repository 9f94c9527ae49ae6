package bill

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/suryaGMB/billing-fastapi/billing/form"
	clitypes "github.com/suryaGMB/billing-fastapi/cli/billing/cmd/types"
)

// runInteractive lets the operator edit the form in a prompt loop before it
// is submitted. Requires stdin to be a terminal.
func runInteractive(config *clitypes.CreateConfig, editor *form.Editor) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive mode requires a terminal")
	}
	console := config.BillConfig.Base.ConsoleWriter
	if editor.RowCount() == 0 {
		// a fresh form starts with one empty row
		editor.AddEmptyRow()
	}

	printForm(console, editor)
	console.Println("Commands: email <addr> | add [code] [qty] | remove <row> | denom <value> <count> | paid <amount> | show | done | abort")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		console.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return errors.New("form editing aborted")
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch cmd, rest := fields[0], fields[1:]; cmd {
		case "email":
			if len(rest) != 1 {
				console.Println("usage: email <addr>")
				continue
			}
			editor.SetEmail(rest[0])
		case "add":
			code, qty := "", "1"
			if len(rest) > 0 {
				code = rest[0]
			}
			if len(rest) > 1 {
				qty = rest[1]
			}
			editor.AddRow(code, qty)
		case "remove":
			if len(rest) != 1 {
				console.Println("usage: remove <row>")
				continue
			}
			pos, err := strconv.Atoi(rest[0])
			if err != nil {
				console.Println("invalid row number " + rest[0])
				continue
			}
			if err := editor.RemoveRow(pos); err != nil {
				console.Println(err.Error())
			}
		case "denom":
			if len(rest) != 2 {
				console.Println("usage: denom <value> <count>")
				continue
			}
			value, err1 := strconv.ParseInt(rest[0], 10, 64)
			count, err2 := strconv.ParseInt(rest[1], 10, 64)
			if err1 != nil || err2 != nil {
				console.Println("denomination value and count must be integers")
				continue
			}
			if err := editor.SetDenominationCount(value, count); err != nil {
				console.Println(err.Error())
			}
		case "paid":
			if len(rest) != 1 {
				console.Println("usage: paid <amount>")
				continue
			}
			editor.SetPaidAmount(rest[0])
		case "show":
			printForm(console, editor)
		case "done":
			return nil
		case "abort":
			return errors.New("form editing aborted")
		default:
			console.Println("unknown command " + cmd)
		}
	}
}

func printForm(console clitypes.ConsoleWrapper, editor *form.Editor) {
	console.Println("Customer email: " + editor.Email())
	for i, row := range editor.Rows() {
		console.Println(fmt.Sprintf("#%d %q x %s", i+1, row.ProductCode, row.QuantityRaw))
	}
	snapshot := editor.Snapshot()
	for _, d := range snapshot.Denominations {
		if d.Count != 0 {
			console.Println(fmt.Sprintf("Denomination %d x %d", d.Value, d.Count))
		}
	}
	console.Println("Paid amount: " + snapshot.PaidAmountRaw)
}
