package bill

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suryaGMB/billing-fastapi/billing/form"
	"github.com/suryaGMB/billing-fastapi/billing/journal"
	"github.com/suryaGMB/billing-fastapi/billing/presenter"
	"github.com/suryaGMB/billing-fastapi/billing/submitter"
	"github.com/suryaGMB/billing-fastapi/billing/validation"
	"github.com/suryaGMB/billing-fastapi/cli/billing/cmd/args"
	clitypes "github.com/suryaGMB/billing-fastapi/cli/billing/cmd/types"
	"github.com/suryaGMB/billing-fastapi/client"
)

// NewBillCmd creates a new cobra command for working with bills on the
// remote billing service.
func NewBillCmd(baseConfig *clitypes.BaseConfiguration) *cobra.Command {
	config := &clitypes.BillConfig{Base: baseConfig}
	var billCmd = &cobra.Command{
		Use:   "bill",
		Short: "create bills on the billing service and inspect past submissions",
		PersistentPreRunE: func(ccmd *cobra.Command, args []string) error {
			// initialize config so that baseConfig.HomeDir gets configured
			if err := clitypes.InitializeConfig(ccmd, baseConfig); err != nil {
				return fmt.Errorf("initializing base configuration: %w", err)
			}
			config.JournalDir = filepath.Join(baseConfig.HomeDir, "journal")
			return nil
		},
	}
	billCmd.AddCommand(createCmd(config))
	billCmd.AddCommand(purchasesCmd(config))
	billCmd.AddCommand(showCmd(config))
	billCmd.AddCommand(historyCmd(config))
	billCmd.PersistentFlags().StringVarP(&config.ApiUrl, args.ApiUrl, "u", args.DefaultApiUrl, "billing service url")
	return billCmd
}

func createCmd(billConfig *clitypes.BillConfig) *cobra.Command {
	config := &clitypes.CreateConfig{BillConfig: billConfig}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "fill in a bill form and submit it for generation",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return execCreateCmd(cmd, config)
		},
	}
	cmd.Flags().StringVarP(&config.Email, args.EmailCmdName, "e", "", "customer email the bill is issued to")
	cmd.Flags().StringSliceVarP(&config.Items, args.ItemCmdName, "i", nil, "product row as CODE:QTY, repeatable (QTY defaults to 1)")
	cmd.Flags().StringSliceVarP(&config.Denominations, args.DenominationCmdName, "d", nil, "cash denomination as VALUE:COUNT, repeatable")
	cmd.Flags().StringVarP(&config.Paid, args.PaidCmdName, "p", "", "amount the customer paid")
	cmd.Flags().StringVarP(&config.DraftFile, args.FileCmdName, "f", "", "load the form from a YAML draft file")
	cmd.Flags().StringVar(&config.SaveDraft, args.SaveDraftCmdName, "", "write the form to a YAML draft file instead of submitting")
	cmd.Flags().IntSliceVar(&config.RemoveRows, args.RemoveRowCmdName, nil, "remove the given 1-based product row, repeatable, applied after --file")
	cmd.Flags().BoolVar(&config.Interactive, args.InteractiveCmdName, false, "edit the form interactively before submitting")
	cmd.Flags().DurationVar(&config.Timeout, args.TimeoutCmdName, submitter.DefaultTimeout, "how long to wait for the billing service")
	return cmd
}

func execCreateCmd(cmd *cobra.Command, config *clitypes.CreateConfig) error {
	console := config.BillConfig.Base.ConsoleWriter
	log := config.BillConfig.Base.Logger

	editor, err := buildEditor(cmd, config)
	if err != nil {
		return err
	}
	if config.Interactive {
		if err := runInteractive(config, editor); err != nil {
			return err
		}
	}
	if config.SaveDraft != "" {
		if err := form.SaveDraft(config.SaveDraft, editor); err != nil {
			return err
		}
		console.Println("Draft saved to " + config.SaveDraft)
		return nil
	}

	// One immutable read of the form per attempt; the validator and the
	// submitter never touch the live editor state.
	snapshot := editor.Snapshot()

	out := presenter.New(console)
	out.Clear()
	validationErrs := validation.Validate(snapshot)
	if len(validationErrs) > 0 {
		out.RenderErrors(validationErrs)
		return fmt.Errorf("bill form validation failed with %d error(s)", len(validationErrs))
	}

	apiClient, err := client.New(args.BuildApiUrl(config.BillConfig.ApiUrl))
	if err != nil {
		return err
	}
	sub := submitter.New(apiClient, out, submitter.ConsoleNavigator{Console: console}, config.Timeout, log)
	res, submitErr := sub.Submit(cmd.Context(), snapshot)

	if err := recordSubmission(config.BillConfig.JournalDir, snapshot, res, submitErr); err != nil {
		log.Warn("failed to journal submission attempt", "err", err)
	}

	if submitErr != nil {
		// the operator facing message has been rendered by the submitter
		return submitErr
	}
	if res.RemainderUnreturned != "" && res.RemainderUnreturned != "0" {
		console.Println("Change remainder not returned: " + res.RemainderUnreturned)
	}
	return nil
}

// buildEditor assembles the form from the draft file and flags: draft first,
// then row removals, then added rows and denomination counts.
func buildEditor(cmd *cobra.Command, config *clitypes.CreateConfig) (*form.Editor, error) {
	var editor *form.Editor
	if config.DraftFile != "" {
		var err error
		if editor, err = form.LoadDraft(config.DraftFile); err != nil {
			return nil, err
		}
	} else {
		editor = form.NewEditor()
	}

	for _, pos := range config.RemoveRows {
		if err := editor.RemoveRow(pos); err != nil {
			return nil, err
		}
	}
	for _, item := range config.Items {
		code, qty := parseItemFlag(item)
		editor.AddRow(code, qty)
	}
	for _, d := range config.Denominations {
		value, count, err := parseDenominationFlag(d)
		if err != nil {
			return nil, err
		}
		if err := editor.SetDenominationCount(value, count); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed(args.EmailCmdName) {
		editor.SetEmail(config.Email)
	}
	if cmd.Flags().Changed(args.PaidCmdName) {
		editor.SetPaidAmount(config.Paid)
	}
	return editor, nil
}

// parseItemFlag splits CODE:QTY, leaving the quantity raw so the validator
// reports nonsense values. A missing quantity defaults to 1 like a fresh row.
func parseItemFlag(s string) (code string, quantityRaw string) {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, "1"
}

func parseDenominationFlag(s string) (value int64, count int64, err error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return 0, 0, fmt.Errorf("invalid denomination %q, expected VALUE:COUNT", s)
	}
	if value, err = strconv.ParseInt(s[:i], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid denomination value in %q: %w", s, err)
	}
	if count, err = strconv.ParseInt(s[i+1:], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid denomination count in %q: %w", s, err)
	}
	return value, count, nil
}

func recordSubmission(journalDir string, snapshot form.Snapshot, res *submitter.Result, submitErr error) error {
	j, err := journal.New(journalDir)
	if err != nil {
		return err
	}
	defer j.Close()

	paid, _ := validation.PaidAmount(snapshot.PaidAmountRaw)
	entry := &journal.Entry{
		CustomerEmail: strings.TrimSpace(snapshot.Email),
		PaidAmount:    paid.Round(2).InexactFloat64(),
	}
	for _, row := range snapshot.Rows {
		if row.Eligible() {
			entry.ItemCount++
		}
	}

	var apiErr *client.APIError
	switch {
	case submitErr == nil:
		entry.Status = journal.StatusConfirmed
		entry.BillID = res.BillID
	case errors.As(submitErr, &apiErr):
		entry.Status = journal.StatusRejected
		entry.Detail = apiErr.Detail
	default:
		entry.Status = journal.StatusFailed
		entry.Detail = submitErr.Error()
	}
	return j.Record(entry)
}

func purchasesCmd(billConfig *clitypes.BillConfig) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "open the purchase history page of a customer",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return execPurchasesCmd(billConfig, email)
		},
	}
	cmd.Flags().StringVarP(&email, args.EmailCmdName, "e", "", "customer email to look up")
	return cmd
}

// execPurchasesCmd only requires the email to be non-empty, its shape is not
// checked and no request is made; the history page itself handles unknown
// customers.
func execPurchasesCmd(billConfig *clitypes.BillConfig, email string) error {
	if email == "" {
		return errors.New("enter customer email to view purchases")
	}
	apiClient, err := client.New(args.BuildApiUrl(billConfig.ApiUrl))
	if err != nil {
		return err
	}
	nav := submitter.ConsoleNavigator{Console: billConfig.Base.ConsoleWriter}
	nav.Navigate(apiClient.PurchasesURL(email))
	return nil
}

func showCmd(billConfig *clitypes.BillConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <bill-id>",
		Short: "fetch and print a stored bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return execShowCmd(cmd.Context(), billConfig, cmdArgs[0])
		},
	}
	return cmd
}

func execShowCmd(ctx context.Context, billConfig *clitypes.BillConfig, billID string) error {
	apiClient, err := client.New(args.BuildApiUrl(billConfig.ApiUrl))
	if err != nil {
		return err
	}
	details, err := apiClient.GetBill(ctx, billID)
	if err != nil {
		return fmt.Errorf("failed to fetch bill: %w", err)
	}

	console := billConfig.Base.ConsoleWriter
	console.Println(fmt.Sprintf("Bill #%s for %s (created %s)", details.Bill.ID, details.Bill.CustomerEmail, details.Bill.CreatedAt))
	console.Println(fmt.Sprintf("Total without tax: %s, tax: %s, total: %s", details.Bill.TotalWithoutTax, details.Bill.TotalTax, details.Bill.TotalWithTax))
	console.Println(fmt.Sprintf("Paid: %s, change given: %s", details.Bill.PaidAmount, details.Bill.ChangeGiven))
	for i, line := range details.Items {
		name := ""
		if line.ProductName != nil {
			name = " " + *line.ProductName
		}
		console.Println(fmt.Sprintf("#%d %s%s x%d @ %s (tax %s%%) = %s",
			i+1, line.ProductID, name, line.Quantity, line.UnitPrice, line.TaxPercentage, line.LineTotal))
	}
	for denomination, count := range details.ChangeDistribution {
		console.Println(fmt.Sprintf("Change %s x %d", denomination, count))
	}
	return nil
}

func historyCmd(billConfig *clitypes.BillConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "list journalled bill submission attempts",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return execHistoryCmd(billConfig)
		},
	}
	return cmd
}

func execHistoryCmd(billConfig *clitypes.BillConfig) error {
	j, err := journal.New(billConfig.JournalDir)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Entries()
	if err != nil {
		return fmt.Errorf("failed to read submission journal: %w", err)
	}

	console := billConfig.Base.ConsoleWriter
	if len(entries) == 0 {
		console.Println("No submissions recorded.")
		return nil
	}
	for i, e := range entries {
		line := fmt.Sprintf("#%d %s %s %d item(s) paid %.2f - %s",
			i+1, e.CreatedAt.Format(time.RFC3339), e.CustomerEmail, e.ItemCount, e.PaidAmount, e.Status)
		switch e.Status {
		case journal.StatusConfirmed:
			line += " bill " + e.BillID
		default:
			line += ": " + e.Detail
		}
		console.Println(line)
	}
	return nil
}
