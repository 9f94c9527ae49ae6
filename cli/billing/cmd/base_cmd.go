package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suryaGMB/billing-fastapi/cli/billing/cmd/bill"
	"github.com/suryaGMB/billing-fastapi/cli/billing/cmd/types"
)

type BillingApp struct {
	baseCmd  *cobra.Command
	baseConf *types.BaseConfiguration
}

// New creates a new billing CLI application
func New() *BillingApp {
	baseCmd, baseConfig := newBaseCmd()
	app := &BillingApp{baseCmd: baseCmd, baseConf: baseConfig}
	app.AddSubcommands()
	return app
}

// Execute runs the application
func (a *BillingApp) Execute(ctx context.Context) error {
	return a.baseCmd.ExecuteContext(ctx)
}

func (a *BillingApp) AddSubcommands() {
	a.baseCmd.AddCommand(bill.NewBillCmd(a.baseConf))
}

func newBaseCmd() (*cobra.Command, *types.BaseConfiguration) {
	config := &types.BaseConfiguration{}
	// baseCmd represents the base command when called without any subcommands
	var baseCmd = &cobra.Command{
		Use:           "billing",
		Short:         "CLI client for the bill generation service",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// You can bind cobra and viper in a few locations, but PersistencePreRunE on the base command works well
			// If subcommand does not define PersistentPreRunE, the one from base cmd is used.
			if err := types.InitializeConfig(cmd, config); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}
	config.AddConfigurationFlags(baseCmd)
	return baseCmd, config
}
