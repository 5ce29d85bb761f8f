package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corebank-dev/corebank/internal/accounts"
	"github.com/corebank-dev/corebank/internal/config"
	"github.com/corebank-dev/corebank/internal/ledger"
)

func newVerifyCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check ledger invariants against stored balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "corebank.yaml", "path to config file")

	return cmd
}

func runVerify(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := accounts.Open(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("opening account store: %w", err)
	}
	led, err := ledger.Open(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	errs := led.Verify(store)
	if len(errs) == 0 {
		fmt.Println("ledger OK")
		return nil
	}

	for _, e := range errs {
		fmt.Println(e.Error())
	}
	return fmt.Errorf("%d invariant violation(s)", len(errs))
}
