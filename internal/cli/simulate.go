package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	simulateCommodity string
	simulateRecipient string
	simulatePrior     string
	simulateCurrent   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Send a test alert through the configured channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		prior, err := decimal.NewFromString(simulatePrior)
		if err != nil {
			return fmt.Errorf("invalid --prior value: %w", err)
		}
		current, err := decimal.NewFromString(simulateCurrent)
		if err != nil {
			return fmt.Errorf("invalid --current value: %w", err)
		}

		return getApp().SimulateAlert(cmd.Context(), simulateCommodity, simulateRecipient, prior, current)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateCommodity, "commodity", "Tomato Big(Nepali)", "Commodity name for the synthetic record")
	simulateCmd.Flags().StringVar(&simulateRecipient, "recipient", "", "Email address that receives the test alert")
	simulateCmd.Flags().StringVar(&simulatePrior, "prior", "30.00", "Prior average price")
	simulateCmd.Flags().StringVar(&simulateCurrent, "current", "36.00", "Current average price")
}
