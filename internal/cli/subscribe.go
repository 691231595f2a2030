package cli

import (
	"github.com/spf13/cobra"
)

var (
	subscribeEmail       string
	subscribeCommodities []string
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Register a subscriber's commodity watch-list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Subscribe(cmd.Context(), subscribeEmail, subscribeCommodities)
	},
}

func init() {
	subscribeCmd.Flags().StringVar(&subscribeEmail, "email", "", "Subscriber email address")
	subscribeCmd.Flags().StringSliceVar(&subscribeCommodities, "commodities", nil, "Comma-separated commodity names to watch")
}
