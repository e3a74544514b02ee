package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/modelmarket/pkg/market"
)

func newJournalCmd() *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "List committed invocations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return withMarket(cmd, func(svc *market.Service) error {
				entries, err := svc.Journal(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					cmd.Println("No journal entries")
					return nil
				}
				for _, e := range entries {
					cmd.Printf("%s  %s  %-15s %s\n",
						e.ID, e.Timestamp.Format(time.RFC3339), e.Operation, strings.Join(e.Accounts, ","))
				}
				return nil
			})
		},
	}

	journalCmd.Flags().Int("limit", 20, "Maximum entries to show (0 for all)")
	return journalCmd
}
