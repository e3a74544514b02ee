package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/market"
)

func newAccountCmd() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Create, show and fund accounts",
	}
	accountCmd.AddCommand(newAccountCreateCmd(), newAccountShowCmd(), newAccountAirdropCmd())
	return accountCmd
}

func newAccountCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create an account with a fresh address.

With --listing the account is an empty listing account owned by the
configured program and funded to the rent-exempt minimum.

Examples:
  modelmarket account create --lamports 20000000
  modelmarket account create --listing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerText, _ := cmd.Flags().GetString("owner")
			space, _ := cmd.Flags().GetInt("space")
			lamports, _ := cmd.Flags().GetUint64("lamports")
			listing, _ := cmd.Flags().GetBool("listing")

			return withMarket(cmd, func(svc *market.Service) error {
				var (
					account *ledger.Account
					err     error
				)
				if listing {
					account, err = svc.AllocateListing(cmd.Context())
				} else {
					owner := ledger.SystemProgramID
					if ownerText != "" {
						if owner, err = identity.Parse(ownerText); err != nil {
							return fmt.Errorf("invalid --owner: %w", err)
						}
					}
					account, err = svc.Host().CreateAccount(cmd.Context(), owner, space, lamports)
				}
				if err != nil {
					return err
				}

				cmd.Printf("Created account %s\n", account.Key)
				printAccount(cmd, account, false)
				return nil
			})
		},
	}

	createCmd.Flags().String("owner", "", "Owning program (base58, default system program)")
	createCmd.Flags().Int("space", 0, "Bytes of account storage")
	createCmd.Flags().Uint64("lamports", 0, "Initial balance")
	createCmd.Flags().Bool("listing", false, "Allocate an empty listing account owned by the program")
	return createCmd
}

func newAccountShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show <address>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := identity.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			withData, _ := cmd.Flags().GetBool("data")

			return withMarket(cmd, func(svc *market.Service) error {
				account, err := svc.Host().Account(cmd.Context(), key)
				if err != nil {
					return err
				}
				printAccount(cmd, account, withData)
				return nil
			})
		},
	}

	showCmd.Flags().Bool("data", false, "Print account data as hex")
	return showCmd
}

func newAccountAirdropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <address> <lamports>",
		Short: "Credit lamports to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := identity.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			lamports, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lamports: %w", err)
			}

			return withMarket(cmd, func(svc *market.Service) error {
				balance, err := svc.Host().Airdrop(cmd.Context(), key, lamports)
				if err != nil {
					return err
				}
				cmd.Printf("Balance of %s: %d\n", key, balance)
				return nil
			})
		},
	}
}

func printAccount(cmd *cobra.Command, a *ledger.Account, withData bool) {
	cmd.Printf("Address:  %s\n", a.Key)
	cmd.Printf("Owner:    %s\n", a.Owner)
	cmd.Printf("Lamports: %d\n", a.Lamports)
	cmd.Printf("Space:    %d\n", len(a.Data))
	if withData {
		cmd.Printf("Data:     %s\n", hex.EncodeToString(a.Data))
	}
}
