package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/modelmarket/pkg/codec"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/market"
	"github.com/ssargent/modelmarket/pkg/program"
)

func newListingCmd() *cobra.Command {
	listingCmd := &cobra.Command{
		Use:   "listing",
		Short: "Create and inspect model listings",
	}
	listingCmd.AddCommand(newListingCreateCmd(), newListingInspectCmd())
	return listingCmd
}

func newListingCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing in an allocated listing account",
		Long: `Run create_listing. The payer must hold the rent-exempt minimum for a
listing record; it is debited and becomes the listing's owner.

Example:
  modelmarket listing create --listing <address> --payer <address> \
    --name resnet-50 --description "image classifier" --price 100 --file ./model.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listingText, _ := cmd.Flags().GetString("listing")
			payerText, _ := cmd.Flags().GetString("payer")
			name, _ := cmd.Flags().GetString("name")
			description, _ := cmd.Flags().GetString("description")
			price, _ := cmd.Flags().GetUint64("price")
			filePath, _ := cmd.Flags().GetString("file")

			listingKey, err := identity.Parse(listingText)
			if err != nil {
				return fmt.Errorf("invalid --listing: %w", err)
			}
			payerKey, err := identity.Parse(payerText)
			if err != nil {
				return fmt.Errorf("invalid --payer: %w", err)
			}

			var file []byte
			if filePath != "" {
				if file, err = os.ReadFile(filePath); err != nil {
					return fmt.Errorf("failed to read --file: %w", err)
				}
			}

			return withMarket(cmd, func(svc *market.Service) error {
				result, err := svc.CreateListing(cmd.Context(), market.Request{
					Listing:     listingKey,
					Payer:       payerKey,
					Name:        name,
					Description: description,
					Price:       price,
					File:        file,
				})
				if err != nil {
					if code := program.CodeOf(err); code != "" {
						return fmt.Errorf("create_listing failed (%s): %w", code, err)
					}
					return err
				}

				cmd.Printf("Created listing %s (journal %s)\n", result.Address, result.JournalID)
				printListing(cmd, result.Listing)
				return nil
			})
		},
	}

	createCmd.Flags().String("listing", "", "Listing account address (required)")
	createCmd.Flags().String("payer", "", "Payer account address (required)")
	createCmd.Flags().String("name", "", "Model name")
	createCmd.Flags().String("description", "", "Model description")
	createCmd.Flags().Uint64("price", 0, "Price")
	createCmd.Flags().String("file", "", "Path of the model artifact")
	_ = createCmd.MarkFlagRequired("listing")
	_ = createCmd.MarkFlagRequired("payer")
	return createCmd
}

func newListingInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <address>",
		Short: "Decode a listing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := identity.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}

			return withMarket(cmd, func(svc *market.Service) error {
				listing, err := svc.Inspect(cmd.Context(), key)
				if err != nil {
					return err
				}
				printListing(cmd, listing)
				return nil
			})
		},
	}
}

func printListing(cmd *cobra.Command, l *codec.Listing) {
	size := len(l.File)
	for size > 0 && l.File[size-1] == 0 {
		size--
	}
	cmd.Printf("Name:        %s\n", l.Name)
	cmd.Printf("Description: %s\n", l.Description)
	cmd.Printf("Owner:       %s\n", l.Owner)
	cmd.Printf("Price:       %d\n", l.Price)
	cmd.Printf("File:        %d bytes\n", size)
}
