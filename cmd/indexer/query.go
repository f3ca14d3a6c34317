package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

func newQueryCmd() *cobra.Command {
	var useWallet bool

	cmd := &cobra.Command{
		Use:   "query [address]",
		Short: "Query the NFTs an account owns and print them as JSON",
		Example: `  indexer query 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed
  WALLET_ADDRESS=0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed indexer query --wallet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if useWallet == (len(args) == 1) {
				return errors.New("pass exactly one of an address or --wallet")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var result *service.QueryResult
			if useWallet {
				result, err = a.service.QueryWallet(ctx, wallet.NewStatic(a.cfg.WalletAddress))
			} else {
				result, err = a.service.QueryOwner(ctx, &service.QueryOwnerRequest{Address: args[0]})
			}
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&useWallet, "wallet", false, "query the account in WALLET_ADDRESS")

	return cmd
}
