package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "indexer",
		Short:         "NFT ownership indexer",
		Long:          "Looks up the NFTs an Ethereum account owns and enriches them with metadata.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd(), newQueryCmd())

	return cmd
}
