package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [manifest-url]",
	Short: "Pull deployments from a remote manifest",
	Long: `Fetch a deployments manifest and record every deployment in
contracts.json. The URL is remembered; run "fundme sync" again to refresh.

Manifest format:
  {"contracts": {"FundMe": {"sepolia": {"address": "0x...", "abi_url": "https://..."}}}}`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) == 1 {
			source = args[0]
		}

		reg, err := newContractRegistry()
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(os.Stderr, "Syncing deployments...")
		spin.Start()
		n, err := contract.NewSyncer(cfg, reg, logger).Run(cmd.Context(), source)
		spin.Stop()
		if errors.Is(err, contract.ErrNoSyncSource) {
			return fmt.Errorf("%w\n  usage: fundme sync <manifest-url>", err)
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Synced %d deployment(s).", n)))
		return nil
	},
}
