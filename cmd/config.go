package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after flags, .env and FUNDME_* variables have been
applied. Values set only through the environment are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := cfg.Values()
		if cfg.RPCURL != "" {
			pairs = append(pairs, [2]string{"rpc_url (env)", cfg.RPCURL})
		}
		if cfg.Contract != "" {
			pairs = append(pairs, [2]string{"contract (env)", cfg.Contract})
		}
		for chainName, urls := range cfg.CustomRPCs {
			for _, u := range urls {
				pairs = append(pairs, [2]string{"rpc." + chainName, u})
			}
		}
		fmt.Println(ui.KeyValueBlock("Configuration", pairs))
		fmt.Println(ui.Meta("config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set and persist one configuration key",
	Long: `Set one key in config.json.

Keys: network, network_mode (mainnet|testnet|local),
rpc_algorithm (fastest|round-robin|failover), default_wallet, min_fund,
confirmations, wait_mode (mined|accepted), confirm_timeout (seconds),
price_currency.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := fileConfig()
		if err != nil {
			return err
		}
		if err := fc.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := fc.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s = %s", args[0], args[1])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
