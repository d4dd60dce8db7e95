package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/config"
	"github.com/Mohsinsiddi/fundme/internal/logx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/fundme/cmd.Version=1.2.3" .
var Version = "0.1.0"

// EnvConfigDir overrides the config directory, like --config.
const EnvConfigDir = "FUNDME_CONFIG_DIR"

var (
	cfgDir      string
	cfg         *config.Config
	logger      = zap.NewNop()
	verbose     bool
	testnet     bool
	mainnet     bool
	local       bool
	networkFlag string
	walletFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "fundme",
	Short: "Fund, inspect and withdraw from a FundMe contract",
	Long: `fundme is a terminal client for a deployed FundMe contract.

  Connect a wallet, send ETH to the contract's fund(), read the contract
  balance and call withdraw(), from single commands or the interactive
  console (fundme app).

Global flags --testnet, --mainnet and --local override the configured network
mode for one invocation. Persist a mode with: fundme config set network_mode <mode>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}

		switch {
		case testnet:
			cfg.NetworkMode = "testnet"
		case mainnet:
			cfg.NetworkMode = "mainnet"
		case local:
			cfg.NetworkMode = "local"
		}
		if networkFlag != "" {
			cfg.Network = networkFlag
		}
		if walletFlag != "" {
			cfg.DefaultWallet = walletFlag
		}

		logger = logx.New(os.Stderr, verbose)
		return nil
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel its context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, errLine(err))
		os.Exit(1)
	}
}

func init() {
	if envDir := os.Getenv(EnvConfigDir); envDir != "" {
		cfgDir = envDir
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.fundme)")
	pf.StringVar(&networkFlag, "network", "", "chain to use (default: config)")
	pf.StringVar(&walletFlag, "wallet", "", "signing wallet (default: config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&testnet, "testnet", false, "use the chain's testnet")
	pf.BoolVar(&mainnet, "mainnet", false, "use the chain's mainnet")
	pf.BoolVar(&local, "local", false, "use a local node at "+chain.LocalRPC)
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet", "local")

	rootCmd.AddCommand(
		connectCmd,
		fundCmd,
		balanceCmd,
		withdrawCmd,
		appCmd,
		walletCmd,
		contractCmd,
		syncCmd,
		networkCmd,
		configCmd,
	)
}
