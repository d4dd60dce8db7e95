package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/config"
	"github.com/Mohsinsiddi/fundme/internal/rpc"
	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/spf13/cobra"
)

var networkPing bool

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Networks and RPC endpoints",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 10},
			{Title: "Network", Width: 16},
			{Title: "Chain ID", Width: 8},
			{Title: "Currency", Width: 8},
			{Title: "Deployment key", Width: 16},
		})
		for i, c := range reg.All() {
			if c.Name == cfg.Network {
				t.Highlight = i
			}
			t.AddRow(ui.Row{
				c.Name,
				c.NetworkLabel(cfg.NetworkMode),
				fmt.Sprintf("%d", c.ChainID),
				c.NativeCurrency,
				c.DeploymentKey(cfg.NetworkMode),
			})
		}
		fmt.Print(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("mode: %s · current: %s", cfg.NetworkMode, cfg.Network)))

		if networkPing {
			return pingCurrent(cmd.Context())
		}
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := chain.NewRegistry().GetByName(args[0]); err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		fc, err := fileConfig()
		if err != nil {
			return err
		}
		fc.Network = args[0]
		if err := fc.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default network set to " + ui.ChainName(args[0])))
		return nil
	},
}

var networkAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <chain> <url>",
	Short: "Add a custom RPC endpoint, tried before the built-in ones",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRPCs(args[0], args[1], (*config.Config).AddRPC, "Added")
	},
}

var networkRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <chain> <url>",
	Short: "Remove a custom RPC endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRPCs(args[0], args[1], (*config.Config).RemoveRPC, "Removed")
	},
}

func editRPCs(chainName, url string, edit func(*config.Config, string, string) error, verb string) error {
	if _, err := chain.NewRegistry().GetByName(chainName); err != nil {
		return fmt.Errorf("%w: %q", err, chainName)
	}
	fc, err := fileConfig()
	if err != nil {
		return err
	}
	if err := edit(fc, chainName, url); err != nil {
		return err
	}
	if err := fc.Save(); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("%s RPC for %s: %s", verb, ui.ChainName(chainName), url)))
	return nil
}

// pingCurrent benchmarks the current network's endpoints.
func pingCurrent(ctx context.Context) error {
	c, err := currentChain()
	if err != nil {
		return err
	}
	urls := c.RPCs(cfg.NetworkMode)
	if cfg.NetworkMode != "local" {
		urls = slices.Concat(cfg.GetRPCs(c.Name), urls)
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()

	spin := ui.NewSpinner(os.Stderr, fmt.Sprintf("Pinging %d endpoint(s)...", len(urls)))
	spin.Start()
	results := rpc.Benchmark(ctx, urls)
	spin.Stop()

	fmt.Println()
	t := ui.NewTable([]ui.Column{
		{Title: "Endpoint", Width: 48},
		{Title: "Latency", Width: 9},
		{Title: "Block", Width: 10},
		{Title: "Status", Width: 24},
	})
	for _, e := range results {
		if !e.Healthy() {
			t.AddRow(ui.Row{e.URL, "-", "-", e.Err.Error()})
			continue
		}
		t.AddRow(ui.Row{e.URL, e.Latency.Round(time.Millisecond).String(), fmt.Sprintf("%d", e.BlockNumber), "ok"})
	}
	fmt.Print(t.Render())

	best, err := rpc.NewPicker(rpc.Algorithm(cfg.RPCAlgorithm)).Pick(results)
	if err != nil {
		return err
	}
	fmt.Println(ui.Meta(cfg.RPCAlgorithm+" → ") + ui.Addr(best.URL))
	return nil
}

func init() {
	networkListCmd.Flags().BoolVar(&networkPing, "ping", false, "benchmark the current network's RPC endpoints")
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkAddRPCCmd, networkRemoveRPCCmd)
}
