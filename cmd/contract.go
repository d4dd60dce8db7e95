package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	contractName    string
	contractABIFile string
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage FundMe deployments",
	Long: `Manage the FundMe deployments in contracts.json.

Each deployment is stored per network: the chain name on mainnet, the
testnet name on testnet ("sepolia", "base-sepolia") and "localhost" for a
local node. FUNDME_CONTRACT overrides the stored address.`,
}

var contractSetCmd = &cobra.Command{
	Use:   "set <address>",
	Short: "Register the deployment for the current network (built-in ABI)",
	Example: `  fundme contract set 0x5FbDB2315678afecb367f032d93F642f64180aa3 --local
  fundme contract set 0xAbC... --network base --testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDeployment(&contract.Entry{Address: args[0], Source: contract.SourceManual})
	},
}

var contractImportCmd = &cobra.Command{
	Use:   "import <address> --abi <artifact>",
	Short: "Register the deployment with the ABI from a Hardhat/Foundry artifact",
	Long: `Register the deployment for the current network, taking the ABI from a
Hardhat or Foundry artifact or a raw ABI array.

  fundme contract import 0x5FbD... --abi artifacts/contracts/FundMe.sol/FundMe.json --local
  fundme contract import 0x5FbD... --abi out/FundMe.sol/FundMe.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if contractABIFile == "" {
			return errors.New("--abi <path> is required")
		}
		entries, err := contract.LoadFromArtifact(contractABIFile)
		if err != nil {
			return err
		}
		return saveDeployment(&contract.Entry{Address: args[0], ABI: entries, Source: contract.SourceArtifact})
	},
}

var contractShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List registered deployments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newContractRegistry()
		if err != nil {
			return err
		}
		entries := reg.All()
		if len(entries) == 0 && cfg.Contract == "" {
			fmt.Println(ui.Info("No deployments registered."))
			fmt.Println(ui.Hint("register one with: fundme contract set <address>"))
			return nil
		}

		current := ""
		if c, err := currentChain(); err == nil {
			current = c.DeploymentKey(cfg.NetworkMode)
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 12},
			{Title: "Network", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "ABI", Width: 9},
			{Title: "Source", Width: 8},
		})
		for i, e := range entries {
			abiLabel := "built-in"
			if len(e.ABI) > 0 {
				abiLabel = fmt.Sprintf("%d fns", len(contract.Functions(e.ABI)))
			}
			if strings.EqualFold(e.Network, current) && strings.EqualFold(e.Name, contractName) {
				t.Highlight = i
			}
			t.AddRow(ui.Row{e.Name, e.Network, e.Address, abiLabel, e.Source})
		}
		fmt.Print(t.Render())
		if cfg.Contract != "" {
			fmt.Println(ui.Warn("FUNDME_CONTRACT overrides the stored address: " + cfg.Contract))
		}
		return nil
	},
}

var contractABICmd = &cobra.Command{
	Use:   "abi",
	Short: "Show the functions and selectors of the current deployment's ABI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, source := currentABI()

		t := ui.NewTable([]ui.Column{
			{Title: "Selector", Width: 10},
			{Title: "Signature", Width: 32},
			{Title: "Mutability", Width: 10},
		})
		for _, fn := range contract.Functions(entries) {
			t.AddRow(ui.Row{fn.Selector(), fn.Signature(), fn.StateMutability})
		}
		fmt.Print(t.Render())
		fmt.Println(ui.Meta("ABI: " + source))
		return nil
	},
}

var contractRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Forget the deployment for the current network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentChain()
		if err != nil {
			return err
		}
		reg, err := newContractRegistry()
		if err != nil {
			return err
		}
		network := c.DeploymentKey(cfg.NetworkMode)
		if err := reg.Remove(contractName, network); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed %s on %s.", contractName, network)))
		return nil
	},
}

// saveDeployment stores e under the current network after checking that its
// ABI can drive fund() and withdraw().
func saveDeployment(e *contract.Entry) error {
	if !common.IsHexAddress(e.Address) {
		return fmt.Errorf("invalid address %q", e.Address)
	}
	c, err := currentChain()
	if err != nil {
		return err
	}
	e.Name = contractName
	e.Network = c.DeploymentKey(cfg.NetworkMode)
	e.Address = common.HexToAddress(e.Address).Hex()

	h, err := contract.Bind(e)
	if err != nil {
		return err
	}
	for _, m := range []string{contract.MethodFund, contract.MethodWithdraw} {
		if _, err := h.Pack(m); err != nil {
			return fmt.Errorf("ABI cannot be used: %w", err)
		}
	}

	reg, err := newContractRegistry()
	if err != nil {
		return err
	}
	reg.Add(e)
	if err := reg.Save(); err != nil {
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("%s on %s set to %s", e.Name, ui.ChainName(e.Network), ui.Addr(e.Address))))
	if !h.Payable(contract.MethodFund) {
		fmt.Println(ui.Warn("fund() is not payable in this ABI; funding will revert"))
	}
	return nil
}

// currentABI returns the ABI of the current deployment, falling back to the
// built-in FundMe ABI, and a label saying where it came from.
func currentABI() ([]contract.ABIEntry, string) {
	builtin, _ := contract.GetBuiltin("fundme")
	c, err := currentChain()
	if err != nil {
		return builtin.ABI, "built-in"
	}
	reg, err := newContractRegistry()
	if err != nil {
		return builtin.ABI, "built-in"
	}
	e, err := reg.Get(contractName, c.DeploymentKey(cfg.NetworkMode))
	if err != nil || len(e.ABI) == 0 {
		return builtin.ABI, "built-in"
	}
	return e.ABI, e.Source
}

func init() {
	contractCmd.PersistentFlags().StringVar(&contractName, "name", contract.DefaultName, "deployment name")
	contractImportCmd.Flags().StringVar(&contractABIFile, "abi", "", "artifact or ABI JSON file")
	contractCmd.AddCommand(contractSetCmd, contractImportCmd, contractShowCmd, contractABICmd, contractRemoveCmd)
}
