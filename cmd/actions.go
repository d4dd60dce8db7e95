package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/dapp"
	"github.com/Mohsinsiddi/fundme/internal/price"
	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	assumeYes  bool
	balanceUSD bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the signing wallet and read the contract balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, logger)
		if err != nil {
			return err
		}
		if err := s.init(ctx); err != nil {
			return err
		}

		st := s.page.State()
		fmt.Println(ui.KeyValueBlock("FundMe", [][2]string{
			{"Status", st.ConnectLabel},
			{"Account", ui.Addr(st.Account.Hex())},
			{"Network", ui.ChainName(s.network())},
			{"Contract", ui.Addr(s.contract.Address.Hex())},
			{"Balance", st.Balance + " " + s.chain.NativeCurrency},
		}))
		return nil
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund <amount>",
	Short: "Send ETH to the contract's fund()",
	Long: `Send <amount> of the native currency to the FundMe contract.

Amounts below min_fund (default 0.01) are dropped without sending anything.
The command waits for the configured confirmations unless wait_mode is
"accepted".

Examples:
  fundme fund 0.05
  fundme fund 0.1 --yes --network base --testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		amount := args[0]

		if err := dapp.CheckFundAmount(amount, cfg.MinFund); err != nil {
			if !errors.Is(err, dapp.ErrEmptyAmount) && !errors.Is(err, dapp.ErrAmountTooLow) {
				return err
			}
			logger.Warn("Fund dropped", zap.String("amount", amount), zap.Error(err))
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}

		s, err := openSession(ctx, logger)
		if err != nil {
			return err
		}
		if err := s.init(ctx); err != nil {
			return err
		}

		st := s.page.State()
		fmt.Println(ui.KeyValueBlock("Fund", [][2]string{
			{"From", ui.Addr(st.Account.Hex())},
			{"Contract", ui.Addr(s.contract.Address.Hex())},
			{"Value", amount + " " + s.chain.NativeCurrency},
			{"Network", ui.ChainName(s.network())},
		}))
		if !assumeYes && !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Send this transaction?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		err = s.page.Fund(ctx, amount)
		printTx(s)
		if err != nil {
			if errors.Is(err, dapp.ErrEmptyAmount) || errors.Is(err, dapp.ErrAmountTooLow) {
				return nil
			}
			return err
		}
		fmt.Println(ui.Success("Fund done!"))
		printBalance(s)
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Call the contract's withdraw()",
	Long: `Call withdraw() on the FundMe contract. Only the contract owner can
withdraw; for anyone else the call reverts and nothing is sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, logger)
		if err != nil {
			return err
		}
		if err := s.init(ctx); err != nil {
			return err
		}

		st := s.page.State()
		prompt := fmt.Sprintf("Withdraw %s %s from %s?", st.Balance, s.chain.NativeCurrency, ui.TruncateAddr(s.contract.Address.Hex()))
		if !assumeYes && !ui.ConfirmDanger(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		err = s.page.Withdraw(ctx)
		printTx(s)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success("Withdraw done!"))
		printBalance(s)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the contract balance",
	Long: `Read the FundMe contract's balance on the current network.

  fundme balance
  fundme balance --usd          # append a fiat value from CoinGecko`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, logger)
		if err != nil {
			return err
		}
		if err := s.init(ctx); err != nil {
			return err
		}

		balance := s.page.State().Balance
		line := ui.Val(balance) + " " + ui.Meta(s.chain.NativeCurrency)

		if balanceUSD {
			wei, err := s.page.BalanceWei(ctx)
			if err != nil {
				return err
			}
			f := price.NewFetcher(cfg.PriceCurrency)
			v, err := f.Value(ctx, s.chain.NativeCurrency, wei)
			if err != nil {
				logger.Warn("price lookup failed", zap.Error(err))
			} else {
				line += "  " + ui.StyleSuccess.Render(fmt.Sprintf("≈ %.2f %s", v, f.Currency()))
			}
		}

		fmt.Println(ui.ChainName(s.network()) + "  " + ui.Addr(s.contract.Address.Hex()))
		fmt.Println(line)
		return nil
	},
}

func printBalance(s *session) {
	st := s.page.State()
	if st.Balance == "" {
		return
	}
	fmt.Println(ui.Meta("Contract balance: ") + ui.Val(st.Balance) + " " + ui.Meta(s.chain.NativeCurrency))
}

func printTx(s *session) {
	if line := txLine(s.chain, cfg.NetworkMode, s.page.State().LastTx); line != "" {
		fmt.Println(line)
	}
}

// txLine links hash on the explorer, or shows the bare hash on a local node.
func txLine(c *chain.Chain, mode string, hash common.Hash) string {
	if hash == (common.Hash{}) {
		return ""
	}
	if url := c.TxURL(mode, hash.Hex()); url != "" {
		return ui.Meta("Explorer: ") + url
	}
	return ui.Meta("Tx: ") + hash.Hex()
}

func init() {
	fundCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	withdrawCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	balanceCmd.Flags().BoolVar(&balanceUSD, "usd", false, "show the fiat value")
}
