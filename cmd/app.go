package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Mohsinsiddi/fundme/internal/dapp"
	"github.com/Mohsinsiddi/fundme/internal/logx"
	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/spf13/cobra"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Open the interactive FundMe console",
	Long: `Open a full-screen console with the Connect, Fund, Get Balance and
Withdraw buttons and an amount input.

Keys: c connect · f fund · b balance · w withdraw · tab/enter select · q quit
Digits and "." edit the amount. Logs go to <config dir>/fundme.log.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := filepath.Join(cfg.Dir(), logFile)
		log, closeLog, err := logx.NewFile(path, verbose)
		if err != nil {
			return err
		}
		defer closeLog() //nolint:errcheck

		s, err := openSession(ctx, log)
		if err != nil {
			return err
		}
		unlock(ctx, s)

		err = ui.RunConsole(ctx, s.page, ui.ConsoleInfo{
			Network:  s.network(),
			Contract: s.contract.Address.Hex(),
			Symbol:   s.chain.NativeCurrency,
		})
		fmt.Println(ui.Meta("log: " + path))
		return err
	},
}

// unlock connects the wallet before the console takes over the terminal, so a
// keychain password prompt runs on a normal screen. A failure is shown and
// left for the console's own bootstrap to report again.
func unlock(ctx context.Context, s *session) {
	if _, err := s.page.Connect(ctx); err != nil && !errors.Is(err, dapp.ErrNoProvider) {
		fmt.Println(ui.Warn("connect failed: " + err.Error()))
	}
}
