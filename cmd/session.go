package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/config"
	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/Mohsinsiddi/fundme/internal/dapp"
	"github.com/Mohsinsiddi/fundme/internal/rpc"
	"github.com/Mohsinsiddi/fundme/internal/ui"
	"github.com/Mohsinsiddi/fundme/internal/wallet"
	"go.uber.org/zap"
)

const (
	walletsFile   = "wallets.json"
	contractsFile = "contracts.json"
	logFile       = "fundme.log"
)

// session is everything an action command needs: the page plus the chain
// and deployment it was built for.
type session struct {
	page     *dapp.Page
	chain    *chain.Chain
	contract *contract.Handle
}

// openSession resolves the network, the FundMe deployment and the wallet
// provider. A missing wallet is not an error here: the page is built without
// a provider and Init reports it.
func openSession(ctx context.Context, log *zap.Logger) (*session, error) {
	c, err := currentChain()
	if err != nil {
		return nil, err
	}
	h, err := resolveContract(c)
	if err != nil {
		return nil, err
	}

	p, err := dapp.DetectProvider(ctx, dapp.DetectOptions{
		Wallets: newWalletManager(),
		Wallet:  cfg.DefaultWallet,
		Dial:    dialer(c),
	})
	switch {
	case errors.Is(err, dapp.ErrNoProvider):
		log.Debug("no wallet provider", zap.Error(err))
	case err != nil:
		return nil, err
	}

	page, err := dapp.NewPage(p, h, dapp.Options{
		MinFund:        cfg.MinFund,
		Confirmations:  cfg.Confirmations,
		WaitMode:       dapp.WaitMode(cfg.WaitMode),
		ConfirmTimeout: cfg.ConfirmWait(),
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}
	return &session{page: page, chain: c, contract: h}, nil
}

// init bootstraps the page and explains a missing wallet.
func (s *session) init(ctx context.Context) error {
	err := s.page.Init(ctx)
	if errors.Is(err, dapp.ErrNoProvider) {
		fmt.Println(ui.Err(dapp.LabelNoWallet))
		fmt.Println(ui.Hint("add a signing wallet: fundme wallet add <name> --key <private-key>"))
	}
	return err
}

func (s *session) network() string {
	return s.chain.NetworkLabel(cfg.NetworkMode)
}

func currentChain() (*chain.Chain, error) {
	c, err := chain.NewRegistry().GetByName(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: %q, run `fundme network list` to see all chains", err, cfg.Network)
	}
	return c, nil
}

// resolveContract finds the FundMe deployment for the current network.
// FUNDME_CONTRACT wins over contracts.json.
func resolveContract(c *chain.Chain) (*contract.Handle, error) {
	network := c.DeploymentKey(cfg.NetworkMode)
	if cfg.Contract != "" {
		return contract.Bind(&contract.Entry{
			Name:    contract.DefaultName,
			Network: network,
			Address: cfg.Contract,
			Source:  contract.SourceEnv,
		})
	}

	reg, err := newContractRegistry()
	if err != nil {
		return nil, err
	}
	e, err := reg.Get(contract.DefaultName, network)
	if err != nil {
		return nil, fmt.Errorf("%w\n  register it with: fundme contract set <address>", err)
	}
	return contract.Bind(e)
}

// resolveRPC picks the node URL: FUNDME_RPC_URL, else the custom RPCs for the
// chain ahead of the built-in ones, chosen by the configured algorithm.
func resolveRPC(ctx context.Context, c *chain.Chain) (string, error) {
	if cfg.RPCURL != "" {
		return cfg.RPCURL, nil
	}

	urls := c.RPCs(cfg.NetworkMode)
	if cfg.NetworkMode != "local" {
		urls = slices.Concat(cfg.GetRPCs(c.Name), urls)
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.Select(ctx, urls, cfg.RPCAlgorithm)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.NetworkLabel(cfg.NetworkMode), err)
	}
	logger.Debug("selected RPC", zap.String("url", url), zap.String("algorithm", cfg.RPCAlgorithm))
	return url, nil
}

func dialer(c *chain.Chain) func(context.Context) (chain.Backend, error) {
	return func(ctx context.Context) (chain.Backend, error) {
		url, err := resolveRPC(ctx, c)
		if err != nil {
			return nil, err
		}
		client, err := chain.Dial(ctx, url)
		if err != nil {
			return nil, err
		}
		if cfg.NetworkMode != "local" {
			if err := verifyNode(ctx, c, client); err != nil {
				client.Close()
				return nil, err
			}
		}
		return client, nil
	}
}

// verifyNode refuses a node that serves a different chain than c.
func verifyNode(ctx context.Context, c *chain.Chain, b chain.Backend) error {
	id, err := b.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("reading chain id: %w", err)
	}
	return chain.NewRegistry().VerifyNode(c, cfg.NetworkMode, id.Int64())
}

func newWalletManager() *wallet.Manager {
	store := wallet.NewJSONStore(filepath.Join(cfg.Dir(), walletsFile))
	return wallet.NewManager(
		wallet.WithStore(store),
		wallet.WithKeystore(wallet.NewLazyKeystore(cfg.Dir())),
	)
}

func newContractRegistry() (*contract.Registry, error) {
	reg := contract.NewRegistry(filepath.Join(cfg.Dir(), contractsFile))
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

// fileConfig reloads config.json without flag or environment overrides, for
// commands that persist settings.
func fileConfig() (*config.Config, error) {
	return config.Load(cfg.Dir())
}

func errLine(err error) string {
	return ui.Err(err.Error())
}
