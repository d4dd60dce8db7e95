package dapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/Mohsinsiddi/fundme/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNoProvider is returned when no signing wallet is available.
var ErrNoProvider = errors.New("no wallet provider found")

// Backend is the node API actions run against.
type Backend = chain.Backend

// Provider is the wallet side of the client: it controls the account that
// signs and the node connection transactions go through.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Signer() contract.TxSigner
	Backend() Backend
}

// AccountSigner is a TxSigner whose key may need unlocking first.
type AccountSigner interface {
	contract.TxSigner
	Unlock() error
}

// WalletProvider is a Provider over one keychain wallet and one RPC backend.
type WalletProvider struct {
	signer  AccountSigner
	backend chain.Backend
}

// NewWalletProvider creates a WalletProvider.
func NewWalletProvider(signer AccountSigner, backend chain.Backend) *WalletProvider {
	return &WalletProvider{signer: signer, backend: backend}
}

// RequestAccounts unlocks the wallet key and returns its address.
func (p *WalletProvider) RequestAccounts(_ context.Context) ([]common.Address, error) {
	if err := p.signer.Unlock(); err != nil {
		return nil, fmt.Errorf("requesting accounts: %w", err)
	}
	return []common.Address{p.signer.Address()}, nil
}

func (p *WalletProvider) Signer() contract.TxSigner { return p.signer }

func (p *WalletProvider) Backend() chain.Backend { return p.backend }

// DetectOptions tells DetectProvider where to look.
type DetectOptions struct {
	Wallets *wallet.Manager
	// Wallet is an explicit wallet name; empty means the manager's default.
	Wallet string
	// Dial opens the node connection. It is only called once a signing
	// wallet has been found.
	Dial func(ctx context.Context) (chain.Backend, error)
}

// DetectProvider finds the signing wallet: FUNDME_PRIVATE_KEY first, then the
// named wallet, then the default. A missing or watch-only wallet yields
// ErrNoProvider without touching the network.
func DetectProvider(ctx context.Context, opts DetectOptions) (Provider, error) {
	signer, err := wallet.EnvSigner()
	if err != nil {
		return nil, err
	}

	if signer == nil {
		name := opts.Wallet
		if name == "" {
			def := opts.Wallets.Default()
			if def == nil {
				return nil, fmt.Errorf("%w: no default wallet", ErrNoProvider)
			}
			name = def.Name
		}
		signer, err = opts.Wallets.Signer(name)
		if errors.Is(err, wallet.ErrWalletNotFound) || errors.Is(err, wallet.ErrWatchOnly) {
			return nil, fmt.Errorf("%w: %v", ErrNoProvider, err)
		}
		if err != nil {
			return nil, err
		}
	}

	backend, err := opts.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return NewWalletProvider(signer, backend), nil
}
