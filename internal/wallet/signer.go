package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// EnvPrivateKey names the variable that supplies an ephemeral signing wallet.
const EnvPrivateKey = "FUNDME_PRIVATE_KEY"

// EnvWalletName is the name given to the wallet built from EnvPrivateKey.
const EnvWalletName = "env"

// Signer signs EVM transactions for a signing wallet. The key is read from
// the keystore on first use and kept for the life of the signer.
type Signer struct {
	wallet *Wallet
	keys   KeyBackend

	once sync.Once
	key  *ecdsa.PrivateKey
	err  error
}

// NewSigner creates a signer for the given wallet.
func NewSigner(w *Wallet, keys KeyBackend) *Signer {
	return &Signer{wallet: w, keys: keys}
}

// EnvSigner returns a signer for the key in FUNDME_PRIVATE_KEY, or nil when
// the variable is unset.
func EnvSigner() (*Signer, error) {
	hexKey := os.Getenv(EnvPrivateKey)
	if hexKey == "" {
		return nil, nil
	}
	m := NewManager(WithInMemoryStore())
	if _, err := m.AddWithKey(EnvWalletName, hexKey); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvPrivateKey, err)
	}
	return m.Signer(EnvWalletName)
}

// Wallet returns the wallet metadata behind the signer.
func (s *Signer) Wallet() *Wallet {
	return s.wallet
}

// Address returns the wallet's address.
func (s *Signer) Address() common.Address {
	return common.HexToAddress(s.wallet.Address)
}

// Unlock loads the private key and checks it matches the wallet address.
func (s *Signer) Unlock() error {
	s.once.Do(func() {
		if !s.wallet.CanSign() {
			s.err = fmt.Errorf("%w: %s", ErrWatchOnly, s.wallet.Name)
			return
		}
		hexKey, err := s.keys.Retrieve(s.wallet.KeyRef)
		if err != nil {
			s.err = fmt.Errorf("retrieving key: %w", err)
			return
		}
		key, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrInvalidKey, err)
			return
		}
		if crypto.PubkeyToAddress(key.PublicKey) != s.Address() {
			s.err = fmt.Errorf("%w: stored key does not match %s", ErrInvalidKey, s.wallet.Address)
			return
		}
		s.key = key
	})
	return s.err
}

// SignTx signs an EIP-1559 (or legacy) transaction for chainID.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if err := s.Unlock(); err != nil {
		return nil, err
	}
	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}
