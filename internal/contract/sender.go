package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxSigner signs transactions for one account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Sender builds, signs and broadcasts EIP-1559 contract transactions.
type Sender struct {
	backend chain.Backend
	signer  TxSigner
}

// NewSender creates a Sender.
func NewSender(backend chain.Backend, signer TxSigner) *Sender {
	return &Sender{backend: backend, signer: signer}
}

// Send transacts with `to` and returns the broadcast transaction. The tip is
// the node's suggested gas price and the fee cap twice that. If the node
// cannot estimate gas the call falls back to GasLimitContractCall; an
// estimate that reverts is returned as an error.
func (s *Sender) Send(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	if value == nil {
		value = new(big.Int)
	}
	from := s.signer.Address()

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}

	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("estimating gas: %w", err)
		}
		gas = config.GasLimitContractCall
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	signed, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}
	return signed, nil
}

func isRevert(err error) bool {
	return strings.Contains(err.Error(), "execution reverted")
}
