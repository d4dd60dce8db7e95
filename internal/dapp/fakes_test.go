package dapp_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/Mohsinsiddi/fundme/internal/dapp"
	"github.com/Mohsinsiddi/fundme/internal/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const (
	fundMeAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	// Hardhat account #0.
	deployerKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

// fakeChain is an in-memory node. Sends to an address add their value to its
// balance; a zero-value send empties it, which is what withdraw() does.
type fakeChain struct {
	mu sync.Mutex

	calls    int
	head     uint64
	autoMine bool
	status   uint64

	balances       map[common.Address]*big.Int
	balanceQueries []common.Address
	sent           []*types.Transaction
	receipts       map[common.Hash]*types.Receipt
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		autoMine: true,
		status:   types.ReceiptStatusSuccessful,
		balances: make(map[common.Address]*big.Int),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return big.NewInt(31337), nil
}

func (f *fakeChain) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.balanceQueries = append(f.balanceQueries, account)
	if b, ok := f.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return uint64(len(f.sent)), nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChain) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 50_000, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sent = append(f.sent, tx)

	to := *tx.To()
	if tx.Value().Sign() == 0 {
		f.balances[to] = new(big.Int)
	} else {
		cur, ok := f.balances[to]
		if !ok {
			cur = new(big.Int)
		}
		f.balances[to] = new(big.Int).Add(cur, tx.Value())
	}

	if f.autoMine {
		f.mineLocked(tx.Hash())
	}
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if r, ok := f.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.head, nil
}

// mine puts hash in a new block.
func (f *fakeChain) mine(hash common.Hash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mineLocked(hash)
}

func (f *fakeChain) mineLocked(hash common.Hash) {
	f.head++
	f.receipts[hash] = &types.Receipt{
		TxHash:      hash,
		Status:      f.status,
		BlockNumber: new(big.Int).SetUint64(f.head),
	}
}

// advance adds n empty blocks.
func (f *fakeChain) advance(n uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head += n
}

func (f *fakeChain) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeChain) sentTxs() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.Transaction(nil), f.sent...)
}

func (f *fakeChain) balanceQueryList() []common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]common.Address(nil), f.balanceQueries...)
}

func (f *fakeChain) setBalance(addr common.Address, wei *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[addr] = wei
}

type fakeProvider struct {
	signer      *wallet.Signer
	backend     chain.Backend
	accountsErr error
}

func (p *fakeProvider) RequestAccounts(context.Context) ([]common.Address, error) {
	if p.accountsErr != nil {
		return nil, p.accountsErr
	}
	return []common.Address{p.signer.Address()}, nil
}

func (p *fakeProvider) Signer() contract.TxSigner { return p.signer }

func (p *fakeProvider) Backend() dapp.Backend { return p.backend }

func testSigner(t *testing.T) *wallet.Signer {
	t.Helper()
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.AddWithKey("deployer", deployerKey)
	require.NoError(t, err)
	s, err := mgr.Signer("deployer")
	require.NoError(t, err)
	return s
}

func fundMeHandle(t *testing.T) *contract.Handle {
	t.Helper()
	h, err := contract.Bind(&contract.Entry{Name: contract.DefaultName, Network: "localhost", Address: fundMeAddr})
	require.NoError(t, err)
	return h
}

func fastOptions() dapp.Options {
	return dapp.Options{
		ConfirmTimeout: 2 * time.Second,
		PollInterval:   5 * time.Millisecond,
	}
}

func newTestPage(t *testing.T, backend chain.Backend, opts dapp.Options) *dapp.Page {
	t.Helper()
	p := &fakeProvider{signer: testSigner(t), backend: backend}
	pg, err := dapp.NewPage(p, fundMeHandle(t), opts)
	require.NoError(t, err)
	return pg
}

func wei(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal " + s)
	}
	return n
}
