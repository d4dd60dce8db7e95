package dapp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// WaitMode selects when ListenForMine returns.
type WaitMode string

const (
	// WaitMined returns once the transaction has the target confirmations.
	WaitMined WaitMode = "mined"
	// WaitAccepted returns as soon as the listener is registered.
	WaitAccepted WaitMode = "accepted"
)

var (
	ErrReverted       = errors.New("transaction reverted")
	ErrConfirmTimeout = errors.New("timed out waiting for confirmation")
)

// Confirmation is passed to Once listeners.
type Confirmation struct {
	Hash          common.Hash
	BlockNumber   uint64
	Confirmations uint64
	Reverted      bool
}

// ReceiptBackend is what the waiter polls.
type ReceiptBackend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Waiter fires one-time listeners when a transaction reaches the target
// number of confirmations. One poller runs per watched hash.
type Waiter struct {
	backend  ReceiptBackend
	target   uint64
	mode     WaitMode
	timeout  time.Duration
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	pending map[common.Hash][]func(Confirmation)
}

// NewWaiter creates a Waiter from page options.
func NewWaiter(backend ReceiptBackend, opts Options) *Waiter {
	opts = opts.withDefaults()
	return &Waiter{
		backend:  backend,
		target:   opts.Confirmations,
		mode:     opts.WaitMode,
		timeout:  opts.ConfirmTimeout,
		interval: opts.PollInterval,
		log:      opts.Logger,
		pending:  make(map[common.Hash][]func(Confirmation)),
	}
}

// Once registers fn to run exactly once when hash is confirmed. Polling stops
// when ctx ends or the confirm timeout passes; fn then never runs.
func (w *Waiter) Once(ctx context.Context, hash common.Hash, fn func(Confirmation)) {
	w.mu.Lock()
	_, polling := w.pending[hash]
	w.pending[hash] = append(w.pending[hash], fn)
	w.mu.Unlock()

	if !polling {
		go w.poll(ctx, hash)
	}
}

// Pending returns the number of hashes with registered listeners.
func (w *Waiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// ListenForMine logs the hash and registers a confirmation listener. In
// accepted mode it returns right away; in mined mode it blocks until the
// listener fires, the receipt shows a revert, the timeout passes or ctx ends.
func (w *Waiter) ListenForMine(ctx context.Context, tx *types.Transaction) error {
	hash := tx.Hash()
	w.log.Info(fmt.Sprintf("Mining %s...", hash.Hex()))

	done := make(chan Confirmation, 1)
	w.Once(ctx, hash, func(c Confirmation) {
		w.log.Info(fmt.Sprintf("Completed with %d confirmations", c.Confirmations),
			zap.String("hash", hash.Hex()),
			zap.Uint64("block", c.BlockNumber))
		done <- c
	})

	if w.mode == WaitAccepted {
		return nil
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case c := <-done:
		if c.Reverted {
			return fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %s: %s", ErrConfirmTimeout, w.timeout, hash.Hex())
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Waiter) poll(ctx context.Context, hash common.Hash) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if c, ok := w.check(ctx, hash); ok {
			w.fire(c)
			return
		}
		select {
		case <-ctx.Done():
			w.mu.Lock()
			delete(w.pending, hash)
			w.mu.Unlock()
			w.log.Debug("stopped watching transaction", zap.String("hash", hash.Hex()), zap.Error(ctx.Err()))
			return
		case <-ticker.C:
		}
	}
}

func (w *Waiter) check(ctx context.Context, hash common.Hash) (Confirmation, bool) {
	receipt, err := w.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			w.log.Debug("receipt lookup failed", zap.String("hash", hash.Hex()), zap.Error(err))
		}
		return Confirmation{}, false
	}
	head, err := w.backend.BlockNumber(ctx)
	if err != nil {
		w.log.Debug("head lookup failed", zap.Error(err))
		return Confirmation{}, false
	}

	mined := receipt.BlockNumber.Uint64()
	// A lagging load-balanced node can report a head below the receipt.
	if head < mined {
		return Confirmation{}, false
	}
	confs := head - mined + 1
	if confs < w.target {
		return Confirmation{}, false
	}
	return Confirmation{
		Hash:          hash,
		BlockNumber:   mined,
		Confirmations: confs,
		Reverted:      receipt.Status == types.ReceiptStatusFailed,
	}, true
}

func (w *Waiter) fire(c Confirmation) {
	w.mu.Lock()
	fns := w.pending[c.Hash]
	delete(w.pending, c.Hash)
	w.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
