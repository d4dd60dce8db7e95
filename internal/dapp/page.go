package dapp

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/config"
	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyAmount  = errors.New("fund amount is empty")
	ErrAmountTooLow = errors.New("fund amount below minimum")
)

// Control is one of the page's buttons.
type Control string

const (
	ControlConnect  Control = "connect"
	ControlFund     Control = "fund"
	ControlBalance  Control = "balance"
	ControlWithdraw Control = "withdraw"
)

// Controls lists the buttons in display order.
var Controls = []Control{ControlConnect, ControlFund, ControlBalance, ControlWithdraw}

// Connect button labels.
const (
	LabelConnect   = "Connect"
	LabelConnected = "Connected"
	LabelNoWallet  = "Can't find wallet"
)

// State is a snapshot of what the page displays.
type State struct {
	ConnectLabel string
	Account      common.Address
	// Balance is the formatted contract balance, empty until first read.
	Balance  string
	Disabled map[Control]bool
	// LastTx is the hash of the most recently sent transaction.
	LastTx common.Hash
}

// Options configure a Page and its Waiter.
type Options struct {
	MinFund        string
	Confirmations  uint64
	WaitMode       WaitMode
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	Logger         *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MinFund == "" {
		o.MinFund = config.DefaultMinFund
	}
	if o.Confirmations == 0 {
		o.Confirmations = 1
	}
	if o.WaitMode == "" {
		o.WaitMode = WaitMined
	}
	if o.ConfirmTimeout <= 0 {
		o.ConfirmTimeout = config.DefaultConfirmTimeout * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = config.ReceiptPollInterval
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Page wires the four actions to a provider and a FundMe deployment.
// Actions may overlap; only the displayed state is serialised.
type Page struct {
	provider Provider
	contract *contract.Handle
	minFund  *big.Rat
	waiter   *Waiter
	log      *zap.Logger

	mu    sync.Mutex
	state State
}

// NewPage creates a page. A nil provider gives a page whose controls are all
// disabled once Init runs.
func NewPage(p Provider, h *contract.Handle, opts Options) (*Page, error) {
	opts = opts.withDefaults()
	minFund, err := parseMinFund(opts.MinFund)
	if err != nil {
		return nil, err
	}

	pg := &Page{
		provider: p,
		contract: h,
		minFund:  minFund,
		log:      opts.Logger,
		state: State{
			ConnectLabel: LabelConnect,
			Disabled:     make(map[Control]bool),
		},
	}
	if p != nil {
		pg.waiter = NewWaiter(p.Backend(), opts)
	}
	return pg, nil
}

// State returns a copy of the displayed state.
func (pg *Page) State() State {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	s := pg.state
	s.Disabled = make(map[Control]bool, len(pg.state.Disabled))
	for c, off := range pg.state.Disabled {
		s.Disabled[c] = off
	}
	return s
}

// Waiter returns the page's confirmation waiter, nil without a provider.
func (pg *Page) Waiter() *Waiter {
	return pg.waiter
}

// Init bootstraps the page. Without a provider every control is disabled and
// nothing touches the network; otherwise the account is connected and the
// balance read once.
func (pg *Page) Init(ctx context.Context) error {
	if pg.provider == nil {
		pg.update(func(s *State) {
			s.ConnectLabel = LabelNoWallet
			for _, c := range Controls {
				s.Disabled[c] = true
			}
		})
		pg.log.Error("Can't find wallet, install or configure one to use this page")
		return ErrNoProvider
	}

	// The balance is read even when connecting fails.
	_, connErr := pg.Connect(ctx)
	if connErr != nil {
		pg.log.Error("Connect failed", zap.Error(connErr))
	}
	_, balErr := pg.Balance(ctx)
	return errors.Join(connErr, balErr)
}

// Connect asks the provider for its accounts and shows the first one.
func (pg *Page) Connect(ctx context.Context) (common.Address, error) {
	if pg.provider == nil {
		return common.Address{}, ErrNoProvider
	}
	accounts, err := pg.provider.RequestAccounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		return common.Address{}, errors.New("provider returned no accounts")
	}

	account := accounts[0]
	pg.log.Info("Connected", zap.String("account", account.Hex()))
	pg.update(func(s *State) {
		s.Account = account
		s.ConnectLabel = LabelConnected
	})
	return account, nil
}

// Fund sends amount ETH to the contract's fund(). Empty or below-minimum
// amounts are dropped before any call and reported with ErrEmptyAmount or
// ErrAmountTooLow.
func (pg *Page) Fund(ctx context.Context, amount string) error {
	if pg.provider == nil {
		return ErrNoProvider
	}
	log := pg.cycle(ControlFund)
	amount = strings.TrimSpace(amount)

	if err := pg.CheckAmount(amount); err != nil {
		log.Warn("Fund dropped", zap.String("amount", amount), zap.Error(err))
		return err
	}

	log.Info(fmt.Sprintf("Funding with %s...", amount))
	if err := pg.transact(ctx, log, contract.MethodFund, amount); err != nil {
		log.Error("Fund failed", zap.Error(err))
		return err
	}
	log.Info("Fund done!")
	return nil
}

// Withdraw calls the contract's withdraw().
func (pg *Page) Withdraw(ctx context.Context) error {
	if pg.provider == nil {
		return ErrNoProvider
	}
	log := pg.cycle(ControlWithdraw)

	log.Info("Withdrawing fund...")
	if err := pg.transact(ctx, log, contract.MethodWithdraw, ""); err != nil {
		log.Error("Withdraw failed", zap.Error(err))
		return err
	}
	log.Info("Withdraw done!")
	return nil
}

// Balance reads the contract balance, shows it and returns it formatted.
func (pg *Page) Balance(ctx context.Context) (string, error) {
	wei, err := pg.BalanceWei(ctx)
	if err != nil {
		return "", err
	}
	return chain.FormatEther(wei), nil
}

// BalanceWei is Balance without formatting.
func (pg *Page) BalanceWei(ctx context.Context) (*big.Int, error) {
	if pg.provider == nil {
		return nil, ErrNoProvider
	}
	wei, err := pg.provider.Backend().BalanceAt(ctx, pg.contract.Address, nil)
	if err != nil {
		return nil, fmt.Errorf("reading balance of %s: %w", pg.contract.Address.Hex(), err)
	}

	formatted := chain.FormatEther(wei)
	pg.log.Info("The current balance is: "+formatted, zap.String("contract", pg.contract.Address.Hex()))
	pg.update(func(s *State) { s.Balance = formatted })
	return wei, nil
}

// CheckAmount applies the fund input rules without touching the network:
// empty input gives ErrEmptyAmount and a number below the minimum gives
// ErrAmountTooLow. Input that is not a number passes; conversion rejects it.
func (pg *Page) CheckAmount(amount string) error {
	return checkAmount(amount, pg.minFund)
}

// CheckFundAmount is CheckAmount for callers that have no Page yet.
func CheckFundAmount(amount, minFund string) error {
	floor, err := parseMinFund(minFund)
	if err != nil {
		return err
	}
	return checkAmount(amount, floor)
}

func checkAmount(amount string, floor *big.Rat) error {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return ErrEmptyAmount
	}
	v, ok := new(big.Rat).SetString(amount)
	if ok && v.Cmp(floor) < 0 {
		return fmt.Errorf("%w: %s < %s", ErrAmountTooLow, amount, floor.FloatString(18))
	}
	return nil
}

func parseMinFund(s string) (*big.Rat, error) {
	if s == "" {
		s = config.DefaultMinFund
	}
	floor, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: min fund %q", chain.ErrInvalidAmount, s)
	}
	return floor, nil
}

// transact runs one contract call: convert, pack, send, wait, refresh.
func (pg *Page) transact(ctx context.Context, log *zap.Logger, method, amount string) error {
	value := new(big.Int)
	if amount != "" {
		wei, err := chain.ParseEther(amount)
		if err != nil {
			return err
		}
		value = wei
	}

	data, err := pg.contract.Pack(method)
	if err != nil {
		return err
	}

	signer := pg.provider.Signer()
	log.Debug("built call",
		zap.String("provider", fmt.Sprintf("%T", pg.provider)),
		zap.String("signer", signer.Address().Hex()),
		zap.Stringer("contract", pg.contract),
		zap.String("method", method),
		zap.String("value", value.String()))

	tx, err := contract.NewSender(pg.provider.Backend(), signer).Send(ctx, pg.contract.Address, value, data)
	if err != nil {
		return err
	}
	log.Info("Transaction sent", zap.String("hash", tx.Hash().Hex()))
	pg.update(func(s *State) { s.LastTx = tx.Hash() })

	if err := pg.waiter.ListenForMine(ctx, tx); err != nil {
		return err
	}
	if _, err := pg.Balance(ctx); err != nil {
		return fmt.Errorf("refreshing balance: %w", err)
	}
	return nil
}

func (pg *Page) cycle(c Control) *zap.Logger {
	return pg.log.With(zap.String("action", string(c)), zap.String("cycle", uuid.NewString()[:8]))
}

func (pg *Page) update(fn func(*State)) {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	fn(&pg.state)
}
