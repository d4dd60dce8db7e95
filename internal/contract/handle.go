package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrMethodNotFound is returned when packing a method the ABI does not declare.
var ErrMethodNotFound = errors.New("method not found in ABI")

// Handle is a deployed contract bound to its parsed ABI.
type Handle struct {
	Name    string
	Network string
	Address common.Address
	abi     abi.ABI
}

// Bind parses an entry's ABI. Entries without one use the built-in FundMe ABI.
func Bind(e *Entry) (*Handle, error) {
	if !common.IsHexAddress(e.Address) {
		return nil, fmt.Errorf("%s on %s: invalid address %q", e.Name, e.Network, e.Address)
	}
	entries := e.ABI
	if len(entries) == 0 {
		entries = fundMeABI
	}
	parsed, err := ParseABI(entries)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", e.Name, e.Network, err)
	}
	return &Handle{
		Name:    e.Name,
		Network: e.Network,
		Address: common.HexToAddress(e.Address),
		abi:     parsed,
	}, nil
}

// ParseABI converts registry entries into a go-ethereum ABI.
func ParseABI(entries []ABIEntry) (abi.ABI, error) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return abi.ABI{}, err
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing ABI: %w", err)
	}
	return parsed, nil
}

// Pack encodes calldata for method.
func (h *Handle) Pack(method string, args ...interface{}) ([]byte, error) {
	if _, ok := h.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	data, err := h.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}
	return data, nil
}

// Payable reports whether method accepts value.
func (h *Handle) Payable(method string) bool {
	m, ok := h.abi.Methods[method]
	return ok && m.IsPayable()
}

// String identifies the handle in logs.
func (h *Handle) String() string {
	return fmt.Sprintf("%s@%s(%s)", h.Name, h.Network, h.Address.Hex())
}
