package contract

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ABIEntry is one ABI entry (function, event, error, constructor, receive, fallback).
type ABIEntry struct {
	Name            string     `json:"name,omitempty"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs,omitempty"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType,omitempty"`
	Indexed      bool       `json:"indexed,omitempty"`
	Components   []ABIParam `json:"components,omitempty"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// IsPayable returns true if the entry accepts value.
func (e ABIEntry) IsPayable() bool {
	return e.StateMutability == "payable"
}

// Signature is the canonical "name(type,...)" form used for selectors.
func (e ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = canonicalType(p)
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector returns the 0x-prefixed 4-byte function selector, or the full
// 32-byte topic for events.
func (e ABIEntry) Selector() string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(e.Signature()))
	sum := h.Sum(nil)
	if e.Type == "event" {
		return "0x" + hex.EncodeToString(sum)
	}
	return "0x" + hex.EncodeToString(sum[:4])
}

// canonicalType expands tuple types into "(t1,t2)" with any array suffix kept.
func canonicalType(p ABIParam) string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	inner := make([]string, len(p.Components))
	for i, c := range p.Components {
		inner[i] = canonicalType(c)
	}
	return "(" + strings.Join(inner, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

// Functions returns only the function entries of an ABI.
func Functions(entries []ABIEntry) []ABIEntry {
	var out []ABIEntry
	for _, e := range entries {
		if e.Type == "function" {
			out = append(out, e)
		}
	}
	return out
}
