package contract_test

import (
	"testing"

	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestSelectorKnownValues(t *testing.T) {
	transfer := contract.ABIEntry{
		Type: "function", Name: "transfer",
		Inputs: []contract.ABIParam{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
	}
	assert.Equal(t, "transfer(address,uint256)", transfer.Signature())
	assert.Equal(t, "0xa9059cbb", transfer.Selector())

	fund := contract.ABIEntry{Type: "function", Name: "fund", StateMutability: "payable"}
	assert.Equal(t, "0xb60d4288", fund.Selector())

	withdraw := contract.ABIEntry{Type: "function", Name: "withdraw", StateMutability: "nonpayable"}
	assert.Equal(t, "0x3ccfd60b", withdraw.Selector())
}

func TestEventSelectorIsFullTopic(t *testing.T) {
	ev := contract.ABIEntry{
		Type: "event", Name: "Transfer",
		Inputs: []contract.ABIParam{
			{Name: "from", Type: "address", Indexed: true},
			{Name: "to", Type: "address", Indexed: true},
			{Name: "value", Type: "uint256"},
		},
	}
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", ev.Selector())
}

func TestSignatureExpandsTuples(t *testing.T) {
	e := contract.ABIEntry{
		Type: "function", Name: "submit",
		Inputs: []contract.ABIParam{{
			Name: "orders", Type: "tuple[]",
			Components: []contract.ABIParam{{Name: "maker", Type: "address"}, {Name: "amount", Type: "uint256"}},
		}},
	}
	assert.Equal(t, "submit((address,uint256)[])", e.Signature())
}

func TestReadWriteClassification(t *testing.T) {
	view := contract.ABIEntry{Type: "function", StateMutability: "view"}
	pure := contract.ABIEntry{Type: "function", StateMutability: "pure"}
	payable := contract.ABIEntry{Type: "function", StateMutability: "payable"}
	event := contract.ABIEntry{Type: "event"}

	assert.True(t, view.IsReadFunction())
	assert.True(t, pure.IsReadFunction())
	assert.False(t, view.IsWriteFunction())
	assert.True(t, payable.IsWriteFunction())
	assert.True(t, payable.IsPayable())
	assert.False(t, event.IsReadFunction())
	assert.False(t, event.IsWriteFunction())
}

func TestFunctionsFiltersNonFunctions(t *testing.T) {
	b, ok := contract.GetBuiltin("fundme")
	assert.True(t, ok)
	for _, f := range contract.Functions(b.ABI) {
		assert.Equal(t, "function", f.Type)
	}
	assert.Len(t, contract.Functions(b.ABI), 9)
}

func TestAllBuiltinsIncludesFundMe(t *testing.T) {
	all := contract.AllBuiltins()
	var ids []string
	for _, b := range all {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, "fundme")

	_, ok := contract.GetBuiltin("nope")
	assert.False(t, ok)
}
