package contract_test

import (
	"encoding/hex"
	"testing"

	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/Mohsinsiddi/fundme/test/fixtures"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fundMeAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func TestBindFallsBackToBuiltinABI(t *testing.T) {
	h, err := contract.Bind(&contract.Entry{Name: contract.DefaultName, Network: "localhost", Address: fundMeAddr})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(fundMeAddr), h.Address)

	data, err := h.Pack(contract.MethodFund)
	require.NoError(t, err)
	assert.Equal(t, "b60d4288", hex.EncodeToString(data))

	data, err = h.Pack(contract.MethodWithdraw)
	require.NoError(t, err)
	assert.Equal(t, "3ccfd60b", hex.EncodeToString(data))

	assert.True(t, h.Payable(contract.MethodFund))
	assert.False(t, h.Payable(contract.MethodWithdraw))
	assert.Contains(t, h.String(), "FundMe@localhost")
}

func TestBindArtifactABI(t *testing.T) {
	entries, err := contract.LoadFromArtifact(fixtures.ArtifactPath("FundMe.json"))
	require.NoError(t, err)

	h, err := contract.Bind(&contract.Entry{Name: "FundMe", Network: "sepolia", Address: fundMeAddr, ABI: entries})
	require.NoError(t, err)

	data, err := h.Pack("getFunder", common.Big1)
	require.NoError(t, err)
	assert.Len(t, data, 4+32)
}

func TestBindInvalidAddress(t *testing.T) {
	_, err := contract.Bind(&contract.Entry{Name: "FundMe", Network: "x", Address: "0x123"})
	assert.Error(t, err)
}

func TestPackUnknownMethod(t *testing.T) {
	h, err := contract.Bind(&contract.Entry{Name: "FundMe", Network: "x", Address: fundMeAddr})
	require.NoError(t, err)

	_, err = h.Pack("rugPull")
	assert.ErrorIs(t, err, contract.ErrMethodNotFound)
}

func TestPackWrongArgs(t *testing.T) {
	h, err := contract.Bind(&contract.Entry{Name: "FundMe", Network: "x", Address: fundMeAddr})
	require.NoError(t, err)

	_, err = h.Pack("getFunder", "not a number")
	assert.Error(t, err)
}
