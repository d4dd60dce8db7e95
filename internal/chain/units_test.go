package chain_test

import (
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.05", "50000000000000000"},
		{"1", "1000000000000000000"},
		{"1.0", "1000000000000000000"},
		{".5", "500000000000000000"},
		{"0.01", "10000000000000000"},
		{"0.000000000000000001", "1"},
		{"0", "0"},
		{" 2.5 ", "2500000000000000000"},
		{"-0.5", "-500000000000000000"},
		{"123456789.123456789123456789", "123456789123456789123456789"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := chain.ParseEther(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseEtherRejects(t *testing.T) {
	for _, in := range []string{"", ".", "abc", "1e3", "1/2", "1.2.3", "0x10", "0.0000000000000000001", "--1"} {
		t.Run(in, func(t *testing.T) {
			_, err := chain.ParseEther(in)
			assert.ErrorIs(t, err, chain.ErrInvalidAmount)
		})
	}
}

func TestParseEtherTrailingZerosBeyondPrecision(t *testing.T) {
	got, err := chain.ParseEther("1.0000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", got.String())
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		wei  string
		want string
	}{
		{"50000000000000000", "0.05"},
		{"1000000000000000000", "1.0"},
		{"0", "0.0"},
		{"1", "0.000000000000000001"},
		{"1234500000000000000000", "1234.5"},
		{"-500000000000000000", "-0.5"},
	}
	for _, tc := range tests {
		t.Run(tc.wei, func(t *testing.T) {
			v, ok := new(big.Int).SetString(tc.wei, 10)
			require.True(t, ok)
			assert.Equal(t, tc.want, chain.FormatEther(v))
		})
	}
}

func TestFormatEtherNil(t *testing.T) {
	assert.Equal(t, "0.0", chain.FormatEther(nil))
}

func TestFormatUnitsSixDecimals(t *testing.T) {
	assert.Equal(t, "1.5", chain.FormatUnits(big.NewInt(1_500_000), 6))
}

func TestFormatUnitsZeroDecimals(t *testing.T) {
	assert.Equal(t, "5.0", chain.FormatUnits(big.NewInt(5), 0))
	assert.Equal(t, "-7.0", chain.FormatUnits(big.NewInt(-7), 0))
	assert.Equal(t, "0.0", chain.FormatUnits(new(big.Int), 0))
}

func TestParseUnitsNegativeDecimals(t *testing.T) {
	_, err := chain.ParseUnits("5", -1)
	assert.ErrorIs(t, err, chain.ErrInvalidAmount)
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"0.05", "1.0", "42.000001"} {
		wei, err := chain.ParseEther(in)
		require.NoError(t, err)
		assert.Equal(t, in, chain.FormatEther(wei))
	}
}
