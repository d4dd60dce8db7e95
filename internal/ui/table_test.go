package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRendersHeaderRuleAndRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 8}, {Title: "Network", Width: 10}})
	tbl.AddRow(Row{"FundMe", "sepolia"})
	tbl.AddRow(Row{"Other"})

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[0], "Network")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[2], "FundMe")
	assert.Contains(t, lines[2], "sepolia")
	assert.Contains(t, lines[3], "Other")
}

func TestTableHighlightDefaultsToNone(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 3}})
	assert.Equal(t, -1, tbl.Highlight)
}

func TestTableCutsLongCells(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Address", Width: 10}})
	tbl.AddRow(Row{"0x5FbDB2315678afecb367f032d93F642f64180aa3"})
	out := tbl.Render()
	assert.Contains(t, out, "0x5FbDB23…")
	assert.NotContains(t, out, "0x5FbDB2315678")
}

func TestKeyValueBlock(t *testing.T) {
	out := KeyValueBlock("Contract", [][2]string{
		{"Name", "FundMe"},
		{"Address", "0x5FbD…0aa3"},
	})
	assert.Contains(t, out, "Contract")
	assert.Contains(t, out, "FundMe")
	assert.Less(t, strings.Index(out, "Name"), strings.Index(out, "Address"))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab   ", fit("ab", 5))
	assert.Equal(t, "abcd…", fit("abcdefgh", 5))
	assert.Equal(t, "…", fit("abc", 1))
	assert.Equal(t, "", fit("abc", 0))
}

func TestPadR(t *testing.T) {
	assert.Equal(t, "hi   ", padR("hi", 5))
	assert.Equal(t, "hello", padR("hello", 5))
	assert.Equal(t, "toolong", padR("toolong", 3))
	assert.Equal(t, "é ", padR("é", 2))
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		" y \n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"yep\n": false,
	}
	for in, want := range cases {
		var out bytes.Buffer
		assert.Equal(t, want, Confirm(strings.NewReader(in), &out, "Fund 0.05 ETH?"), "%q", in)
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestConfirmDanger(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, ConfirmDanger(strings.NewReader("y\n"), &out, "Withdraw everything?"))
	assert.Contains(t, out.String(), "Withdraw everything?")
}

func TestSpinnerStopWithMsg(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinner(&out, "Mining...")
	s.Start()
	s.StopWithMsg("mined")
	assert.Contains(t, out.String(), "Mining...")
	assert.True(t, strings.HasSuffix(out.String(), "mined\n"))
}
