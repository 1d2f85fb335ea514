package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestAsk_TypedAnswer(t *testing.T) {
	p, out := newTest("B\n")
	got, err := p.Ask("What is the lro series?", "A")
	require.NoError(t, err)
	assert.Equal(t, "B", got)
	assert.Contains(t, out.String(), "[A]")
}

func TestAsk_EmptySelectsDefault(t *testing.T) {
	p, _ := newTest("\n")
	got, err := p.Ask("What is the lro series?", "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestAsk_EOFWithPartialLine(t *testing.T) {
	p, _ := newTest("sepolia")
	got, err := p.Ask("Network?", "localhost")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", got)
}

func TestAskRequired_LoopsUntilNonEmpty(t *testing.T) {
	p, _ := newTest("\n\n0xABC\n")
	got, err := p.AskRequired("Wallet address?", "")
	require.NoError(t, err)
	assert.Equal(t, "0xABC", got)
}

func TestAskInt_RejectsGarbageThenAccepts(t *testing.T) {
	p, out := newTest("many\n15\n")
	got, err := p.AskInt("Term?", 12)
	require.NoError(t, err)
	assert.Equal(t, 15, got)
	assert.Contains(t, out.String(), "whole number")
}

func TestAskInt_DefaultOnEmpty(t *testing.T) {
	p, _ := newTest("\n")
	got, err := p.AskInt("How many tokens?", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestAskFloat(t *testing.T) {
	p, _ := newTest("12.5\n")
	got, err := p.AskFloat("Rate?", 5.0)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)
}

func TestAskDecimal(t *testing.T) {
	p, _ := newTest("40000.00\n")
	got, err := p.AskDecimal("Loan amount?", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(40000)))
}

func TestAskDate(t *testing.T) {
	p, out := newTest("05/22/2024\n2024-05-22\n")
	got, err := p.AskDate("Maturity date?", time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC), got)
	assert.Contains(t, out.String(), "YYYY-MM-DD")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"yes\n", false, true},
		{"Y\n", false, true},
		{"no\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\nn\n", true, false},
	}
	for _, tt := range tests {
		p, _ := newTest(tt.input)
		got, err := p.Confirm("Push to IPFS?", tt.def)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}

	p, _ := newTest("")
	_, err := p.Secret("Enter private key")
	require.Error(t, err)
}

func TestSecret_Seam(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("deadbeef"), nil
	}

	p, out := newTest("")
	got, err := p.Secret("Enter private key")
	require.NoError(t, err)
	assert.Equal(t, []byte("deadbeef"), got)
	assert.Contains(t, out.String(), "Enter private key")
}
