package voa_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/importer/voa"
)

func TestParser_StandardReport(t *testing.T) {
	csv := `Asset Verification Report,03/14/2026
Borrower,DANA WHITFIELD

Institution,Account Type,Current Balance
First Federal,Checking,"$12,500.00"
First Federal,Savings,"$48,000.00"
Fidelity,Brokerage,"$95,000.00"
Vanguard,Retirement,"$210,000.00"

Total verified assets,,"$365,500.00"
`

	p := voa.NewParser()
	assets, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, assets, 4)

	assert.Equal(t, "First Federal", assets[0].Institution)
	assert.Equal(t, "checking", assets[0].Kind)
	assert.Equal(t, "12500.00", assets[0].Value.StringFixed(2))
	assert.True(t, assets[0].Liquid)

	assert.True(t, assets[1].Liquid)
	assert.False(t, assets[2].Liquid)
	assert.False(t, assets[3].Liquid)
}

func TestParser_NoMatchingFormat(t *testing.T) {
	p := voa.NewParser()
	_, err := p.Parse(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching VOA format")
}

func TestParser_SkipsBlankAndFooterRows(t *testing.T) {
	csv := `Institution,Account Type,Current Balance
First Federal,checking,12500.00

,,
Generated by portal,,
`

	p := voa.NewParser()
	assets, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, assets, 1)
}

func TestParser_HeaderOnly(t *testing.T) {
	p := voa.NewParser()
	assets, err := p.Parse(strings.NewReader("Institution,Account Type,Current Balance\n"))
	require.NoError(t, err)
	assert.Empty(t, assets)
}
