package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Creditor,Account Type,Monthly Payment,Unpaid Balance\nCafé Credit Union,revolving,85.00,2400.00\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "Peña Loans" header fragment: ñ = 0xF1.
	input := []byte{
		'C', 'r', 'e', 'd', 'i', 't', 'o', 'r', '\n',
		'P', 'e', 0xF1, 'a', ' ', 'L', 'o', 'a', 'n', 's', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Creditor\nPeña Loans\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Institution,Current Balance\n")

	r, err := encoding.NewUTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// "A,B\n" in UTF-16 LE with BOM, as Excel writes it.
	input := []byte{0xFF, 0xFE, 'A', 0x00, ',', 0x00, 'B', 0x00, '\n', 0x00}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "A,B\n", string(got))
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{
			name:   "Comma",
			sample: "Creditor,Account Type,Monthly Payment\nrow,data,here\n",
			want:   ',',
		},
		{
			name:   "Semicolon",
			sample: "Creditor;Account Type;Monthly Payment\n",
			want:   ';',
		},
		{
			name:   "Tab",
			sample: "Creditor\tAccount Type\tMonthly Payment\n",
			want:   '\t',
		},
		{
			name:   "QuotedCommasIgnored",
			sample: "\"Smith, Jones & Co\";\"Revolving, open\";85\n",
			want:   ';',
		},
		{
			name:   "EmptyDefaultsToComma",
			sample: "",
			want:   ',',
		},
		{
			name:   "OnlyFirstLineCounts",
			sample: "Creditor;Payment\na,b,c,d,e,f,g\n",
			want:   ';',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encoding.DetectDelimiter([]byte(tt.sample)))
		})
	}
}

func TestSniff(t *testing.T) {
	input := "Institution;Account Type;Current Balance\nFirst Federal;checking;12500.00\n"

	r, delim, err := encoding.Sniff(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	assert.Equal(t, ';', delim)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
