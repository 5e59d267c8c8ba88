package tokencount_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/tokencount"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		in   tokencount.Token
		want []tokencount.Token
	}{
		{"zero becomes one", 0, []tokencount.Token{1}},
		{"single digit multiplies", 1, []tokencount.Token{2024}},
		{"two digits split", 10, []tokencount.Token{1, 0}},
		{"leading zeros dropped", 1000, []tokencount.Token{10, 0}},
		{"right half keeps inner digits", 253000, []tokencount.Token{253, 0}},
		{"odd length multiplies", 125, []tokencount.Token{253000}},
		{"17", 17, []tokencount.Token{1, 7}},
		{"even length with zeros inside", 28676032, []tokencount.Token{2867, 6032}},
		{"15 digits still fit", 999999999999999, []tokencount.Token{2023999999999997976}},
		{"20 digits split", 10000000000000000000, []tokencount.Token{1000000000, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokencount.Evaluate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateOverflow(t *testing.T) {
	for _, tok := range []tokencount.Token{
		10000000000000000,   // 17 digits
		1000000000000000000, // 19 digits
		99999999999999999,   // 17 digits
	} {
		_, err := tokencount.Evaluate(tok)
		require.Error(t, err, "token %d", tok)
		assert.True(t, errors.Is(err, tokencount.ErrOverflow))

		var oe *tokencount.OverflowError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, tokencount.OpMultiply, oe.Op)
		assert.Equal(t, tok, oe.Token)
	}
}

func TestEvaluateDoesNotOverflowEvenLengths(t *testing.T) {
	// 16 and 18 digit tokens split instead of multiplying
	got, err := tokencount.Evaluate(123456789012345678)
	require.NoError(t, err)
	assert.Equal(t, []tokencount.Token{123456789, 12345678}, got)
}
