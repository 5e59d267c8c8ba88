package tokencount_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/tokencount"
)

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []tokencount.Token
	}{
		{"example", "125 17\n", []tokencount.Token{125, 17}},
		{"no trailing newline", "0 1 10 99 999", []tokencount.Token{0, 1, 10, 99, 999}},
		{"tabs and runs of spaces", "  7\t\t 00042   3 ", []tokencount.Token{7, 42, 3}},
		{"only first line", "1 2\n3 4\n", []tokencount.Token{1, 2}},
		{"crlf", "5 6\r\n", []tokencount.Token{5, 6}},
		{"max uint64", "18446744073709551615", []tokencount.Token{18446744073709551615}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokencount.ParseTokens(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTokensEmpty(t *testing.T) {
	for _, in := range []string{"", "\n", "   \t \n125 17\n"} {
		_, err := tokencount.ParseTokens(strings.NewReader(in))
		assert.ErrorIs(t, err, tokencount.ErrEmptyInput, "input %q", in)
	}
}

func TestParseLineInvalid(t *testing.T) {
	tests := []struct {
		in    string
		pos   int
		text  string
		cause error
	}{
		{"125 -17", 2, "-17", strconv.ErrSyntax},
		{"12a", 1, "12a", strconv.ErrSyntax},
		{"1 2 +3", 3, "+3", strconv.ErrSyntax},
		{"18446744073709551616", 1, "18446744073709551616", strconv.ErrRange},
	}
	for _, tt := range tests {
		_, err := tokencount.ParseLine(tt.in)
		require.Error(t, err, tt.in)
		assert.ErrorIs(t, err, tokencount.ErrInvalidToken)
		assert.ErrorIs(t, err, tt.cause)

		var pe *tokencount.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, tt.pos, pe.Pos)
		assert.Equal(t, tt.text, pe.Text)
	}
}
