package tokencount

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseTokens reads the first line of r as whitespace-separated decimal tokens.
// Anything after the first line is ignored.
func ParseTokens(r io.Reader) ([]Token, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("tokencount: read input: %w", err)
	}
	return ParseLine(line)
}

// ParseLine parses one line of whitespace-separated non-negative decimal integers.
func ParseLine(line string) ([]Token, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyInput
	}
	tokens := make([]Token, 0, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			var ne *strconv.NumError
			if errors.As(err, &ne) {
				err = ne.Err
			}
			return nil, &ParseError{Pos: i + 1, Text: f, Err: err}
		}
		tokens = append(tokens, Token(n))
	}
	return tokens, nil
}
