package tokencount

import (
	"math/bits"
	"strconv"
)

// Multiplier is applied to nonzero tokens with an odd number of decimal digits.
const Multiplier = 2024

// Token is one element of the evolving multiset.
type Token uint64

func (t Token) String() string { return strconv.FormatUint(uint64(t), 10) }

// Key identifies a memoized sub-problem: a token with Steps generations still to apply.
type Key struct {
	Token Token
	Steps uint32
}

// pow10 holds 10^0 .. 10^19, every power that fits in uint64.
var pow10 = func() [20]uint64 {
	var p [20]uint64
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

// digits returns the length of t's canonical decimal form.
func digits(t Token) int {
	n := 1
	for n < len(pow10) && uint64(t) >= pow10[n] {
		n++
	}
	return n
}

// Evaluate returns the ordered successors of t after one generation.
// The result always has one or two elements.
func Evaluate(t Token) ([]Token, error) {
	if t == 0 {
		return []Token{1}, nil
	}
	if d := digits(t); d%2 == 0 {
		// splitting on a power of ten drops the right half's leading zeros for free
		half := pow10[d/2]
		return []Token{t / Token(half), t % Token(half)}, nil
	}
	hi, lo := bits.Mul64(uint64(t), Multiplier)
	if hi != 0 {
		return nil, &OverflowError{Op: OpMultiply, Token: t}
	}
	return []Token{Token(lo)}, nil
}
