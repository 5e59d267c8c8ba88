package tokencount

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow reports that a token or a population count no longer fits in uint64.
	ErrOverflow = errors.New("tokencount: uint64 overflow")

	// ErrEmptyInput reports an input source without any token.
	ErrEmptyInput = errors.New("tokencount: empty input")

	// ErrInvalidToken reports a field that is not a non-negative decimal integer.
	ErrInvalidToken = errors.New("tokencount: invalid token")

	// ErrInvalidSteps reports a generation count the caller is not allowed to request.
	ErrInvalidSteps = errors.New("tokencount: invalid generation count")

	// ErrPopulationLimit stops the naive simulator before it exhausts memory.
	ErrPopulationLimit = errors.New("tokencount: naive population limit exceeded")
)

// Operations that can overflow.
const (
	OpMultiply = "multiply"
	OpAdd      = "add"
	OpTotal    = "total"
)

// OverflowError carries the sub-problem that overflowed. Steps is 0 when the
// overflow happened in Evaluate, outside of any counting context.
type OverflowError struct {
	Op    string
	Token Token
	Steps uint32
}

func (e *OverflowError) Error() string {
	switch e.Op {
	case OpMultiply:
		return fmt.Sprintf("tokencount: %d * %d overflows uint64", e.Token, Multiplier)
	case OpAdd:
		return fmt.Sprintf("tokencount: population of %d after %d generations overflows uint64", e.Token, e.Steps)
	case OpTotal:
		return fmt.Sprintf("tokencount: grand total after %d generations overflows uint64 at token %d", e.Steps, e.Token)
	default:
		return fmt.Sprintf("tokencount: %s overflow at token %d", e.Op, e.Token)
	}
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

// ParseError points at the offending field of the input line (Pos is 1-based).
type ParseError struct {
	Pos  int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tokencount: field %d %q: %v", e.Pos, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrInvalidToken)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// WorkerError is returned by Dispatcher.Total when counting one initial token failed.
// Index is the token's position in the input slice.
type WorkerError struct {
	Index int
	Token Token
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("tokencount: worker for token %d (index %d): %v", e.Token, e.Index, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }
