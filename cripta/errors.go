package cripta

import (
	"fmt"

	"github.com/go-errors/errors"
)

type ErrorKind int

const (
	WidthMismatch ErrorKind = iota
	InvalidSymbol
	UnsupportedCharacter
)

var (
	ErrWidthMismatch        = errors.New("width mismatch")
	ErrInvalidSymbol        = errors.New("invalid bit symbol")
	ErrUnsupportedCharacter = errors.New("unsupported character")
)

func (k ErrorKind) String() string {
	switch k {
	case WidthMismatch:
		return "WidthMismatch"
	case InvalidSymbol:
		return "InvalidSymbol"
	case UnsupportedCharacter:
		return "UnsupportedCharacter"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// CipherError is returned by every validating operation in the package.
// Position is 0-based and only meaningful for InvalidSymbol and
// UnsupportedCharacter.
type CipherError struct {
	Kind     ErrorKind
	Op       string
	Want     int
	Got      int
	Position int
	Symbol   rune
}

func (e *CipherError) Error() string {
	switch e.Kind {
	case WidthMismatch:
		return fmt.Sprintf("%s: width mismatch: want %d bits, got %d", e.Op, e.Want, e.Got)
	case InvalidSymbol:
		return fmt.Sprintf("%s: invalid symbol %q at position %d, only '0' and '1' are allowed", e.Op, e.Symbol, e.Position)
	case UnsupportedCharacter:
		return fmt.Sprintf("%s: character %q (U+%04X) at position %d does not fit in %d bits", e.Op, e.Symbol, e.Symbol, e.Position, BlockWidth)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *CipherError) Is(target error) bool {
	switch target {
	case ErrWidthMismatch:
		return e.Kind == WidthMismatch
	case ErrInvalidSymbol:
		return e.Kind == InvalidSymbol
	case ErrUnsupportedCharacter:
		return e.Kind == UnsupportedCharacter
	}
	return false
}

func widthError(op string, want, got int) error {
	return &CipherError{Kind: WidthMismatch, Op: op, Want: want, Got: got}
}

func requireWidth(op string, v BitVector, want int) error {
	if v.Width() != want {
		return widthError(op, want, v.Width())
	}
	return nil
}
