package cripta

import (
	"fmt"
	"strings"
)

const (
	HalfBlockWidth = 4
	BlockWidth     = 8
	KeyWidth       = 10

	maxWidth = 16
)

// BitVector is a fixed-width sequence of bits. Bit 1 is the leftmost
// (most significant) bit, matching the 1-based numbering of the
// permutation tables. The zero value is an empty vector.
type BitVector struct {
	width int
	value uint16
}

func NewBitVector(value uint16, width int) (BitVector, error) {
	if width <= 0 || width > maxWidth {
		return BitVector{}, fmt.Errorf("bit vector width must be in [1, %d], got %d", maxWidth, width)
	}
	if width < maxWidth && value>>uint(width) != 0 {
		return BitVector{}, widthError("new bit vector", width, bitLength(value))
	}
	return BitVector{width: width, value: value}, nil
}

// MustBitVector is NewBitVector for values known to be valid.
func MustBitVector(value uint16, width int) BitVector {
	v, err := NewBitVector(value, width)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseBitVector reads a textual '0'/'1' string of exactly width symbols.
// The length is checked before the symbols.
func ParseBitVector(s string, width int) (BitVector, error) {
	if width <= 0 || width > maxWidth {
		return BitVector{}, fmt.Errorf("bit vector width must be in [1, %d], got %d", maxWidth, width)
	}

	runes := []rune(s)
	if len(runes) != width {
		return BitVector{}, widthError("parse", width, len(runes))
	}

	var value uint16
	for i, r := range runes {
		value <<= 1
		switch r {
		case '0':
		case '1':
			value |= 1
		default:
			return BitVector{}, &CipherError{Kind: InvalidSymbol, Op: "parse", Position: i, Symbol: r}
		}
	}

	return BitVector{width: width, value: value}, nil
}

func (v BitVector) Width() int {
	return v.width
}

func (v BitVector) Uint16() uint16 {
	return v.value
}

// Bit returns bit i (1-based, from the left) as 0 or 1.
func (v BitVector) Bit(i int) uint8 {
	if i < 1 || i > v.width {
		panic(fmt.Sprintf("bit index %d out of range [1, %d]", i, v.width))
	}
	return uint8((v.value >> uint(v.width-i)) & 1)
}

func (v BitVector) Equal(other BitVector) bool {
	return v.width == other.width && v.value == other.value
}

// Split returns the left and right halves. The width must be even.
func (v BitVector) Split() (BitVector, BitVector, error) {
	if v.width == 0 || v.width%2 != 0 {
		return BitVector{}, BitVector{}, fmt.Errorf("cannot split %d-bit vector into equal halves", v.width)
	}

	half := v.width / 2
	mask := uint16(1)<<uint(half) - 1
	left := BitVector{width: half, value: v.value >> uint(half)}
	right := BitVector{width: half, value: v.value & mask}
	return left, right, nil
}

// Concat appends other to the right of v.
func (v BitVector) Concat(other BitVector) (BitVector, error) {
	width := v.width + other.width
	if width > maxWidth {
		return BitVector{}, fmt.Errorf("concatenated width %d exceeds %d bits", width, maxWidth)
	}
	return BitVector{width: width, value: v.value<<uint(other.width) | other.value}, nil
}

func (v BitVector) String() string {
	var sb strings.Builder
	sb.Grow(v.width)
	for i := 1; i <= v.width; i++ {
		if v.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func bitLength(value uint16) int {
	n := 0
	for value != 0 {
		n++
		value >>= 1
	}
	return n
}
