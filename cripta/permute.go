package cripta

import "fmt"

// SBox is a 4x4 table of 2-bit values addressed by (row, column).
type SBox [4][4]uint8

func PermuteBits(value BitVector, rule []int) (BitVector, error) {
	outputBits := len(rule)
	if outputBits == 0 || outputBits > maxWidth {
		return BitVector{}, fmt.Errorf("permute: rule length must be in [1, %d], got %d: %w", maxWidth, outputBits, ErrWidthMismatch)
	}

	var result uint16

	for i := 0; i < outputBits; i++ {
		sourcePos := rule[i]

		if sourcePos < 1 || sourcePos > value.Width() {
			return BitVector{}, fmt.Errorf("permute: rule index %d out of range for %d-bit input: %w",
				sourcePos, value.Width(), ErrWidthMismatch)
		}

		result = result<<1 | uint16(value.Bit(sourcePos))
	}

	return BitVector{width: outputBits, value: result}, nil
}

// RotateLeft rotates v circularly; shifts larger than the width wrap around
// and negative shifts rotate right.
func RotateLeft(v BitVector, shifts int) BitVector {
	if v.width == 0 {
		return v
	}

	shifts %= v.width
	if shifts < 0 {
		shifts += v.width
	}
	if shifts == 0 {
		return v
	}

	mask := uint16(1<<uint(v.width) - 1)
	value := (v.value<<uint(shifts) | v.value>>uint(v.width-shifts)) & mask

	return BitVector{width: v.width, value: value}
}

func XorBits(left BitVector, right BitVector) (BitVector, error) {
	if left.width != right.width {
		return BitVector{}, widthError("xor", left.width, right.width)
	}
	return BitVector{width: left.width, value: left.value ^ right.value}, nil
}

// SBoxLookup uses bits 1 and 4 of the nibble as the row and bits 2 and 3 as
// the column.
func SBoxLookup(nibble BitVector, box SBox) (BitVector, error) {
	if err := requireWidth("s-box lookup", nibble, HalfBlockWidth); err != nil {
		return BitVector{}, err
	}

	row := nibble.Bit(1)<<1 | nibble.Bit(4)
	col := nibble.Bit(2)<<1 | nibble.Bit(3)

	return BitVector{width: 2, value: uint16(box[row][col] & 0x3)}, nil
}
