package cripta

import (
	"fmt"
)

type SDESRoundFunction struct{}

var ep = [...]int{4, 1, 2, 3, 2, 3, 4, 1}

var p4 = [...]int{2, 4, 3, 1}

var sBox1 = SBox{
	{1, 0, 3, 2},
	{3, 2, 1, 0},
	{0, 2, 1, 3},
	{3, 1, 0, 2},
}

var sBox2 = SBox{
	{0, 1, 2, 3},
	{2, 3, 1, 0},
	{3, 0, 1, 2},
	{2, 1, 0, 3},
}

func (srf *SDESRoundFunction) Apply(inputHalf BitVector, roundKey BitVector) (BitVector, error) {
	if err := requireWidth("round function input", inputHalf, HalfBlockWidth); err != nil {
		return BitVector{}, err
	}
	if err := requireWidth("round function key", roundKey, BlockWidth); err != nil {
		return BitVector{}, err
	}

	expanded, err := PermuteBits(inputHalf, ep[:])
	if err != nil {
		return BitVector{}, fmt.Errorf("EP permutation failed: %w", err)
	}

	mixed, err := XorBits(expanded, roundKey)
	if err != nil {
		return BitVector{}, fmt.Errorf("subkey xor failed: %w", err)
	}

	left, right, err := mixed.Split()
	if err != nil {
		return BitVector{}, err
	}

	s1, err := SBoxLookup(left, sBox1)
	if err != nil {
		return BitVector{}, fmt.Errorf("S1 substitution failed: %w", err)
	}

	s2, err := SBoxLookup(right, sBox2)
	if err != nil {
		return BitVector{}, fmt.Errorf("S2 substitution failed: %w", err)
	}

	substituted, err := s1.Concat(s2)
	if err != nil {
		return BitVector{}, err
	}

	output, err := PermuteBits(substituted, p4[:])
	if err != nil {
		return BitVector{}, fmt.Errorf("P4 permutation failed: %w", err)
	}

	return output, nil
}
