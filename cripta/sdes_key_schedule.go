package cripta

import (
	"fmt"
)

type SDESKeySchedule struct{}

var p10 = [...]int{3, 5, 2, 7, 4, 10, 1, 9, 8, 6}

var p8 = [...]int{6, 3, 7, 4, 8, 5, 10, 9}

// shiftSchedule holds the per-round rotation of each 5-bit half; the
// rotations accumulate, so K2 is taken after 1+2 positions.
var shiftSchedule = [...]int{1, 2}

// SubkeyPair holds the two round keys derived from one master key.
type SubkeyPair struct {
	K1 BitVector
	K2 BitVector
}

func (dks *SDESKeySchedule) GenerateRoundKeys(masterKey BitVector) ([]BitVector, error) {
	if err := requireWidth("key schedule", masterKey, KeyWidth); err != nil {
		return nil, err
	}

	roundKeys := make([]BitVector, 0, len(shiftSchedule))

	permutedKey, err := PermuteBits(masterKey, p10[:])
	if err != nil {
		return nil, fmt.Errorf("P10 permutation failed: %w", err)
	}

	C, D, err := permutedKey.Split()
	if err != nil {
		return nil, fmt.Errorf("key split failed: %w", err)
	}

	for round, shifts := range shiftSchedule {
		C = RotateLeft(C, shifts)
		D = RotateLeft(D, shifts)

		CD, err := C.Concat(D)
		if err != nil {
			return nil, fmt.Errorf("key join failed in round %d: %w", round, err)
		}

		roundKey, err := PermuteBits(CD, p8[:])
		if err != nil {
			return nil, fmt.Errorf("P8 permutation failed in round %d: %w", round, err)
		}

		roundKeys = append(roundKeys, roundKey)
	}

	return roundKeys, nil
}

// GenerateSubkeys derives (K1, K2) from a 10-bit master key.
func GenerateSubkeys(key BitVector) (SubkeyPair, error) {
	var dks SDESKeySchedule

	roundKeys, err := dks.GenerateRoundKeys(key)
	if err != nil {
		return SubkeyPair{}, err
	}

	return SubkeyPair{K1: roundKeys[0], K2: roundKeys[1]}, nil
}
