package cripta

import (
	"fmt"
)

// FeistelNetwork runs the rounds between the initial and final permutations.
// It holds no key material, so one network can serve any number of keys
// concurrently.
type FeistelNetwork struct {
	keySchedule   IKeySchedule
	roundFunction IRoundFunction

	blockSize   int
	roundsCount int
}

func NewFeistelNetwork(
	keyScheduleImpl IKeySchedule,
	roundFunctionImpl IRoundFunction,
	blockSize int,
	roundsCount int,
) (*FeistelNetwork, error) {

	if keyScheduleImpl == nil {
		return nil, fmt.Errorf("key schedule implementation cannot be nil")
	}
	if roundFunctionImpl == nil {
		return nil, fmt.Errorf("round function implementation cannot be nil")
	}
	if blockSize%2 != 0 {
		return nil, fmt.Errorf("block size must be even for Feistel network")
	}

	fBlockSize := blockSize
	if fBlockSize == 0 {
		fBlockSize = BlockWidth
	}

	fRoundsCount := roundsCount
	if fRoundsCount == 0 {
		fRoundsCount = 2
	}

	return &FeistelNetwork{
		keySchedule:   keyScheduleImpl,
		roundFunction: roundFunctionImpl,
		blockSize:     fBlockSize,
		roundsCount:   fRoundsCount,
	}, nil
}

func (fn *FeistelNetwork) GetBlockSize() int {
	return fn.blockSize
}

func (fn *FeistelNetwork) GetRoundsCount() int {
	return fn.roundsCount
}

func (fn *FeistelNetwork) RoundKeys(key BitVector) ([]BitVector, error) {
	roundKeys, err := fn.keySchedule.GenerateRoundKeys(key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate round keys: %w", err)
	}

	if len(roundKeys) < fn.roundsCount {
		return nil, fmt.Errorf("key schedule generated insufficient round keys: got %d, need %d",
			len(roundKeys), fn.roundsCount)
	}

	return roundKeys, nil
}

// EncryptBlock applies the rounds with round keys in forward order.
func (fn *FeistelNetwork) EncryptBlock(block BitVector, roundKeys []BitVector) (BitVector, error) {
	if len(roundKeys) < fn.roundsCount {
		return BitVector{}, fmt.Errorf("need %d round keys, got %d", fn.roundsCount, len(roundKeys))
	}

	order := make([]BitVector, fn.roundsCount)
	copy(order, roundKeys[:fn.roundsCount])

	return fn.run("encrypt", block, order)
}

// DecryptBlock is EncryptBlock with the round keys consumed in reverse.
func (fn *FeistelNetwork) DecryptBlock(block BitVector, roundKeys []BitVector) (BitVector, error) {
	if len(roundKeys) < fn.roundsCount {
		return BitVector{}, fmt.Errorf("need %d round keys, got %d", fn.roundsCount, len(roundKeys))
	}

	order := make([]BitVector, fn.roundsCount)
	for i := range order {
		order[i] = roundKeys[fn.roundsCount-1-i]
	}

	return fn.run("decrypt", block, order)
}

// run mixes F(right) into left every round and swaps the halves between
// rounds. There is no swap after the last round.
func (fn *FeistelNetwork) run(op string, block BitVector, roundKeys []BitVector) (BitVector, error) {
	if err := requireWidth(op, block, fn.blockSize); err != nil {
		return BitVector{}, err
	}

	left, right, err := block.Split()
	if err != nil {
		return BitVector{}, fmt.Errorf("failed to split block: %w", err)
	}

	for round, roundKey := range roundKeys {
		functionOutput, err := fn.roundFunction.Apply(right, roundKey)
		if err != nil {
			return BitVector{}, fmt.Errorf("round function error in round %d: %w", round, err)
		}

		left, err = XorBits(left, functionOutput)
		if err != nil {
			return BitVector{}, fmt.Errorf("xor operation failed in round %d: %w", round, err)
		}

		if round < len(roundKeys)-1 {
			left, right = right, left
		}
	}

	result, err := left.Concat(right)
	if err != nil {
		return BitVector{}, fmt.Errorf("failed to combine blocks: %w", err)
	}

	return result, nil
}
