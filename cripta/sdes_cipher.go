package cripta

import "fmt"

// SDESCipher is bound to one master key. Its subkeys are derived once in
// NewSDESCipher and never change afterwards, so a cipher may be shared
// between goroutines.
type SDESCipher struct {
	feistel *FeistelNetwork
	key     BitVector
	subkeys SubkeyPair
}

var ip = [...]int{2, 6, 3, 1, 4, 8, 5, 7}

var ipInv = [...]int{4, 1, 3, 5, 7, 2, 8, 6}

var sdesNetwork = mustSDESNetwork()

func mustSDESNetwork() *FeistelNetwork {
	feistel, err := NewFeistelNetwork(
		&SDESKeySchedule{},
		&SDESRoundFunction{},
		BlockWidth,
		2,
	)
	if err != nil {
		panic(err)
	}
	return feistel
}

func NewSDESCipher(key BitVector) (*SDESCipher, error) {
	if err := requireWidth("key", key, KeyWidth); err != nil {
		return nil, err
	}

	roundKeys, err := sdesNetwork.RoundKeys(key)
	if err != nil {
		return nil, err
	}

	return &SDESCipher{
		feistel: sdesNetwork,
		key:     key,
		subkeys: SubkeyPair{K1: roundKeys[0], K2: roundKeys[1]},
	}, nil
}

func (sdes *SDESCipher) Key() BitVector {
	return sdes.key
}

func (sdes *SDESCipher) Subkeys() SubkeyPair {
	return sdes.subkeys
}

func (sdes *SDESCipher) EncryptBlock(plainBlock BitVector) (BitVector, error) {
	if err := requireWidth("encrypt block", plainBlock, BlockWidth); err != nil {
		return BitVector{}, err
	}

	permuted, err := PermuteBits(plainBlock, ip[:])
	if err != nil {
		return BitVector{}, fmt.Errorf("IP permutation failed: %w", err)
	}

	feistelOutput, err := sdes.feistel.EncryptBlock(permuted, []BitVector{sdes.subkeys.K1, sdes.subkeys.K2})
	if err != nil {
		return BitVector{}, fmt.Errorf("feistel encryption failed: %w", err)
	}

	cipherBlock, err := PermuteBits(feistelOutput, ipInv[:])
	if err != nil {
		return BitVector{}, fmt.Errorf("IP inverse permutation failed: %w", err)
	}

	return cipherBlock, nil
}

func (sdes *SDESCipher) DecryptBlock(cipherBlock BitVector) (BitVector, error) {
	if err := requireWidth("decrypt block", cipherBlock, BlockWidth); err != nil {
		return BitVector{}, err
	}

	permuted, err := PermuteBits(cipherBlock, ip[:])
	if err != nil {
		return BitVector{}, fmt.Errorf("IP permutation failed: %w", err)
	}

	feistelOutput, err := sdes.feistel.DecryptBlock(permuted, []BitVector{sdes.subkeys.K1, sdes.subkeys.K2})
	if err != nil {
		return BitVector{}, fmt.Errorf("feistel decryption failed: %w", err)
	}

	plainBlock, err := PermuteBits(feistelOutput, ipInv[:])
	if err != nil {
		return BitVector{}, fmt.Errorf("IP inverse permutation failed: %w", err)
	}

	return plainBlock, nil
}

// EncryptBlock derives the subkeys for key and encrypts one block.
func EncryptBlock(plainBlock BitVector, key BitVector) (BitVector, error) {
	if err := requireWidth("encrypt block", plainBlock, BlockWidth); err != nil {
		return BitVector{}, err
	}

	sdes, err := NewSDESCipher(key)
	if err != nil {
		return BitVector{}, err
	}
	return sdes.EncryptBlock(plainBlock)
}

func DecryptBlock(cipherBlock BitVector, key BitVector) (BitVector, error) {
	if err := requireWidth("decrypt block", cipherBlock, BlockWidth); err != nil {
		return BitVector{}, err
	}

	sdes, err := NewSDESCipher(key)
	if err != nil {
		return BitVector{}, err
	}
	return sdes.DecryptBlock(cipherBlock)
}
