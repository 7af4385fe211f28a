package cripta

// String entry points for callers that hold '0'/'1' text. Every argument is
// parsed with its exact width before any cipher work runs.

func GenerateSubkeysString(key string) (string, string, error) {
	k, err := ParseBitVector(key, KeyWidth)
	if err != nil {
		return "", "", err
	}

	sdes, err := NewSDESCipher(k)
	if err != nil {
		return "", "", err
	}

	subkeys := sdes.Subkeys()
	return subkeys.K1.String(), subkeys.K2.String(), nil
}

func EncryptBlockString(plaintext string, key string) (string, error) {
	block, k, err := parseBlockAndKey(plaintext, key)
	if err != nil {
		return "", err
	}

	encrypted, err := EncryptBlock(block, k)
	if err != nil {
		return "", err
	}
	return encrypted.String(), nil
}

func DecryptBlockString(ciphertext string, key string) (string, error) {
	block, k, err := parseBlockAndKey(ciphertext, key)
	if err != nil {
		return "", err
	}

	decrypted, err := DecryptBlock(block, k)
	if err != nil {
		return "", err
	}
	return decrypted.String(), nil
}

func EncryptText(plaintext string, key string) (string, error) {
	ctx, err := newTextContext(key)
	if err != nil {
		return "", err
	}
	return ctx.EncryptText(plaintext)
}

func DecryptText(ciphertext string, key string) (string, error) {
	ctx, err := newTextContext(key)
	if err != nil {
		return "", err
	}
	return ctx.DecryptText(ciphertext)
}

// BruteForceString returns the matching keys as 10-symbol strings in
// ascending order. The result is empty, not nil, when nothing matches.
func BruteForceString(plaintext string, ciphertext string, onProgress func(percent int)) ([]string, error) {
	plainBlock, err := ParseBitVector(plaintext, BlockWidth)
	if err != nil {
		return nil, err
	}

	cipherBlock, err := ParseBitVector(ciphertext, BlockWidth)
	if err != nil {
		return nil, err
	}

	result, err := BruteForce(plainBlock, cipherBlock, onProgress)
	if err != nil {
		return nil, err
	}

	keys := result.KeyStrings()
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func parseBlockAndKey(block string, key string) (BitVector, BitVector, error) {
	b, err := ParseBitVector(block, BlockWidth)
	if err != nil {
		return BitVector{}, BitVector{}, err
	}

	k, err := ParseBitVector(key, KeyWidth)
	if err != nil {
		return BitVector{}, BitVector{}, err
	}

	return b, k, nil
}

func newTextContext(key string) (*CipherContext, error) {
	k, err := ParseBitVector(key, KeyWidth)
	if err != nil {
		return nil, err
	}

	sdes, err := NewSDESCipher(k)
	if err != nil {
		return nil, err
	}

	return NewCipherContext(sdes)
}
