package cripta

import (
	"sync"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSubkeys(t *testing.T) {
	type scenario struct {
		key string
		k1  string
		k2  string
	}

	scenarios := []scenario{
		{"1010000010", "10100100", "01000011"},
		{"0000000000", "00000000", "00000000"},
		{"1111111111", "11111111", "11111111"},
		{"0111111101", "01011111", "11111100"},
	}

	for _, s := range scenarios {
		subkeys, err := GenerateSubkeys(mustParse(t, s.key))
		require.NoError(t, err)
		assert.EqualValues(t, s.k1, subkeys.K1.String(), "K1 for %s", s.key)
		assert.EqualValues(t, s.k2, subkeys.K2.String(), "K2 for %s", s.key)
	}
}

func TestGenerateSubkeysIsDeterministic(t *testing.T) {
	key := mustParse(t, "1010000010")

	first, err := GenerateSubkeys(key)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := GenerateSubkeys(key)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateSubkeysRejectsWidth(t *testing.T) {
	_, err := GenerateSubkeys(mustParse(t, "10100000"))
	assert.True(t, errors.Is(err, ErrWidthMismatch))
}

func TestRoundFunction(t *testing.T) {
	type scenario struct {
		right    string
		subkey   string
		expected string
	}

	scenarios := []scenario{
		{"0101", "10100100", "1010"},
		{"1111", "00000000", "0111"},
		{"0000", "11111111", "0111"},
	}

	f := &SDESRoundFunction{}
	for _, s := range scenarios {
		actual, err := f.Apply(mustParse(t, s.right), mustParse(t, s.subkey))
		require.NoError(t, err)
		assert.EqualValues(t, s.expected, actual.String(), "F(%s, %s)", s.right, s.subkey)
	}

	_, err := f.Apply(mustParse(t, "01010"), mustParse(t, "10100100"))
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	_, err = f.Apply(mustParse(t, "0101"), mustParse(t, "1010010"))
	assert.True(t, errors.Is(err, ErrWidthMismatch))
}

func TestEncryptDecryptBlock(t *testing.T) {
	type scenario struct {
		plaintext  string
		key        string
		ciphertext string
	}

	scenarios := []scenario{
		{"10100101", "1010000010", "00001010"},
		{"10111101", "1010000010", "10000111"},
		{"00000000", "0000000000", "11110000"},
		{"11111111", "1111111111", "00001111"},
		{"01000001", "1010000010", "00010101"},
		{"10101010", "0111111101", "00010110"},
		{"00000001", "0000011111", "01011011"},
		{"11110000", "1100110011", "00101101"},
	}

	for _, s := range scenarios {
		plain := mustParse(t, s.plaintext)
		key := mustParse(t, s.key)

		encrypted, err := EncryptBlock(plain, key)
		require.NoError(t, err)
		assert.EqualValues(t, s.ciphertext, encrypted.String(), "encrypt %s under %s", s.plaintext, s.key)

		decrypted, err := DecryptBlock(encrypted, key)
		require.NoError(t, err)
		assert.EqualValues(t, s.plaintext, decrypted.String(), "decrypt %s under %s", s.ciphertext, s.key)
	}
}

func TestRoundTripAllBlocksAllKeys(t *testing.T) {
	for k := 0; k < KeySpace; k++ {
		sdes, err := NewSDESCipher(MustBitVector(uint16(k), KeyWidth))
		require.NoError(t, err)

		for p := 0; p < 256; p++ {
			plain := MustBitVector(uint16(p), BlockWidth)

			encrypted, err := sdes.EncryptBlock(plain)
			require.NoError(t, err)

			decrypted, err := sdes.DecryptBlock(encrypted)
			require.NoError(t, err)

			if !decrypted.Equal(plain) {
				t.Fatalf("round trip failed: key %s plaintext %s ciphertext %s decrypted %s",
					sdes.Key(), plain, encrypted, decrypted)
			}
		}
	}
}

func TestEncryptIsPermutationPerKey(t *testing.T) {
	sdes, err := NewSDESCipher(mustParse(t, "1010000010"))
	require.NoError(t, err)

	seen := make(map[uint16]bool)
	for p := 0; p < 256; p++ {
		encrypted, err := sdes.EncryptBlock(MustBitVector(uint16(p), BlockWidth))
		require.NoError(t, err)
		seen[encrypted.Uint16()] = true
	}

	assert.Len(t, seen, 256)
}

func TestBlockWidthValidation(t *testing.T) {
	key := mustParse(t, "1010000010")

	_, err := EncryptBlock(mustParse(t, "101"), key)
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	_, err = DecryptBlock(mustParse(t, "101001011"), key)
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	_, err = EncryptBlock(mustParse(t, "10100101"), mustParse(t, "10100101"))
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	_, err = NewSDESCipher(mustParse(t, "10100000101"))
	assert.True(t, errors.Is(err, ErrWidthMismatch))
}

func TestCipherIsSafeForConcurrentUse(t *testing.T) {
	sdes, err := NewSDESCipher(mustParse(t, "1010000010"))
	require.NoError(t, err)

	expected := make([]BitVector, 256)
	for p := range expected {
		expected[p], err = sdes.EncryptBlock(MustBitVector(uint16(p), BlockWidth))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	failures := make(chan string, 256*8)

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := 0; p < 256; p++ {
				encrypted, err := sdes.EncryptBlock(MustBitVector(uint16(p), BlockWidth))
				if err != nil || !encrypted.Equal(expected[p]) {
					failures <- MustBitVector(uint16(p), BlockWidth).String()
				}
			}
		}()
	}

	wg.Wait()
	close(failures)

	for f := range failures {
		t.Errorf("concurrent encryption of %s diverged", f)
	}
}

func TestFeistelNetworkValidation(t *testing.T) {
	_, err := NewFeistelNetwork(nil, &SDESRoundFunction{}, BlockWidth, 2)
	assert.Error(t, err)

	_, err = NewFeistelNetwork(&SDESKeySchedule{}, nil, BlockWidth, 2)
	assert.Error(t, err)

	_, err = NewFeistelNetwork(&SDESKeySchedule{}, &SDESRoundFunction{}, 7, 2)
	assert.Error(t, err)

	fn, err := NewFeistelNetwork(&SDESKeySchedule{}, &SDESRoundFunction{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, BlockWidth, fn.GetBlockSize())
	assert.Equal(t, 2, fn.GetRoundsCount())

	_, err = fn.EncryptBlock(mustParse(t, "10100101"), []BitVector{mustParse(t, "10100100")})
	assert.Error(t, err)

	_, err = fn.RoundKeys(mustParse(t, "1010"))
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	tooMany, err := NewFeistelNetwork(&SDESKeySchedule{}, &SDESRoundFunction{}, BlockWidth, 3)
	require.NoError(t, err)
	_, err = tooMany.RoundKeys(mustParse(t, "1010000010"))
	assert.Error(t, err)
}

func TestSDESCipherExposesKeyAndSubkeys(t *testing.T) {
	for _, key := range []string{"1010000010", "0111111101", "0000000000"} {
		k := mustParse(t, key)

		sdes, err := NewSDESCipher(k)
		require.NoError(t, err)

		expected, err := GenerateSubkeys(k)
		require.NoError(t, err)

		assert.True(t, sdes.Key().Equal(k))
		assert.True(t, sdes.Subkeys().K1.Equal(expected.K1), "K1 for %s", key)
		assert.True(t, sdes.Subkeys().K2.Equal(expected.K2), "K2 for %s", key)
	}
}
