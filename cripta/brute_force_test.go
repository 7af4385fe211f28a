package cripta

import (
	"context"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBruteForceKnownPair(t *testing.T) {
	type scenario struct {
		plaintext  string
		ciphertext string
		expected   []string
	}

	scenarios := []scenario{
		{
			"10100101",
			"00001010",
			[]string{
				"0110000000", "0110010100", "0111001000", "0111011100",
				"1010000010", "1010010110", "1011001010", "1011011110",
			},
		},
		{
			"00000000",
			"00000000",
			[]string{
				"0000000111", "0001001111", "0010110011", "0011111011",
				"1100000101", "1101001101", "1110110001", "1111111001",
			},
		},
		{
			"11111111",
			"00000000",
			[]string{"0100101010", "1000101010", "1001100010"},
		},
		{
			"10100101",
			"00000011",
			[]string{},
		},
	}

	for _, s := range scenarios {
		keys, err := BruteForceString(s.plaintext, s.ciphertext, nil)
		require.NoError(t, err)
		assert.EqualValues(t, s.expected, keys, "%s -> %s", s.plaintext, s.ciphertext)
	}
}

func TestBruteForceCompleteAndSound(t *testing.T) {
	plaintexts := []uint16{0x00, 0xA5, 0x3C, 0xFF}
	keys := []uint16{0x000, 0x282, 0x1FD, 0x3FF, 0x155}

	searcher := NewKeySearcher(WithWorkers(4), WithBatchSize(100))

	for _, p := range plaintexts {
		plain := MustBitVector(p, BlockWidth)
		for _, k := range keys {
			key := MustBitVector(k, KeyWidth)

			cipherBlock, err := EncryptBlock(plain, key)
			require.NoError(t, err)

			result, err := searcher.Search(context.Background(), plain, cipherBlock, nil)
			require.NoError(t, err)
			assert.Equal(t, KeySpace, result.Tried)

			assert.Contains(t, result.KeyStrings(), key.String())

			for i, found := range result.Keys {
				encrypted, err := EncryptBlock(plain, found)
				require.NoError(t, err)
				assert.True(t, encrypted.Equal(cipherBlock), "key %s does not reproduce %s", found, cipherBlock)
				if i > 0 {
					assert.Less(t, result.Keys[i-1].Uint16(), found.Uint16())
				}
			}
		}
	}
}

func TestBruteForceParallelMatchesSequential(t *testing.T) {
	plain := mustParse(t, "01101001")

	for c := 0; c < 256; c += 17 {
		cipherBlock := MustBitVector(uint16(c), BlockWidth)

		sequential, err := BruteForce(plain, cipherBlock, nil)
		require.NoError(t, err)

		for _, workers := range []int{2, 8} {
			for _, batch := range []int{1, 7, 64, 5000} {
				parallel, err := NewKeySearcher(WithWorkers(workers), WithBatchSize(batch)).
					Search(context.Background(), plain, cipherBlock, nil)
				require.NoError(t, err)
				assert.Equal(t, sequential.KeyStrings(), parallel.KeyStrings())
			}
		}
	}
}

func TestBruteForceIsStable(t *testing.T) {
	first, err := BruteForceString("00000000", "00000000", nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := NewKeySearcher().Search(context.Background(), mustParse(t, "00000000"), mustParse(t, "00000000"), nil)
		require.NoError(t, err)
		assert.Equal(t, first, again.KeyStrings())
	}
}

func TestBruteForceProgress(t *testing.T) {
	searchers := []*KeySearcher{
		NewKeySearcher(WithWorkers(1)),
		NewKeySearcher(WithWorkers(8), WithBatchSize(16)),
		NewKeySearcher(WithWorkers(3), WithBatchSize(1)),
		NewKeySearcher(WithBatchSize(KeySpace)),
	}

	for _, searcher := range searchers {
		var reports []int
		_, err := searcher.Search(context.Background(), mustParse(t, "10100101"), mustParse(t, "00001010"), func(percent int) {
			reports = append(reports, percent)
		})
		require.NoError(t, err)

		require.NotEmpty(t, reports)
		assert.Equal(t, 0, reports[0])
		assert.Equal(t, 100, reports[len(reports)-1])
		for i := 1; i < len(reports); i++ {
			assert.Greater(t, reports[i], reports[i-1])
		}
		for _, percent := range reports[:len(reports)-1] {
			assert.Less(t, percent, 100)
		}
		assert.LessOrEqual(t, len(reports), 101)
	}
}

func TestBruteForceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var last int
	result, err := NewKeySearcher(WithWorkers(2), WithBatchSize(8)).
		Search(ctx, mustParse(t, "10100101"), mustParse(t, "00001010"), func(percent int) {
			last = percent
		})

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Less(t, last, 100)
}

func TestBruteForceCancelledFromProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := NewKeySearcher(WithWorkers(1), WithBatchSize(1)).
		Search(ctx, mustParse(t, "10100101"), mustParse(t, "00001010"), func(percent int) {
			if percent >= 10 {
				cancel()
			}
		})

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestBruteForceValidatesWidth(t *testing.T) {
	called := false
	_, err := BruteForceString("1010010", "00001010", func(int) { called = true })
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	_, err = BruteForceString("10100101", "0000101x", func(int) { called = true })
	assert.True(t, errors.Is(err, ErrInvalidSymbol))

	_, err = BruteForce(mustParse(t, "10100101"), mustParse(t, "0000101000"), func(int) { called = true })
	assert.True(t, errors.Is(err, ErrWidthMismatch))

	assert.False(t, called)
}

func TestKeySearcherDefaults(t *testing.T) {
	ks := NewKeySearcher(WithWorkers(-1), WithBatchSize(1 << 20))
	assert.Greater(t, ks.Workers(), 0)
	assert.Equal(t, KeySpace, ks.BatchSize())

	assert.Equal(t, defaultBatchSize, NewKeySearcher().BatchSize())
}

func TestBruteForceKeepsResultWhenCancelledAtCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := NewKeySearcher(WithWorkers(4), WithBatchSize(32)).
		Search(ctx, mustParse(t, "10100101"), mustParse(t, "00001010"), func(percent int) {
			if percent == 100 {
				cancel()
			}
		})

	require.NoError(t, err)
	assert.Equal(t, KeySpace, result.Tried)
	assert.Contains(t, result.KeyStrings(), "1010000010")
	assert.Len(t, result.Keys, 8)
}
