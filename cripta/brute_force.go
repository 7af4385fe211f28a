package cripta

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// KeySpace is the number of distinct 10-bit keys.
const KeySpace = 1 << KeyWidth

const defaultBatchSize = 64

type KeySearchResult struct {
	Keys    []BitVector
	Tried   int
	Elapsed time.Duration
}

func (r *KeySearchResult) KeyStrings() []string {
	return lo.Map(r.Keys, func(key BitVector, _ int) string {
		return key.String()
	})
}

// KeySearcher tries every 10-bit key against a known plaintext/ciphertext
// pair. Batches of keys run on a bounded set of goroutines; progress is
// reported only from the goroutine that called Search.
type KeySearcher struct {
	workers   int
	batchSize int
}

type SearchOption func(*KeySearcher)

func WithWorkers(workers int) SearchOption {
	return func(ks *KeySearcher) {
		ks.workers = workers
	}
}

func WithBatchSize(batchSize int) SearchOption {
	return func(ks *KeySearcher) {
		ks.batchSize = batchSize
	}
}

func NewKeySearcher(opts ...SearchOption) *KeySearcher {
	ks := &KeySearcher{}
	for _, opt := range opts {
		opt(ks)
	}

	if ks.workers <= 0 {
		ks.workers = runtime.NumCPU()
	}
	if ks.batchSize <= 0 {
		ks.batchSize = defaultBatchSize
	}
	if ks.batchSize > KeySpace {
		ks.batchSize = KeySpace
	}

	return ks
}

func (ks *KeySearcher) Workers() int {
	return ks.workers
}

func (ks *KeySearcher) BatchSize() int {
	return ks.batchSize
}

// Search returns every key, in ascending order, under which plainBlock
// encrypts to cipherBlock. onProgress may be nil. It receives 0 first, then
// strictly increasing percentages, and 100 exactly once when all keys have
// been tried. ctx is checked between batches; a search that has already
// tried every key returns its result even if ctx is cancelled afterwards.
func (ks *KeySearcher) Search(
	ctx context.Context,
	plainBlock BitVector,
	cipherBlock BitVector,
	onProgress func(percent int),
) (*KeySearchResult, error) {
	if err := requireWidth("brute force plaintext", plainBlock, BlockWidth); err != nil {
		return nil, err
	}
	if err := requireWidth("brute force ciphertext", cipherBlock, BlockWidth); err != nil {
		return nil, err
	}

	startTime := time.Now()

	keys := make([]uint16, KeySpace)
	for i := range keys {
		keys[i] = uint16(i)
	}
	batches := lo.Chunk(keys, ks.batchSize)

	results := make([][]BitVector, len(batches))
	finished := make(chan int, len(batches))
	waitErr := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ks.workers)

	go func() {
		for i, batch := range batches {
			if gctx.Err() != nil {
				break
			}

			i, batch := i, batch
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				matches, err := searchBatch(batch, plainBlock, cipherBlock)
				if err != nil {
					return err
				}

				results[i] = matches
				finished <- len(batch)
				return nil
			})
		}

		waitErr <- g.Wait()
		close(finished)
	}()

	report := func(percent int) {
		if onProgress != nil {
			onProgress(percent)
		}
	}

	report(0)
	lastPercent := 0
	tried := 0
	for n := range finished {
		tried += n
		percent := tried * 100 / KeySpace
		if percent > lastPercent {
			lastPercent = percent
			report(percent)
		}
	}

	if err := <-waitErr; err != nil {
		return nil, fmt.Errorf("key search aborted after %d keys: %w", tried, err)
	}
	if err := ctx.Err(); err != nil && tried < KeySpace {
		return nil, fmt.Errorf("key search aborted after %d keys: %w", tried, err)
	}

	found := lo.Flatten(results)
	sort.Slice(found, func(a, b int) bool {
		return found[a].Uint16() < found[b].Uint16()
	})

	return &KeySearchResult{
		Keys:    found,
		Tried:   tried,
		Elapsed: time.Since(startTime),
	}, nil
}

func searchBatch(keys []uint16, plainBlock BitVector, cipherBlock BitVector) ([]BitVector, error) {
	var matches []BitVector

	for _, k := range keys {
		key := MustBitVector(k, KeyWidth)

		sdes, err := NewSDESCipher(key)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}

		encrypted, err := sdes.EncryptBlock(plainBlock)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}

		if encrypted.Equal(cipherBlock) {
			matches = append(matches, key)
		}
	}

	return matches, nil
}

// BruteForce is a single-worker search with no cancellation.
func BruteForce(plainBlock BitVector, cipherBlock BitVector, onProgress func(percent int)) (*KeySearchResult, error) {
	return NewKeySearcher(WithWorkers(1)).Search(context.Background(), plainBlock, cipherBlock, onProgress)
}
