package cripta

import (
	"fmt"
	"runtime"
	"sync"
)

// CipherContext applies a block cipher to byte and text streams one 8-bit
// block at a time (ECB, no padding, no chaining).
type CipherContext struct {
	cipher   ISymmetricCipher
	parallel bool
	workers  int
}

type ContextOption func(*CipherContext)

// WithParallel spreads blocks over workers goroutines. workers <= 0 means
// runtime.NumCPU().
func WithParallel(workers int) ContextOption {
	return func(ctx *CipherContext) {
		ctx.parallel = true
		ctx.workers = workers
	}
}

func NewCipherContext(cipher ISymmetricCipher, opts ...ContextOption) (*CipherContext, error) {
	if cipher == nil {
		return nil, fmt.Errorf("cipher implementation cannot be nil")
	}

	ctx := &CipherContext{cipher: cipher}
	for _, opt := range opts {
		opt(ctx)
	}

	if ctx.workers <= 0 {
		ctx.workers = runtime.NumCPU()
	}
	if ctx.workers <= 0 {
		ctx.workers = 4
	}

	return ctx, nil
}

func (ctx *CipherContext) IsParallel() bool {
	return ctx.parallel
}

func (ctx *CipherContext) EncryptBytes(plaintext []byte) ([]byte, error) {
	return ctx.process(plaintext, ctx.cipher.EncryptBlock, "encryption")
}

func (ctx *CipherContext) DecryptBytes(ciphertext []byte) ([]byte, error) {
	return ctx.process(ciphertext, ctx.cipher.DecryptBlock, "decryption")
}

// EncryptText maps every character to one block. Characters above U+00FF
// are rejected and nothing is returned.
func (ctx *CipherContext) EncryptText(plaintext string) (string, error) {
	data, err := textToBytes("encrypt text", plaintext)
	if err != nil {
		return "", err
	}

	encrypted, err := ctx.EncryptBytes(data)
	if err != nil {
		return "", err
	}

	return bytesToText(encrypted), nil
}

func (ctx *CipherContext) DecryptText(ciphertext string) (string, error) {
	data, err := textToBytes("decrypt text", ciphertext)
	if err != nil {
		return "", err
	}

	decrypted, err := ctx.DecryptBytes(data)
	if err != nil {
		return "", err
	}

	return bytesToText(decrypted), nil
}

func (ctx *CipherContext) process(input []byte, transform func(BitVector) (BitVector, error), what string) ([]byte, error) {
	if input == nil {
		return []byte{}, nil
	}

	if ctx.parallel && len(input) > 1 {
		return ctx.processParallel(input, transform, what)
	}

	output := make([]byte, len(input))
	for i, b := range input {
		block, err := transform(MustBitVector(uint16(b), BlockWidth))
		if err != nil {
			return nil, fmt.Errorf("%s failed for block %d: %w", what, i, err)
		}
		output[i] = byte(block.Uint16())
	}

	return output, nil
}

func (ctx *CipherContext) processParallel(input []byte, transform func(BitVector) (BitVector, error), what string) ([]byte, error) {
	numBlocks := len(input)
	output := make([]byte, numBlocks)

	numThreads := ctx.workers
	if numThreads > numBlocks {
		numThreads = numBlocks
	}

	var wg sync.WaitGroup
	errors := make(chan error, numThreads)

	blocksPerThread := (numBlocks + numThreads - 1) / numThreads

	for t := 0; t < numThreads; t++ {
		startBlock := t * blocksPerThread
		endBlock := startBlock + blocksPerThread
		if endBlock > numBlocks {
			endBlock = numBlocks
		}

		if startBlock >= numBlocks {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				block, err := transform(MustBitVector(uint16(input[i]), BlockWidth))
				if err != nil {
					errors <- fmt.Errorf("%s failed for block %d: %w", what, i, err)
					return
				}

				output[i] = byte(block.Uint16())
			}
		}(startBlock, endBlock)
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		return nil, err
	}

	return output, nil
}

func textToBytes(op string, text string) ([]byte, error) {
	data := make([]byte, 0, len(text))
	position := 0
	for _, r := range text {
		if r < 0 || r > 0xFF {
			return nil, &CipherError{Kind: UnsupportedCharacter, Op: op, Position: position, Symbol: r}
		}
		data = append(data, byte(r))
		position++
	}
	return data, nil
}

func bytesToText(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
