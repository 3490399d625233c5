// internal/chain/random.go
package chain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// SeededRandom derives a byte stream from a 32-byte seed by hashing
// seed||counter with BLAKE2b-256, the same shape as a ledger's block seed.
type SeededRandom struct {
	mu      sync.Mutex
	seed    [32]byte
	counter uint64
	buf     []byte
}

// NewSeededRandom seeds the stream from the operating system.
func NewSeededRandom() (*SeededRandom, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return &SeededRandom{seed: seed}, nil
}

// NewSeededRandomFrom builds a reproducible stream from seed.
func NewSeededRandomFrom(seed []byte) *SeededRandom {
	return &SeededRandom{seed: blake2b.Sum256(seed)}
}

func (r *SeededRandom) Bytes(n int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.buf) < n {
		var block [40]byte
		copy(block[:32], r.seed[:])
		binary.BigEndian.PutUint64(block[32:], r.counter)
		r.counter++
		sum := blake2b.Sum256(block[:])
		r.buf = append(r.buf, sum[:]...)
	}
	out := make([]byte, n)
	copy(out, r.buf[:n])
	r.buf = r.buf[n:]
	return out, nil
}

// ScriptedRandom replays fixed byte sequences, one per Bytes call.
// Once exhausted it fails, so tests notice unexpected draws.
type ScriptedRandom struct {
	mu     sync.Mutex
	chunks [][]byte
}

func NewScriptedRandom(chunks ...[]byte) *ScriptedRandom {
	return &ScriptedRandom{chunks: chunks}
}

func (r *ScriptedRandom) Push(chunks ...[]byte) {
	r.mu.Lock()
	r.chunks = append(r.chunks, chunks...)
	r.mu.Unlock()
}

func (r *ScriptedRandom) Bytes(n int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.chunks) == 0 {
		return nil, fmt.Errorf("scripted randomness exhausted")
	}
	next := r.chunks[0]
	r.chunks = r.chunks[1:]
	out := make([]byte, n)
	copy(out, next)
	return out, nil
}
