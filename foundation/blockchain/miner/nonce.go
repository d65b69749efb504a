package miner

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"os"
	"time"
)

// Shape of the puzzle salt. The alphabet and length are fixed by consensus.
const (
	nonceLength   = 128
	nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// newNonceSource seeds a dedicated random source for one miner instance.
// Two miners must not explore identical nonce sequences, so the seed mixes
// wall clock, pid and system entropy. The puzzle search has no need for a
// cryptographic generator beyond the seed.
func newNonceSource() *rand.Rand {
	var entropy [8]byte
	crand.Read(entropy[:])

	seed := time.Now().UnixNano()
	seed ^= int64(os.Getpid()) << 32
	seed ^= int64(binary.LittleEndian.Uint64(entropy[:]))

	return rand.New(rand.NewSource(seed))
}

// randomNonce draws a fresh 128-character nonce from the puzzle alphabet.
func randomNonce(rng *rand.Rand) string {
	nonce := make([]byte, nonceLength)
	for i := range nonce {
		nonce[i] = nonceAlphabet[rng.Intn(len(nonceAlphabet))]
	}

	return string(nonce)
}
