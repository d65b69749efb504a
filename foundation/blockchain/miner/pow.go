package miner

import (
	"encoding/hex"
	"strings"

	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for the proof-of-work puzzle. Fixed by consensus.
const (
	argonTime    = 1
	argonMemory  = 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32
)

// PowHash computes the Argon2id puzzle hash for a block and solver. The
// password is the uppercase hex rendering of the block checksum followed by
// the solver address; the salt is the nonce. The 32-byte output is returned
// as an uppercase hex string, which is the form the difficulty check runs
// against on every node.
func PowHash(blockChecksum []byte, solverID wallet.Address, nonce string) string {
	password := strings.ToUpper(hex.EncodeToString(blockChecksum)) + string(solverID)

	hash := argon2.IDKey([]byte(password), []byte(nonce), argonTime, argonMemory, argonThreads, argonKeyLen)

	return strings.ToUpper(hex.EncodeToString(hash))
}

// VerifyNonce checks a claimed proof-of-work solution by recomputing the
// puzzle hash for the specified block and solver. An unknown block reports
// false. The function holds no miner state and is usable by block
// validators directly.
func VerifyNonce(bc BlockChain, nonce string, blockNum uint64, solverID wallet.Address, difficulty uint64) bool {
	block, err := bc.GetBlock(blockNum)
	if err != nil {
		return false
	}

	return ValidateHash(PowHash(block.Checksum, solverID, nonce), difficulty)
}
