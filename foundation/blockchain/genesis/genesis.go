// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date           time.Time         `json:"date"`
	ChainID        uint16            `json:"chain_id"`        // Unique id for this running network.
	Difficulty     uint64            `json:"difficulty"`      // Leading zero bits required to seal a block.
	RedactedWindow uint64            `json:"redacted_window"` // Number of recent blocks retained in memory.
	BlockReward    string            `json:"block_reward"`    // Reward credited for sealing a block.
	Balances       map[string]string `json:"balances"`        // Starting balances as decimal strings.
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
