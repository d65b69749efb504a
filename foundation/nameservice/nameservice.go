// Package nameservice resolves wallet addresses to the friendly names of
// the key files that control them.
package nameservice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// keyExtension identifies private key files in the accounts directory.
const keyExtension = ".ecdsa"

// NameService maintains the address to name mapping for the local key
// directory. The mapping is fixed at construction.
type NameService struct {
	accounts map[wallet.Address]string
}

// New scans the accounts directory and derives the address owned by each
// private key file found there. The file name minus the extension becomes
// the friendly name.
func New(root string) (*NameService, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading accounts directory: %w", err)
	}

	accounts := make(map[wallet.Address]string)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, keyExtension) {
			continue
		}

		privateKey, err := crypto.LoadECDSA(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("loading key file %q: %w", name, err)
		}

		addr := wallet.PublicKeyToAddress(privateKey.PublicKey)
		accounts[addr] = strings.TrimSuffix(name, keyExtension)
	}

	return &NameService{accounts: accounts}, nil
}

// Lookup returns the name for the specified address. Unknown addresses
// resolve to themselves.
func (ns *NameService) Lookup(addr wallet.Address) string {
	name, exists := ns.accounts[addr]
	if !exists {
		return string(addr)
	}
	return name
}

// Copy returns a copy of the current mapping.
func (ns *NameService) Copy() map[wallet.Address]string {
	cpy := make(map[wallet.Address]string, len(ns.accounts))
	for addr, name := range ns.accounts {
		cpy[addr] = name
	}
	return cpy
}
