package wallet

// WsChunk carries a slice of the committed wallet records for state sync.
// Consumers reconcile chunks by checksum, not by chunk order.
type WsChunk struct {
	BlockNum uint64   `json:"block_num"`
	ChunkNum int32    `json:"chunk_num"`
	Wallets  []Wallet `json:"wallets"`
}

// Chunks partitions the committed records into chunks of at most chunkSize
// wallets, stamped with the block number the state corresponds to.
func (s *State) Chunks(chunkSize int, blockNum uint64) []WsChunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chunkSize <= 0 {
		chunkSize = len(s.base)
	}
	if len(s.base) == 0 {
		return nil
	}

	numChunks := (len(s.base) + chunkSize - 1) / chunkSize
	chunks := make([]WsChunk, 0, numChunks)

	current := WsChunk{
		BlockNum: blockNum,
		Wallets:  make([]Wallet, 0, chunkSize),
	}
	for _, w := range s.base {
		current.Wallets = append(current.Wallets, w.Copy())

		if len(current.Wallets) == chunkSize {
			chunks = append(chunks, current)
			current = WsChunk{
				BlockNum: blockNum,
				ChunkNum: current.ChunkNum + 1,
				Wallets:  make([]Wallet, 0, chunkSize),
			}
		}
	}
	if len(current.Wallets) > 0 {
		chunks = append(chunks, current)
	}

	return chunks
}

// ApplyChunk inserts the records of a sync chunk into the committed state,
// overwriting any records already present. Applying a chunk while a
// snapshot is active reports false and leaves the state untouched.
func (s *State) ApplyChunk(wallets []Wallet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.delta != nil {
		s.evHandler("wallet: ApplyChunk: WARNING: snapshot active, chunk of %d wallets not applied", len(wallets))
		return false
	}

	for _, w := range wallets {
		s.base[w.ID] = w.Copy()
	}

	s.cachedChecksum = nil
	s.cachedDeltaChecksum = nil
	return true
}
