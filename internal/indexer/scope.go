package indexer

import (
	"sync"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

// transmutedOutputs lists the output indexes whose post-transaction state is
// decided by the chain instead of the declared outputs. The pool kinds rewrite
// their first outputs; a withdrawal also yields one coin past its declared
// outputs.
func transmutedOutputs(tx model.Transaction) []uint32 {
	switch tx.Kind {
	case model.TxKindSwap:
		return []uint32{0}
	case model.TxKindLiqDeposit:
		return []uint32{0, 1}
	case model.TxKindLiqWithdraw:
		out := make([]uint32, 0, len(tx.Outputs)+1)
		for i := 0; i <= len(tx.Outputs); i++ {
			out = append(out, uint32(i))
		}
		return out
	default:
		return nil
	}
}

// blockScope carries per-block state shared by the updater and recorder.
type blockScope struct {
	height uint64
	spent  map[model.CoinID]struct{}

	mu      sync.Mutex
	implied map[model.TxHash]map[uint32]model.CoinData

	journal model.CommittedBlock
}

func newBlockScope(block *model.Block) *blockScope {
	spent := make(map[model.CoinID]struct{})
	for _, tx := range block.Transactions {
		for _, in := range tx.Inputs {
			spent[in] = struct{}{}
		}
	}
	return &blockScope{
		height:  block.Header.Height,
		spent:   spent,
		implied: make(map[model.TxHash]map[uint32]model.CoinData),
		journal: model.CommittedBlock{Header: block.Header},
	}
}

func (s *blockScope) spentInBlock(id model.CoinID) bool {
	_, ok := s.spent[id]
	return ok
}

// unresolved returns the transmuted outputs of tx that survive the block and
// therefore need the client's post-block data.
func (s *blockScope) unresolved(tx model.Transaction) []uint32 {
	var out []uint32
	for _, idx := range transmutedOutputs(tx) {
		if !s.spentInBlock(model.CoinID{TxHash: tx.Hash, Index: idx}) {
			out = append(out, idx)
		}
	}
	return out
}

func (s *blockScope) setImplied(txhash model.TxHash, coins map[uint32]model.CoinData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.implied[txhash] = coins
}

func (s *blockScope) impliedFor(txhash model.TxHash) (map[uint32]model.CoinData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coins, ok := s.implied[txhash]
	return coins, ok
}
