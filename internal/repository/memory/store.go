// Package memory keeps the index in process memory with the same transactional
// semantics as the relational store. It backs tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
)

type state struct {
	coins    coinIndex
	headvars map[uint64]model.HeightInfo
	blkhash  map[model.BlockHash]uint64
	txvars   map[model.TxHash]model.TxVars
	stakes   map[model.TxHash]model.StakeDoc
	max      uint64
	hasMax   bool
}

// Store is an in-memory index. Readers see only committed blocks.
type Store struct {
	mu     sync.RWMutex
	state  state
	writer chan struct{}
}

func NewStore() *Store {
	return &Store{
		state: state{
			coins:    newCoinIndex(),
			headvars: make(map[uint64]model.HeightInfo),
			blkhash:  make(map[model.BlockHash]uint64),
			txvars:   make(map[model.TxHash]model.TxVars),
			stakes:   make(map[model.TxHash]model.StakeDoc),
		},
		writer: make(chan struct{}, 1),
	}
}

func (s *Store) MaxHeight(_ context.Context) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.max, s.state.hasMax, nil
}

// Begin takes the writer slot, waiting for a concurrent writer to finish.
func (s *Store) Begin(ctx context.Context, height uint64) (indexer.StoreTx, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case s.writer <- struct{}{}:
	}

	s.mu.RLock()
	next := uint64(0)
	if s.state.hasMax {
		next = s.state.max + 1
	}
	s.mu.RUnlock()
	if height != next {
		<-s.writer
		return nil, fmt.Errorf("begin height %d, next is %d: %w", height, next, model.ErrHeightConflict)
	}

	return &Tx{
		store:  s,
		coins:  make(map[model.CoinID]model.CoinInfo),
		txvars: make(map[model.TxHash]model.TxVars),
		stakes: make(map[model.TxHash]model.StakeDoc),
	}, nil
}

func (s *Store) HeightInfo(_ context.Context, height uint64) (model.HeightInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.state.headvars[height]
	if !ok {
		return model.HeightInfo{}, model.ErrNotFound
	}
	return info, nil
}

func (s *Store) HeightByBlkhash(_ context.Context, blkhash model.BlockHash) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	height, ok := s.state.blkhash[blkhash]
	if !ok {
		return 0, model.ErrNotFound
	}
	return height, nil
}

func (s *Store) TxVars(_ context.Context, txhash model.TxHash) (model.TxVars, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vars, ok := s.state.txvars[txhash]
	if !ok {
		return model.TxVars{}, model.ErrNotFound
	}
	return vars, nil
}

func (s *Store) StakesAt(_ context.Context, epoch uint64) ([]model.StakeDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.StakeDoc
	for _, doc := range s.state.stakes {
		if doc.ActiveAt(epoch) {
			out = append(out, doc)
		}
	}
	slices.SortFunc(out, func(a, b model.StakeDoc) int {
		return slices.Compare(a.TxHash[:], b.TxHash[:])
	})
	return out, nil
}

// Coins returns every committed coin in query order.
func (s *Store) Coins() []model.CoinInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CoinInfo, 0, len(s.state.coins.order))
	for _, e := range s.state.coins.order {
		out = append(out, e.info)
	}
	return out
}

// IterCoins streams the coins matching q in query order. The view is fixed at
// the first pull: blocks committed while iterating stay hidden. The read lock
// is held per chunk, never across a yield.
func (s *Store) IterCoins(ctx context.Context, q query.CoinQuery) iter.Seq2[model.CoinInfo, error] {
	return func(yield func(model.CoinInfo, error) bool) {
		s.mu.RLock()
		seq := s.state.coins.seq
		s.mu.RUnlock()

		limit := q.MaxResults()
		var (
			after   *coinEntry
			yielded uint64
		)
		for {
			if err := ctx.Err(); err != nil {
				yield(model.CoinInfo{}, err)
				return
			}
			s.mu.RLock()
			matched, last, done := s.state.coins.scan(q, seq, after)
			s.mu.RUnlock()

			for _, coin := range matched {
				if !yield(coin, nil) {
					return
				}
				yielded++
				if limit > 0 && yielded >= limit {
					return
				}
			}
			if done {
				return
			}
			after = last
		}
	}
}
