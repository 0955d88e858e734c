package indexer

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
)

// TipSource reports the highest committed height.
type TipSource interface {
	MaxHeight(ctx context.Context) (uint64, bool, error)
}

// BalanceTracker answers balance-at-height questions for the coins selected by
// a base query, reusing previously computed heights. Only committed heights
// are answered, so cached balances never change.
type BalanceTracker struct {
	base query.CoinQuery
	tip  TipSource

	mu       sync.Mutex
	heights  []uint64
	balances map[uint64]model.CoinValue
}

func NewBalanceTracker(base query.CoinQuery, tip TipSource) *BalanceTracker {
	return &BalanceTracker{
		base:     base,
		tip:      tip,
		balances: make(map[uint64]model.CoinValue),
	}
}

// BalanceAt returns the value of coins created at or before height and still
// unspent at the end of height. Heights above the indexed tip yield
// ErrHeightNotIndexed.
func (b *BalanceTracker) BalanceAt(ctx context.Context, height uint64) (model.CoinValue, error) {
	b.mu.Lock()
	bal, cached := b.balances[height]
	b.mu.Unlock()
	if cached {
		return bal, nil
	}
	if err := checkIndexed(ctx, b.tip, height); err != nil {
		return model.CoinValue{}, err
	}

	b.mu.Lock()
	if bal, ok := b.balances[height]; ok {
		b.mu.Unlock()
		return bal, nil
	}
	prev, prevBal, hasPrev, next, nextBal, hasNext := b.neighbours(height)
	b.mu.Unlock()

	var err error
	switch {
	case hasPrev:
		bal, err = b.forward(ctx, prev, prevBal, height)
	case hasNext:
		bal, err = b.backward(ctx, height, next, nextBal)
	default:
		bal, err = aliveAt(ctx, b.base, height)
	}
	if err != nil {
		return model.CoinValue{}, err
	}

	b.mu.Lock()
	if _, ok := b.balances[height]; !ok {
		pos, _ := slices.BinarySearch(b.heights, height)
		b.heights = slices.Insert(b.heights, pos, height)
		b.balances[height] = bal
	}
	b.mu.Unlock()
	return bal, nil
}

func (b *BalanceTracker) neighbours(height uint64) (prev uint64, prevBal model.CoinValue, hasPrev bool, next uint64, nextBal model.CoinValue, hasNext bool) {
	pos, _ := slices.BinarySearch(b.heights, height)
	if pos > 0 {
		prev = b.heights[pos-1]
		prevBal, hasPrev = b.balances[prev], true
	}
	if pos < len(b.heights) {
		next = b.heights[pos]
		nextBal, hasNext = b.balances[next], true
	}
	return
}

// forward derives the balance at to from the balance at from < to.
func (b *BalanceTracker) forward(ctx context.Context, from uint64, fromBal model.CoinValue, to uint64) (model.CoinValue, error) {
	created, spent, err := b.delta(ctx, from, to)
	if err != nil {
		return model.CoinValue{}, err
	}
	return fromBal.Add(created).Sub(spent), nil
}

// backward derives the balance at to from the balance at from > to.
func (b *BalanceTracker) backward(ctx context.Context, to, from uint64, fromBal model.CoinValue) (model.CoinValue, error) {
	created, spent, err := b.delta(ctx, to, from)
	if err != nil {
		return model.CoinValue{}, err
	}
	return fromBal.Add(spent).Sub(created), nil
}

// delta sums values created and spent in the half-open height interval (lo, hi].
func (b *BalanceTracker) delta(ctx context.Context, lo, hi uint64) (created, spent model.CoinValue, err error) {
	created, err = b.base.CreateHeightRange(query.Bounded(lo+1), through(hi)).Sum(ctx)
	if err != nil {
		return created, spent, fmt.Errorf("sum created in (%d, %d]: %w", lo, hi, err)
	}
	spent, err = b.base.SpendHeightRange(query.Bounded(lo+1), through(hi)).Sum(ctx)
	if err != nil {
		return created, spent, fmt.Errorf("sum spent in (%d, %d]: %w", lo, hi, err)
	}
	return created, spent, nil
}

// checkIndexed fails unless height is at or below the committed tip.
func checkIndexed(ctx context.Context, tip TipSource, height uint64) error {
	maxHeight, ok, err := tip.MaxHeight(ctx)
	if err != nil {
		return fmt.Errorf("read indexed height: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d, nothing indexed yet", ErrHeightNotIndexed, height)
	}
	if height > maxHeight {
		return fmt.Errorf("%w: %d is above tip %d", ErrHeightNotIndexed, height, maxHeight)
	}
	return nil
}

// through is the exclusive upper bound that admits height itself.
func through(height uint64) query.Bound[uint64] {
	if height == math.MaxUint64 {
		return query.Unbounded[uint64]()
	}
	return query.Bounded(height + 1)
}
