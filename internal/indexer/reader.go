package indexer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Reader is the read-only facade over committed state. Safe for concurrent use.
type Reader struct {
	store   ReadStore
	headers *cache.Cache
	logger  *zap.Logger
}

func NewReader(store ReadStore, logger *zap.Logger) (*Reader, error) {
	if store == nil {
		return nil, errors.New("reader store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		store:   store,
		headers: cache.New(headerCacheTTL, headerCacheCleanup),
		logger:  logger,
	}, nil
}

// QueryCoins starts a coin query evaluated against the store.
func (r *Reader) QueryCoins() query.CoinQuery {
	return query.New(r.store)
}

// MaxHeight reports the highest indexed height; ok is false before the first block.
func (r *Reader) MaxHeight(ctx context.Context) (uint64, bool, error) {
	return r.store.MaxHeight(ctx)
}

// HeightInfo returns the headvars row of height. Rows never change once
// written, so they are cached.
func (r *Reader) HeightInfo(ctx context.Context, height uint64) (model.HeightInfo, error) {
	key := strconv.FormatUint(height, 10)
	if cached, ok := r.headers.Get(key); ok {
		return cached.(model.HeightInfo), nil
	}
	info, err := r.store.HeightInfo(ctx, height)
	if err != nil {
		return model.HeightInfo{}, fmt.Errorf("height info %d: %w", height, err)
	}
	r.headers.SetDefault(key, info)
	return info, nil
}

func (r *Reader) BlkhashToHeight(ctx context.Context, blkhash model.BlockHash) (uint64, error) {
	height, err := r.store.HeightByBlkhash(ctx, blkhash)
	if err != nil {
		return 0, fmt.Errorf("block %s: %w", blkhash, err)
	}
	return height, nil
}

func (r *Reader) TxhashToHeight(ctx context.Context, txhash model.TxHash) (uint64, error) {
	vars, err := r.TxVars(ctx, txhash)
	if err != nil {
		return 0, err
	}
	return vars.Height, nil
}

func (r *Reader) TxVars(ctx context.Context, txhash model.TxHash) (model.TxVars, error) {
	vars, err := r.store.TxVars(ctx, txhash)
	if err != nil {
		return model.TxVars{}, fmt.Errorf("transaction %s: %w", txhash, err)
	}
	return vars, nil
}

// Stakes returns the stake documents active during epoch.
func (r *Reader) Stakes(ctx context.Context, epoch uint64) ([]model.StakeDoc, error) {
	docs, err := r.store.StakesAt(ctx, epoch)
	if err != nil {
		return nil, fmt.Errorf("stakes at epoch %d: %w", epoch, err)
	}
	return docs, nil
}

// Supply totals the coins of denom alive at the end of height. Heights above
// the indexed tip yield ErrHeightNotIndexed.
func (r *Reader) Supply(ctx context.Context, denom model.Denom, height uint64) (model.CoinValue, error) {
	if err := checkIndexed(ctx, r.store, height); err != nil {
		return model.CoinValue{}, err
	}
	return aliveAt(ctx, r.QueryCoins().Denom(denom), height)
}

// NewBalanceTracker tracks the balance of one address in one denom.
func (r *Reader) NewBalanceTracker(covhash model.Address, denom model.Denom) *BalanceTracker {
	return NewBalanceTracker(r.QueryCoins().Covhash(covhash).Denom(denom), r.store)
}

// aliveAt sums coins of base created at or before height and not spent by then.
func aliveAt(ctx context.Context, base query.CoinQuery, height uint64) (model.CoinValue, error) {
	created := base.CreateHeightRange(query.Unbounded[uint64](), through(height))

	unspent, err := created.Unspent().Sum(ctx)
	if err != nil {
		return model.CoinValue{}, fmt.Errorf("sum unspent coins: %w", err)
	}
	if height == math.MaxUint64 {
		return unspent, nil
	}
	spentLater, err := created.SpendHeightRange(query.Bounded(height+1), query.Unbounded[uint64]()).Sum(ctx)
	if err != nil {
		return model.CoinValue{}, fmt.Errorf("sum coins spent after %d: %w", height, err)
	}
	return unspent.Add(spentLater), nil
}
