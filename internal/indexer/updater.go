package indexer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/chain"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"go.uber.org/zap"
)

const (
	lookupMissingInput = "missing_input"
	lookupImpliedCoins = "implied_coins"
)

// coinUpdater maintains the coins table for one transaction at a time.
type coinUpdater struct {
	client  Client
	metrics ConsumerMetrics
	logger  *zap.Logger
}

// Apply inserts the outputs of tx, spends its inputs and inserts the coins the
// chain produced beyond the declared outputs.
func (u *coinUpdater) Apply(ctx context.Context, st StoreTx, scope *blockScope, tx model.Transaction) error {
	transmuted := transmutedOutputs(tx)

	for i, out := range tx.Outputs {
		id := tx.OutputID(i)
		if slices.Contains(transmuted, id.Index) && !scope.spentInBlock(id) {
			continue
		}
		if err := u.insert(ctx, st, scope, model.CoinInfo{
			CreateTxhash: id.TxHash,
			CreateIndex:  id.Index,
			CreateHeight: scope.height,
			CoinData:     out,
		}); err != nil {
			return err
		}
	}

	for i, in := range tx.Inputs {
		spend := model.CoinSpendInfo{
			SpendTxhash: tx.Hash,
			SpendIndex:  uint32(i),
			SpendHeight: scope.height,
		}
		if err := u.spend(ctx, st, scope, in, spend); err != nil {
			return err
		}
	}

	return u.insertImplied(ctx, st, scope, tx)
}

// InsertReward stores a block level coin.
func (u *coinUpdater) InsertReward(ctx context.Context, st StoreTx, scope *blockScope, coin model.Coin) error {
	return u.insert(ctx, st, scope, model.CoinInfo{
		CreateTxhash: coin.ID.TxHash,
		CreateIndex:  coin.ID.Index,
		CreateHeight: scope.height,
		CoinData:     coin.Data,
	})
}

func (u *coinUpdater) insert(ctx context.Context, st StoreTx, scope *blockScope, coin model.CoinInfo) error {
	if err := st.InsertCoin(ctx, coin); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return violation(scope.height, ReasonDuplicateCoin, err, "coin %s already exists", coin.ID())
		}
		return fmt.Errorf("insert coin %s: %w", coin.ID(), err)
	}
	scope.journal.Created = append(scope.journal.Created, coin)
	return nil
}

func (u *coinUpdater) spend(ctx context.Context, st StoreTx, scope *blockScope, id model.CoinID, spend model.CoinSpendInfo) error {
	coin, err := st.Coin(ctx, id)
	switch {
	case err == nil:
		if coin.Spent() {
			return violation(scope.height, ReasonDoubleSpend, nil,
				"coin %s spent by %s already spent by %s", id, spend.SpendTxhash, coin.SpendInfo.SpendTxhash)
		}
	case errors.Is(err, model.ErrNotFound):
		if coin, err = u.materialize(ctx, st, scope, id); err != nil {
			return err
		}
	default:
		return fmt.Errorf("lookup coin %s: %w", id, err)
	}

	if spend.SpendHeight < coin.CreateHeight {
		return violation(scope.height, ReasonInconsistentData, nil,
			"coin %s created at %d spent at %d", id, coin.CreateHeight, spend.SpendHeight)
	}

	if err := st.SpendCoin(ctx, id, spend); err != nil {
		if errors.Is(err, model.ErrAlreadySpent) {
			return violation(scope.height, ReasonDoubleSpend, err, "coin %s", id)
		}
		return fmt.Errorf("spend coin %s: %w", id, err)
	}
	scope.journal.Spent = append(scope.journal.Spent, model.SpentCoin{ID: id, Spend: spend})
	return nil
}

// materialize resolves an input the store never saw as an output by asking
// the client for the coin as of the previous height, and inserts it.
func (u *coinUpdater) materialize(ctx context.Context, st StoreTx, scope *blockScope, id model.CoinID) (model.CoinInfo, error) {
	if scope.height == 0 {
		return model.CoinInfo{}, violation(scope.height, ReasonMissingCoin, nil, "input %s at genesis", id)
	}

	started := time.Now()
	data, err := u.client.Coin(ctx, scope.height-1, id)
	u.metrics.ObserveClientLookup(lookupMissingInput, err, started)
	if err != nil {
		if errors.Is(err, chain.ErrCoinNotFound) {
			return model.CoinInfo{}, violation(scope.height, ReasonMissingCoin, err, "input %s unknown to client", id)
		}
		return model.CoinInfo{}, fmt.Errorf("fetch coin %s: %w", id, err)
	}
	if data.Height >= scope.height {
		return model.CoinInfo{}, violation(scope.height, ReasonInconsistentData, nil,
			"client reports coin %s created at %d", id, data.Height)
	}

	coin := model.CoinInfo{
		CreateTxhash: id.TxHash,
		CreateIndex:  id.Index,
		CreateHeight: data.Height,
		CoinData:     data.CoinData,
	}
	if err := u.insert(ctx, st, scope, coin); err != nil {
		return model.CoinInfo{}, err
	}
	u.logger.Info("materialized coin from client",
		zap.Uint64("height", scope.height),
		zap.Stringer("coin", id),
		zap.Uint64("create_height", data.Height),
	)
	return coin, nil
}

func (u *coinUpdater) insertImplied(ctx context.Context, st StoreTx, scope *blockScope, tx model.Transaction) error {
	indexes := scope.unresolved(tx)
	if len(indexes) == 0 {
		return nil
	}

	coins, ok := scope.impliedFor(tx.Hash)
	if !ok {
		var err error
		if coins, err = u.fetchImplied(ctx, scope.height, tx.Hash, indexes); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		data, ok := coins[idx]
		if !ok {
			continue
		}
		if err := u.insert(ctx, st, scope, model.CoinInfo{
			CreateTxhash: tx.Hash,
			CreateIndex:  idx,
			CreateHeight: scope.height,
			CoinData:     data,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (u *coinUpdater) fetchImplied(ctx context.Context, height uint64, txhash model.TxHash, indexes []uint32) (map[uint32]model.CoinData, error) {
	started := time.Now()
	coins, err := u.client.TransactionCoins(ctx, height, txhash, indexes)
	u.metrics.ObserveClientLookup(lookupImpliedCoins, err, started)
	if err != nil {
		return nil, fmt.Errorf("fetch implied coins of %s: %w", txhash, err)
	}
	return coins, nil
}
