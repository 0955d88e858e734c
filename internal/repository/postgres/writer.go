package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	lockWriterQuery = `SELECT pg_advisory_xact_lock($1)`
	maxHeightQuery  = `SELECT max(height) FROM headvars`

	selectCoinQuery = `
SELECT create_txhash, create_index, create_height, spend_txhash, spend_index, spend_height,
       covhash, value, denom, additional_data
FROM coins
WHERE create_txhash = $1 AND create_index = $2`

	insertCoinQuery = `
INSERT INTO coins (create_txhash, create_index, create_height, covhash, value, denom, additional_data)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT DO NOTHING`

	spendCoinQuery = `
UPDATE coins
SET spend_txhash = $3, spend_index = $4, spend_height = $5
WHERE create_txhash = $1 AND create_index = $2 AND spend_txhash IS NULL`

	coinExistsQuery = `SELECT EXISTS (SELECT 1 FROM coins WHERE create_txhash = $1 AND create_index = $2)`

	insertTxVarsQuery = `
INSERT INTO txvars (txhash, height, kind, fee, covenants, data, sigs)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT DO NOTHING`

	insertStakeQuery = `
INSERT INTO stakes (txhash, pubkey, e_start, e_post_end, staked)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT DO NOTHING`

	insertHeadVarsQuery = `
INSERT INTO headvars (height, blkhash, fee_pool, fee_multiplier, dosc_speed)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT DO NOTHING`
)

// Begin opens the write transaction of height. It takes the writer advisory
// lock first, so a second indexer waits and then sees the conflict.
func (r *Repository) Begin(ctx context.Context, height uint64) (_ indexer.StoreTx, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("begin", err, start)
	}()

	tx, err := r.pool.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Warn("rollback after failed begin", zap.Error(rbErr))
			}
		}
	}()

	if _, err = tx.Exec(ctx, lockWriterQuery, writerLockKey); err != nil {
		return nil, fmt.Errorf("acquire writer lock: %w", err)
	}
	next, err := nextHeight(ctx, tx)
	if err != nil {
		return nil, err
	}
	if height != next {
		err = fmt.Errorf("begin height %d, next is %d: %w", height, next, model.ErrHeightConflict)
		return nil, err
	}
	return &Tx{tx: tx, repo: r}, nil
}

func nextHeight(ctx context.Context, q Querier) (uint64, error) {
	var maxHeight *int64
	if err := q.QueryRow(ctx, maxHeightQuery).Scan(&maxHeight); err != nil {
		return 0, fmt.Errorf("query max height: %w", err)
	}
	if maxHeight == nil {
		return 0, nil
	}
	h, err := safe.Uint64(*maxHeight)
	if err != nil {
		return 0, fmt.Errorf("max height: %w", err)
	}
	return h + 1, nil
}

// Tx is the write transaction of one block.
type Tx struct {
	tx   DBTx
	repo *Repository
}

func (t *Tx) observe(operation string, err error, started time.Time) {
	t.repo.metrics.Observe(operation, err, started)
}

func (t *Tx) Coin(ctx context.Context, id model.CoinID) (_ model.CoinInfo, err error) {
	start := time.Now()
	defer func() {
		t.observe("coin", ignoreNotFound(err), start)
	}()

	index, err := safe.Int32(id.Index)
	if err != nil {
		return model.CoinInfo{}, err
	}
	coin, err := scanCoin(t.tx.QueryRow(ctx, selectCoinQuery, id.TxHash.Bytes(), index))
	if errors.Is(err, pgx.ErrNoRows) {
		err = model.ErrNotFound
		return model.CoinInfo{}, err
	}
	if err != nil {
		return model.CoinInfo{}, fmt.Errorf("select coin %s: %w", id, err)
	}
	return coin, nil
}

func (t *Tx) InsertCoin(ctx context.Context, coin model.CoinInfo) (err error) {
	start := time.Now()
	defer func() {
		t.observe("insert_coin", ignoreDuplicate(err), start)
	}()

	index, err := safe.Int32(coin.CreateIndex)
	if err != nil {
		return err
	}
	height, err := safe.Int64(coin.CreateHeight)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, insertCoinQuery,
		coin.CreateTxhash.Bytes(),
		index,
		height,
		coin.CoinData.Covhash.Bytes(),
		coin.CoinData.Value.Bytes(),
		coin.CoinData.Denom.Bytes(),
		nonNil(coin.CoinData.AdditionalData),
	)
	if err != nil {
		return fmt.Errorf("insert coin %s: %w", coin.ID(), err)
	}
	if tag.RowsAffected() == 0 {
		err = model.ErrDuplicateKey
		return err
	}
	return nil
}

func (t *Tx) SpendCoin(ctx context.Context, id model.CoinID, spend model.CoinSpendInfo) (err error) {
	start := time.Now()
	defer func() {
		t.observe("spend_coin", err, start)
	}()

	index, err := safe.Int32(id.Index)
	if err != nil {
		return err
	}
	spendIndex, err := safe.Int32(spend.SpendIndex)
	if err != nil {
		return err
	}
	spendHeight, err := safe.Int64(spend.SpendHeight)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, spendCoinQuery, id.TxHash.Bytes(), index, spend.SpendTxhash.Bytes(), spendIndex, spendHeight)
	if err != nil {
		return fmt.Errorf("spend coin %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err = t.tx.QueryRow(ctx, coinExistsQuery, id.TxHash.Bytes(), index).Scan(&exists); err != nil {
		return fmt.Errorf("check coin %s: %w", id, err)
	}
	if exists {
		err = model.ErrAlreadySpent
	} else {
		err = model.ErrNotFound
	}
	return err
}

func (t *Tx) InsertTxVars(ctx context.Context, vars model.TxVars) (err error) {
	start := time.Now()
	defer func() {
		t.observe("insert_txvars", ignoreDuplicate(err), start)
	}()

	height, err := safe.Int64(vars.Height)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, insertTxVarsQuery,
		vars.TxHash.Bytes(),
		height,
		int16(vars.Kind),
		vars.Fee.Bytes(),
		nonNilList(vars.Covenants),
		nonNil(vars.Data),
		nonNilList(vars.Sigs),
	)
	if err != nil {
		return fmt.Errorf("insert txvars %s: %w", vars.TxHash, err)
	}
	if tag.RowsAffected() == 0 {
		err = model.ErrDuplicateKey
		return err
	}
	return nil
}

func (t *Tx) InsertStake(ctx context.Context, doc model.StakeDoc) (err error) {
	start := time.Now()
	defer func() {
		t.observe("insert_stake", ignoreDuplicate(err), start)
	}()

	eStart, err := safe.Int64(doc.EStart)
	if err != nil {
		return err
	}
	ePostEnd, err := safe.Int64(doc.EPostEnd)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, insertStakeQuery, doc.TxHash.Bytes(), doc.Pubkey.Bytes(), eStart, ePostEnd, doc.Staked.Bytes())
	if err != nil {
		return fmt.Errorf("insert stake %s: %w", doc.TxHash, err)
	}
	if tag.RowsAffected() == 0 {
		err = model.ErrDuplicateKey
		return err
	}
	return nil
}

func (t *Tx) InsertHeadVars(ctx context.Context, info model.HeightInfo) (err error) {
	start := time.Now()
	defer func() {
		t.observe("insert_headvars", err, start)
	}()

	height, err := safe.Int64(info.Height)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, insertHeadVarsQuery,
		height,
		info.Blkhash.Bytes(),
		info.FeePool.Bytes(),
		info.FeeMultiplier.Bytes(),
		info.DoscSpeed.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("insert headvars %d: %w", info.Height, err)
	}
	if tag.RowsAffected() == 0 {
		err = model.ErrDuplicateKey
		return err
	}
	return nil
}

func (t *Tx) Commit(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		t.observe("commit", err, start)
	}()
	return t.tx.Commit(ctx)
}

// Rollback is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}

func ignoreDuplicate(err error) error {
	if errors.Is(err, model.ErrDuplicateKey) {
		return nil
	}
	return err
}
