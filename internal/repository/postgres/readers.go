package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
	"github.com/jackc/pgx/v5"
)

const (
	selectHeightInfoQuery = `
SELECT height, blkhash, fee_pool, fee_multiplier, dosc_speed
FROM headvars
WHERE height = $1`

	selectHeightByBlkhashQuery = `SELECT height FROM headvars WHERE blkhash = $1`

	selectTxVarsQuery = `
SELECT txhash, height, kind, fee, covenants, data, sigs
FROM txvars
WHERE txhash = $1`

	selectStakesAtQuery = `
SELECT txhash, pubkey, e_start, e_post_end, staked
FROM stakes
WHERE e_start <= $1 AND $1 < e_post_end
ORDER BY txhash`
)

// MaxHeight returns the highest committed height; ok is false on an empty index.
func (r *Repository) MaxHeight(ctx context.Context) (_ uint64, _ bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_height", err, start)
	}()

	next, err := nextHeight(ctx, r.pool)
	if err != nil {
		return 0, false, err
	}
	if next == 0 {
		return 0, false, nil
	}
	return next - 1, true, nil
}

func (r *Repository) HeightInfo(ctx context.Context, height uint64) (_ model.HeightInfo, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("height_info", ignoreNotFound(err), start)
	}()

	h, err := safe.Int64(height)
	if err != nil {
		return model.HeightInfo{}, err
	}
	info, err := scanHeightInfo(r.pool.QueryRow(ctx, selectHeightInfoQuery, h))
	if errors.Is(err, pgx.ErrNoRows) {
		err = model.ErrNotFound
		return model.HeightInfo{}, err
	}
	if err != nil {
		return model.HeightInfo{}, fmt.Errorf("select headvars %d: %w", height, err)
	}
	return info, nil
}

func (r *Repository) HeightByBlkhash(ctx context.Context, blkhash model.BlockHash) (_ uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("height_by_blkhash", ignoreNotFound(err), start)
	}()

	var height int64
	err = r.pool.QueryRow(ctx, selectHeightByBlkhashQuery, blkhash.Bytes()).Scan(&height)
	if errors.Is(err, pgx.ErrNoRows) {
		err = model.ErrNotFound
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("select height of %s: %w", blkhash, err)
	}
	return safe.Uint64(height)
}

func (r *Repository) TxVars(ctx context.Context, txhash model.TxHash) (_ model.TxVars, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("txvars", ignoreNotFound(err), start)
	}()

	vars, err := scanTxVars(r.pool.QueryRow(ctx, selectTxVarsQuery, txhash.Bytes()))
	if errors.Is(err, pgx.ErrNoRows) {
		err = model.ErrNotFound
		return model.TxVars{}, err
	}
	if err != nil {
		return model.TxVars{}, fmt.Errorf("select txvars %s: %w", txhash, err)
	}
	return vars, nil
}

// StakesAt returns the stakes active during epoch ordered by txhash.
func (r *Repository) StakesAt(ctx context.Context, epoch uint64) (_ []model.StakeDoc, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("stakes_at", err, start)
	}()

	e, err := safe.Int64(epoch)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, selectStakesAtQuery, e)
	if err != nil {
		return nil, fmt.Errorf("query stakes: %w", err)
	}
	defer rows.Close()

	var out []model.StakeDoc
	for rows.Next() {
		doc, scanErr := scanStake(rows)
		if scanErr != nil {
			err = fmt.Errorf("scan stake: %w", scanErr)
			return nil, err
		}
		out = append(out, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stakes: %w", err)
	}
	return out, nil
}
