package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
)

const insertBlocksQuery = `
INSERT INTO blocks (
	height,
	blkhash,
	fee_pool,
	fee_multiplier,
	dosc_speed,
	tx_count,
	created_coins,
	spent_coins,
	stakes
) VALUES`

// InsertBlocks stores one summary row per committed block.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.BlockSummary) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_blocks", len(blocks), err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}
	defer func() {
		_ = batch.Close()
	}()

	for _, b := range blocks {
		row, rowErr := blockRow(b)
		if rowErr != nil {
			err = rowErr
			return err
		}
		if err = batch.Append(row...); err != nil {
			return fmt.Errorf("append block %d: %w", b.Header.Height, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

func blockRow(b model.BlockSummary) ([]any, error) {
	counts := make([]uint32, 0, 4)
	for _, n := range []int{b.Transactions, b.Created, b.Spent, b.Stakes} {
		v, err := safe.Uint32(n)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", b.Header.Height, err)
		}
		counts = append(counts, v)
	}
	return []any{
		b.Header.Height,
		b.Header.Blkhash.String(),
		b.Header.FeePool.Big(),
		b.Header.FeeMultiplier.Big(),
		b.Header.DoscSpeed.Big(),
		counts[0],
		counts[1],
		counts[2],
		counts[3],
	}, nil
}
