package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

const insertCoinEventsQuery = `
INSERT INTO coin_events (
	event,
	height,
	create_txhash,
	create_index,
	covhash,
	denom,
	value,
	spend_txhash,
	spend_index
) VALUES`

// InsertCoinEvents stores creation and spend rows. Replays collapse on the
// ReplacingMergeTree key.
func (r *Repository) InsertCoinEvents(ctx context.Context, events []model.CoinEvent) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_coin_events", len(events), err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertCoinEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare coin events batch: %w", err)
	}
	defer func() {
		_ = batch.Close()
	}()

	for _, ev := range events {
		if err = batch.Append(coinEventRow(ev)...); err != nil {
			return fmt.Errorf("append coin event %s: %w", ev.Coin, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert coin events: %w", err)
	}
	return nil
}

func coinEventRow(ev model.CoinEvent) []any {
	var (
		spendTxhash string
		spendIndex  uint32
	)
	if ev.Spend != nil {
		spendTxhash = ev.Spend.SpendTxhash.String()
		spendIndex = ev.Spend.SpendIndex
	}
	var covhash, denom string
	if ev.Kind == model.CoinEventCreate {
		covhash = ev.Data.Covhash.String()
		denom = ev.Data.Denom.String()
	}
	return []any{
		string(ev.Kind),
		ev.Height,
		ev.Coin.TxHash.String(),
		ev.Coin.Index,
		covhash,
		denom,
		ev.Data.Value.Big(),
		spendTxhash,
		spendIndex,
	}
}
