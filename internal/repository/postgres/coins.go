package postgres

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
)

// IterCoins compiles q to SQL and streams the matching rows. Each range over
// the sequence runs the statement again.
func (r *Repository) IterCoins(ctx context.Context, q query.CoinQuery) iter.Seq2[model.CoinInfo, error] {
	return func(yield func(model.CoinInfo, error) bool) {
		start := time.Now()
		var err error
		defer func() {
			r.metrics.Observe("iter_coins", err, start)
		}()

		sqlStr, args, err := buildCoinQuery(q)
		if err != nil {
			yield(model.CoinInfo{}, err)
			return
		}
		rows, err := r.pool.Query(ctx, sqlStr, args...)
		if err != nil {
			err = fmt.Errorf("query coins: %w", err)
			yield(model.CoinInfo{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			coin, scanErr := scanCoin(rows)
			if scanErr != nil {
				err = fmt.Errorf("scan coin: %w", scanErr)
				yield(model.CoinInfo{}, err)
				return
			}
			if !yield(coin, nil) {
				return
			}
		}
		if err = rows.Err(); err != nil {
			err = fmt.Errorf("iterate coins: %w", err)
			yield(model.CoinInfo{}, err)
		}
	}
}

func buildCoinQuery(q query.CoinQuery) (string, []any, error) {
	if err := q.Err(); err != nil {
		return "", nil, err
	}

	b := psql.Select(coinColumns...).From("coins")
	for _, c := range q.Clauses() {
		value, err := columnValue(c)
		if err != nil {
			return "", nil, err
		}
		col := string(c.Field)
		switch c.Op {
		case query.OpEq:
			b = b.Where(squirrel.Eq{col: value})
		case query.OpGtOrEq:
			b = b.Where(squirrel.GtOrEq{col: value})
		case query.OpLt:
			b = b.Where(squirrel.Lt{col: value})
		default:
			return "", nil, fmt.Errorf("unsupported operator %d on %s", c.Op, c.Field)
		}
	}

	switch q.Status() {
	case query.UnspentOnly:
		b = b.Where(squirrel.Eq{"spend_txhash": nil})
	case query.SpentOnly:
		b = b.Where(squirrel.NotEq{"spend_txhash": nil})
	}

	b = b.OrderBy("create_height", "create_txhash", "create_index")
	if limit := q.MaxResults(); limit > 0 {
		b = b.Limit(limit)
	}
	return b.ToSql()
}

// columnValue encodes a clause value the way the column stores it.
func columnValue(c query.Clause) (any, error) {
	switch v := c.Value.(type) {
	case model.Hash:
		return v.Bytes(), nil
	case model.CoinValue:
		return v.Bytes(), nil
	case model.Denom:
		return v.Bytes(), nil
	case []byte:
		return v, nil
	case uint32:
		return safe.Int32(v)
	case uint64:
		return safe.Int64(v)
	default:
		return nil, fmt.Errorf("unsupported value %T for %s", c.Value, c.Field)
	}
}
