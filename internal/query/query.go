// Package query builds composable coin filters evaluated as lazy sequences.
package query

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

// ErrInvalidRange is returned when a lower bound exceeds its upper bound.
var ErrInvalidRange = errors.New("invalid range: lower bound exceeds upper bound")

// Field names a filterable column of the coins table.
type Field string

const (
	FieldCreateTxhash   Field = "create_txhash"
	FieldCreateIndex    Field = "create_index"
	FieldCreateHeight   Field = "create_height"
	FieldSpendTxhash    Field = "spend_txhash"
	FieldSpendIndex     Field = "spend_index"
	FieldSpendHeight    Field = "spend_height"
	FieldValue          Field = "value"
	FieldDenom          Field = "denom"
	FieldCovhash        Field = "covhash"
	FieldAdditionalData Field = "additional_data"
)

// Op is a comparison operator.
type Op uint8

const (
	OpEq Op = iota
	// OpGtOrEq is an inclusive lower bound.
	OpGtOrEq
	// OpLt is an exclusive upper bound.
	OpLt
)

// Clause is one predicate. Value holds a model type matching Field:
// model.Hash, uint32, uint64, model.CoinValue, model.Denom or []byte.
type Clause struct {
	Field Field
	Op    Op
	Value any
}

// SpendStatus restricts results by whether the coin was consumed.
type SpendStatus uint8

const (
	AnyStatus SpendStatus = iota
	UnspentOnly
	SpentOnly
)

// Source evaluates a query against a store.
type Source interface {
	IterCoins(ctx context.Context, q CoinQuery) iter.Seq2[model.CoinInfo, error]
}

// CoinQuery accumulates AND-combined predicates. Values are immutable;
// every builder method returns a new query.
type CoinQuery struct {
	src     Source
	clauses []Clause
	status  SpendStatus
	limit   uint64
	err     error
}

// New returns an empty query evaluated by src.
func New(src Source) CoinQuery {
	return CoinQuery{src: src}
}

func (q CoinQuery) with(c ...Clause) CoinQuery {
	q.clauses = append(slices.Clip(q.clauses), c...)
	return q
}

func (q CoinQuery) fail(err error) CoinQuery {
	if q.err == nil {
		q.err = err
	}
	return q
}

func (q CoinQuery) CreateTxhash(h model.TxHash) CoinQuery {
	return q.with(Clause{Field: FieldCreateTxhash, Op: OpEq, Value: h})
}

func (q CoinQuery) CreateIndex(i uint32) CoinQuery {
	return q.with(Clause{Field: FieldCreateIndex, Op: OpEq, Value: i})
}

func (q CoinQuery) SpendTxhash(h model.TxHash) CoinQuery {
	return q.with(Clause{Field: FieldSpendTxhash, Op: OpEq, Value: h})
}

func (q CoinQuery) SpendIndex(i uint32) CoinQuery {
	return q.with(Clause{Field: FieldSpendIndex, Op: OpEq, Value: i})
}

func (q CoinQuery) Denom(d model.Denom) CoinQuery {
	return q.with(Clause{Field: FieldDenom, Op: OpEq, Value: d})
}

func (q CoinQuery) Covhash(a model.Address) CoinQuery {
	return q.with(Clause{Field: FieldCovhash, Op: OpEq, Value: a})
}

func (q CoinQuery) AdditionalData(b []byte) CoinQuery {
	return q.with(Clause{Field: FieldAdditionalData, Op: OpEq, Value: slices.Clone(b)})
}

// ValueRange keeps coins with lower <= value < upper.
func (q CoinQuery) ValueRange(lower, upper Bound[model.CoinValue]) CoinQuery {
	lo, hasLo := lower.Get()
	hi, hasHi := upper.Get()
	if hasLo && hasHi && lo.Cmp(hi) > 0 {
		return q.fail(fmt.Errorf("value range [%s, %s): %w", lo, hi, ErrInvalidRange))
	}
	return q.with(rangeClauses(FieldValue, lower, upper)...)
}

// CreateHeightRange keeps coins with lower <= create_height < upper.
func (q CoinQuery) CreateHeightRange(lower, upper Bound[uint64]) CoinQuery {
	return q.heightRange(FieldCreateHeight, lower, upper)
}

// SpendHeightRange keeps spent coins with lower <= spend_height < upper.
func (q CoinQuery) SpendHeightRange(lower, upper Bound[uint64]) CoinQuery {
	return q.heightRange(FieldSpendHeight, lower, upper)
}

func (q CoinQuery) heightRange(f Field, lower, upper Bound[uint64]) CoinQuery {
	lo, hasLo := lower.Get()
	hi, hasHi := upper.Get()
	if hasLo && hasHi && lo > hi {
		return q.fail(fmt.Errorf("%s range [%d, %d): %w", f, lo, hi, ErrInvalidRange))
	}
	return q.with(rangeClauses(f, lower, upper)...)
}

func (q CoinQuery) Unspent() CoinQuery {
	q.status = UnspentOnly
	return q
}

func (q CoinQuery) Spent() CoinQuery {
	q.status = SpentOnly
	return q
}

func (q CoinQuery) AnySpendStatus() CoinQuery {
	q.status = AnyStatus
	return q
}

// Limit caps the number of results; zero means unlimited.
func (q CoinQuery) Limit(n uint64) CoinQuery {
	q.limit = n
	return q
}

// Clauses returns a copy of the accumulated predicates.
func (q CoinQuery) Clauses() []Clause {
	return slices.Clone(q.clauses)
}

func (q CoinQuery) Status() SpendStatus {
	return q.status
}

func (q CoinQuery) MaxResults() uint64 {
	return q.limit
}

// Err reports the first malformed predicate, if any.
func (q CoinQuery) Err() error {
	return q.err
}

// Iter evaluates the query. The sequence is lazy and may be ranged over again
// to re-execute the scan. A malformed query yields its error and nothing else.
func (q CoinQuery) Iter(ctx context.Context) iter.Seq2[model.CoinInfo, error] {
	if q.err != nil {
		return errSeq(q.err)
	}
	if q.src == nil {
		return errSeq(errors.New("coin query has no source"))
	}
	return q.src.IterCoins(ctx, q)
}

// Collect drains the sequence into a slice.
func (q CoinQuery) Collect(ctx context.Context) ([]model.CoinInfo, error) {
	var out []model.CoinInfo
	for coin, err := range q.Iter(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, coin)
	}
	return out, nil
}

// Sum adds up the values of every matching coin.
func (q CoinQuery) Sum(ctx context.Context) (model.CoinValue, error) {
	var total model.CoinValue
	for coin, err := range q.Iter(ctx) {
		if err != nil {
			return model.CoinValue{}, err
		}
		total = total.Add(coin.CoinData.Value)
	}
	return total, nil
}

func rangeClauses[T any](f Field, lower, upper Bound[T]) []Clause {
	var out []Clause
	if v, ok := lower.Get(); ok {
		out = append(out, Clause{Field: f, Op: OpGtOrEq, Value: v})
	}
	if v, ok := upper.Get(); ok {
		out = append(out, Clause{Field: f, Op: OpLt, Value: v})
	}
	return out
}

func errSeq(err error) iter.Seq2[model.CoinInfo, error] {
	return func(yield func(model.CoinInfo, error) bool) {
		yield(model.CoinInfo{}, err)
	}
}
