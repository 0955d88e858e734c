package query

import (
	"bytes"
	"cmp"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

// Matches evaluates the query predicates against a single coin.
func (q CoinQuery) Matches(c model.CoinInfo) bool {
	switch q.status {
	case UnspentOnly:
		if c.Spent() {
			return false
		}
	case SpentOnly:
		if !c.Spent() {
			return false
		}
	}
	for _, clause := range q.clauses {
		if !clause.matches(c) {
			return false
		}
	}
	return true
}

func (cl Clause) matches(c model.CoinInfo) bool {
	actual, ok := fieldValue(c, cl.Field)
	if !ok {
		return false
	}
	d := compare(actual, cl.Value)
	switch cl.Op {
	case OpEq:
		return d == 0
	case OpGtOrEq:
		return d >= 0
	case OpLt:
		return d < 0
	default:
		return false
	}
}

// fieldValue reports false for spend columns of an unspent coin, which
// behave like SQL NULL and match no predicate.
func fieldValue(c model.CoinInfo, f Field) (any, bool) {
	switch f {
	case FieldCreateTxhash:
		return c.CreateTxhash, true
	case FieldCreateIndex:
		return c.CreateIndex, true
	case FieldCreateHeight:
		return c.CreateHeight, true
	case FieldValue:
		return c.CoinData.Value, true
	case FieldDenom:
		return c.CoinData.Denom, true
	case FieldCovhash:
		return c.CoinData.Covhash, true
	case FieldAdditionalData:
		return c.CoinData.AdditionalData, true
	}
	if c.SpendInfo == nil {
		return nil, false
	}
	switch f {
	case FieldSpendTxhash:
		return c.SpendInfo.SpendTxhash, true
	case FieldSpendIndex:
		return c.SpendInfo.SpendIndex, true
	case FieldSpendHeight:
		return c.SpendInfo.SpendHeight, true
	}
	return nil, false
}

func compare(a, b any) int {
	switch av := a.(type) {
	case model.Hash:
		bv, _ := b.(model.Hash)
		return bytes.Compare(av[:], bv[:])
	case uint32:
		bv, _ := b.(uint32)
		return cmp.Compare(av, bv)
	case uint64:
		bv, _ := b.(uint64)
		return cmp.Compare(av, bv)
	case model.U128:
		bv, _ := b.(model.U128)
		return av.Cmp(bv)
	case model.Denom:
		bv, _ := b.(model.Denom)
		return cmp.Compare(av, bv)
	case []byte:
		bv, _ := b.([]byte)
		return bytes.Compare(av, bv)
	default:
		return -1
	}
}

// CompareCoins orders coins by create_height, create_txhash, create_index.
func CompareCoins(a, b model.CoinInfo) int {
	if c := cmp.Compare(a.CreateHeight, b.CreateHeight); c != 0 {
		return c
	}
	if c := bytes.Compare(a.CreateTxhash[:], b.CreateTxhash[:]); c != 0 {
		return c
	}
	return cmp.Compare(a.CreateIndex, b.CreateIndex)
}
