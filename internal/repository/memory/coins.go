package memory

import (
	"slices"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
)

// scanChunk bounds how many coins a reader examines per read lock.
const scanChunk = 256

// coinEntry remembers which commit created and spent a coin, so a reader can
// keep the view it started with while later blocks commit.
type coinEntry struct {
	info    model.CoinInfo
	created uint64
	spent   uint64
}

// coinIndex holds committed coins keyed by id and ordered by query order.
type coinIndex struct {
	byID  map[model.CoinID]*coinEntry
	order []*coinEntry
	seq   uint64
}

func newCoinIndex() coinIndex {
	return coinIndex{byID: make(map[model.CoinID]*coinEntry)}
}

func compareEntries(a, b *coinEntry) int {
	return query.CompareCoins(a.info, b.info)
}

func (ix *coinIndex) get(id model.CoinID) (model.CoinInfo, bool) {
	e, ok := ix.byID[id]
	if !ok {
		return model.CoinInfo{}, false
	}
	return e.info, true
}

// apply publishes the coins written by one commit.
func (ix *coinIndex) apply(coins map[model.CoinID]model.CoinInfo) {
	ix.seq++
	var added []*coinEntry
	for id, coin := range coins {
		if e, ok := ix.byID[id]; ok {
			if e.info.SpendInfo == nil && coin.SpendInfo != nil {
				e.spent = ix.seq
			}
			e.info = coin
			continue
		}
		e := &coinEntry{info: coin, created: ix.seq}
		if coin.SpendInfo != nil {
			e.spent = ix.seq
		}
		ix.byID[id] = e
		added = append(added, e)
	}
	if len(added) == 0 {
		return
	}
	slices.SortFunc(added, compareEntries)

	// blocks commit in height order, so new coins almost always go last
	if len(ix.order) == 0 || compareEntries(ix.order[len(ix.order)-1], added[0]) < 0 {
		ix.order = append(ix.order, added...)
		return
	}
	merged := make([]*coinEntry, 0, len(ix.order)+len(added))
	i, j := 0, 0
	for i < len(ix.order) && j < len(added) {
		if compareEntries(ix.order[i], added[j]) <= 0 {
			merged = append(merged, ix.order[i])
			i++
		} else {
			merged = append(merged, added[j])
			j++
		}
	}
	merged = append(merged, ix.order[i:]...)
	ix.order = append(merged, added[j:]...)
}

// visible returns the coin as of commit seq.
func (e *coinEntry) visible(seq uint64) (model.CoinInfo, bool) {
	if e.created > seq {
		return model.CoinInfo{}, false
	}
	coin := e.info
	if e.spent > seq {
		coin.SpendInfo = nil
	}
	return coin, true
}

// scan examines up to scanChunk coins following after (or from the start when
// after is nil) and returns those matching q as of commit seq. It reports the
// last coin examined and whether the index was exhausted.
func (ix *coinIndex) scan(q query.CoinQuery, seq uint64, after *coinEntry) ([]model.CoinInfo, *coinEntry, bool) {
	start := 0
	if after != nil {
		i, found := slices.BinarySearchFunc(ix.order, after, compareEntries)
		if found {
			i++
		}
		start = i
	}
	end := min(start+scanChunk, len(ix.order))

	var matched []model.CoinInfo
	for _, e := range ix.order[start:end] {
		coin, ok := e.visible(seq)
		if ok && q.Matches(coin) {
			matched = append(matched, coin)
		}
	}
	if start == end {
		return matched, after, true
	}
	return matched, ix.order[end-1], end == len(ix.order)
}
