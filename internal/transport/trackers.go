package transport

import (
	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/puzpuzpuz/xsync/v4"
)

const defaultMaxTrackers = 10_000

type trackerKey struct {
	covhash model.Address
	denom   model.Denom
}

// trackers keeps one balance tracker per address and denom so repeated
// balance queries reuse cached heights. Past max entries new trackers are
// used once and not kept.
type trackers struct {
	reader Reader
	max    int
	byKey  *xsync.Map[trackerKey, *indexer.BalanceTracker]
}

func newTrackers(reader Reader, max int) *trackers {
	return &trackers{
		reader: reader,
		max:    max,
		byKey:  xsync.NewMap[trackerKey, *indexer.BalanceTracker](),
	}
}

func (t *trackers) get(covhash model.Address, denom model.Denom) *indexer.BalanceTracker {
	key := trackerKey{covhash: covhash, denom: denom}
	if tracker, ok := t.byKey.Load(key); ok {
		return tracker
	}
	tracker := t.reader.NewBalanceTracker(covhash, denom)
	if t.byKey.Size() >= t.max {
		return tracker
	}
	actual, _ := t.byKey.LoadOrStore(key, tracker)
	return actual
}
