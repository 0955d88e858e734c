package memory

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

var errTxDone = errors.New("transaction already finished")

// Tx buffers the writes of one block until Commit.
type Tx struct {
	store    *Store
	coins    map[model.CoinID]model.CoinInfo
	txvars   map[model.TxHash]model.TxVars
	stakes   map[model.TxHash]model.StakeDoc
	headvars *model.HeightInfo
	done     bool
}

func (t *Tx) Coin(_ context.Context, id model.CoinID) (model.CoinInfo, error) {
	if t.done {
		return model.CoinInfo{}, errTxDone
	}
	if coin, ok := t.coins[id]; ok {
		return coin, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	coin, ok := t.store.state.coins.get(id)
	if !ok {
		return model.CoinInfo{}, model.ErrNotFound
	}
	return coin, nil
}

func (t *Tx) InsertCoin(ctx context.Context, coin model.CoinInfo) error {
	if t.done {
		return errTxDone
	}
	if _, err := t.Coin(ctx, coin.ID()); err == nil {
		return model.ErrDuplicateKey
	}
	coin.SpendInfo = nil
	t.coins[coin.ID()] = coin
	return nil
}

func (t *Tx) SpendCoin(ctx context.Context, id model.CoinID, spend model.CoinSpendInfo) error {
	coin, err := t.Coin(ctx, id)
	if err != nil {
		return err
	}
	if coin.SpendInfo != nil {
		return model.ErrAlreadySpent
	}
	coin.SpendInfo = &spend
	t.coins[id] = coin
	return nil
}

func (t *Tx) InsertTxVars(_ context.Context, vars model.TxVars) error {
	if t.done {
		return errTxDone
	}
	if _, ok := t.txvars[vars.TxHash]; ok {
		return model.ErrDuplicateKey
	}
	t.store.mu.RLock()
	_, exists := t.store.state.txvars[vars.TxHash]
	t.store.mu.RUnlock()
	if exists {
		return model.ErrDuplicateKey
	}
	t.txvars[vars.TxHash] = vars
	return nil
}

func (t *Tx) InsertStake(_ context.Context, doc model.StakeDoc) error {
	if t.done {
		return errTxDone
	}
	if _, ok := t.stakes[doc.TxHash]; ok {
		return model.ErrDuplicateKey
	}
	t.store.mu.RLock()
	_, exists := t.store.state.stakes[doc.TxHash]
	t.store.mu.RUnlock()
	if exists {
		return model.ErrDuplicateKey
	}
	t.stakes[doc.TxHash] = doc
	return nil
}

func (t *Tx) InsertHeadVars(_ context.Context, info model.HeightInfo) error {
	if t.done {
		return errTxDone
	}
	if t.headvars != nil {
		return model.ErrDuplicateKey
	}
	t.store.mu.RLock()
	_, exists := t.store.state.headvars[info.Height]
	t.store.mu.RUnlock()
	if exists {
		return model.ErrDuplicateKey
	}
	t.headvars = &info
	return nil
}

// Commit publishes every buffered write at once.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	defer func() { <-t.store.writer }()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.coins.apply(t.coins)
	for h, vars := range t.txvars {
		s.state.txvars[h] = vars
	}
	for h, doc := range t.stakes {
		s.state.stakes[h] = doc
	}
	if t.headvars != nil {
		s.state.headvars[t.headvars.Height] = *t.headvars
		s.state.blkhash[t.headvars.Blkhash] = t.headvars.Height
		if !s.state.hasMax || t.headvars.Height > s.state.max {
			s.state.max, s.state.hasMax = t.headvars.Height, true
		}
	}
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	<-t.store.writer
	return nil
}
