package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

// recorder appends txvars and stakes rows.
type recorder struct {
	maxDataBytes int
}

func (r *recorder) Record(ctx context.Context, st StoreTx, scope *blockScope, tx model.Transaction) error {
	vars := model.TxVars{
		TxHash:    tx.Hash,
		Height:    scope.height,
		Kind:      tx.Kind,
		Fee:       tx.Fee,
		Covenants: tx.Covenants,
		Data:      r.truncate(tx.Data),
		Sigs:      tx.Sigs,
	}
	if err := st.InsertTxVars(ctx, vars); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return violation(scope.height, ReasonDuplicateTx, err, "txvars %s already exists", tx.Hash)
		}
		return fmt.Errorf("insert txvars %s: %w", tx.Hash, err)
	}
	scope.journal.TxVars = append(scope.journal.TxVars, vars)

	if tx.Kind != model.TxKindStake {
		return nil
	}
	if tx.Stake == nil {
		return violation(scope.height, ReasonInconsistentData, nil, "stake transaction %s without stake document", tx.Hash)
	}
	doc := *tx.Stake
	doc.TxHash = tx.Hash
	if err := st.InsertStake(ctx, doc); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return violation(scope.height, ReasonDuplicateTx, err, "stake %s already exists", tx.Hash)
		}
		return fmt.Errorf("insert stake %s: %w", tx.Hash, err)
	}
	scope.journal.Stakes = append(scope.journal.Stakes, doc)
	return nil
}

func (r *recorder) truncate(data []byte) []byte {
	if r.maxDataBytes > 0 && len(data) > r.maxDataBytes {
		return data[:r.maxDataBytes]
	}
	return data
}
