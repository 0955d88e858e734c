package indexer

import (
	"context"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

// Notifiers fans a committed block out to several observers in order.
type Notifiers []Notifier

func (n Notifiers) BlockCommitted(ctx context.Context, block model.CommittedBlock) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.BlockCommitted(ctx, block)
		}
	}
}
