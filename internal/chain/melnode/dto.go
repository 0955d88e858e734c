package melnode

import (
	"fmt"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
)

type heightResponse struct {
	Height uint64 `json:"height"`
}

type transactionCoinsResponse struct {
	Coins map[uint32]model.CoinData `json:"coins"`
}

type blockResponse struct {
	Header       model.HeightInfo `json:"header"`
	Transactions []transaction    `json:"transactions"`
	Rewards      []coin           `json:"rewards"`
}

type coin struct {
	ID   model.CoinID   `json:"id"`
	Data model.CoinData `json:"data"`
}

type transaction struct {
	Hash      model.TxHash     `json:"hash"`
	Kind      uint8            `json:"kind"`
	Inputs    []model.CoinID   `json:"inputs"`
	Outputs   []model.CoinData `json:"outputs"`
	Fee       model.CoinValue  `json:"fee"`
	Covenants [][]byte         `json:"covenants"`
	Data      []byte           `json:"data"`
	Sigs      [][]byte         `json:"sigs"`
	Stake     *model.StakeDoc  `json:"stake,omitempty"`
}

func (b blockResponse) toModel() (*model.Block, error) {
	block := &model.Block{
		Header:       b.Header,
		Transactions: make([]model.Transaction, 0, len(b.Transactions)),
		Rewards:      make([]model.Coin, 0, len(b.Rewards)),
	}
	for _, r := range b.Rewards {
		block.Rewards = append(block.Rewards, model.Coin{ID: r.ID, Data: r.Data})
	}
	for i, tx := range b.Transactions {
		kind, err := model.ParseTxKind(tx.Kind)
		if err != nil {
			return nil, fmt.Errorf("transaction %d (%s): %w", i, tx.Hash, err)
		}
		out := model.Transaction{
			Hash:      tx.Hash,
			Kind:      kind,
			Inputs:    tx.Inputs,
			Outputs:   tx.Outputs,
			Fee:       tx.Fee,
			Covenants: tx.Covenants,
			Data:      tx.Data,
			Sigs:      tx.Sigs,
		}
		// the recorder rejects stake transactions whose document is missing
		if kind == model.TxKindStake && tx.Stake != nil {
			doc := *tx.Stake
			doc.TxHash = tx.Hash
			out.Stake = &doc
		}
		block.Transactions = append(block.Transactions, out)
	}
	return block, nil
}
