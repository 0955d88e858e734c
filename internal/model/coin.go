package model

import "fmt"

// CoinID references one output of a transaction.
type CoinID struct {
	TxHash TxHash `json:"txhash"`
	Index  uint32 `json:"index"`
}

func (id CoinID) String() string {
	return fmt.Sprintf("%s-%d", id.TxHash, id.Index)
}

// CoinData describes what a coin holds and who owns it.
type CoinData struct {
	Covhash        Address   `json:"covhash"`
	Value          CoinValue `json:"value"`
	Denom          Denom     `json:"denom"`
	AdditionalData []byte    `json:"additional_data"`
}

// CoinDataHeight is a coin together with the height it was created at.
type CoinDataHeight struct {
	CoinData CoinData `json:"coin_data"`
	Height   uint64   `json:"height"`
}

// Coin is an output as delivered by a chain client.
type Coin struct {
	ID   CoinID
	Data CoinData
}

// CoinSpendInfo records the input that consumed a coin.
type CoinSpendInfo struct {
	SpendTxhash TxHash `json:"spend_txhash"`
	SpendIndex  uint32 `json:"spend_index"`
	SpendHeight uint64 `json:"spend_height"`
}

// CoinInfo is one row of the coins table.
type CoinInfo struct {
	CreateTxhash TxHash         `json:"create_txhash"`
	CreateIndex  uint32         `json:"create_index"`
	CreateHeight uint64         `json:"create_height"`
	CoinData     CoinData       `json:"coin_data"`
	SpendInfo    *CoinSpendInfo `json:"spend_info,omitempty"`
}

func (c CoinInfo) ID() CoinID {
	return CoinID{TxHash: c.CreateTxhash, Index: c.CreateIndex}
}

func (c CoinInfo) Spent() bool {
	return c.SpendInfo != nil
}

// SpentCoin pairs a coin reference with the spend that consumed it.
type SpentCoin struct {
	ID    CoinID
	Spend CoinSpendInfo
}
