package model

// HeightInfo is one row of the headvars table.
type HeightInfo struct {
	Height        uint64    `json:"height"`
	Blkhash       BlockHash `json:"blkhash"`
	FeePool       CoinValue `json:"fee_pool"`
	FeeMultiplier U128      `json:"fee_multiplier"`
	DoscSpeed     U128      `json:"dosc_speed"`
}

// Block is a block as delivered by a chain client.
type Block struct {
	Header       HeightInfo
	Transactions []Transaction
	// Rewards are block level coins not produced by any transaction.
	Rewards []Coin
}

// CommittedBlock summarizes the rows written for one block.
type CommittedBlock struct {
	Header  HeightInfo
	Created []CoinInfo
	Spent   []SpentCoin
	TxVars  []TxVars
	Stakes  []StakeDoc
}
