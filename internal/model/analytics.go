package model

// CoinEventKind tells creation rows of the analytics mirror from spend rows.
type CoinEventKind string

const (
	CoinEventCreate CoinEventKind = "create"
	CoinEventSpend  CoinEventKind = "spend"
)

// CoinEvent is one row of the coin_events mirror table. Data is set for
// creations, Spend for spends.
type CoinEvent struct {
	Kind   CoinEventKind
	Height uint64
	Coin   CoinID
	Data   CoinData
	Spend  *CoinSpendInfo
}

// BlockSummary is one row of the blocks mirror table.
type BlockSummary struct {
	Header       HeightInfo
	Transactions int
	Created      int
	Spent        int
	Stakes       int
}

// Events flattens the block into creation rows followed by spend rows.
func (b CommittedBlock) Events() []CoinEvent {
	out := make([]CoinEvent, 0, len(b.Created)+len(b.Spent))
	for _, c := range b.Created {
		out = append(out, CoinEvent{
			Kind:   CoinEventCreate,
			Height: c.CreateHeight,
			Coin:   c.ID(),
			Data:   c.CoinData,
		})
	}
	for _, s := range b.Spent {
		spend := s.Spend
		out = append(out, CoinEvent{
			Kind:   CoinEventSpend,
			Height: spend.SpendHeight,
			Coin:   s.ID,
			Spend:  &spend,
		})
	}
	return out
}

func (b CommittedBlock) Summary() BlockSummary {
	return BlockSummary{
		Header:       b.Header,
		Transactions: len(b.TxVars),
		Created:      len(b.Created),
		Spent:        len(b.Spent),
		Stakes:       len(b.Stakes),
	}
}
