package model

import "fmt"

// TxKind is the closed set of transaction kinds.
type TxKind uint8

const (
	TxKindNormal      TxKind = 0x00
	TxKindStake       TxKind = 0x10
	TxKindDoscMint    TxKind = 0x50
	TxKindSwap        TxKind = 0x51
	TxKindLiqDeposit  TxKind = 0x52
	TxKindLiqWithdraw TxKind = 0x53
	TxKindFaucet      TxKind = 0xff
)

var txKindNames = map[TxKind]string{
	TxKindNormal:      "normal",
	TxKindStake:       "stake",
	TxKindDoscMint:    "dosc_mint",
	TxKindSwap:        "swap",
	TxKindLiqDeposit:  "liq_deposit",
	TxKindLiqWithdraw: "liq_withdraw",
	TxKindFaucet:      "faucet",
}

// ParseTxKind validates a raw kind byte.
func ParseTxKind(b uint8) (TxKind, error) {
	k := TxKind(b)
	if _, ok := txKindNames[k]; !ok {
		return 0, fmt.Errorf("unknown transaction kind 0x%02x", b)
	}
	return k, nil
}

func (k TxKind) String() string {
	if name, ok := txKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(k))
}

// Transaction is a transaction as delivered by a chain client.
type Transaction struct {
	Hash      TxHash
	Kind      TxKind
	Inputs    []CoinID
	Outputs   []CoinData
	Fee       CoinValue
	Covenants [][]byte
	Data      []byte
	Sigs      [][]byte
	// Stake is decoded from Data for stake transactions.
	Stake *StakeDoc
}

// OutputID returns the coin id of output i.
func (t Transaction) OutputID(i int) CoinID {
	return CoinID{TxHash: t.Hash, Index: uint32(i)}
}

// StakeDoc is a staking document.
type StakeDoc struct {
	TxHash   TxHash    `json:"txhash"`
	Pubkey   Hash      `json:"pubkey"`
	EStart   uint64    `json:"e_start"`
	EPostEnd uint64    `json:"e_post_end"`
	Staked   CoinValue `json:"staked"`
}

// ActiveAt reports whether the stake is valid during epoch.
func (s StakeDoc) ActiveAt(epoch uint64) bool {
	return s.EStart <= epoch && epoch < s.EPostEnd
}

// TxVars is one row of the txvars table.
type TxVars struct {
	TxHash    TxHash    `json:"txhash"`
	Height    uint64    `json:"height"`
	Kind      TxKind    `json:"kind"`
	Fee       CoinValue `json:"fee"`
	Covenants [][]byte  `json:"covenants"`
	Data      []byte    `json:"data"`
	Sigs      [][]byte  `json:"sigs"`
}
