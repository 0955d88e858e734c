package postgres

import (
	"fmt"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
)

var coinColumns = []string{
	"create_txhash",
	"create_index",
	"create_height",
	"spend_txhash",
	"spend_index",
	"spend_height",
	"covhash",
	"value",
	"denom",
	"additional_data",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCoin(row scanner) (model.CoinInfo, error) {
	var (
		createTxhash, spendTxhash    []byte
		createIndex                  int32
		createHeight                 int64
		spendIndex                   *int32
		spendHeight                  *int64
		covhash, value, denom, extra []byte
	)
	if err := row.Scan(&createTxhash, &createIndex, &createHeight, &spendTxhash, &spendIndex, &spendHeight,
		&covhash, &value, &denom, &extra); err != nil {
		return model.CoinInfo{}, err
	}

	var (
		coin model.CoinInfo
		err  error
	)
	if coin.CreateTxhash, err = model.HashFromBytes(createTxhash); err != nil {
		return model.CoinInfo{}, fmt.Errorf("create_txhash: %w", err)
	}
	if coin.CreateIndex, err = safe.Uint32(createIndex); err != nil {
		return model.CoinInfo{}, fmt.Errorf("create_index: %w", err)
	}
	if coin.CreateHeight, err = safe.Uint64(createHeight); err != nil {
		return model.CoinInfo{}, fmt.Errorf("create_height: %w", err)
	}
	if coin.CoinData.Covhash, err = model.HashFromBytes(covhash); err != nil {
		return model.CoinInfo{}, fmt.Errorf("covhash: %w", err)
	}
	if coin.CoinData.Value, err = model.U128FromBytes(value); err != nil {
		return model.CoinInfo{}, fmt.Errorf("value: %w", err)
	}
	if coin.CoinData.Denom, err = model.DenomFromBytes(denom); err != nil {
		return model.CoinInfo{}, fmt.Errorf("denom: %w", err)
	}
	if len(extra) > 0 {
		coin.CoinData.AdditionalData = extra
	}

	if spendTxhash == nil {
		return coin, nil
	}
	if spendIndex == nil || spendHeight == nil {
		return model.CoinInfo{}, fmt.Errorf("coin %s has a partial spend", coin.ID())
	}
	spend := model.CoinSpendInfo{}
	if spend.SpendTxhash, err = model.HashFromBytes(spendTxhash); err != nil {
		return model.CoinInfo{}, fmt.Errorf("spend_txhash: %w", err)
	}
	if spend.SpendIndex, err = safe.Uint32(*spendIndex); err != nil {
		return model.CoinInfo{}, fmt.Errorf("spend_index: %w", err)
	}
	if spend.SpendHeight, err = safe.Uint64(*spendHeight); err != nil {
		return model.CoinInfo{}, fmt.Errorf("spend_height: %w", err)
	}
	coin.SpendInfo = &spend
	return coin, nil
}

func scanHeightInfo(row scanner) (model.HeightInfo, error) {
	var (
		height                               int64
		blkhash, feePool, feeMult, doscSpeed []byte
	)
	if err := row.Scan(&height, &blkhash, &feePool, &feeMult, &doscSpeed); err != nil {
		return model.HeightInfo{}, err
	}
	var (
		info model.HeightInfo
		err  error
	)
	if info.Height, err = safe.Uint64(height); err != nil {
		return model.HeightInfo{}, fmt.Errorf("height: %w", err)
	}
	if info.Blkhash, err = model.HashFromBytes(blkhash); err != nil {
		return model.HeightInfo{}, fmt.Errorf("blkhash: %w", err)
	}
	if info.FeePool, err = model.U128FromBytes(feePool); err != nil {
		return model.HeightInfo{}, fmt.Errorf("fee_pool: %w", err)
	}
	if info.FeeMultiplier, err = model.U128FromBytes(feeMult); err != nil {
		return model.HeightInfo{}, fmt.Errorf("fee_multiplier: %w", err)
	}
	if info.DoscSpeed, err = model.U128FromBytes(doscSpeed); err != nil {
		return model.HeightInfo{}, fmt.Errorf("dosc_speed: %w", err)
	}
	return info, nil
}

func scanTxVars(row scanner) (model.TxVars, error) {
	var (
		txhash, fee, data []byte
		height            int64
		kind              int16
		covenants, sigs   [][]byte
	)
	if err := row.Scan(&txhash, &height, &kind, &fee, &covenants, &data, &sigs); err != nil {
		return model.TxVars{}, err
	}
	var (
		vars model.TxVars
		err  error
	)
	if vars.TxHash, err = model.HashFromBytes(txhash); err != nil {
		return model.TxVars{}, fmt.Errorf("txhash: %w", err)
	}
	if vars.Height, err = safe.Uint64(height); err != nil {
		return model.TxVars{}, fmt.Errorf("height: %w", err)
	}
	if kind < 0 || kind > 0xff {
		return model.TxVars{}, fmt.Errorf("kind %d out of range", kind)
	}
	if vars.Kind, err = model.ParseTxKind(uint8(kind)); err != nil {
		return model.TxVars{}, err
	}
	if vars.Fee, err = model.U128FromBytes(fee); err != nil {
		return model.TxVars{}, fmt.Errorf("fee: %w", err)
	}
	vars.Covenants = nilIfEmpty(covenants)
	vars.Sigs = nilIfEmpty(sigs)
	if len(data) > 0 {
		vars.Data = data
	}
	return vars, nil
}

func scanStake(row scanner) (model.StakeDoc, error) {
	var (
		txhash, pubkey, staked []byte
		eStart, ePostEnd       int64
	)
	if err := row.Scan(&txhash, &pubkey, &eStart, &ePostEnd, &staked); err != nil {
		return model.StakeDoc{}, err
	}
	var (
		doc model.StakeDoc
		err error
	)
	if doc.TxHash, err = model.HashFromBytes(txhash); err != nil {
		return model.StakeDoc{}, fmt.Errorf("txhash: %w", err)
	}
	if doc.Pubkey, err = model.HashFromBytes(pubkey); err != nil {
		return model.StakeDoc{}, fmt.Errorf("pubkey: %w", err)
	}
	if doc.EStart, err = safe.Uint64(eStart); err != nil {
		return model.StakeDoc{}, fmt.Errorf("e_start: %w", err)
	}
	if doc.EPostEnd, err = safe.Uint64(ePostEnd); err != nil {
		return model.StakeDoc{}, fmt.Errorf("e_post_end: %w", err)
	}
	if doc.Staked, err = model.U128FromBytes(staked); err != nil {
		return model.StakeDoc{}, fmt.Errorf("staked: %w", err)
	}
	return doc, nil
}

// nonNil keeps NOT NULL bytea columns from receiving NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func nonNilList(b [][]byte) [][]byte {
	if b == nil {
		return [][]byte{}
	}
	return b
}

func nilIfEmpty(b [][]byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
