package bitcoin

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
)

// Denom of every bitcoin coin. Values are in satoshis.
const Denom model.Denom = "BTC"

// ChainParams resolves a network name.
func ChainParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}

// duplicateCoinbases lists the two mainnet blocks whose coinbase repeats the
// txid of an earlier, still unspent coinbase (91812 and 91722). Nodes treat
// the later transaction as overwriting the earlier one, so neither adds coins.
var duplicateCoinbases = map[string]uint64{
	"00000000000a4d0a398161ffc163c503763b1f4360639393e0e4c8e300e0caec": 91842,
	"00000000000743f190a18c5577a3c2d2a1f610ae9601ac046a38084ccb7cd721": 91880,
}

// converter maps verbose RPC results onto the indexer model. Hashes keep the
// byte order of the RPC display form.
type converter struct {
	params *chaincfg.Params
}

func btcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	return safe.Uint64(int64(amt))
}

func (c converter) block(src *btcjson.GetBlockVerboseTxResult) (*model.Block, error) {
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block height: %w", err)
	}
	blkhash, err := model.ParseHash(src.Hash)
	if err != nil {
		return nil, fmt.Errorf("block %d hash: %w", src.Height, err)
	}

	block := &model.Block{
		Header:       model.HeightInfo{Height: height, Blkhash: blkhash},
		Transactions: make([]model.Transaction, 0, len(src.Tx)),
	}
	skipCoinbase := c.duplicateCoinbase(src.Hash, height)
	for i, raw := range src.Tx {
		if i == 0 && skipCoinbase {
			continue
		}
		tx, err := c.transaction(raw)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", src.Height, err)
		}
		block.Transactions = append(block.Transactions, tx)
	}
	return block, nil
}

func (c converter) duplicateCoinbase(blkhash string, height uint64) bool {
	if c.params == nil || c.params.Net != wire.MainNet {
		return false
	}
	h, ok := duplicateCoinbases[blkhash]
	return ok && h == height
}

func (c converter) transaction(raw btcjson.TxRawResult) (model.Transaction, error) {
	txhash, err := model.ParseHash(raw.Txid)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("txid: %w", err)
	}

	tx := model.Transaction{
		Hash: txhash,
		Kind: model.TxKindNormal,
	}
	for i, vin := range raw.Vin {
		if vin.IsCoinBase() {
			continue
		}
		prev, err := model.ParseHash(vin.Txid)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s input %d: %w", raw.Txid, i, err)
		}
		tx.Inputs = append(tx.Inputs, model.CoinID{TxHash: prev, Index: vin.Vout})
		if vin.ScriptSig != nil && vin.ScriptSig.Hex != "" {
			sig, err := hex.DecodeString(vin.ScriptSig.Hex)
			if err != nil {
				return model.Transaction{}, fmt.Errorf("tx %s input %d script sig: %w", raw.Txid, i, err)
			}
			tx.Sigs = append(tx.Sigs, sig)
		}
	}

	tx.Outputs, err = c.outputs(raw)
	if err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (c converter) outputs(raw btcjson.TxRawResult) ([]model.CoinData, error) {
	out := make([]model.CoinData, 0, len(raw.Vout))
	for idx, vout := range raw.Vout {
		data, err := c.output(vout)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d: %w", raw.Txid, idx, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// output owns the coin by the sha256 of its locking script and keeps the
// first decoded address as additional data.
func (c converter) output(vout btcjson.Vout) (model.CoinData, error) {
	if vout.Value < 0 {
		return model.CoinData{}, fmt.Errorf("negative value %f", vout.Value)
	}
	value, err := btcToSatoshis(vout.Value)
	if err != nil {
		return model.CoinData{}, err
	}
	script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
	if err != nil {
		return model.CoinData{}, fmt.Errorf("script hex: %w", err)
	}

	data := model.CoinData{
		Covhash: sha256.Sum256(script),
		Value:   model.NewU128(value),
		Denom:   Denom,
	}
	if addr := c.address(vout, script); addr != "" {
		data.AdditionalData = []byte(addr)
	}
	return data, nil
}

func (c converter) address(vout btcjson.Vout, script []byte) string {
	if vout.ScriptPubKey.Address != "" {
		return vout.ScriptPubKey.Address
	}
	if len(vout.ScriptPubKey.Addresses) > 0 {
		return vout.ScriptPubKey.Addresses[0]
	}
	if len(script) == 0 {
		return ""
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, c.params)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	return addrs[0].EncodeAddress()
}
