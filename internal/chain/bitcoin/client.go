package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/melindex-backend/internal/chain"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/safe"
)

// Client implements the indexer client over bitcoin RPC. Bitcoin has no
// transaction kinds with implied outputs, and coinbase inputs are skipped.
// Coin lookups need a node running with -txindex.
type Client struct {
	rpc  RPC
	conv converter
}

func NewClient(rpc RPC, params *chaincfg.Params) (*Client, error) {
	if rpc == nil {
		return nil, errors.New("bitcoin rpc is required")
	}
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &Client{rpc: rpc, conv: converter{params: params}}, nil
}

func (c *Client) LatestHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := c.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	return safe.Uint64(count)
}

func (c *Client) Block(ctx context.Context, height uint64) (*model.Block, error) {
	tip, err := c.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	if height > tip {
		return nil, chain.ErrBlockNotAvailable
	}
	h, err := safe.Int64(height)
	if err != nil {
		return nil, err
	}

	hash, err := c.rpc.GetBlockHash(h)
	if err != nil {
		return nil, fmt.Errorf("get block hash %d: %w", height, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := c.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", height, err)
	}
	return c.conv.block(raw)
}

func (c *Client) Coin(ctx context.Context, height uint64, id model.CoinID) (model.CoinDataHeight, error) {
	created, outputs, err := c.transactionOutputs(ctx, height, id.TxHash)
	if err != nil {
		return model.CoinDataHeight{}, err
	}
	if int(id.Index) >= len(outputs) {
		return model.CoinDataHeight{}, chain.ErrCoinNotFound
	}
	return model.CoinDataHeight{CoinData: outputs[id.Index], Height: created}, nil
}

func (c *Client) TransactionCoins(ctx context.Context, height uint64, txhash model.TxHash, indexes []uint32) (map[uint32]model.CoinData, error) {
	coins := make(map[uint32]model.CoinData, len(indexes))
	_, outputs, err := c.transactionOutputs(ctx, height, txhash)
	if errors.Is(err, chain.ErrCoinNotFound) {
		return coins, nil
	}
	if err != nil {
		return nil, err
	}
	for _, idx := range indexes {
		if int(idx) < len(outputs) {
			coins[idx] = outputs[idx]
		}
	}
	return coins, nil
}

// transactionOutputs returns the outputs of a transaction mined at or below height.
func (c *Client) transactionOutputs(ctx context.Context, height uint64, txhash model.TxHash) (uint64, []model.CoinData, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	txid, err := chainhash.NewHashFromStr(txhash.String())
	if err != nil {
		return 0, nil, fmt.Errorf("txid %s: %w", txhash, err)
	}
	raw, err := c.rpc.GetRawTransactionVerbose(txid)
	if unknownTransaction(err) {
		return 0, nil, chain.ErrCoinNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("get transaction %s: %w", txhash, err)
	}
	if raw.BlockHash == "" {
		return 0, nil, chain.ErrCoinNotFound
	}

	blockHash, err := chainhash.NewHashFromStr(raw.BlockHash)
	if err != nil {
		return 0, nil, fmt.Errorf("block hash of %s: %w", txhash, err)
	}
	header, err := c.rpc.GetBlockHeaderVerbose(blockHash)
	if err != nil {
		return 0, nil, fmt.Errorf("get block header %s: %w", raw.BlockHash, err)
	}
	created, err := safe.Uint64(header.Height)
	if err != nil {
		return 0, nil, err
	}
	if created > height {
		return 0, nil, chain.ErrCoinNotFound
	}

	outputs, err := c.conv.outputs(*raw)
	if err != nil {
		return 0, nil, err
	}
	return created, outputs, nil
}

// unknownTransaction reports the node's answer for a txid it has never seen.
func unknownTransaction(err error) bool {
	var rpcErr *btcjson.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == btcjson.ErrRPCNoTxInfo
}
