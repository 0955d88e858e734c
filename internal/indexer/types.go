package indexer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Client is the network client blocks and supplemental coin data come from.
	Client interface {
		LatestHeight(ctx context.Context) (uint64, error)
		// Block returns chain.ErrBlockNotAvailable above the tip.
		Block(ctx context.Context, height uint64) (*model.Block, error)
		// Coin returns a coin as present at the end of height, or chain.ErrCoinNotFound.
		Coin(ctx context.Context, height uint64, id model.CoinID) (model.CoinDataHeight, error)
		// TransactionCoins returns the outputs of txhash present at the end of height.
		TransactionCoins(ctx context.Context, height uint64, txhash model.TxHash, indexes []uint32) (map[uint32]model.CoinData, error)
	}

	Store interface {
		// MaxHeight reports the highest committed headvars height; ok is false when empty.
		MaxHeight(ctx context.Context) (height uint64, ok bool, err error)
		// Begin opens the single writer transaction for height, or returns
		// model.ErrHeightConflict if height does not follow the committed tip.
		Begin(ctx context.Context, height uint64) (StoreTx, error)
	}

	StoreTx interface {
		Coin(ctx context.Context, id model.CoinID) (model.CoinInfo, error)
		InsertCoin(ctx context.Context, coin model.CoinInfo) error
		SpendCoin(ctx context.Context, id model.CoinID, spend model.CoinSpendInfo) error
		InsertTxVars(ctx context.Context, vars model.TxVars) error
		InsertStake(ctx context.Context, doc model.StakeDoc) error
		InsertHeadVars(ctx context.Context, info model.HeightInfo) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ReadStore serves the read side.
	ReadStore interface {
		query.Source
		MaxHeight(ctx context.Context) (uint64, bool, error)
		HeightInfo(ctx context.Context, height uint64) (model.HeightInfo, error)
		HeightByBlkhash(ctx context.Context, blkhash model.BlockHash) (uint64, error)
		TxVars(ctx context.Context, txhash model.TxHash) (model.TxVars, error)
		StakesAt(ctx context.Context, epoch uint64) ([]model.StakeDoc, error)
	}

	// Notifier observes committed blocks. It must not block indexing.
	Notifier interface {
		BlockCommitted(ctx context.Context, block model.CommittedBlock)
	}

	ConsumerMetrics interface {
		ObserveFetch(err error, started time.Time)
		ObserveApply(err error, txs int, started time.Time)
		ObserveClientLookup(kind string, err error, started time.Time)
		ObserveContractViolation(reason string)
		SetIndexedHeight(height uint64)
		SetState(state string)
	}
)
