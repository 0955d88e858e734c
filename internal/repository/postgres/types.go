package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE
//go:generate mockgen -destination=pgx_mocks_test.go -package=$GOPACKAGE github.com/jackc/pgx/v5 Row,Rows

type (
	// Querier is the statement surface shared by the pool and transactions.
	Querier interface {
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	}

	DBTx interface {
		Querier
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	Pool interface {
		Querier
		BeginTx(ctx context.Context) (DBTx, error)
	}

	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
