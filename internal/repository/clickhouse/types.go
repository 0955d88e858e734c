package clickhouse

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Conn is the part of the clickhouse driver connection the mirror uses.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Exec(ctx context.Context, query string, args ...any) error
		Ping(ctx context.Context) error
		Close() error
	}

	Batch interface {
		Append(v ...any) error
		Send() error
		Close() error
	}

	Metrics interface {
		Observe(operation string, rows int, err error, started time.Time)
	}
)
