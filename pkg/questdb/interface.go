package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowsInterface is the subset of pgx.Rows the repositories read from.
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

type rowsWrapper struct {
	rows pgx.Rows
}

// NewRowsWrapper adapts pgx.Rows to RowsInterface.
func NewRowsWrapper(rows pgx.Rows) RowsInterface {
	return &rowsWrapper{rows: rows}
}

func (r *rowsWrapper) Next() bool             { return r.rows.Next() }
func (r *rowsWrapper) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *rowsWrapper) Close()                 { r.rows.Close() }
func (r *rowsWrapper) Err() error             { return r.rows.Err() }

// QuestDBClient is what the snapshot, tick and bar stores need from QuestDB.
type QuestDBClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)

	Ping(ctx context.Context) error
	Close()
}
