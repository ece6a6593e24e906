// Package console is an interactive SQL console for operators. Statements run
// directly against the database and bypass the ledger's balance checks.
package console

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Result is one executed statement. Columns is empty for statements that
// return no rows.
type Result struct {
	Columns      []string
	Rows         [][]any
	Command      string
	RowsAffected int64
}

func (r *Result) IsQuery() bool {
	return len(r.Columns) > 0
}

type Executor interface {
	Execute(ctx context.Context, sql string, args ...any) (*Result, error)
}

// PgExecutor autocommits every statement: a failure leaves nothing behind.
type PgExecutor struct {
	Pool *pgxpool.Pool
}

func NewPgExecutor(pool *pgxpool.Pool) *PgExecutor {
	return &PgExecutor{Pool: pool}
}

func (e *PgExecutor) Execute(ctx context.Context, sql string, args ...any) (*Result, error) {
	queryArgs := append([]any{pgx.QueryExecModeSimpleProtocol}, args...)
	rows, err := e.Pool.Query(ctx, sql, queryArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := &Result{}
	for _, fd := range rows.FieldDescriptions() {
		res.Columns = append(res.Columns, fd.Name)
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	tag := rows.CommandTag()
	res.Command = tag.String()
	res.RowsAffected = tag.RowsAffected()
	return res, nil
}
