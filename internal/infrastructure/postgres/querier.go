package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repos aceptan cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// getOne ejecuta b y escanea una fila. Sin filas (o id mal formado) devuelve (nil, nil).
func getOne[T any](ctx context.Context, q Querier, b sq.Sqlizer, scan func(pgx.Row) (*T, error)) (*T, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	v, err := scan(q.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func getMany[T any](ctx context.Context, q Querier, b sq.Sqlizer, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*T, error) { return scan(row) })
}

// getValues como getMany pero devuelve valores (para las relaciones embebidas en la entidad).
func getValues[T any](ctx context.Context, q Querier, b sq.Sqlizer, scan func(pgx.Row) (*T, error)) ([]T, error) {
	list, err := getMany(ctx, q, b, scan)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list))
	for _, v := range list {
		out = append(out, *v)
	}
	return out, nil
}

// execute ejecuta b y devuelve las filas afectadas.
func execute(ctx context.Context, q Querier, b sq.Sqlizer) (int64, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func count(ctx context.Context, q Querier, b sq.Sqlizer) (int, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
