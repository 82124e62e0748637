package pgxmap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlext/sqlext/dbmap"
)

// TxBeginner is something that pgxmap can start a transaction on.
// For example, it can be: *pgxpool.Pool, *pgx.Conn or pgx.Tx, the latter starts a pseudo nested transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Execer is something that pgxmap can execute statements on.
// For example, it can be: *pgxpool.Pool, *pgx.Conn or pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var (
	_ TxBeginner = &pgxpool.Pool{}
	_ TxBeginner = &pgx.Conn{}
	_ TxBeginner = pgx.Tx(nil)
	_ Execer     = &pgxpool.Pool{}
	_ Execer     = &pgx.Conn{}
	_ Execer     = pgx.Tx(nil)
)

// InTx runs fn in a transaction started on db.
// The transaction is committed if fn returns nil and rolled back otherwise,
// in which case the error of fn is returned.
func InTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	if err := pgx.BeginFunc(ctx, db, fn); err != nil {
		return fmt.Errorf("pgxmap: transaction: %w", err)
	}
	return nil
}

// Exec is a package-level helper function that uses the DefaultAPI object.
// See API.Exec for details.
func Exec(ctx context.Context, db Execer, query string, src interface{}) (pgconn.CommandTag, error) {
	return DefaultAPI.Exec(ctx, db, query, src)
}

// ExecPairs is a package-level helper function that uses the DefaultAPI object.
// See API.ExecPairs for details.
func ExecPairs(ctx context.Context, db Execer, query string, pairs ...interface{}) (pgconn.CommandTag, error) {
	return DefaultAPI.ExecPairs(ctx, db, query, pairs...)
}

// Exec executes query with the members of src as named arguments, see API.NamedArgs.
func (api *API) Exec(ctx context.Context, db Execer, query string, src interface{}) (pgconn.CommandTag, error) {
	args, err := api.NamedArgs(src)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("pgxmap: named arguments: %w", err)
	}
	return exec(ctx, db, query, args)
}

// ExecPairs executes query with named arguments given as alternating names and values,
// for example ExecPairs(ctx, db, `DELETE FROM users WHERE id = @id`, "id", 7).
func (api *API) ExecPairs(ctx context.Context, db Execer, query string, pairs ...interface{}) (pgconn.CommandTag, error) {
	args := pgx.NamedArgs{}
	if err := dbmap.AddPairs(namedArgsSink(args), pairs...); err != nil {
		return pgconn.CommandTag{}, err
	}
	return exec(ctx, db, query, args)
}

func exec(ctx context.Context, db Execer, query string, args pgx.NamedArgs) (pgconn.CommandTag, error) {
	tag, err := db.Exec(ctx, query, args)
	if err != nil {
		return tag, fmt.Errorf("pgxmap: exec: %w", err)
	}
	return tag, nil
}
