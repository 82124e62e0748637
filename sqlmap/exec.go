package sqlmap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sqlext/sqlext/dbmap"
)

// TxBeginner is something that sqlmap can start a transaction on.
// For example, it can be: *sql.DB or *sql.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Execer is something that sqlmap can execute statements on.
// For example, it can be: *sql.DB, *sql.Conn or *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var (
	_ TxBeginner = &sql.DB{}
	_ TxBeginner = &sql.Conn{}
	_ Execer     = &sql.DB{}
	_ Execer     = &sql.Conn{}
	_ Execer     = &sql.Tx{}
)

// InTx runs fn in a transaction started on db with the driver's default options.
// The transaction is committed if fn returns nil and rolled back if it returns an error or panics.
// The error of fn is returned, joined with the rollback error if there is one.
func InTx(ctx context.Context, db TxBeginner, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlmap: begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("sqlmap: rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlmap: commit: %w", err)
	}
	return nil
}

// Exec is a package-level helper function that uses the DefaultAPI object.
// See API.Exec for details.
func Exec(ctx context.Context, db Execer, query string, src interface{}) (sql.Result, error) {
	return DefaultAPI.Exec(ctx, db, query, src)
}

// ExecPairs is a package-level helper function that uses the DefaultAPI object.
// See API.ExecPairs for details.
func ExecPairs(ctx context.Context, db Execer, query string, pairs ...interface{}) (sql.Result, error) {
	return DefaultAPI.ExecPairs(ctx, db, query, pairs...)
}

// Exec executes query with the members of src as sql.NamedArg values, see API.Args.
func (api *API) Exec(ctx context.Context, db Execer, query string, src interface{}) (sql.Result, error) {
	args, err := api.Args(src)
	if err != nil {
		return nil, fmt.Errorf("sqlmap: named arguments: %w", err)
	}
	return exec(ctx, db, query, args)
}

// ExecPairs executes query with sql.NamedArg values given as alternating names and values,
// for example ExecPairs(ctx, db, `DELETE FROM users WHERE id = @id`, "id", 7).
func (api *API) ExecPairs(ctx context.Context, db Execer, query string, pairs ...interface{}) (sql.Result, error) {
	sink := &namedArgsSink{}
	if err := dbmap.AddPairs(sink, pairs...); err != nil {
		return nil, err
	}
	return exec(ctx, db, query, sink.args)
}

func exec(ctx context.Context, db Execer, query string, args []interface{}) (sql.Result, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlmap: exec: %w", err)
	}
	return res, nil
}
