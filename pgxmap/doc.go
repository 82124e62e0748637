// Package pgxmap maps pgx.Rows onto Go structs.
/*
pgxmap is a wrapper around the github.com/sqlext/sqlext/dbmap package.
It contains adapters and proxy functions that connect github.com/jackc/pgx/v5
with dbmap functionality. See dbmap docs to get familiar with the mapping rules.

pgx decodes every column into its native Go type, for example int4 into int32 and uuid into [16]byte,
and dbmap assigns values without converting them, so struct fields must use these types.

How to use

The most common way to use pgxmap is by calling Select or Get function,
it's as simple as this:

	type User struct {
		ID    string `db:"user_id"`
		Name  string
		Email string
		Age   int32
	}

	db, _ := pgxpool.New(ctx, "example-connection-url")

	// Use Select to query multiple records.
	users, err := pgxmap.Select[*User](ctx, db, `SELECT user_id, name, email, age FROM users`)
	if err != nil {
		// Handle query or rows processing error.
	}
	// users variable now contains data from all rows.

	// Use Get to query exactly one record.
	user, err := pgxmap.Get[User](ctx, db, `SELECT user_id, name, email, age FROM users WHERE id='bob'`)
	if err != nil {
		// Handle query or rows processing error.
	}
	// user variable now contains data from the single row.

Use NamedArgs to pass the members of a struct as named arguments:

	args, err := pgxmap.NamedArgs(user)
	_, err = db.Exec(ctx, `UPDATE users SET name = @Name WHERE user_id = @user_id`, args)

Exec and ExecPairs do the same in one call, and InTx runs them in a transaction:

	err = pgxmap.InTx(ctx, db, func(tx pgx.Tx) error {
		if _, err := pgxmap.Exec(ctx, tx, `UPDATE users SET name = @Name WHERE user_id = @user_id`, user); err != nil {
			return err
		}
		_, err := pgxmap.ExecPairs(ctx, tx, `DELETE FROM sessions WHERE user_id = @id`, "id", user.ID)
		return err
	})
*/
package pgxmap
