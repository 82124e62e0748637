// Package sqlmap maps *sql.Rows from the database/sql package onto Go structs.
/*
sqlmap is a wrapper around the github.com/sqlext/sqlext/dbmap package.
It contains adapters and proxy functions that connect database/sql with dbmap functionality.
See dbmap docs to get familiar with the mapping rules.

Each column is read as the driver value, for example int64, float64, bool, []byte, string or time.Time,
so struct fields must use these types.

How to use

	type User struct {
		ID    string `db:"user_id"`
		Name  string
		Email string
		Age   int64
	}

	db, _ := sql.Open("pgx", "example-connection-url")

	users, err := sqlmap.Select[*User](ctx, db, `SELECT user_id, name, email, age FROM users`)
	user, err := sqlmap.Get[User](ctx, db, `SELECT user_id, name, email, age FROM users WHERE id='bob'`)

Use Args to pass the members of a struct as sql.NamedArg values,
for drivers that support named parameters:

	args, err := sqlmap.Args(user)
	_, err = db.ExecContext(ctx, `UPDATE users SET name = @Name WHERE user_id = @user_id`, args...)

InTx commits when the function returns nil and rolls back otherwise:

	err = sqlmap.InTx(ctx, db, func(tx *sql.Tx) error {
		_, err := sqlmap.ExecPairs(ctx, tx, `DELETE FROM sessions WHERE user_id = @id`, "id", user.ID)
		return err
	})
*/
package sqlmap
