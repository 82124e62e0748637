package dbmap_test

import (
	"github.com/sqlext/sqlext/dbmap"
)

func ExampleMapAll() {
	type User struct {
		ID    string `db:"user_id"`
		Name  string
		Email string
		Age   int
	}

	// Query rows from the database that implement Rows interface.
	var rows dbmap.Rows

	users, err := dbmap.MapAll[*User](rows)
	if err != nil {
		// Handle rows processing error
	}
	// users variable now contains data from all rows.
	_ = users
}

func ExampleMapOne() {
	type User struct {
		ID    string `db:"user_id"`
		Name  string
		Email string
		Age   int
	}

	// Query rows from the database that implement Rows interface.
	var rows dbmap.Rows

	user, found, err := dbmap.MapOne[User](rows)
	if err != nil {
		// Handle rows processing error.
	}
	if !found {
		// Handle no rows.
	}
	// user variable now contains data from the single row.
	_ = user
}

func ExampleRowMapper() {
	type User struct {
		ID    string `db:"user_id"`
		Name  string
		Email string
		Age   int
	}

	// Query rows from the database that implement Rows interface.
	var rows dbmap.Rows

	// Make sure rows are always closed.
	defer rows.Close()
	rm := dbmap.NewRowMapper(rows)
	for rows.Next() {
		var user User
		if err := rm.Map(&user); err != nil {
			// Handle row mapping error.
		}
		// user variable now contains data from the current row.
	}
	if err := rows.Err(); err != nil {
		// Handle rows final error.
	}
	if err := rows.Close(); err != nil {
		// Handle rows closing error.
	}
}

func ExampleAddParams() {
	type User struct {
		ID   string `db:"user_id"`
		Name string
	}

	params := dbmap.ParamMap{}
	if err := dbmap.AddParams(params, User{ID: "1", Name: "alice"}); err != nil {
		// Handle invalid parameter source.
	}
	// params is {"user_id": "1", "Name": "alice"}.
}
