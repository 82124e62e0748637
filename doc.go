// Package sqlext is a set of packages for mapping database rows onto Go structs and converting values between types.
/*
sqlext isn't limited to any specific database. It integrates with database/sql,
so any database with database/sql driver is supported.
It also works with https://github.com/jackc/pgx native interface.

sqlext contains the following packages:

dbmap package works with an abstract database and can be integrated with any library that has a concept of rows.
It maps rows onto structs by canonical column names and projects structs into named query parameters.

typeconv package converts values between arbitrary types, synthesizing and caching converters on first use.

sqlmap package works with database/sql standard library.

pgxmap package works with github.com/jackc/pgx library native interface.

Both sqlmap and pgxmap use dbmap internally.
*/
package sqlext
