// Package dbmap maps abstract database rows onto Go structs and projects structs into query parameters.
/*
dbmap works with the abstract Rows interface and doesn't depend on any specific database or a library.
If a type implements Rows it can leverage the full functionality of this package.

Mapping struct fields to database columns

Columns and struct members are matched by their name key, see NameKey:
only letters and digits count and the case is ignored.
Columns "office_code", "OfficeCode" and "officecode" all map to the OfficeCode field.

	type Office struct {
		OfficeCode string
		City       string
		Phone      *string `db:"phone_number"`
		Internal   string  `db:"-"`
	}

	// Query rows from the database that implement dbmap.Rows interface.
	var rows dbmap.Rows

	offices, err := dbmap.MapAll[Office](rows)
	// offices now contains one Office per row.

The `db` field tag replaces the member name, `db:"-"` excludes the field.
Fields of embedded structs are promoted, embedded struct pointers are allocated when one of their fields is set.
When two members share a name key the one that comes last in field order wins,
WithStrictNames turns this into an error instead.

Columns without a matching member are skipped, and so are NULL values, the field keeps its zero value.
Values are not converted: a value that isn't assignable to its field fails with a *TypeMismatchError.
The only exception is a value of type V that is stored into a *V field.
Use the typeconv package to convert values beforehand when the driver types differ from the struct types.

Caching

All reflection work is done once and cached in the API object:
the members of each struct type, the setter table of each struct type and column list,
and the parameter projection of each struct type.
Concurrent first uses of the same key build it once.

Parameters

AddParams adds the members of a struct as named parameters to a ParamSink:

	params := dbmap.ParamMap{}
	err := dbmap.AddParams(params, office)
	// params is {"OfficeCode": ..., "City": ..., "phone_number": ...}
*/
package dbmap
