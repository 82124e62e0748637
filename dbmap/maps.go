package dbmap

import (
	"fmt"
	"reflect"
)

var stringType = reflect.TypeOf("")

// MapValues is a package-level helper function that uses the DefaultAPI object.
// See API.MapValues for details.
func MapValues(rows Rows) ([]map[string]interface{}, error) {
	return DefaultAPI.MapValues(rows)
}

// MapStrings is a package-level helper function that uses the DefaultAPI object.
// See API.MapStrings for details.
func MapStrings(rows Rows) ([]map[string]string, error) {
	return DefaultAPI.MapStrings(rows)
}

// MapValues reads every row into a map from column name to the native value, nil for NULL.
// It closes the rows.
func (api *API) MapValues(rows Rows) ([]map[string]interface{}, error) {
	results := make([]map[string]interface{}, 0)
	err := eachRow(rows, func(columns []string, values []interface{}) error {
		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MapStrings reads every row into a map from column name to the text form of the value.
// NULL columns are left out of the row's map.
// Values are rendered with the API's conversion graph. It closes the rows.
func (api *API) MapStrings(rows Rows) ([]map[string]string, error) {
	results := make([]map[string]string, 0)
	err := eachRow(rows, func(columns []string, values []interface{}) error {
		row := make(map[string]string, len(columns))
		for i, column := range columns {
			if values[i] == nil {
				continue
			}
			text, err := api.converter.Convert(reflect.TypeOf(values[i]), stringType, values[i])
			if err != nil {
				return fmt.Errorf("dbmap: column '%s': %w", column, err)
			}
			row[column] = text.(string)
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func eachRow(rows Rows, fn func(columns []string, values []interface{}) error) error {
	defer rows.Close() //nolint: errcheck
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("dbmap: get rows columns: %w", err)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("dbmap: get row values: %w", err)
		}
		if len(values) != len(columns) {
			return fmt.Errorf("dbmap: row has %d values, expected %d columns", len(values), len(columns))
		}
		if err := fn(columns, values); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("dbmap: rows final error: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("dbmap: close rows after processing: %w", err)
	}
	return nil
}
