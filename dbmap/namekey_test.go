package dbmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlext/sqlext/dbmap"
)

func TestNameKey(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in       string
		expected string
	}{
		{in: "OfficeCode", expected: "officecode"},
		{in: "officecode", expected: "officecode"},
		{in: "Office_Code", expected: "officecode"},
		{in: "office code", expected: "officecode"},
		{in: "addressLine1", expected: "addressline1"},
		{in: "ÜberName", expected: "übername"},
		{in: "__", expected: ""},
		{in: "", expected: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, dbmap.NameKey(tc.in))
		})
	}
}
