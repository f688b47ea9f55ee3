// Package querybuilder composes parameterised SQL statements.
package querybuilder

// Condition is one WHERE fragment; conditions are joined with AND
type Condition struct {
	clause string
	args   []interface{}
}
