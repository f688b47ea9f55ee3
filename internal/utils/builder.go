package querybuilder

import (
	"fmt"
	"sort"
	"strings"
)

// UpdateData maps column names to new values
type UpdateData map[string]interface{}

// QueryBuilder assembles SQL with "?" placeholders; callers rebind them for their driver
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Into(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	DoNothing() QueryBuilder

	Update(table string, data UpdateData) QueryBuilder

	// Build returns an empty query when the builder state is inconsistent
	Build() (string, []interface{})
}

type queryBuilder struct {
	schema     string
	table      string
	cols       []string
	conditions []Condition
	values     [][]interface{}
	updateData UpdateData
	orderBy    []string
	onConflict []string
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{
		schema: schema,
	}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	return q
}

// Values appends one row; call it once per row for multi-row inserts
func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

// DoNothing is the only conflict action; OnConflict without it behaves the same
func (q *queryBuilder) DoNothing() QueryBuilder {
	return q
}

func (q *queryBuilder) Update(table string, data UpdateData) QueryBuilder {
	q.table = table
	q.updateData = data
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{
		clause: clause,
		args:   args,
	})
	return q
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	direction := "ASC"
	if !asc {
		direction = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, direction))
	return q
}

func buildCondition(conditions []Condition) (string, []interface{}) {
	parts := make([]string, 0, len(conditions))
	args := make([]interface{}, 0)

	for _, cond := range conditions {
		parts = append(parts, cond.clause)
		args = append(args, cond.args...)
	}

	return strings.Join(parts, " AND "), args
}

func (q *queryBuilder) Build() (string, []interface{}) {
	switch {
	case q.table == "":
		return "", nil
	case len(q.values) > 0:
		return q.buildInsert()
	case len(q.updateData) > 0:
		return q.buildUpdate()
	case len(q.cols) > 0:
		return q.buildSelect()
	}
	return "", nil
}

func (q *queryBuilder) qualified() string {
	if q.schema == "" {
		return q.table
	}
	return q.schema + "." + q.table
}

func (q *queryBuilder) appendTail(query string, args []interface{}) (string, []interface{}) {
	if len(q.conditions) > 0 {
		condition, condArgs := buildCondition(q.conditions)
		query += " WHERE " + condition
		args = append(args, condArgs...)
	}
	if len(q.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(q.orderBy, ", ")
	}
	return query, args
}

func (q *queryBuilder) buildSelect() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(q.cols, ", "), q.qualified())
	return q.appendTail(query, make([]interface{}, 0))
}

func (q *queryBuilder) buildInsert() (string, []interface{}) {
	numOfParam := len(q.cols)
	if numOfParam == 0 {
		return "", nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", numOfParam), ", ")
	tuples := make([]string, len(q.values))
	args := make([]interface{}, 0, numOfParam*len(q.values))
	for i, row := range q.values {
		if len(row) != numOfParam {
			return "", nil
		}
		tuples[i] = "(" + placeholders + ")"
		args = append(args, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		q.qualified(), strings.Join(q.cols, ", "), strings.Join(tuples, ", "))

	if len(q.onConflict) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(q.onConflict, ", "))
	}
	return query, args
}

// buildUpdate orders SET columns by name so identical input yields identical SQL
func (q *queryBuilder) buildUpdate() (string, []interface{}) {
	cols := make([]string, 0, len(q.updateData))
	for col := range q.updateData {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClause := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols))
	for i, col := range cols {
		setClause[i] = col + " = ?"
		args = append(args, q.updateData[col])
	}

	query := fmt.Sprintf("UPDATE %s SET %s", q.qualified(), strings.Join(setClause, ", "))
	return q.appendTail(query, args)
}
