package pgbridge

import (
	"fmt"
	"strings"

	"github.com/databridge/pgbridge/internal/sqlbuild"
)

// Operator is a WHERE-clause comparison operator.
type Operator uint8

// Comparison operators supported in filter conditions.
const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNotIn
	OpLike
	OpILike
	OpIsNull
	OpIsNotNull
)

// SQL returns the operator's SQL text.
func (op Operator) SQL() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpLike:
		return "LIKE"
	case OpILike:
		return "ILIKE"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	}
	return ""
}

// OrderDirection is a sort direction for ORDER BY clauses.
type OrderDirection uint8

// Sort directions.
const (
	Asc OrderDirection = iota
	Desc
)

// SQL returns the direction's SQL text.
func (d OrderDirection) SQL() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ColumnValue pairs a column name with a Value. Insert and update
// paths take ordered ColumnValue slices so column order in the
// generated SQL matches caller order exactly.
type ColumnValue struct {
	Name  string
	Value Value
}

// cond is one WHERE condition. hasValue is false only for the
// IS NULL / IS NOT NULL operators, which never take a parameter no
// matter what the caller supplied.
type cond struct {
	field    string
	op       Operator
	value    Value
	hasValue bool
}

// orderClause is one ORDER BY term.
type orderClause struct {
	field string
	dir   OrderDirection
}

// QueryBuilder assembles parameterized SQL for one table. Identifiers
// are validated as they enter the builder, so a successfully
// configured builder can only render injection-safe text.
//
// Configuration is fluent and fail-fast: each method validates its
// inputs and returns the updated builder. Conditions, order clauses,
// and columns always render in the order they were added; the builder
// never reorders or deduplicates. Placeholder numbers are assigned in
// a single left-to-right pass per Build call, so identical inputs
// produce byte-identical SQL and parameter order.
//
// Builders are single-use, owned by the calling operation, and not
// safe for concurrent mutation. Build calls do not mutate state.
type QueryBuilder struct {
	table      string
	selectCols []string
	conds      []cond
	orderBy    []orderClause
	limit      *int64
	offset     *int64
}

// NewQueryBuilder creates a builder for a table. The table name may
// be schema-qualified ("public.users") and is validated immediately.
func NewQueryBuilder(table string) (*QueryBuilder, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	return &QueryBuilder{table: table}, nil
}

// Table returns the validated target table name.
func (qb *QueryBuilder) Table() string { return qb.table }

// Select sets the columns to select. An empty column list (the
// default) selects all columns.
func (qb *QueryBuilder) Select(columns ...string) (*QueryBuilder, error) {
	for _, col := range columns {
		if err := ValidateIdentifier(col); err != nil {
			return nil, err
		}
	}
	qb.selectCols = columns
	return qb, nil
}

// Where adds a filter condition. Conditions join with AND in the
// order added. For OpIsNull and OpIsNotNull the value is ignored and
// no parameter is bound. For OpIn and OpNotIn the value should be an
// Array; the whole list binds as a single parameter.
func (qb *QueryBuilder) Where(field string, op Operator, value Value) (*QueryBuilder, error) {
	if err := ValidateIdentifier(field); err != nil {
		return nil, err
	}
	c := cond{field: field, op: op}
	if op != OpIsNull && op != OpIsNotNull {
		c.value = value
		c.hasValue = true
	}
	qb.conds = append(qb.conds, c)
	return qb, nil
}

// WhereNull adds a "field IS NULL" condition.
func (qb *QueryBuilder) WhereNull(field string) (*QueryBuilder, error) {
	return qb.Where(field, OpIsNull, Null())
}

// WhereNotNull adds a "field IS NOT NULL" condition.
func (qb *QueryBuilder) WhereNotNull(field string) (*QueryBuilder, error) {
	return qb.Where(field, OpIsNotNull, Null())
}

// OrderBy adds an ORDER BY term. Terms render comma-separated in the
// order added.
func (qb *QueryBuilder) OrderBy(field string, dir OrderDirection) (*QueryBuilder, error) {
	if err := ValidateIdentifier(field); err != nil {
		return nil, err
	}
	qb.orderBy = append(qb.orderBy, orderClause{field: field, dir: dir})
	return qb, nil
}

// Limit sets the LIMIT. It binds as a parameter, not inline text.
func (qb *QueryBuilder) Limit(n int64) *QueryBuilder {
	qb.limit = &n
	return qb
}

// Offset sets the OFFSET. It binds as a parameter, not inline text.
func (qb *QueryBuilder) Offset(n int64) *QueryBuilder {
	qb.offset = &n
	return qb
}

// renderWhere appends the WHERE clause (if any conditions exist) to
// sb, growing params with one entry per parameterized condition.
// Placeholder numbers continue from len(*params).
func (qb *QueryBuilder) renderWhere(sb *strings.Builder, params *[]Value) {
	if len(qb.conds) == 0 {
		return
	}
	sb.WriteString(" WHERE ")
	parts := sqlbuild.NewJoiner(" AND ")
	for _, c := range qb.conds {
		switch {
		case c.op == OpIsNull || c.op == OpIsNotNull:
			parts.Add(c.field + " " + c.op.SQL())
		case c.op == OpIn || c.op == OpNotIn:
			*params = append(*params, c.value)
			parts.Add(c.field + " " + c.op.SQL() + " (" + sqlbuild.Placeholder(len(*params)) + ")")
		default:
			*params = append(*params, c.value)
			parts.Add(c.field + " " + c.op.SQL() + " " + sqlbuild.Placeholder(len(*params)))
		}
	}
	sb.WriteString(parts.String())
}

// BuildSelect renders the SELECT statement and its ordered parameter
// list. Clause order is SELECT, FROM, WHERE, ORDER BY, LIMIT, OFFSET;
// limit and offset each append one trailing parameter, limit first.
func (qb *QueryBuilder) BuildSelect() (string, []Value) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(qb.selectCols) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(qb.selectCols, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(qb.table)

	var params []Value
	qb.renderWhere(&sb, &params)

	if len(qb.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		parts := sqlbuild.NewJoiner(", ")
		for _, o := range qb.orderBy {
			parts.Add(o.field + " " + o.dir.SQL())
		}
		sb.WriteString(parts.String())
	}

	if qb.limit != nil {
		params = append(params, Int8(*qb.limit))
		sb.WriteString(" LIMIT " + sqlbuild.Placeholder(len(params)))
	}
	if qb.offset != nil {
		params = append(params, Int8(*qb.offset))
		sb.WriteString(" OFFSET " + sqlbuild.Placeholder(len(params)))
	}

	return sb.String(), params
}

// Build is a convenience alias for BuildSelect.
func (qb *QueryBuilder) Build() (string, []Value) {
	return qb.BuildSelect()
}

// BuildCount renders a SELECT COUNT(*) statement reusing the
// builder's structured conditions. ORDER BY, LIMIT, and OFFSET never
// apply to a count. The WHERE clause is rebuilt from the condition
// list rather than sliced out of rendered SELECT text, so parameter
// content can never corrupt the statement.
func (qb *QueryBuilder) BuildCount() (string, []Value) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(qb.table)

	var params []Value
	qb.renderWhere(&sb, &params)

	return sb.String(), params
}

// BuildInsert renders an INSERT statement for ordered column values.
// Columns render in caller order; parameters are the values in the
// same order. RETURNING * hands back the full inserted row including
// server-assigned columns. An empty value list is a validation error
// and no SQL is produced.
func (qb *QueryBuilder) BuildInsert(values []ColumnValue) (string, []Value, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("%w: insert requires at least one column", ErrEmptyValues)
	}
	for _, cv := range values {
		if err := ValidateIdentifier(cv.Name); err != nil {
			return "", nil, err
		}
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(qb.table)
	sb.WriteString(" (")

	cols := sqlbuild.NewJoiner(", ")
	holes := sqlbuild.NewJoiner(", ")
	params := make([]Value, 0, len(values))
	for i, cv := range values {
		cols.Add(cv.Name)
		holes.Add(sqlbuild.Placeholder(i + 1))
		params = append(params, cv.Value)
	}
	sb.WriteString(cols.String())
	sb.WriteString(") VALUES (")
	sb.WriteString(holes.String())
	sb.WriteString(") RETURNING *")

	return sb.String(), params, nil
}

// BuildUpdate renders an UPDATE statement. SET parameters number
// first in caller order, then the WHERE clause continues the
// numbering. An empty value list is a validation error.
func (qb *QueryBuilder) BuildUpdate(values []ColumnValue) (string, []Value, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("%w: update requires at least one column", ErrEmptyValues)
	}
	for _, cv := range values {
		if err := ValidateIdentifier(cv.Name); err != nil {
			return "", nil, err
		}
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(qb.table)
	sb.WriteString(" SET ")

	sets := sqlbuild.NewJoiner(", ")
	params := make([]Value, 0, len(values))
	for _, cv := range values {
		params = append(params, cv.Value)
		sets.Add(cv.Name + " = " + sqlbuild.Placeholder(len(params)))
	}
	sb.WriteString(sets.String())

	qb.renderWhere(&sb, &params)

	return sb.String(), params, nil
}

// BuildDelete renders a DELETE statement with the builder's WHERE
// clause, parameters numbered from 1.
func (qb *QueryBuilder) BuildDelete() (string, []Value) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(qb.table)

	var params []Value
	qb.renderWhere(&sb, &params)

	return sb.String(), params
}
