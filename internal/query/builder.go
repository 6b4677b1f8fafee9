// Package query builds parameterized SQL for the all_data lookups.
//
// Filter values never appear in the SQL text; every value is bound to a
// positional $n placeholder. Column identifiers are supplied by the
// repository layer from compile-time constants, never from caller input.
package query

import (
	"fmt"
	"strings"
)

// Column names of the location hierarchy and report fields on all_data.
const (
	ColNode              = "NAME_OF_NODE"
	ColSector            = "SECTOR_NO_"
	ColBlock             = "BLOCK_ROAD_NAME"
	ColPlot              = "PLOT_NO_"
	ColPlotUseForInvoice = "PLOT_USE_FOR_INVOICE"
	ColDepartmentRemark  = "Department_Remark"
)

// Builder accumulates a SQL statement and its positional arguments.
type Builder struct {
	sql  strings.Builder
	args []any
}

// New starts a builder from a base statement. The base should end at a
// point where " AND ..." clauses can legally be appended (the repositories
// use "... WHERE 1=1" or a fixed first predicate).
func New(base string) *Builder {
	b := &Builder{}
	b.sql.WriteString(base)
	return b
}

// Where appends an equality predicate on column, binding value as the next
// positional parameter. Empty values add nothing: an omitted optional
// filter must not constrain the query.
func (b *Builder) Where(column, value string) *Builder {
	if value == "" {
		return b
	}
	b.args = append(b.args, value)
	fmt.Fprintf(&b.sql, ` AND %q = $%d`, column, len(b.args))
	return b
}

// Bind appends a raw clause containing a single $n placeholder (written as
// %d) for the given value. Used for predicates that are not plain equality,
// such as the primary-key lookup.
func (b *Builder) Bind(clause string, value any) *Builder {
	b.args = append(b.args, value)
	fmt.Fprintf(&b.sql, clause, len(b.args))
	return b
}

// Append adds a fixed trailing clause such as GROUP BY or ORDER BY.
func (b *Builder) Append(clause string) *Builder {
	b.sql.WriteString(clause)
	return b
}

// SQL returns the accumulated statement text.
func (b *Builder) SQL() string {
	return b.sql.String()
}

// Args returns the positional parameters in binding order.
func (b *Builder) Args() []any {
	return b.args
}

// Distinct starts a builder selecting the distinct non-empty values of
// column. Callers append optional Where filters and finish with OrderBy
// for a stable, sorted dropdown list.
func Distinct(table, column string) *Builder {
	return New(fmt.Sprintf(
		`SELECT DISTINCT %q FROM %s WHERE %q IS NOT NULL AND %q <> ''`,
		column, table, column, column,
	))
}

// OrderBy appends an ascending ORDER BY on column.
func (b *Builder) OrderBy(column string) *Builder {
	fmt.Fprintf(&b.sql, ` ORDER BY %q`, column)
	return b
}
