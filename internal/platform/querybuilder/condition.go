package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause, numbering its
// placeholders from argIndex onwards.
type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	writeArg(buf, args, argIndex, c.value)
}

// Any matches column against a postgres array argument, e.g. pq.Array(ids).
type anyCondition struct {
	column string
	array  any
}

func Any(column string, array any) Condition {
	return anyCondition{column: column, array: array}
}

func (c anyCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" = ANY(")
	writeArg(buf, args, argIndex, c.array)
	buf.WriteString(")")
}

type isNullCondition struct {
	column string
	negate bool
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func IsNotNull(column string) Condition {
	return isNullCondition{column: column, negate: true}
}

func (c isNullCondition) appendSQL(buf *strings.Builder, _ *[]any, _ *int) {
	buf.WriteString(c.column)
	if c.negate {
		buf.WriteString(" IS NOT NULL")
		return
	}
	buf.WriteString(" IS NULL")
}

// Expr embeds raw SQL where each '?' is replaced by the next argument.
type exprCondition struct {
	expr string
	args []any
}

func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

func appendWhere(buf *strings.Builder, conditions []Condition, args *[]any, argIndex *int) {
	for i, c := range conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		c.appendSQL(buf, args, argIndex)
	}
}

func writeArg(buf *strings.Builder, args *[]any, argIndex *int, value any) {
	buf.WriteString("$")
	buf.WriteString(strconv.Itoa(*argIndex))
	*args = append(*args, value)
	*argIndex++
}

func rewritePlaceholders(expr string, exprArgs []any, args *[]any, argIndex *int) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' || next >= len(exprArgs) {
			out.WriteByte(expr[i])
			continue
		}
		writeArg(&out, args, argIndex, exprArgs[next])
		next++
	}
	return out.String()
}
