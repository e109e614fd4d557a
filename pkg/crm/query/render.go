package query

import (
	"strconv"
	"strings"
)

// SOQL renders the query as a Salesforce SOQL statement.
func SOQL(q *Query) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.Fields, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Object)
	if q.Where != nil {
		b.WriteString(" WHERE ")
		writeSOQLExpr(&b, q.Where)
	}
	return b.String()
}

func writeSOQLExpr(b *strings.Builder, e *Expr) {
	if e.IsCondition() {
		b.WriteString(e.Field)
		b.WriteByte(' ')
		b.WriteString(string(e.Op))
		b.WriteByte(' ')
		b.WriteString(soqlValue(e.Value))
		return
	}
	writeSOQLExpr(b, e.Left)
	b.WriteByte(' ')
	b.WriteString(string(e.Bool))
	b.WriteByte(' ')
	writeSOQLExpr(b, e.Right)
}

func soqlValue(v Value) string {
	if v.Kind == ValueString {
		escaped := strings.ReplaceAll(v.Raw, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "'", `\'`)
		return "'" + escaped + "'"
	}
	return v.Raw
}

// odataOps maps grammar operators onto OData filter operators.
var odataOps = map[Operator]string{
	OpEq: "eq",
	OpNe: "ne",
	OpLt: "lt",
	OpGt: "gt",
	OpLe: "le",
	OpGe: "ge",
}

// ODataFilter renders the WHERE clause as an OData $filter expression (C4C
// and Dynamics). Returns "" for queries without a WHERE clause.
func ODataFilter(e *Expr) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	writeODataExpr(&b, e)
	return b.String()
}

func writeODataExpr(b *strings.Builder, e *Expr) {
	if e.IsCondition() {
		b.WriteString(e.Field)
		b.WriteByte(' ')
		b.WriteString(odataOps[e.Op])
		b.WriteByte(' ')
		b.WriteString(odataValue(e.Value))
		return
	}
	writeODataExpr(b, e.Left)
	if e.Bool == BoolAnd {
		b.WriteString(" and ")
	} else {
		b.WriteString(" or ")
	}
	writeODataExpr(b, e.Right)
}

func odataValue(v Value) string {
	if v.Kind == ValueString {
		// OData escapes single quotes by doubling them.
		return "'" + strings.ReplaceAll(v.Raw, "'", "''") + "'"
	}
	return v.Raw
}

// SugarFilter renders the query as a SugarCRM v11 filter request body.
// Callers have already enforced the sugarCRM operator whitelist, so only
// equality conditions reach this renderer; AND/OR combinations map onto
// $and/$or groups.
func SugarFilter(q *Query) map[string]any {
	body := map[string]any{
		"fields": strings.Join(q.Fields, ","),
	}
	if q.Where != nil {
		body["filter"] = []any{sugarExpr(q.Where)}
	}
	return body
}

func sugarExpr(e *Expr) map[string]any {
	if e.IsCondition() {
		return map[string]any{
			e.Field: map[string]any{"$equals": sugarValue(e.Value)},
		}
	}
	group := "$and"
	if e.Bool == BoolOr {
		group = "$or"
	}
	return map[string]any{
		group: []any{sugarExpr(e.Left), sugarExpr(e.Right)},
	}
}

func sugarValue(v Value) any {
	switch v.Kind {
	case ValueNumber:
		// Keep integer literals integral when crossing into JSON.
		if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(v.Raw, 64)
		return f
	case ValueBool:
		return v.Raw == "true"
	default:
		return v.Raw
	}
}
