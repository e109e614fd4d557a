// Package query implements the restricted query grammar handlers pass to
// FindByQuery, plus the per-backend renderings of a parsed query.
//
// Supported grammar:
//
//	<query>  ::= "SELECT" <fields> "FROM" <ident> [ "WHERE" <or> ]
//	<fields> ::= <ident> ( "," <ident> )*
//	<or>     ::= <and> ( "OR" <and> )*
//	<and>    ::= <cond> ( "AND" <cond> )*
//	<cond>   ::= <ident> <op> <value>
//	<op>     ::= "=" | "!=" | "<" | ">" | "<=" | ">="
//	<value>  ::= single-quoted | double-quoted | number | true | false
//	<ident>  ::= alphanumeric + _ + .
//
// Keywords are case-insensitive. AND binds tighter than OR; there is no
// grouping construct. Anything outside this grammar is rejected up front
// with a KindQuerySyntax error, before any backend sees the query.
package query

import "sort"

// Operator is a comparison operator of the grammar. Which operators a
// backend accepts is the backend's decision, not the parser's.
type Operator string

const (
	OpEq Operator = "="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpGt Operator = ">"
	OpLe Operator = "<="
	OpGe Operator = ">="
)

// ValueKind tags the literal type of a comparison value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
)

// Value is a comparison literal. Raw holds the text as written (unquoted);
// renderers decide per dialect how to quote or pass it through.
type Value struct {
	Raw  string
	Kind ValueKind
}

// BoolOp combines two expressions.
type BoolOp string

const (
	BoolAnd BoolOp = "AND"
	BoolOr  BoolOp = "OR"
)

// Expr is one node of a WHERE clause: a comparison (Field, Op, Value set) or
// a boolean combination (Bool, Left, Right set). IsCondition tells the two
// apart.
type Expr struct {
	Field string
	Op    Operator
	Value Value

	Bool  BoolOp
	Left  *Expr
	Right *Expr
}

// IsCondition reports whether e is a leaf comparison.
func (e *Expr) IsCondition() bool { return e.Bool == "" }

// Query is a parsed query.
type Query struct {
	Fields []string
	Object string
	Where  *Expr // nil when the WHERE clause is absent
}

// Operators returns the set of comparison operators the query uses, sorted.
// Backends validate this set against their whitelist before translating.
func (q *Query) Operators() []Operator {
	set := make(map[Operator]struct{})
	collectOps(q.Where, set)
	ops := make([]Operator, 0, len(set))
	for op := range set {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

func collectOps(e *Expr, set map[Operator]struct{}) {
	if e == nil {
		return
	}
	if e.IsCondition() {
		set[e.Op] = struct{}{}
		return
	}
	collectOps(e.Left, set)
	collectOps(e.Right, set)
}
