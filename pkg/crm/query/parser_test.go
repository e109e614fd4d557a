package query

import (
	"testing"

	"github.com/priceflex/intercept/pkg/domain"
)

func TestParseSelectFrom(t *testing.T) {
	q, err := Parse("SELECT Id, Name FROM Account")
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Fields) != 2 || q.Fields[0] != "Id" || q.Fields[1] != "Name" {
		t.Errorf("Fields = %v", q.Fields)
	}
	if q.Object != "Account" {
		t.Errorf("Object = %q", q.Object)
	}
	if q.Where != nil {
		t.Error("Where should be nil without a WHERE clause")
	}
}

func TestParseWhereCondition(t *testing.T) {
	q, err := Parse("SELECT Id FROM Account WHERE AnnualRevenue >= 1000000")
	if err != nil {
		t.Fatal(err)
	}
	w := q.Where
	if w == nil || !w.IsCondition() {
		t.Fatalf("Where = %+v, want a single condition", w)
	}
	if w.Field != "AnnualRevenue" || w.Op != OpGe || w.Value.Raw != "1000000" || w.Value.Kind != ValueNumber {
		t.Errorf("condition = %+v", w)
	}
}

func TestParsePrecedenceAndBindsTighter(t *testing.T) {
	// a = 1 OR b = 2 AND c = 3  must parse as  a = 1 OR (b = 2 AND c = 3)
	q, err := Parse("SELECT x FROM o WHERE a = 1 OR b = 2 AND c = 3")
	if err != nil {
		t.Fatal(err)
	}
	w := q.Where
	if w.Bool != BoolOr {
		t.Fatalf("top operator = %q, want OR", w.Bool)
	}
	if !w.Left.IsCondition() || w.Left.Field != "a" {
		t.Errorf("left = %+v, want condition on a", w.Left)
	}
	if w.Right.Bool != BoolAnd {
		t.Errorf("right operator = %q, want AND", w.Right.Bool)
	}
}

func TestParseValueKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind ValueKind
		raw  string
	}{
		{`SELECT a FROM o WHERE a = 'single'`, ValueString, "single"},
		{`SELECT a FROM o WHERE a = "double"`, ValueString, "double"},
		{`SELECT a FROM o WHERE a = 42`, ValueNumber, "42"},
		{`SELECT a FROM o WHERE a = -3.5`, ValueNumber, "-3.5"},
		{`SELECT a FROM o WHERE a = true`, ValueBool, "true"},
		{`SELECT a FROM o WHERE a = FALSE`, ValueBool, "false"},
	}
	for _, tt := range tests {
		q, err := Parse(tt.src)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.src, err)
			continue
		}
		v := q.Where.Value
		if v.Kind != tt.kind || v.Raw != tt.raw {
			t.Errorf("Parse(%q) value = %+v, want kind %v raw %q", tt.src, v, tt.kind, tt.raw)
		}
	}
}

func TestParseKeywordsCaseInsensitive(t *testing.T) {
	q, err := Parse("select Id from Account where Name = 'ACME' and Active = true")
	if err != nil {
		t.Fatal(err)
	}
	if q.Where.Bool != BoolAnd {
		t.Errorf("lowercase and not recognized: %+v", q.Where)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	bad := []string{
		"",
		"FROM Account",
		"SELECT FROM Account",
		"SELECT Id Account",
		"SELECT Id FROM",
		"SELECT Id FROM Account WHERE",
		"SELECT Id FROM Account WHERE Name",
		"SELECT Id FROM Account WHERE Name ~ 'x'",
		"SELECT Id FROM Account WHERE Name = 'unterminated",
		"SELECT Id FROM Account WHERE Name = bareword",
		"SELECT Id FROM Account WHERE a = 1 extra",
		"SELECT Id FROM Account WHERE a = 1.2.3",
		"DELETE FROM Account",
	}
	for _, src := range bad {
		_, err := Parse(src)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want syntax error", src)
			continue
		}
		if !domain.IsKind(err, domain.KindQuerySyntax) {
			t.Errorf("Parse(%q) error kind = %v, want query_syntax", src, domain.KindOf(err))
		}
	}
}

func TestOperatorsCollection(t *testing.T) {
	q, err := Parse("SELECT a FROM o WHERE a = 1 AND b != 2 OR c <= 3 AND a = 4")
	if err != nil {
		t.Fatal(err)
	}
	ops := q.Operators()
	want := []Operator{OpNe, OpLe, OpEq}
	if len(ops) != len(want) {
		t.Fatalf("Operators() = %v", ops)
	}
	seen := map[Operator]bool{}
	for _, op := range ops {
		seen[op] = true
	}
	for _, op := range want {
		if !seen[op] {
			t.Errorf("Operators() missing %q", op)
		}
	}
}
