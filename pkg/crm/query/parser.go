package query

import (
	"strconv"
	"strings"

	"github.com/priceflex/intercept/pkg/domain"
)

// Parse parses a query string. Syntax violations return a KindQuerySyntax
// error naming the offending position.
func Parse(src string) (*Query, error) {
	p := &parser{input: strings.TrimSpace(src)}

	if !p.keyword("SELECT") {
		return nil, p.errf("expected SELECT")
	}
	fields, err := p.parseFields()
	if err != nil {
		return nil, err
	}
	if !p.keyword("FROM") {
		return nil, p.errf("expected FROM")
	}
	object := p.ident()
	if object == "" {
		return nil, p.errf("expected object name after FROM")
	}

	q := &Query{Fields: fields, Object: object}

	if p.keyword("WHERE") {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		q.Where = expr
	}

	p.skipWS()
	if p.pos < len(p.input) {
		return nil, p.errf("unexpected trailing input")
	}
	return q, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errf(format string, args ...any) error {
	return domain.Newf(domain.KindQuerySyntax, format+" at position %d in %q",
		append(args, p.pos, p.input)...)
}

func (p *parser) skipWS() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

// keyword consumes kw case-insensitively when it appears at the cursor as a
// whole word. The cursor is untouched otherwise.
func (p *parser) keyword(kw string) bool {
	save := p.pos
	p.skipWS()
	word := p.ident()
	if strings.EqualFold(word, kw) {
		return true
	}
	p.pos = save
	return false
}

func (p *parser) ident() string {
	p.skipWS()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '.' {
			p.pos++
		} else {
			break
		}
	}
	return p.input[start:p.pos]
}

func (p *parser) parseFields() ([]string, error) {
	var fields []string
	for {
		f := p.ident()
		if f == "" {
			return nil, p.errf("expected field name")
		}
		fields = append(fields, f)
		p.skipWS()
		if p.pos < len(p.input) && p.input[p.pos] == ',' {
			p.pos++
			continue
		}
		return fields, nil
	}
}

func (p *parser) parseOr() (*Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Expr{Bool: BoolOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (*Expr, error) {
	left, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	for p.keyword("AND") {
		right, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		left = &Expr{Bool: BoolAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseCondition() (*Expr, error) {
	field := p.ident()
	if field == "" {
		return nil, p.errf("expected field name in condition")
	}
	op, err := p.parseOperator()
	if err != nil {
		return nil, err
	}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Expr{Field: field, Op: op, Value: value}, nil
}

// operator candidates, longest first so "<=" wins over "<".
var operators = []Operator{OpLe, OpGe, OpNe, OpEq, OpLt, OpGt}

func (p *parser) parseOperator() (Operator, error) {
	p.skipWS()
	rest := p.input[p.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, string(op)) {
			p.pos += len(op)
			return op, nil
		}
	}
	return "", p.errf("expected comparison operator")
}

func (p *parser) parseValue() (Value, error) {
	p.skipWS()
	if p.pos >= len(p.input) {
		return Value{}, p.errf("expected value")
	}

	c := p.input[p.pos]
	if c == '\'' || c == '"' {
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != c {
			p.pos++
		}
		if p.pos >= len(p.input) {
			return Value{}, p.errf("unterminated string")
		}
		raw := p.input[start:p.pos]
		p.pos++ // closing quote
		return Value{Raw: raw, Kind: ValueString}, nil
	}

	if c == '-' || (c >= '0' && c <= '9') {
		start := p.pos
		p.pos++
		for p.pos < len(p.input) {
			c := p.input[p.pos]
			if (c >= '0' && c <= '9') || c == '.' {
				p.pos++
			} else {
				break
			}
		}
		raw := p.input[start:p.pos]
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return Value{}, p.errf("malformed number %q", raw)
		}
		return Value{Raw: raw, Kind: ValueNumber}, nil
	}

	word := p.ident()
	switch strings.ToLower(word) {
	case "true", "false":
		return Value{Raw: strings.ToLower(word), Kind: ValueBool}, nil
	}
	return Value{}, p.errf("expected quoted string, number or boolean")
}
