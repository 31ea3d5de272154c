package surface

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// parser turns a lexed rule-surface program into ast.Rule values, interning
// relation names and bare-identifier constants through in.
type parser struct {
	in   intern.Interner
	toks []token
	pos  int
}

func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var out []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if t.kind == tokEOF {
			return out, nil
		}
	}
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != k {
		return token{}, fmt.Errorf("surface: expected %s, got %s", what, t)
	}
	return p.advance(), nil
}

// ParseProgram parses a sequence of '.'-terminated rules (spec §6's rule
// textual surface). Both `Head(...) :- B1, ..., Bk.` and the reversed
// `[B1, ..., Bk] -> Head(...).` form are accepted per rule; whitespace
// (including newlines) is insignificant.
func ParseProgram(in intern.Interner, src string) ([]ast.Rule, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{in: in, toks: toks}

	var out []ast.Rule
	for p.peek().kind != tokEOF {
		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ParseRule parses a single rule (with or without a trailing '.').
func ParseRule(in intern.Interner, src string) (ast.Rule, error) {
	toks, err := tokenize(src)
	if err != nil {
		return ast.Rule{}, err
	}
	p := &parser{in: in, toks: toks}
	return p.parseRule()
}

func (p *parser) parseRule() (ast.Rule, error) {
	vars := make(map[string]ast.VarID)
	var next ast.VarID

	var head ast.Atom
	var body []ast.Atom
	var err error

	if p.peek().kind == tokLBracket {
		// Reversed form: [B1, ..., Bk] -> Head(...)
		p.advance()
		if p.peek().kind != tokRBracket {
			for {
				var a ast.Atom
				a, err = p.parseAtom(vars, &next)
				if err != nil {
					return ast.Rule{}, err
				}
				body = append(body, a)
				if p.peek().kind != tokComma {
					break
				}
				p.advance()
			}
		}
		if _, err = p.expect(tokRBracket, "']'"); err != nil {
			return ast.Rule{}, err
		}
		if _, err = p.expect(tokArrowRev, "'->'"); err != nil {
			return ast.Rule{}, err
		}
		head, err = p.parseAtom(vars, &next)
		if err != nil {
			return ast.Rule{}, err
		}
	} else {
		head, err = p.parseAtom(vars, &next)
		if err != nil {
			return ast.Rule{}, err
		}
		if p.peek().kind == tokArrowFwd {
			p.advance()
			for {
				var a ast.Atom
				a, err = p.parseAtom(vars, &next)
				if err != nil {
					return ast.Rule{}, err
				}
				body = append(body, a)
				if p.peek().kind != tokComma {
					break
				}
				p.advance()
			}
		}
	}

	if p.peek().kind == tokDot {
		p.advance()
	}
	return ast.NewRule(head, body...), nil
}

func (p *parser) parseAtom(vars map[string]ast.VarID, next *ast.VarID) (ast.Atom, error) {
	negated := false
	if p.peek().kind == tokBang {
		p.advance()
		negated = true
	}
	name, err := p.expect(tokIdent, "relation name")
	if err != nil {
		return ast.Atom{}, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return ast.Atom{}, err
	}

	var terms []ast.Term
	if p.peek().kind != tokRParen {
		for {
			t, err := p.parseTerm(vars, next)
			if err != nil {
				return ast.Atom{}, err
			}
			terms = append(terms, t)
			if p.peek().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return ast.Atom{}, err
	}

	atom := ast.NewAtom(p.in.Intern(name.text), terms...)
	if negated {
		atom = atom.Negated()
	}
	return atom, nil
}

func (p *parser) parseTerm(vars map[string]ast.VarID, next *ast.VarID) (ast.Term, error) {
	t := p.advance()
	switch t.kind {
	case tokVar:
		id, ok := vars[t.text]
		if !ok {
			id = *next
			*next++
			vars[t.text] = id
		}
		return ast.Var(id), nil
	case tokString:
		return ast.Const(value.String(t.text)), nil
	case tokUint:
		u, err := strconv.ParseUint(t.text, 10, 32)
		if err != nil {
			return ast.Term{}, fmt.Errorf("surface: invalid unsigned integer %q: %w", t.text, err)
		}
		return ast.Const(value.Uint(uint32(u))), nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return ast.Term{}, fmt.Errorf("surface: invalid float %q: %w", t.text, err)
		}
		return ast.Const(value.Float(f)), nil
	case tokBool:
		return ast.Const(value.Bool(t.text == "true")), nil
	case tokIdent:
		// Bare identifier: an interned-symbol constant (spec §6's
		// "constants as bare identifiers"), e.g. rdf:type, rdfs:domain.
		return ast.Const(value.FromSymbol(p.in.Intern(t.text))), nil
	default:
		return ast.Term{}, fmt.Errorf("surface: expected term, got %s", t)
	}
}

// FormatRule renders r back to the forward `Head(...) :- B1, ..., Bk.`
// surface, resolving relation symbols through names. Variables render as
// their numeric var_id (e.g. "?0"), not their original source name, since
// the AST does not retain it past parsing. Constants render through
// value.Value.String, so a symbol constant comes out as its numeric handle
// (e.g. "$3"), which ParseRule does not accept; only rules whose constants
// are strings, unsigned integers or booleans re-parse to an equivalent rule.
func FormatRule(r ast.Rule, names func(value.Symbol) string) string {
	var b strings.Builder
	b.WriteString(r.String(names))
	b.WriteByte('.')
	return b.String()
}
