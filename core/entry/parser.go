package entry

import (
	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/token"
)

// Parser is the PFSM: a token-driven state machine that accumulates one
// Entry per call to ParseEntry. It keeps one token of lookahead (cur) in
// place of a true peek, which is what lets it disambiguate "a value"
// from "an attribute key" only after seeing the token that follows a
// literal.
type Parser struct {
	lex *token.Lexer
	cur token.Token

	entry Entry
}

// NewParser creates a Parser over lex, priming the first lookahead token.
func NewParser(lex *token.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.cur = lex.Next()
	return p
}

// Cur returns the token the parser is currently positioned at.
func (p *Parser) Cur() token.Token { return p.cur }

// Advance consumes the current token and returns the new one. Exposed so
// the nested-block handler can eat the `{` and `}` that ParseEntry
// deliberately leaves untouched.
func (p *Parser) Advance() token.Token {
	p.cur = p.lex.Next()
	return p.cur
}

// ParseEntry consumes tokens until one complete entry has been built,
// leaving the position at the token that terminates it: just after `;`,
// or at `{` with HasChildren set (the `{` itself is left for the
// nested-block handler to consume). A result with an empty Name signals
// clean EOF. A non-nil error is a syntax, capacity, or identifier failure
// and should abort the parse.
func (p *Parser) ParseEntry() (*Entry, error) {
	p.entry.Reset()

	if p.cur.Kind == token.END {
		if p.lex.Err != nil {
			return nil, p.lex.Err
		}
		return &p.entry, nil
	}
	if p.cur.Kind != token.LITERAL {
		return nil, p.syntaxErr("expected directive name")
	}
	if !token.IsIdentifier(p.cur.Literal) {
		return nil, cfgerr.InvalidIdentifier("directive name " + quote(p.cur.Literal) + " is not a valid identifier")
	}
	p.entry.Name = p.cur.Literal
	p.cur = p.lex.Next()

	for {
		switch p.cur.Kind {
		case token.LITERAL:
			lit := p.cur.Literal
			next := p.lex.Next()
			if next.Kind == token.EQ {
				if !token.IsIdentifier(lit) {
					return nil, cfgerr.InvalidIdentifier("attribute key " + quote(lit) + " is not a valid identifier")
				}
				// The spec documents this lookahead as reading the
				// value token directly rather than through a generic
				// "advance" helper: an EOF right after `=` is not
				// diagnosed as its own error kind, it just falls
				// through to the generic syntax error below.
				valTok := p.lex.Next()
				if valTok.Kind != token.LITERAL {
					return nil, p.syntaxErr("expected attribute value after '='")
				}
				if len(p.entry.Attributes) >= MaxAttrs {
					return nil, cfgerr.Capacity(p.entry.Name, "too many attributes (max 16)")
				}
				p.entry.Attributes = append(p.entry.Attributes, Attribute{Key: lit, Value: valTok.Literal})
				p.cur = p.lex.Next()
				continue
			}
			if len(p.entry.Values) >= MaxVals {
				return nil, cfgerr.Capacity(p.entry.Name, "too many values (max 16)")
			}
			p.entry.Values = append(p.entry.Values, lit)
			p.cur = next
			continue
		case token.SEMI:
			p.cur = p.lex.Next()
			return &p.entry, nil
		case token.LBRACE:
			p.entry.HasChildren = true
			return &p.entry, nil
		default:
			if p.cur.Kind == token.END && p.lex.Err != nil {
				return nil, p.lex.Err
			}
			return nil, p.syntaxErr("unexpected token in directive " + quote(p.entry.Name))
		}
	}
}

func (p *Parser) syntaxErr(msg string) error {
	return cfgerr.Syntax(msg, p.lex.Snippet())
}

func quote(s string) string { return "\"" + s + "\"" }
