package decl

import (
	"fmt"
	"strings"
	"text/scanner"
)

// typeNode is a parsed, unresolved type expression like Map<K, List<V>>[]
type typeNode struct {
	name string
	args []typeNode
	// dims is the number of trailing []
	dims int
	// offset is where name starts in the source text
	offset int
}

func (n typeNode) String() string {
	sb := strings.Builder{}
	sb.WriteString(n.name)
	if len(n.args) > 0 {
		sb.WriteString("<")
		for i, arg := range n.args {
			if i != 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString(">")
	}
	sb.WriteString(strings.Repeat("[]", n.dims))
	return sb.String()
}

type syntaxError struct {
	offset int
	reason string
}

func (e syntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", e.offset, e.reason)
}

type typeParser struct {
	s   scanner.Scanner
	tok rune
	err *syntaxError
}

// parseTypeExpr parses
//
//	type := name [ '<' type { ',' type } '>' ] { '[' ']' }
//	name := ident { '.' ident }
func parseTypeExpr(text string) (typeNode, error) {
	p := &typeParser{}
	p.s.Init(strings.NewReader(text))
	p.s.Mode = scanner.ScanIdents
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(s.Pos().Offset, msg)
	}
	p.next()
	n := p.parseType()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(p.s.Position.Offset, fmt.Sprintf("unexpected '%s'", p.s.TokenText()))
	}
	if p.err != nil {
		return typeNode{}, *p.err
	}
	return n, nil
}

func (p *typeParser) next() {
	p.tok = p.s.Scan()
}

func (p *typeParser) fail(offset int, reason string) {
	if p.err == nil {
		p.err = &syntaxError{offset: offset, reason: reason}
	}
}

func (p *typeParser) expect(tok rune) {
	if p.tok != tok {
		p.fail(p.s.Position.Offset, fmt.Sprintf("expected '%c'", tok))
		return
	}
	p.next()
}

func (p *typeParser) parseType() typeNode {
	if p.tok != scanner.Ident {
		p.fail(p.s.Position.Offset, "expected a type name")
		return typeNode{}
	}
	n := typeNode{name: p.s.TokenText(), offset: p.s.Position.Offset}
	p.next()
	for p.tok == '.' && p.err == nil {
		p.next()
		if p.tok != scanner.Ident {
			p.fail(p.s.Position.Offset, "expected an identifier after '.'")
			return n
		}
		n.name += "." + p.s.TokenText()
		p.next()
	}
	if p.tok == '<' {
		p.next()
		n.args = append(n.args, p.parseType())
		for p.tok == ',' && p.err == nil {
			p.next()
			n.args = append(n.args, p.parseType())
		}
		p.expect('>')
	}
	for p.tok == '[' && p.err == nil {
		p.next()
		p.expect(']')
		n.dims++
	}
	return n
}
