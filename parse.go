package multifactor

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ============================================================
// Expression parsing
// ============================================================
//
// ParsePoly reads the usual infix syntax:
//
//	2*x^2*y - (x + 1)*(x - 1) + 3/4
//
// Multiplication is explicit, '^' takes a nonnegative integer exponent, and
// '/' is allowed only with a nonzero constant divisor. Variables must belong
// to the ring.

type exprParser struct {
	ring *Ring
	src  string
	pos  int
}

// ParsePoly parses src as a polynomial over r.
func ParsePoly(r *Ring, src string) (Poly, error) {
	p := &exprParser{ring: r, src: src}
	out, err := p.parseSum()
	if err != nil {
		return Poly{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Poly{}, fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
	}
	return out, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) rest() string {
	if p.pos >= len(p.src) {
		return ""
	}
	r := p.src[p.pos:]
	if len(r) > 12 {
		r = r[:12]
	}
	return r
}

func (p *exprParser) parseSum() (Poly, error) {
	out, err := p.parseProduct()
	if err != nil {
		return Poly{}, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			t, err := p.parseProduct()
			if err != nil {
				return Poly{}, err
			}
			out = out.Add(t)
		case '-':
			p.pos++
			t, err := p.parseProduct()
			if err != nil {
				return Poly{}, err
			}
			out = out.Sub(t)
		default:
			return out, nil
		}
	}
}

func (p *exprParser) parseProduct() (Poly, error) {
	out, err := p.parsePower()
	if err != nil {
		return Poly{}, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			f, err := p.parsePower()
			if err != nil {
				return Poly{}, err
			}
			out = out.Mul(f)
		case '/':
			p.pos++
			f, err := p.parsePower()
			if err != nil {
				return Poly{}, err
			}
			if !f.IsConstant() || f.IsZero() {
				return Poly{}, fmt.Errorf("divisor must be a nonzero constant")
			}
			out = out.MulRat(ratInv(f.ConstantValue()))
		default:
			return out, nil
		}
	}
}

func (p *exprParser) parsePower() (Poly, error) {
	base, err := p.parseAtom()
	if err != nil {
		return Poly{}, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return Poly{}, fmt.Errorf("exponent must be a nonnegative integer at offset %d", start)
	}
	n := 0
	for _, c := range p.src[start:p.pos] {
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			return Poly{}, fmt.Errorf("exponent too large at offset %d", start)
		}
	}
	return base.Pow(n), nil
}

func (p *exprParser) parseAtom() (Poly, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		out, err := p.parseSum()
		if err != nil {
			return Poly{}, err
		}
		if p.peek() != ')' {
			return Poly{}, fmt.Errorf("missing ')' at offset %d", p.pos)
		}
		p.pos++
		return out, nil

	case c == '-':
		p.pos++
		out, err := p.parsePower()
		if err != nil {
			return Poly{}, err
		}
		return out.Neg(), nil

	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, ok := new(big.Int).SetString(p.src[start:p.pos], 10)
		if !ok {
			return Poly{}, fmt.Errorf("bad integer at offset %d", start)
		}
		return p.ring.Const(new(big.Rat).SetInt(n)), nil

	case c == '_' || unicode.IsLetter(rune(c)):
		start := p.pos
		for p.pos < len(p.src) {
			r := rune(p.src[p.pos])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			p.pos++
		}
		name := p.src[start:p.pos]
		idx := p.ring.VarIndex(name)
		if idx < 0 {
			return Poly{}, fmt.Errorf("unknown variable %q (ring has %s)", name, strings.Join(p.ring.Vars(), ", "))
		}
		return p.ring.Var(idx), nil

	case c == 0:
		return Poly{}, fmt.Errorf("unexpected end of expression")

	default:
		return Poly{}, fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
	}
}
