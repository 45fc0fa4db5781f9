package multifactor

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ============================================================
// Rational coefficient helpers
// ============================================================

func ratAdd(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func ratSub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func ratMul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func ratNeg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }
func ratInv(a *big.Rat) *big.Rat {
	if a.Sign() == 0 {
		panic("multifactor: division by zero")
	}
	return new(big.Rat).Inv(a)
}
func ratDiv(a, b *big.Rat) *big.Rat { return ratMul(a, ratInv(b)) }

func ratInt(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

// ============================================================
// Poly — immutable sparse multivariate polynomial
// ============================================================

// Term is one input monomial for constructing polynomials: a coefficient and
// one exponent per ring variable.
type Term struct {
	Coeff *big.Rat
	Exp   []int
}

type mono struct {
	exp   []int
	coeff *big.Rat
}

// Poly is a sparse multivariate polynomial over its ring's coefficient
// domain: a mapping from exponent vectors to nonzero coefficients. Poly
// values are immutable; every operation returns a new value. Polynomials
// over the integer ring keep integer coefficients as an invariant.
type Poly struct {
	ring  *Ring
	terms map[string]mono
}

func encodeExp(exp []int) string {
	var sb strings.Builder
	for i, e := range exp {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(e))
	}
	return sb.String()
}

func (r *Ring) newPoly() Poly {
	return Poly{ring: r, terms: map[string]mono{}}
}

// addTerm accumulates c·x^exp into a polynomial under construction.
func (p Poly) addTerm(exp []int, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	key := encodeExp(exp)
	if t, ok := p.terms[key]; ok {
		s := ratAdd(t.coeff, c)
		if s.Sign() == 0 {
			delete(p.terms, key)
		} else {
			p.terms[key] = mono{exp: t.exp, coeff: s}
		}
		return
	}
	e := make([]int, len(exp))
	copy(e, exp)
	p.terms[key] = mono{exp: e, coeff: new(big.Rat).Set(c)}
}

func (r *Ring) checkCoeff(c *big.Rat) {
	if r.domain == IntegerRing && !c.IsInt() {
		panic("multifactor: non-integer coefficient in integer ring")
	}
}

// Poly builds a polynomial from terms. Exponents must be nonnegative with
// one entry per ring variable; duplicate exponent vectors are summed.
func (r *Ring) Poly(terms ...Term) Poly {
	p := r.newPoly()
	for _, t := range terms {
		if len(t.Exp) != len(r.vars) {
			panic("multifactor: exponent vector length mismatch")
		}
		for _, e := range t.Exp {
			if e < 0 {
				panic("multifactor: negative exponent")
			}
		}
		r.checkCoeff(t.Coeff)
		p.addTerm(t.Exp, t.Coeff)
	}
	return p
}

// Zero returns the zero polynomial.
func (r *Ring) Zero() Poly { return r.newPoly() }

// Const returns the constant polynomial c.
func (r *Ring) Const(c *big.Rat) Poly {
	r.checkCoeff(c)
	p := r.newPoly()
	p.addTerm(make([]int, len(r.vars)), c)
	return p
}

// ConstInt returns the constant polynomial n.
func (r *Ring) ConstInt(n int64) Poly { return r.Const(ratInt(n)) }

// One returns the constant polynomial 1.
func (r *Ring) One() Poly { return r.ConstInt(1) }

// Var returns the variable x_v as a polynomial.
func (r *Ring) Var(v int) Poly {
	exp := make([]int, len(r.vars))
	exp[v] = 1
	p := r.newPoly()
	p.addTerm(exp, ratInt(1))
	return p
}

// Monomial returns c·x^exp.
func (r *Ring) Monomial(c *big.Rat, exp ...int) Poly {
	return r.Poly(Term{Coeff: c, Exp: exp})
}

// Ring returns the parent ring.
func (p Poly) Ring() *Ring { return p.ring }

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool { return len(p.terms) == 0 }

// IsConstant reports whether p has no variable dependence.
func (p Poly) IsConstant() bool {
	for _, t := range p.terms {
		for _, e := range t.exp {
			if e != 0 {
				return false
			}
		}
	}
	return true
}

// ConstantValue returns the constant term of p.
func (p Poly) ConstantValue() *big.Rat {
	key := encodeExp(make([]int, len(p.ring.vars)))
	if t, ok := p.terms[key]; ok {
		return new(big.Rat).Set(t.coeff)
	}
	return new(big.Rat)
}

// Terms returns the terms of p in descending lexicographic order.
func (p Poly) Terms() []Term {
	ms := p.sortedTerms()
	out := make([]Term, len(ms))
	for i, m := range ms {
		e := make([]int, len(m.exp))
		copy(e, m.exp)
		out[i] = Term{Coeff: new(big.Rat).Set(m.coeff), Exp: e}
	}
	return out
}

func (p Poly) sameRing(q Poly) {
	if !p.ring.same(q.ring) {
		panic("multifactor: mixed rings " + p.ring.String() + " and " + q.ring.String())
	}
}

// Equal reports exact equality of p and q over the same ring.
func (p Poly) Equal(q Poly) bool {
	if !p.ring.same(q.ring) || len(p.terms) != len(q.terms) {
		return false
	}
	for k, t := range p.terms {
		u, ok := q.terms[k]
		if !ok || t.coeff.Cmp(u.coeff) != 0 {
			return false
		}
	}
	return true
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	p.sameRing(q)
	out := p.ring.newPoly()
	for _, t := range p.terms {
		out.addTerm(t.exp, t.coeff)
	}
	for _, t := range q.terms {
		out.addTerm(t.exp, t.coeff)
	}
	return out
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly {
	p.sameRing(q)
	out := p.ring.newPoly()
	for _, t := range p.terms {
		out.addTerm(t.exp, t.coeff)
	}
	for _, t := range q.terms {
		out.addTerm(t.exp, ratNeg(t.coeff))
	}
	return out
}

// Neg returns -p.
func (p Poly) Neg() Poly {
	out := p.ring.newPoly()
	for _, t := range p.terms {
		out.addTerm(t.exp, ratNeg(t.coeff))
	}
	return out
}

// Mul returns p · q.
func (p Poly) Mul(q Poly) Poly {
	p.sameRing(q)
	out := p.ring.newPoly()
	exp := make([]int, len(p.ring.vars))
	for _, a := range p.terms {
		for _, b := range q.terms {
			for i := range exp {
				exp[i] = a.exp[i] + b.exp[i]
			}
			out.addTerm(exp, ratMul(a.coeff, b.coeff))
		}
	}
	return out
}

// MulRat returns c·p. For integer rings c must be an integer.
func (p Poly) MulRat(c *big.Rat) Poly {
	p.ring.checkCoeff(c)
	out := p.ring.newPoly()
	for _, t := range p.terms {
		out.addTerm(t.exp, ratMul(t.coeff, c))
	}
	return out
}

// Pow returns p^n for n >= 0.
func (p Poly) Pow(n int) Poly {
	if n < 0 {
		panic("multifactor: negative exponent in Pow")
	}
	out := p.ring.One()
	for i := 0; i < n; i++ {
		out = out.Mul(p)
	}
	return out
}

// Degree returns the maximum exponent of variable v in p, or -1 for the
// zero polynomial.
func (p Poly) Degree(v int) int {
	if p.IsZero() {
		return -1
	}
	d := 0
	for _, t := range p.terms {
		if t.exp[v] > d {
			d = t.exp[v]
		}
	}
	return d
}

// DegreeVector returns the per-variable maximum exponents of p; this is the
// lifting bound used by the Hensel stages.
func (p Poly) DegreeVector() []int {
	d := make([]int, len(p.ring.vars))
	for _, t := range p.terms {
		for i, e := range t.exp {
			if e > d[i] {
				d[i] = e
			}
		}
	}
	return d
}

// Derivative returns the partial derivative of p with respect to x_v.
func (p Poly) Derivative(v int) Poly {
	out := p.ring.newPoly()
	exp := make([]int, len(p.ring.vars))
	for _, t := range p.terms {
		if t.exp[v] == 0 {
			continue
		}
		copy(exp, t.exp)
		exp[v]--
		out.addTerm(exp, ratMul(t.coeff, ratInt(int64(t.exp[v]))))
	}
	return out
}

// EvalVar substitutes x_v = a, keeping the result in the same ring.
func (p Poly) EvalVar(v int, a *big.Rat) Poly {
	out := p.ring.newPoly()
	exp := make([]int, len(p.ring.vars))
	for _, t := range p.terms {
		copy(exp, t.exp)
		exp[v] = 0
		c := new(big.Rat).Set(t.coeff)
		for i := 0; i < t.exp[v]; i++ {
			c.Mul(c, a)
		}
		out.addTerm(exp, c)
	}
	return out
}

// Shift substitutes x_v = x_v + a (a translation of the variable).
func (p Poly) Shift(v int, a *big.Rat) Poly {
	if a.Sign() == 0 {
		return p
	}
	out := p.ring.newPoly()
	exp := make([]int, len(p.ring.vars))
	for _, t := range p.terms {
		e := t.exp[v]
		// (x+a)^e expanded binomially.
		for j := 0; j <= e; j++ {
			copy(exp, t.exp)
			exp[v] = j
			c := new(big.Rat).SetInt(new(big.Int).Binomial(int64(e), int64(j)))
			c.Mul(c, t.coeff)
			for i := 0; i < e-j; i++ {
				c.Mul(c, a)
			}
			out.addTerm(exp, c)
		}
	}
	return out
}

// CoeffWRT returns the coefficient of x_v^k in p, viewed as a polynomial in
// the remaining variables (x_v-degree zero in the result).
func (p Poly) CoeffWRT(v, k int) Poly {
	out := p.ring.newPoly()
	exp := make([]int, len(p.ring.vars))
	for _, t := range p.terms {
		if t.exp[v] != k {
			continue
		}
		copy(exp, t.exp)
		exp[v] = 0
		out.addTerm(exp, t.coeff)
	}
	return out
}

// LeadingCoeffWRT returns the leading coefficient of p with respect to x_v:
// the coefficient of its highest power, itself a polynomial in the other
// variables.
func (p Poly) LeadingCoeffWRT(v int) Poly {
	d := p.Degree(v)
	if d < 0 {
		return p.ring.Zero()
	}
	return p.CoeffWRT(v, d)
}

// ============================================================
// Exact division
// ============================================================

func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// lexLeadTerm returns the lexicographically greatest term of p.
func (p Poly) lexLeadTerm() mono {
	var best mono
	first := true
	for _, t := range p.terms {
		if first || lexLess(best.exp, t.exp) {
			best = t
			first = false
		}
	}
	return best
}

// DivExact divides p by d, requiring the division to be exact over the
// coefficient domain. A nonzero remainder, or a non-integer quotient
// coefficient over the integer ring, yields ErrInexactDivision.
func (p Poly) DivExact(d Poly) (Poly, error) {
	p.sameRing(d)
	if d.IsZero() {
		return Poly{}, errors.Wrap(ErrInexactDivision, "division by zero polynomial")
	}
	q := p.ring.newPoly()
	r := p.ring.Zero().Add(p)
	ld := d.lexLeadTerm()
	exp := make([]int, len(p.ring.vars))
	for !r.IsZero() {
		lr := r.lexLeadTerm()
		ok := true
		for i := range exp {
			exp[i] = lr.exp[i] - ld.exp[i]
			if exp[i] < 0 {
				ok = false
			}
		}
		if !ok {
			return Poly{}, errors.Wrap(ErrInexactDivision, "leading term not divisible")
		}
		c := ratDiv(lr.coeff, ld.coeff)
		if p.ring.domain == IntegerRing && !c.IsInt() {
			return Poly{}, errors.Wrap(ErrInexactDivision, "non-integer quotient coefficient")
		}
		m := p.ring.Monomial(c, exp...)
		q.addTerm(exp, c)
		r = r.Sub(m.Mul(d))
	}
	return q, nil
}

// mustDivExact is DivExact for divisions that are exact by construction.
func (p Poly) mustDivExact(d Poly) Poly {
	q, err := p.DivExact(d)
	if err != nil {
		panic("multifactor: " + err.Error())
	}
	return q
}

// Divides reports whether d divides p exactly.
func (d Poly) Divides(p Poly) bool {
	_, err := p.DivExact(d)
	return err == nil
}

// ============================================================
// Ring conversion
// ============================================================

// toField maps p into the rational-coefficient ring in the same variables.
func (p Poly) toField() Poly {
	f := p.ring.fieldRing()
	if f == p.ring {
		return p
	}
	out := f.newPoly()
	for _, t := range p.terms {
		out.addTerm(t.exp, t.coeff)
	}
	return out
}

// toRing maps p into r, which must share p's variables. Mapping into an
// integer ring fails if any coefficient is non-integer.
func (p Poly) toRing(r *Ring) (Poly, error) {
	if len(r.vars) != len(p.ring.vars) {
		return Poly{}, errors.New("multifactor: variable count mismatch in ring conversion")
	}
	out := r.newPoly()
	for _, t := range p.terms {
		if r.domain == IntegerRing && !t.coeff.IsInt() {
			return Poly{}, errors.Wrap(ErrInexactDivision, "non-integer coefficient in integer ring conversion")
		}
		out.addTerm(t.exp, t.coeff)
	}
	return out, nil
}

// ============================================================
// Rendering
// ============================================================

func (p Poly) sortedTerms() []mono {
	ms := make([]mono, 0, len(p.terms))
	for _, t := range p.terms {
		ms = append(ms, t)
	}
	sort.Slice(ms, func(i, j int) bool { return lexLess(ms[j].exp, ms[i].exp) })
	return ms
}

func (p Poly) monomialString(exp []int) string {
	parts := []string{}
	for i, e := range exp {
		switch {
		case e == 1:
			parts = append(parts, p.ring.vars[i])
		case e > 1:
			parts = append(parts, p.ring.vars[i]+"^"+strconv.Itoa(e))
		}
	}
	return strings.Join(parts, "*")
}

// String renders p deterministically with terms in descending
// lexicographic order.
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for i, t := range p.sortedTerms() {
		c := t.coeff
		neg := c.Sign() < 0
		abs := new(big.Rat).Abs(c)
		if i == 0 {
			if neg {
				sb.WriteString("-")
			}
		} else if neg {
			sb.WriteString(" - ")
		} else {
			sb.WriteString(" + ")
		}
		m := p.monomialString(t.exp)
		one := abs.Cmp(ratInt(1)) == 0
		switch {
		case m == "":
			sb.WriteString(abs.RatString())
		case one:
			sb.WriteString(m)
		default:
			sb.WriteString(abs.RatString() + "*" + m)
		}
	}
	return sb.String()
}
