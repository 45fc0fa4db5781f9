package multifactor

import "math/big"

// ============================================================
// Scalar content and factor normalization
// ============================================================

// scalarContent returns c with p = c·P, P integer-primitive with positive
// lexicographic leading coefficient. Zero for the zero polynomial.
func scalarContent(p Poly) *big.Rat {
	if p.IsZero() {
		return new(big.Rat)
	}
	num := new(big.Int)
	den := big.NewInt(1)
	tmp := new(big.Int)
	for _, t := range p.terms {
		num.GCD(nil, nil, num, tmp.Abs(t.coeff.Num()))
		d := t.coeff.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, tmp.Div(d, g))
	}
	c := new(big.Rat).SetFrac(num, den)
	if p.lexLeadTerm().coeff.Sign() < 0 {
		c.Neg(c)
	}
	return c
}

// normalizeFactor scales p to its canonical representative: integer
// coefficients with content 1 and positive lexicographic leading
// coefficient. Returns the representative and the scalar removed, so that
// p = c · out.
func normalizeFactor(p Poly) (Poly, *big.Rat) {
	if p.IsZero() {
		return p, new(big.Rat)
	}
	c := scalarContent(p)
	inv := ratInv(c)
	out := p.ring.newPoly()
	for _, t := range p.terms {
		out.addTerm(t.exp, ratMul(t.coeff, inv))
	}
	return out, c
}

// ============================================================
// Multivariate gcd by primitive pseudo-remainder sequences
// ============================================================

// GCD returns the greatest common divisor of p and q, normalized
// integer-primitive with positive leading coefficient. GCD(0, 0) is 0.
func GCD(p, q Poly) Poly {
	p.sameRing(q)
	g := gcdRec(p, q)
	if g.IsZero() {
		return g
	}
	out, _ := normalizeFactor(g)
	return out
}

func gcdRec(p, q Poly) Poly {
	if p.IsZero() {
		return q
	}
	if q.IsZero() {
		return p
	}
	r := p.ring
	if p.IsConstant() || q.IsConstant() {
		if r.domain == RationalField {
			return r.One()
		}
		a, b := scalarContent(p), scalarContent(q)
		g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a.Num()), new(big.Int).Abs(b.Num()))
		return r.Const(new(big.Rat).SetInt(g))
	}
	v := -1
	for i := range r.vars {
		if p.Degree(i) > 0 || q.Degree(i) > 0 {
			v = i
			break
		}
	}
	// A divisor of a x_v-free polynomial is x_v-free, so only the other
	// operand's content with respect to x_v matters.
	if p.Degree(v) == 0 {
		return gcdRec(p, ContentWRT(q, v))
	}
	if q.Degree(v) == 0 {
		return gcdRec(ContentWRT(p, v), q)
	}
	cp, cq := ContentWRT(p, v), ContentWRT(q, v)
	c := gcdRec(cp, cq)
	a := p.mustDivExact(cp)
	b := q.mustDivExact(cq)
	if a.Degree(v) < b.Degree(v) {
		a, b = b, a
	}
	// Subresultant PRS (Brown): each pseudo-remainder is divided by the
	// predicted factor g·h^d, which keeps coefficient growth polynomial; the
	// divisions are exact by the subresultant theory. One primitive part is
	// taken at the very end instead of per step.
	g := r.One()
	h := r.One()
	for {
		d := a.Degree(v) - b.Degree(v)
		rem := prem(a, b, v)
		if rem.IsZero() {
			return c.Mul(PrimitivePartWRT(b, v))
		}
		if rem.Degree(v) == 0 {
			// Primitive parts are coprime.
			return c
		}
		a, b = b, rem.mustDivExact(g.Mul(h.Pow(d)))
		g = a.LeadingCoeffWRT(v)
		switch {
		case d == 1:
			h = g
		case d > 1:
			h = g.Pow(d).mustDivExact(h.Pow(d - 1))
		}
	}
}

// prem returns the pseudo-remainder lc(b)^(deg a - deg b + 1)·a mod b with
// respect to x_v. The full power is taken even when the division finishes
// early, as the subresultant recurrence requires.
func prem(a, b Poly, v int) Poly {
	db := b.Degree(v)
	lb := b.LeadingCoeffWRT(v)
	e := a.Degree(v) - db + 1
	rem := a
	for !rem.IsZero() && rem.Degree(v) >= db {
		dr := rem.Degree(v)
		lr := rem.LeadingCoeffWRT(v)
		shift := rem.ring.Var(v).Pow(dr - db)
		rem = rem.Mul(lb).Sub(lr.Mul(shift).Mul(b))
		e--
	}
	if e > 0 {
		rem = rem.Mul(lb.Pow(e))
	}
	return rem
}

// ContentWRT returns the content of p with respect to x_v: the gcd of the
// coefficients of the powers of x_v. The result is free of x_v and
// normalized integer-primitive with positive leading coefficient.
func ContentWRT(p Poly, v int) Poly {
	if p.IsZero() {
		return p.ring.Zero()
	}
	g := p.ring.Zero()
	for k := 0; k <= p.Degree(v); k++ {
		ck := p.CoeffWRT(v, k)
		if ck.IsZero() {
			continue
		}
		g = gcdRec(g, ck)
		if g.IsConstant() && p.ring.domain == RationalField {
			break
		}
	}
	out, _ := normalizeFactor(g)
	return out
}

// PrimitivePartWRT returns p divided by its content with respect to x_v.
func PrimitivePartWRT(p Poly, v int) Poly {
	if p.IsZero() {
		return p
	}
	return p.mustDivExact(ContentWRT(p, v))
}
