package multifactor

import "math/big"

// ============================================================
// uni — dense univariate polynomials over QQ
// ============================================================
//
// Internal workhorse for the lifting stages: coefficients by ascending
// degree, always rational. The zero polynomial is the empty (or all-zero)
// slice with degree -1.

type uni []*big.Rat

func (u uni) trim() uni {
	n := len(u)
	for n > 0 && u[n-1].Sign() == 0 {
		n--
	}
	return u[:n]
}

func (u uni) deg() int { return len(u.trim()) - 1 }

func (u uni) isZero() bool { return len(u.trim()) == 0 }

func (u uni) clone() uni {
	out := make(uni, len(u))
	for i, c := range u {
		out[i] = new(big.Rat).Set(c)
	}
	return out
}

func (u uni) lead() *big.Rat {
	t := u.trim()
	if len(t) == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).Set(t[len(t)-1])
}

func uniZeros(n int) uni {
	out := make(uni, n)
	for i := range out {
		out[i] = new(big.Rat)
	}
	return out
}

func uniAdd(a, b uni) uni {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := uniZeros(n)
	for i, c := range a {
		out[i].Add(out[i], c)
	}
	for i, c := range b {
		out[i].Add(out[i], c)
	}
	return out.trim()
}

func uniSub(a, b uni) uni {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := uniZeros(n)
	for i, c := range a {
		out[i].Add(out[i], c)
	}
	for i, c := range b {
		out[i].Sub(out[i], c)
	}
	return out.trim()
}

func uniScale(a uni, c *big.Rat) uni {
	out := make(uni, len(a))
	for i, x := range a {
		out[i] = ratMul(x, c)
	}
	return out.trim()
}

func uniMul(a, b uni) uni {
	a, b = a.trim(), b.trim()
	if len(a) == 0 || len(b) == 0 {
		return uni{}
	}
	out := uniZeros(len(a) + len(b) - 1)
	for i, x := range a {
		if x.Sign() == 0 {
			continue
		}
		for j, y := range b {
			out[i+j].Add(out[i+j], ratMul(x, y))
		}
	}
	return out.trim()
}

// uniDivMod returns q, r with a = q·b + r and deg r < deg b.
func uniDivMod(a, b uni) (uni, uni) {
	b = b.trim()
	if len(b) == 0 {
		panic("multifactor: univariate division by zero")
	}
	r := a.clone().trim()
	if r.deg() < b.deg() {
		return uni{}, r
	}
	q := uniZeros(r.deg() - b.deg() + 1)
	inv := ratInv(b[len(b)-1])
	for r.deg() >= b.deg() {
		d := r.deg() - b.deg()
		c := ratMul(r[len(r.trim())-1], inv)
		q[d].Set(c)
		for i, bc := range b {
			r[d+i] = ratSub(r[d+i], ratMul(c, bc))
		}
		r = r.trim()
	}
	return q.trim(), r
}

func uniMod(a, b uni) uni {
	_, r := uniDivMod(a, b)
	return r
}

// uniMonic returns the monic scaling of u and the leading coefficient
// removed.
func uniMonic(u uni) (uni, *big.Rat) {
	u = u.trim()
	if len(u) == 0 {
		return uni{}, new(big.Rat)
	}
	lc := new(big.Rat).Set(u[len(u)-1])
	return uniScale(u, ratInv(lc)), lc
}

// uniGCD returns the monic gcd of a and b.
func uniGCD(a, b uni) uni {
	a, b = a.clone().trim(), b.clone().trim()
	for !b.isZero() {
		a, b = b, uniMod(a, b)
	}
	if a.isZero() {
		return uni{}
	}
	m, _ := uniMonic(a)
	return m
}

// uniXGCD returns monic g and s, t with s·a + t·b = g.
func uniXGCD(a, b uni) (g, s, t uni) {
	r0, r1 := a.clone().trim(), b.clone().trim()
	s0, s1 := uni{ratInt(1)}, uni{}
	t0, t1 := uni{}, uni{ratInt(1)}
	for !r1.isZero() {
		q, r := uniDivMod(r0, r1)
		r0, r1 = r1, r
		s0, s1 = s1, uniSub(s0, uniMul(q, s1))
		t0, t1 = t1, uniSub(t0, uniMul(q, t1))
	}
	if r0.isZero() {
		return uni{}, uni{}, uni{}
	}
	lc := r0.lead()
	inv := ratInv(lc)
	return uniScale(r0, inv), uniScale(s0, inv), uniScale(t0, inv)
}

func uniEval(u uni, x *big.Rat) *big.Rat {
	v := new(big.Rat)
	for i := len(u) - 1; i >= 0; i-- {
		v.Mul(v, x)
		v.Add(v, u[i])
	}
	return v
}

func uniEqual(a, b uni) bool {
	a, b = a.trim(), b.trim()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

// ============================================================
// Multi-term Bezout diophantine solve
// ============================================================

// uniDiophant solves
//
//	sum_i delta_i · prod_{j != i} u_j = e
//
// for pairwise-coprime u_i, with deg delta_i < deg u_i. This is the
// correction-term solve at the heart of each Hensel step; solvability
// requires deg e < sum_i deg u_i. Returns ok=false when the factors are not
// coprime or e is too large.
func uniDiophant(u []uni, e uni) ([]uni, bool) {
	if len(u) == 1 {
		if !e.isZero() && e.deg() >= u[0].deg() {
			return nil, false
		}
		return []uni{e.clone()}, true
	}
	b := uni{ratInt(1)}
	for _, f := range u[1:] {
		b = uniMul(b, f)
	}
	g, _, t := uniXGCD(u[0], b)
	if g.deg() != 0 {
		return nil, false
	}
	// t·b ≡ 1 (mod u[0]), so delta_0 = t·e mod u[0].
	d0 := uniMod(uniMul(t, e), u[0])
	rem := uniSub(e, uniMul(d0, b))
	e2, r := uniDivMod(rem, u[0])
	if !r.isZero() {
		return nil, false
	}
	rest, ok := uniDiophant(u[1:], e2)
	if !ok {
		return nil, false
	}
	return append([]uni{d0}, rest...), true
}

// ============================================================
// Poly bridging
// ============================================================

// uniFromPoly extracts p, which must involve only variable v, as a dense
// univariate polynomial.
func uniFromPoly(p Poly, v int) uni {
	d := p.Degree(v)
	if d < 0 {
		return uni{}
	}
	out := uniZeros(d + 1)
	for _, t := range p.terms {
		for i, e := range t.exp {
			if i != v && e != 0 {
				panic("multifactor: polynomial is not univariate in the requested variable")
			}
		}
		out[t.exp[v]].Add(out[t.exp[v]], t.coeff)
	}
	return out.trim()
}

// toPoly renders u as a polynomial in x_v over r.
func (u uni) toPoly(r *Ring, v int) Poly {
	out := r.newPoly()
	exp := make([]int, len(r.vars))
	for i, c := range u {
		exp[v] = i
		out.addTerm(exp, c)
	}
	return out
}
