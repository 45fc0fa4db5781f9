package multifactor

import "github.com/cockroachdb/errors"

// SquarefreeFactor pairs a squarefree polynomial with its multiplicity.
type SquarefreeFactor struct {
	Poly Poly
	Mult int
}

// SquarefreeDecompose splits a nonzero polynomial over a characteristic-zero
// domain into pairwise-coprime squarefree factors with multiplicities,
// running Yun's algorithm with respect to each variable in turn. The
// returned unit is a constant polynomial with
//
//	f = unit · prod_i g_i^{e_i}
//
// holding exactly. The zero polynomial is rejected with ErrZeroPolynomial.
func SquarefreeDecompose(f Poly) (Poly, []SquarefreeFactor, error) {
	if f.IsZero() {
		return Poly{}, nil, errors.WithStack(ErrZeroPolynomial)
	}
	if f.IsConstant() {
		return f, nil, nil
	}
	prim, _ := normalizeFactor(f)
	work := []SquarefreeFactor{{Poly: prim, Mult: 1}}
	for v := 0; v < f.ring.NumVars(); v++ {
		var next []SquarefreeFactor
		for _, sf := range work {
			p, m := sf.Poly, sf.Mult
			if p.Degree(v) == 0 {
				next = append(next, sf)
				continue
			}
			cont := ContentWRT(p, v)
			prim := p.mustDivExact(cont)
			if !cont.IsConstant() {
				next = append(next, SquarefreeFactor{Poly: cont, Mult: m})
			}
			prim, _ = normalizeFactor(prim)
			parts, err := yun(prim, v)
			if err != nil {
				return Poly{}, nil, err
			}
			for _, part := range parts {
				s, _ := normalizeFactor(part.Poly)
				if s.IsConstant() {
					continue
				}
				next = append(next, SquarefreeFactor{Poly: s, Mult: part.Mult * m})
			}
		}
		work = next
	}
	// Recover the unit by exact division so the reconstruction identity
	// holds by construction.
	prod := f.ring.One()
	for _, sf := range work {
		prod = prod.Mul(sf.Poly.Pow(sf.Mult))
	}
	unit, err := f.DivExact(prod)
	if err != nil || !unit.IsConstant() {
		return Poly{}, nil, errors.Newf("multifactor: squarefree reconstruction failed for %s", f)
	}
	return unit, work, nil
}

// yun performs Yun's squarefree decomposition of p with respect to x_v.
// p must be primitive with respect to x_v with positive x_v-degree; the
// returned parts are squarefree in x_v, pairwise coprime, and satisfy
// p = const · prod part^mult.
func yun(p Poly, v int) ([]SquarefreeFactor, error) {
	dp := p.Derivative(v)
	g := GCD(p, dp)
	c, err := p.DivExact(g)
	if err != nil {
		return nil, errors.Wrapf(err, "squarefree split of %s", p)
	}
	dq, err := dp.DivExact(g)
	if err != nil {
		return nil, errors.Wrapf(err, "squarefree split of %s", p)
	}
	d := dq.Sub(c.Derivative(v))
	var parts []SquarefreeFactor
	for i := 1; c.Degree(v) > 0; i++ {
		a := GCD(c, d)
		if c, err = c.DivExact(a); err != nil {
			return nil, errors.Wrapf(err, "squarefree split of %s", p)
		}
		if d, err = d.DivExact(a); err != nil {
			return nil, errors.Wrapf(err, "squarefree split of %s", p)
		}
		d = d.Sub(c.Derivative(v))
		if !a.IsConstant() {
			parts = append(parts, SquarefreeFactor{Poly: a, Mult: i})
		}
	}
	return parts, nil
}
