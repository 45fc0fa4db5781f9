package multifactor

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// ============================================================
// Default univariate factorization oracle
// ============================================================
//
// Rational roots are peeled first as a cheap fast path; whatever remains
// goes through the full Zassenhaus factorizer. The oracle is complete over
// ZZ and QQ, and can still be replaced through Options.Oracle, for example
// to delegate to an external system.

// factorSquarefreeUni splits a squarefree polynomial univariate in x_v into
// pairwise-coprime normalized factors whose product is p up to a constant.
func factorSquarefreeUni(p Poly, v int) ([]Poly, error) {
	if p.IsZero() {
		return nil, errors.WithStack(ErrZeroPolynomial)
	}
	prim, _ := normalizeFactor(p)
	u := uniFromPoly(prim, v)
	var out []Poly
	appendFactor := func(f uni) {
		fp, _ := normalizeFactor(f.toPoly(p.ring.fieldRing(), v))
		g, err := fp.toRing(p.ring)
		if err != nil {
			panic("multifactor: " + err.Error())
		}
		out = append(out, g)
	}

	// x itself divides when the constant term vanishes.
	if len(u) > 0 && u[0].Sign() == 0 {
		appendFactor(uni{ratInt(0), ratInt(1)})
		u = u[1:].trim()
	}

	// Rational root extraction: candidates num/den with num dividing the
	// trailing and den the leading coefficient.
	for u.deg() > 1 {
		root, ok := findRationalRoot(u)
		if !ok {
			break
		}
		// Peel den·x - num.
		lin := uni{ratNeg(new(big.Rat).SetInt(root.Num())), new(big.Rat).SetInt(root.Denom())}
		q, r := uniDivMod(u, lin)
		if !r.isZero() {
			return nil, errors.Newf("multifactor: root %s does not divide %s", root.RatString(), p)
		}
		appendFactor(lin)
		u = q
	}

	switch u.deg() {
	case -1, 0:
		// Constant remainder; absorbed by the caller's unit handling.
	case 1:
		appendFactor(u)
	default:
		for _, f := range factorSquarefreeZ(uniClearDenominators(u)) {
			appendFactor(f)
		}
	}
	return out, nil
}

// uniClearDenominators scales u to integer coefficients.
func uniClearDenominators(u uni) uni {
	l := big.NewInt(1)
	tmp := new(big.Int)
	for _, c := range u {
		g := new(big.Int).GCD(nil, nil, l, c.Denom())
		l.Mul(l, tmp.Div(c.Denom(), g))
	}
	return uniScale(u, new(big.Rat).SetInt(l))
}

// findRationalRoot searches for a rational root of u by divisor
// enumeration over the trailing and leading coefficients. Best effort:
// coefficients beyond int64 range are not searched.
func findRationalRoot(u uni) (*big.Rat, bool) {
	u = u.trim()
	if u.deg() < 1 || u[0].Sign() == 0 {
		return nil, false
	}
	// Clear denominators first so the divisor bound applies.
	l := big.NewInt(1)
	tmp := new(big.Int)
	for _, c := range u {
		g := new(big.Int).GCD(nil, nil, l, c.Denom())
		l.Mul(l, tmp.Div(c.Denom(), g))
	}
	lead := new(big.Int).Mul(u[len(u)-1].Num(), tmp.Div(l, u[len(u)-1].Denom()))
	trail := new(big.Int).Mul(u[0].Num(), new(big.Int).Div(l, u[0].Denom()))
	if !lead.IsInt64() || !trail.IsInt64() {
		return nil, false
	}
	for _, num := range divisors64(trail.Int64()) {
		for _, den := range divisors64(lead.Int64()) {
			for _, s := range []int64{1, -1} {
				r := big.NewRat(s*num, den)
				if uniEval(u, r).Sign() == 0 {
					return r, true
				}
			}
		}
	}
	return nil, false
}

func divisors64(n int64) []int64 {
	if n < 0 {
		n = -n
	}
	var out []int64
	for i := int64(1); i*i <= n; i++ {
		if n%i != 0 {
			continue
		}
		out = append(out, i)
		if i != n/i {
			out = append(out, n/i)
		}
	}
	return out
}

