package multifactor

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// ============================================================
// Bivariate Hensel lifting with subset recombination
// ============================================================

// HliftBivarCombine lifts a univariate factorization of a bivariate
// polynomial back to bivariate factors. p must involve only mainVar and
// otherVar; ufacs are pairwise-coprime factors of p evaluated at
// otherVar = alpha, and degBound bounds the otherVar-degree of any true
// factor (pass p's own degree when unsure).
//
// The factors are lifted order by order in otherVar around the base point;
// because the base-point factorization can be finer than the true one, the
// lifted pieces are recombined by subset products, each candidate accepted
// only on exact division into p. The returned content is the part of p free
// of mainVar, and groups records which ufacs indices built each factor.
//
// ok=false signals a bad evaluation point (degree drop, non-coprime base,
// or no subset combination reconstructing p); the caller retries with a
// fresh point. Errors are reserved for malformed input.
func HliftBivarCombine(p Poly, mainVar, otherVar int, alpha *big.Rat, degBound int, ufacs []Poly) (ok bool, content Poly, factors []Poly, groups [][]int, err error) {
	nv := p.Ring().NumVars()
	if mainVar < 0 || mainVar >= nv || otherVar < 0 || otherVar >= nv || mainVar == otherVar {
		return false, Poly{}, nil, nil, errors.Newf("multifactor: bad variable pair (%d, %d)", mainVar, otherVar)
	}
	if p.IsZero() {
		return false, Poly{}, nil, nil, errors.WithStack(ErrZeroPolynomial)
	}
	for v := 0; v < nv; v++ {
		if v != mainVar && v != otherVar && p.Degree(v) > 0 {
			return false, Poly{}, nil, nil, errors.Newf("multifactor: %s is not bivariate in the chosen variables", p)
		}
	}
	if len(ufacs) == 0 {
		return false, Poly{}, nil, nil, errors.New("multifactor: no univariate factors supplied")
	}
	if p.Degree(mainVar) <= 0 {
		return false, Poly{}, nil, nil, errors.Newf("multifactor: %s has no positive degree in the main variable", p)
	}

	q := p.toField()
	fr := q.Ring()
	cont := ContentWRT(q, mainVar)
	a := q.mustDivExact(cont)
	lc := a.LeadingCoeffWRT(mainVar)
	if lc.EvalVar(otherVar, alpha).IsZero() {
		return false, Poly{}, nil, nil, nil // degree drops at the point
	}
	if degBound < 0 {
		degBound = a.Degree(otherVar)
	}

	// Translate the base point to the origin.
	ahat := a.Shift(otherVar, alpha)
	lhat := uniFromPoly(ahat.LeadingCoeffWRT(mainVar), otherVar)
	prec := degBound + lhat.deg() + 1
	if prec < ahat.Degree(otherVar)+1 {
		prec = ahat.Degree(otherVar) + 1
	}

	// Monic base factors at the origin.
	r := len(ufacs)
	bases := make([]uni, r)
	degSum := 0
	for i, f := range ufacs {
		uf := uniFromPoly(f.toField(), mainVar)
		if uf.deg() < 1 {
			return false, Poly{}, nil, nil, errors.Newf("multifactor: univariate factor %s is constant", f)
		}
		bases[i], _ = uniMonic(uf)
		degSum += bases[i].deg()
	}
	if degSum != a.Degree(mainVar) {
		return false, Poly{}, nil, nil, nil
	}
	a0 := uniFromPoly(ahat.EvalVar(otherVar, new(big.Rat)), mainVar)
	mon0, _ := uniMonic(a0)
	if !uniEqual(seriesBaseProduct(bases), mon0) {
		return false, Poly{}, nil, nil, nil
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if uniGCD(bases[i], bases[j]).deg() != 0 {
				return false, Poly{}, nil, nil, nil
			}
		}
	}

	// Monic normalization of the target as a truncated power series: the
	// leading coefficient is inverted as a series around the origin.
	am := make([]uni, prec)
	for k := 0; k < prec; k++ {
		am[k] = uniFromPoly(ahat.CoeffWRT(otherVar, k), mainVar)
	}
	linv := seriesInvScalar(lhat, prec)
	amon := make([]uni, prec)
	for k := 0; k < prec; k++ {
		s := uni{}
		for j := 0; j <= k; j++ {
			s = uniAdd(s, uniScale(am[k-j], linv[j]))
		}
		amon[k] = s
	}

	// Order-by-order lift: at each order the correction terms come from the
	// Bezout combination of the coprime base factors.
	lifted := make([][]uni, r)
	for i := range lifted {
		lifted[i] = make([]uni, prec)
		lifted[i][0] = bases[i]
		for k := 1; k < prec; k++ {
			lifted[i][k] = uni{}
		}
	}
	for k := 1; k < prec; k++ {
		tot := seriesProduct(lifted, prec)
		e := uniSub(amon[k], tot[k])
		if e.isZero() {
			continue
		}
		delta, okd := uniDiophant(bases, e)
		if !okd {
			return false, Poly{}, nil, nil, nil
		}
		for i := range lifted {
			lifted[i][k] = delta[i]
		}
	}

	// Subset recombination: increasing-size subsets of lifted pieces,
	// accepted only when the leading-coefficient-scaled primitive part
	// divides the target exactly.
	remaining := make([]int, r)
	for i := range remaining {
		remaining[i] = i
	}
	target := a
	negAlpha := ratNeg(alpha)
	for len(remaining) > 0 {
		found := false
		for s := 1; s <= len(remaining) && !found; s++ {
			for _, sub := range combinations(remaining, s) {
				series := seriesSubsetProduct(lifted, sub, prec)
				h := scalarSeriesMul(lhat, series, prec)
				hp := seriesToPoly(h, fr, mainVar, otherVar).Shift(otherVar, negAlpha)
				if hp.IsZero() || hp.Degree(mainVar) == 0 {
					continue
				}
				g := PrimitivePartWRT(hp, mainVar)
				g, _ = normalizeFactor(g)
				q2, errD := target.DivExact(g)
				if errD != nil {
					continue
				}
				target = q2
				factors = append(factors, g)
				groups = append(groups, sub)
				remaining = subtractIndices(remaining, sub)
				found = true
				break
			}
		}
		if !found {
			return false, Poly{}, nil, nil, nil
		}
	}
	if target.Degree(mainVar) != 0 {
		return false, Poly{}, nil, nil, nil
	}

	// The content is whatever the accepted factors do not account for.
	prod := fr.One()
	for _, g := range factors {
		prod = prod.Mul(g)
	}
	contAll, errD := q.DivExact(prod)
	if errD != nil || contAll.Degree(mainVar) != 0 {
		return false, Poly{}, nil, nil, nil
	}
	content, err = contAll.toRing(p.Ring())
	if err != nil {
		return false, Poly{}, nil, nil, err
	}
	for i, g := range factors {
		if factors[i], err = g.toRing(p.Ring()); err != nil {
			return false, Poly{}, nil, nil, err
		}
	}
	return true, content, factors, groups, nil
}

// ============================================================
// Truncated series helpers
// ============================================================

func seriesBaseProduct(bases []uni) uni {
	out := uni{ratInt(1)}
	for _, b := range bases {
		out = uniMul(out, b)
	}
	return out
}

// seriesInvScalar inverts a scalar power series to the given precision;
// the constant term must be nonzero.
func seriesInvScalar(a uni, prec int) []*big.Rat {
	c0 := new(big.Rat)
	if len(a) > 0 {
		c0.Set(a[0])
	}
	if c0.Sign() == 0 {
		panic("multifactor: series inversion with vanishing constant term")
	}
	inv := make([]*big.Rat, prec)
	inv[0] = ratInv(c0)
	for k := 1; k < prec; k++ {
		s := new(big.Rat)
		for j := 1; j <= k && j < len(a); j++ {
			s.Add(s, ratMul(a[j], inv[k-j]))
		}
		inv[k] = ratNeg(ratMul(s, inv[0]))
	}
	return inv
}

// seriesMul multiplies two series of univariate coefficients, truncated.
func seriesMul(a, b []uni, prec int) []uni {
	out := make([]uni, prec)
	for k := range out {
		out[k] = uni{}
	}
	for i, ai := range a {
		if i >= prec || ai.isZero() {
			continue
		}
		for j, bj := range b {
			if i+j >= prec {
				break
			}
			if bj.isZero() {
				continue
			}
			out[i+j] = uniAdd(out[i+j], uniMul(ai, bj))
		}
	}
	return out
}

func seriesProduct(fs [][]uni, prec int) []uni {
	out := make([]uni, prec)
	out[0] = uni{ratInt(1)}
	for k := 1; k < prec; k++ {
		out[k] = uni{}
	}
	for _, f := range fs {
		out = seriesMul(out, f, prec)
	}
	return out
}

func seriesSubsetProduct(fs [][]uni, sub []int, prec int) []uni {
	picked := make([][]uni, len(sub))
	for i, idx := range sub {
		picked[i] = fs[idx]
	}
	return seriesProduct(picked, prec)
}

// scalarSeriesMul multiplies a series of univariate coefficients by a
// scalar series, truncated.
func scalarSeriesMul(s uni, a []uni, prec int) []uni {
	out := make([]uni, prec)
	for k := 0; k < prec; k++ {
		acc := uni{}
		for j := 0; j <= k && j < len(s); j++ {
			acc = uniAdd(acc, uniScale(a[k-j], s[j]))
		}
		out[k] = acc
	}
	return out
}

func seriesToPoly(h []uni, r *Ring, mainVar, otherVar int) Poly {
	out := r.newPoly()
	exp := make([]int, r.NumVars())
	for k, c := range h {
		for i, coeff := range c {
			if coeff.Sign() == 0 {
				continue
			}
			exp[mainVar] = i
			exp[otherVar] = k
			out.addTerm(exp, coeff)
		}
	}
	return out
}

// ============================================================
// Index subset helpers
// ============================================================

// combinations returns the size-s subsets of set in lexicographic order.
func combinations(set []int, s int) [][]int {
	var out [][]int
	idx := make([]int, s)
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == s {
			sub := make([]int, s)
			copy(sub, idx)
			out = append(out, sub)
			return
		}
		for i := start; i <= len(set)-(s-k); i++ {
			idx[k] = set[i]
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return out
}

func subtractIndices(set, sub []int) []int {
	drop := map[int]bool{}
	for _, i := range sub {
		drop[i] = true
	}
	var out []int
	for _, i := range set {
		if !drop[i] {
			out = append(out, i)
		}
	}
	return out
}
