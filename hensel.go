package multifactor

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// ============================================================
// Multivariate Hensel lifting with imposed leading coefficients
// ============================================================

// HenselLiftWithLCs lifts a univariate factorization of F at an evaluation
// point to a full multivariate factorization, imposing known leading
// coefficients. ufacs[i] is the i-th factor of F evaluated at the point
// (univariate in mainVar), lcs[i] is the exact leading coefficient of the
// i-th true factor with respect to mainVar, varOrder lists the remaining
// variables in the order they are introduced, and point gives the
// evaluation value for each of them.
//
// On success the returned factors multiply to F exactly, correspond to
// ufacs in order, and carry exactly the imposed leading coefficients.
// ok=false signals a point unsuited to lifting (wrong base product,
// non-coprime base factors, or a diophantine solve running aground); the
// caller retries elsewhere. Errors are reserved for malformed input,
// including mismatched slice lengths (ErrLengthMismatch) and a leading
// coefficient product that does not match F.
func HenselLiftWithLCs(F Poly, ufacs []Poly, lcs []Poly, mainVar int, varOrder []int, point []*big.Rat) (ok bool, factors []Poly, err error) {
	if F.IsZero() {
		return false, nil, errors.WithStack(ErrZeroPolynomial)
	}
	if len(ufacs) != len(lcs) {
		return false, nil, errors.Wrapf(ErrLengthMismatch, "%d factors against %d leading coefficients", len(ufacs), len(lcs))
	}
	if len(ufacs) == 0 {
		return false, nil, errors.New("multifactor: no univariate factors supplied")
	}
	nv := F.Ring().NumVars()
	if mainVar < 0 || mainVar >= nv {
		return false, nil, errors.Newf("multifactor: main variable %d out of range", mainVar)
	}
	if len(point) != len(varOrder) {
		return false, nil, errors.Wrapf(ErrLengthMismatch, "%d point values against %d variables", len(point), len(varOrder))
	}
	seen := map[int]bool{mainVar: true}
	for _, v := range varOrder {
		if v < 0 || v >= nv || seen[v] {
			return false, nil, errors.Newf("multifactor: bad variable order entry %d", v)
		}
		seen[v] = true
	}
	for v := 0; v < nv; v++ {
		if !seen[v] && F.Degree(v) > 0 {
			return false, nil, errors.Newf("multifactor: variable %s missing from the lifting order", F.Ring().Vars()[v])
		}
	}

	fq := F.toField()
	fr := fq.Ring()

	// Translate the point to the origin in every lifted variable.
	fhat := fq
	lhat := make([]Poly, len(lcs))
	for i, l := range lcs {
		lhat[i] = l.toField()
	}
	for k, v := range varOrder {
		fhat = fhat.Shift(v, point[k])
		for i := range lhat {
			lhat[i] = lhat[i].Shift(v, point[k])
		}
	}

	// The imposed leading coefficients must multiply to lc(F) up to a
	// constant; the constant is absorbed into the first of them.
	lcF := fhat.LeadingCoeffWRT(mainVar)
	prodL := fr.One()
	for _, l := range lhat {
		prodL = prodL.Mul(l)
	}
	ratio, errD := lcF.DivExact(prodL)
	if errD != nil || !ratio.IsConstant() {
		return false, nil, errors.Newf("multifactor: leading coefficients do not multiply to the leading coefficient of %s", F)
	}
	lhat[0] = lhat[0].MulRat(ratio.ConstantValue())

	degs := make([]int, len(ufacs))
	degSum := 0
	for i, u := range ufacs {
		degs[i] = u.Degree(mainVar)
		if degs[i] < 1 {
			return false, nil, errors.Newf("multifactor: univariate factor %s is constant", u)
		}
		degSum += degs[i]
	}
	if degSum != fhat.Degree(mainVar) {
		return false, nil, errors.Newf("multifactor: univariate factor degrees sum to %d, want %d", degSum, fhat.Degree(mainVar))
	}

	// Base factors scaled so each leading coefficient equals the imposed one
	// evaluated at the origin.
	facs := make([]Poly, len(ufacs))
	for i, u := range ufacs {
		o := lhat[i]
		for _, v := range varOrder {
			o = o.EvalVar(v, new(big.Rat))
		}
		if !o.IsConstant() || o.IsZero() {
			return false, nil, nil
		}
		uq := u.toField()
		scale := ratDiv(o.ConstantValue(), uq.LeadingCoeffWRT(mainVar).ConstantValue())
		facs[i] = uq.MulRat(scale)
	}
	f0 := fhat
	for _, v := range varOrder {
		f0 = f0.EvalVar(v, new(big.Rat))
	}
	prod0 := fr.One()
	for _, g := range facs {
		prod0 = prod0.Mul(g)
	}
	if !prod0.Equal(f0) {
		return false, nil, nil
	}
	for i := 0; i < len(facs); i++ {
		for j := i + 1; j < len(facs); j++ {
			a := uniFromPoly(facs[i], mainVar)
			b := uniFromPoly(facs[j], mainVar)
			if uniGCD(a, b).deg() != 0 {
				return false, nil, nil
			}
		}
	}

	// Introduce the variables one at a time. For each, the target is F with
	// the not-yet-introduced variables evaluated at the origin, the imposed
	// leading coefficients are truncated the same way, and the factors are
	// corrected order by order in the new variable.
	for k, v := range varOrder {
		fk := fhat
		for _, w := range varOrder[k+1:] {
			fk = fk.EvalVar(w, new(big.Rat))
		}
		xd := make([]Poly, len(facs))
		for i := range facs {
			lk := lhat[i]
			for _, w := range varOrder[k+1:] {
				lk = lk.EvalVar(w, new(big.Rat))
			}
			xd[i] = fr.Var(mainVar).Pow(degs[i])
			old := facs[i].CoeffWRT(mainVar, degs[i])
			facs[i] = facs[i].Sub(old.Mul(xd[i])).Add(lk.Mul(xd[i]))
		}
		// Correction solves use the factors of the previous stage, which are
		// the current factors with the new variable at the origin.
		bases := make([]Poly, len(facs))
		for i, g := range facs {
			bases[i] = g.EvalVar(v, new(big.Rat))
		}
		vpow := fr.One()
		xv := fr.Var(v)
		bound := fk.Degree(v)
		for m := 1; m <= bound; m++ {
			vpow = vpow.Mul(xv)
			prod := fr.One()
			for _, g := range facs {
				prod = prod.Mul(g)
			}
			e := fk.Sub(prod)
			if e.IsZero() {
				break
			}
			em := e.CoeffWRT(v, m)
			if em.IsZero() {
				continue
			}
			delta, okd := mdiophant(bases, em, mainVar, varOrder[:k])
			if !okd {
				return false, nil, nil
			}
			for i := range facs {
				facs[i] = facs[i].Add(delta[i].Mul(vpow))
			}
		}
		prod := fr.One()
		for _, g := range facs {
			prod = prod.Mul(g)
		}
		if !prod.Equal(fk) {
			return false, nil, nil
		}
	}

	// Translate back and verify the reconstruction.
	for k, v := range varOrder {
		neg := ratNeg(point[k])
		for i := range facs {
			facs[i] = facs[i].Shift(v, neg)
		}
	}
	prod := fr.One()
	for _, g := range facs {
		prod = prod.Mul(g)
	}
	if !prod.Equal(fq) {
		return false, nil, nil
	}
	factors = make([]Poly, len(facs))
	for i, g := range facs {
		if factors[i], err = g.toRing(F.Ring()); err != nil {
			return false, nil, err
		}
	}
	return true, factors, nil
}

// ============================================================
// Multivariate diophantine solve
// ============================================================

// mdiophant solves
//
//	sum_i delta_i · prod_{j != i} bases_j = e
//
// over QQ[mainVar, vars], where the bases evaluated at the origin of vars
// are pairwise coprime. The solve recurses on the last variable by Taylor
// expansion at the origin, bottoming out in the univariate Bezout solve.
// ok=false when the bases are not coprime enough or the expansion does not
// close within the degree cap.
func mdiophant(bases []Poly, e Poly, mainVar int, vars []int) ([]Poly, bool) {
	fr := e.Ring()
	if e.IsZero() {
		out := make([]Poly, len(bases))
		for i := range out {
			out[i] = fr.Zero()
		}
		return out, true
	}
	if len(vars) == 0 {
		ub := make([]uni, len(bases))
		for i, b := range bases {
			ub[i] = uniFromPoly(b, mainVar)
		}
		sol, ok := uniDiophant(ub, uniFromPoly(e, mainVar))
		if !ok {
			return nil, false
		}
		out := make([]Poly, len(sol))
		for i, s := range sol {
			out[i] = s.toPoly(fr, mainVar)
		}
		return out, true
	}

	v := vars[len(vars)-1]
	rest := vars[:len(vars)-1]
	bases0 := make([]Poly, len(bases))
	maxOrd := e.Degree(v) + 1
	for i, b := range bases {
		bases0[i] = b.EvalVar(v, new(big.Rat))
		if d := b.Degree(v); d > 0 {
			maxOrd += d
		}
	}
	delta := make([]Poly, len(bases))
	for i := range delta {
		delta[i] = fr.Zero()
	}
	residual := func() Poly {
		r := e
		for i := range bases {
			cof := fr.One()
			for j, b := range bases {
				if j != i {
					cof = cof.Mul(b)
				}
			}
			r = r.Sub(delta[i].Mul(cof))
		}
		return r
	}
	vpow := fr.One()
	xv := fr.Var(v)
	for m := 0; m <= maxOrd; m++ {
		r := residual()
		if r.IsZero() {
			return delta, true
		}
		em := r.CoeffWRT(v, m)
		if em.IsZero() {
			vpow = vpow.Mul(xv)
			continue
		}
		sol, ok := mdiophant(bases0, em, mainVar, rest)
		if !ok {
			return nil, false
		}
		for i := range delta {
			delta[i] = delta[i].Add(sol[i].Mul(vpow))
		}
		vpow = vpow.Mul(xv)
	}
	return delta, residual().IsZero()
}
