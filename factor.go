package multifactor

import (
	"math/big"
	"math/rand"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Options
// ============================================================

// Options tunes the factorization driver.
type Options struct {
	// MaxRetries bounds how many evaluation points are tried for a single
	// squarefree component before giving up with ErrRetriesExhausted.
	MaxRetries int

	// Parallel factors independent squarefree components concurrently.
	Parallel bool

	// Rand, when set, draws evaluation points randomly instead of walking
	// the deterministic escalation sequence.
	Rand *rand.Rand

	// Oracle replaces the built-in univariate factorizer. It receives a
	// squarefree polynomial univariate in the given variable and must return
	// pairwise-coprime factors whose product is the input up to a constant.
	Oracle func(Poly, int) ([]Poly, error)
}

// DefaultOptions returns the settings used by Factor.
func DefaultOptions() Options {
	return Options{MaxRetries: 12}
}

// ============================================================
// Factorization result
// ============================================================

// FactorPair is one irreducible factor with its multiplicity.
type FactorPair struct {
	Poly Poly
	Mult int
}

// FactorList is a complete factorization: a constant unit and irreducible
// factors with multiplicities, satisfying
//
//	input = Unit · prod_i Factors[i].Poly^Factors[i].Mult
//
// exactly. Factors are integer-primitive with positive leading coefficient
// and sorted deterministically.
type FactorList struct {
	Unit    Poly
	Factors []FactorPair
}

// Product multiplies the factorization back together.
func (fl FactorList) Product() Poly {
	out := fl.Unit
	for _, f := range fl.Factors {
		out = out.Mul(f.Poly.Pow(f.Mult))
	}
	return out
}

// ============================================================
// Driver
// ============================================================

// Factor returns the complete factorization of f into irreducibles over its
// ring with default options. The zero polynomial is rejected with
// ErrZeroPolynomial; constants come back as a bare unit.
func Factor(f Poly) (FactorList, error) {
	return FactorWithOptions(f, DefaultOptions())
}

// FactorWithOptions is Factor with explicit settings.
func FactorWithOptions(f Poly, opts Options) (FactorList, error) {
	if f.IsZero() {
		return FactorList{}, errors.WithStack(ErrZeroPolynomial)
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultOptions().MaxRetries
	}
	if f.IsConstant() {
		return FactorList{Unit: f}, nil
	}
	_, sqf, err := SquarefreeDecompose(f)
	if err != nil {
		return FactorList{}, err
	}

	results := make([][]Poly, len(sqf))
	if opts.Parallel {
		var g errgroup.Group
		for i := range sqf {
			i := i
			g.Go(func() error {
				irr, err := factorSquarefree(sqf[i].Poly, opts)
				if err != nil {
					return err
				}
				results[i] = irr
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return FactorList{}, err
		}
	} else {
		for i := range sqf {
			if results[i], err = factorSquarefree(sqf[i].Poly, opts); err != nil {
				return FactorList{}, err
			}
		}
	}

	// Merge equal factors across components and recover the unit by exact
	// division so the reconstruction identity holds by construction.
	var list FactorList
	for i, irr := range results {
		for _, p := range irr {
			merged := false
			for j := range list.Factors {
				if list.Factors[j].Poly.Equal(p) {
					list.Factors[j].Mult += sqf[i].Mult
					merged = true
					break
				}
			}
			if !merged {
				list.Factors = append(list.Factors, FactorPair{Poly: p, Mult: sqf[i].Mult})
			}
		}
	}
	sort.Slice(list.Factors, func(i, j int) bool {
		a, b := list.Factors[i].Poly, list.Factors[j].Poly
		da, db := totalDegree(a), totalDegree(b)
		if da != db {
			return da < db
		}
		return a.String() < b.String()
	})
	prod := f.Ring().One()
	for _, fp := range list.Factors {
		prod = prod.Mul(fp.Poly.Pow(fp.Mult))
	}
	unit, err := f.DivExact(prod)
	if err != nil || !unit.IsConstant() {
		return FactorList{}, errors.Newf("multifactor: factor reconstruction failed for %s", f)
	}
	list.Unit = unit
	return list, nil
}

func totalDegree(p Poly) int {
	d := 0
	for _, t := range p.Terms() {
		s := 0
		for _, e := range t.Exp {
			s += e
		}
		if s > d {
			d = s
		}
	}
	return d
}

// factorSquarefree splits a squarefree nonconstant polynomial into
// normalized irreducible factors.
func factorSquarefree(g Poly, opts Options) ([]Poly, error) {
	g, _ = normalizeFactor(g)
	var active []int
	for v := 0; v < g.Ring().NumVars(); v++ {
		if g.Degree(v) > 0 {
			active = append(active, v)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}
	oracle := opts.Oracle
	if oracle == nil {
		oracle = factorSquarefreeUni
	}
	if len(active) == 1 {
		raw, err := oracle(g, active[0])
		if err != nil {
			return nil, err
		}
		out := make([]Poly, len(raw))
		for i, p := range raw {
			out[i], _ = normalizeFactor(p)
		}
		return out, nil
	}
	mainVar := active[0]
	cont := ContentWRT(g, mainVar)
	a := g.mustDivExact(cont)
	var out []Poly
	if !cont.IsConstant() {
		sub, err := factorSquarefree(cont, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	irr, err := factorPrimitive(a, mainVar, active[1:], opts)
	if err != nil {
		return nil, err
	}
	return append(out, irr...), nil
}

// factorPrimitive factors a squarefree polynomial that is primitive with
// respect to mainVar and involves at least two variables. It evaluates the
// other variables at a point, factors the univariate image, and lifts the
// image factorization back up, retrying with escalating points until the
// lift closes.
func factorPrimitive(a Poly, mainVar int, others []int, opts Options) ([]Poly, error) {
	a, _ = normalizeFactor(a)
	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		point := pickPoint(attempt, len(others), opts)

		// The point must preserve the mainVar degree and squarefreeness.
		a0 := a
		for i, v := range others {
			a0 = a0.EvalVar(v, point[i])
		}
		if a0.Degree(mainVar) != a.Degree(mainVar) {
			continue
		}
		u0 := uniFromPoly(a0.toField(), mainVar)
		if uniGCD(u0, uniFromPoly(a0.toField().Derivative(mainVar), mainVar)).deg() != 0 {
			continue
		}

		oracle := opts.Oracle
		if oracle == nil {
			oracle = factorSquarefreeUni
		}
		ufacs, err := oracle(a0, mainVar)
		if err != nil {
			return nil, err
		}
		if len(ufacs) <= 1 {
			// No split at this point, so no split anywhere.
			return []Poly{a}, nil
		}

		if len(others) == 1 {
			ok, cont, facs, _, err := HliftBivarCombine(a, mainVar, others[0], point[0], -1, ufacs)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if !cont.IsConstant() {
				// a is primitive in mainVar, so this only fires on a
				// non-primitive caller input.
				sub, err := factorSquarefree(cont, opts)
				if err != nil {
					return nil, err
				}
				facs = append(facs, sub...)
			}
			return facs, nil
		}

		// Three or more variables: lift to a bivariate subproblem first to
		// learn which univariate factors belong together, then distribute
		// the leading coefficient and lift the grouped factors in all
		// variables at once.
		otherVar := others[0]
		b := a
		for i, v := range others[1:] {
			b = b.EvalVar(v, point[i+1])
		}
		if b.Degree(mainVar) != a.Degree(mainVar) {
			continue
		}
		ok, _, bfacs, groups, err := HliftBivarCombine(b, mainVar, otherVar, point[0], a.Degree(otherVar), ufacs)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if len(bfacs) == 1 {
			return []Poly{a}, nil
		}
		grouped := make([]Poly, len(groups))
		for i, grp := range groups {
			p := a.Ring().One()
			for _, j := range grp {
				p = p.Mul(ufacs[j])
			}
			grouped[i] = p
		}
		lcs, okLC, err := distributeLC(a, mainVar, bfacs, point[0], others, point, opts)
		if err != nil {
			return nil, err
		}
		if !okLC {
			continue
		}
		okLift, facs, err := HenselLiftWithLCs(a, grouped, lcs, mainVar, others, point)
		if err != nil {
			return nil, err
		}
		if !okLift {
			continue
		}
		for i, g := range facs {
			facs[i], _ = normalizeFactor(g)
		}
		return facs, nil
	}
	return nil, errors.Wrapf(ErrRetriesExhausted, "factoring %s", a)
}

// pickPoint returns integer evaluation values for n variables. The
// deterministic sequence staggers the per-variable offsets so successive
// attempts vary every coordinate.
func pickPoint(attempt, n int, opts Options) []*big.Rat {
	out := make([]*big.Rat, n)
	if opts.Rand != nil {
		span := int64(4 + 2*attempt)
		for i := range out {
			v := opts.Rand.Int63n(2*span) - span
			if v >= 0 {
				v++ // skip zero
			}
			out[i] = ratInt(v)
		}
		return out
	}
	seq := []int64{1, -1, 2, -2, 3, -3, 4, -4, 5, -5, 7, -7, 11, -11}
	for i := range out {
		out[i] = ratInt(seq[(attempt+3*i)%len(seq)])
	}
	return out
}

// ============================================================
// Leading-coefficient distribution
// ============================================================

// distributeLC determines the true leading coefficient of each factor of a
// with respect to mainVar, given the bivariate factors at the evaluation
// point. The leading coefficient of a is factored recursively, each of its
// irreducible factors is identified by the integer it takes at the point,
// and those integers are matched against the leading coefficients of the
// bivariate factors by divisibility counting. ok=false when the point does
// not separate the irreducible factors; the caller retries.
func distributeLC(a Poly, mainVar int, bfacs []Poly, alpha *big.Rat, others []int, point []*big.Rat, opts Options) ([]Poly, bool, error) {
	r := a.Ring()
	lcA := a.LeadingCoeffWRT(mainVar)
	lcs := make([]Poly, len(bfacs))
	if lcA.IsConstant() {
		for i := range lcs {
			lcs[i] = r.One()
		}
		return lcs, true, nil
	}
	fl, err := FactorWithOptions(lcA, opts)
	if err != nil {
		return nil, false, err
	}

	// Integer value of each irreducible leading-coefficient factor at the
	// point, and the part of it not shared with any other factor's value.
	// A factor with no private part cannot be attributed at this point.
	n := len(fl.Factors)
	vals := make([]*big.Int, n)
	ids := make([]*big.Int, n)
	one := big.NewInt(1)
	for j, fp := range fl.Factors {
		v := fp.Poly
		for i, w := range others {
			v = v.EvalVar(w, point[i])
		}
		c := v.ConstantValue()
		if c.Sign() == 0 || !c.IsInt() {
			return nil, false, nil
		}
		vals[j] = new(big.Int).Abs(c.Num())
	}
	for j := range vals {
		id := new(big.Int).Set(vals[j])
		for k := range vals {
			if k == j {
				continue
			}
			for {
				g := new(big.Int).GCD(nil, nil, id, vals[k])
				if g.Cmp(one) == 0 {
					break
				}
				id.Div(id, g)
			}
		}
		if id.Cmp(one) == 0 {
			return nil, false, nil
		}
		ids[j] = id
	}

	// Attribute each irreducible factor to bivariate factors by dividing
	// its private part out of their leading coefficients at the point.
	counts := make([][]int, len(bfacs))
	for i, bf := range bfacs {
		counts[i] = make([]int, n)
		c := bf.LeadingCoeffWRT(mainVar).EvalVar(others[0], alpha).ConstantValue()
		if c.Sign() == 0 || !c.IsInt() {
			return nil, false, nil
		}
		num := new(big.Int).Abs(c.Num())
		for j := range ids {
			for new(big.Int).Mod(num, ids[j]).Sign() == 0 {
				num.Div(num, ids[j])
				counts[i][j]++
			}
		}
	}
	for j, fp := range fl.Factors {
		total := 0
		for i := range bfacs {
			total += counts[i][j]
		}
		if total != fp.Mult {
			return nil, false, nil
		}
	}
	for i := range bfacs {
		l := r.One()
		for j, fp := range fl.Factors {
			l = l.Mul(fp.Poly.Pow(counts[i][j]))
		}
		lcs[i] = l
	}

	// Sanity: the distributed leading coefficients must rebuild lc(a) up to
	// a constant. The lift itself verifies the rest.
	prod := r.One()
	for _, l := range lcs {
		prod = prod.Mul(l)
	}
	ratio, errD := lcA.DivExact(prod)
	if errD != nil || !ratio.IsConstant() {
		return nil, false, nil
	}
	return lcs, true, nil
}
