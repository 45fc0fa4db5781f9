package multifactor

import (
	"math/big"
	"math/rand"
)

// ============================================================
// Univariate factorization over ZZ (Zassenhaus)
// ============================================================
//
// The classical route: monicize, factor modulo a small odd prime that keeps
// the polynomial squarefree, Hensel-lift the modular factors past the
// coefficient bound of any true factor, and recombine lifted factors by
// subset products with exact trial division. Everything here is
// deterministic: the equal-degree splits draw from a fixed-seed source.

// factorSquarefreeZ factors a squarefree integer polynomial of degree >= 1
// into irreducible integer factors. Coefficients of u must be integers.
func factorSquarefreeZ(u uni) []uni {
	u = u.trim()
	n := u.deg()
	if n <= 1 {
		return []uni{u}
	}
	f := make([]*big.Int, n+1)
	for i, c := range u {
		f[i] = new(big.Int).Set(c.Num())
	}
	lc := new(big.Int).Set(f[n])

	// Monicize: fstar(y) = lc^(n-1) f(y/lc) is monic with integer
	// coefficients, and factors of f are primitive parts of back-substituted
	// factors of fstar.
	fstar := make([]*big.Int, n+1)
	fstar[n] = big.NewInt(1)
	pow := big.NewInt(1)
	for i := n - 1; i >= 0; i-- {
		fstar[i] = new(big.Int).Mul(f[i], pow)
		pow = new(big.Int).Mul(pow, lc)
	}

	p := pickModularPrime(fstar)
	rnd := rand.New(rand.NewSource(0x5eedfac7))
	modular := znFactor(znReduce(fstar, p), p, rnd)
	if len(modular) == 1 {
		return []uni{u}
	}

	// Lift past twice the factor coefficient bound so symmetric residues
	// recover true factors exactly.
	bound := factorCoeffBound(fstar)
	bigP := big.NewInt(p)
	modulus := new(big.Int).Set(bigP)
	steps := 1
	limit := new(big.Int).Lsh(bound, 1)
	for modulus.Cmp(limit) <= 0 {
		modulus.Mul(modulus, bigP)
		steps++
	}
	lifted := henselLiftZ(fstar, modular, p, steps)

	zfacs := recombineZ(fstar, lifted, modulus)

	out := make([]uni, 0, len(zfacs))
	for _, g := range zfacs {
		// Back-substitute x -> lc*x and strip the integer content.
		pow := big.NewInt(1)
		h := make(uni, len(g))
		cont := new(big.Int)
		for i, c := range g {
			v := new(big.Int).Mul(c, pow)
			h[i] = new(big.Rat).SetInt(v)
			cont.GCD(nil, nil, cont, new(big.Int).Abs(v))
			pow = new(big.Int).Mul(pow, lc)
		}
		inv := new(big.Rat).SetFrac(big.NewInt(1), cont)
		out = append(out, uniScale(h, inv))
	}
	return out
}

// pickModularPrime returns a small odd prime modulo which the monic
// polynomial stays squarefree.
func pickModularPrime(f []*big.Int) int64 {
	for p := int64(3); ; p = nextOddPrime(p) {
		fp := znReduce(f, p)
		if znDeg(fp) != len(f)-1 {
			continue
		}
		if znDeg(znGCD(fp, znDerive(fp, p), p)) == 0 {
			return p
		}
	}
}

func nextOddPrime(p int64) int64 {
	for q := p + 2; ; q += 2 {
		prime := true
		for d := int64(3); d*d <= q; d += 2 {
			if q%d == 0 {
				prime = false
				break
			}
		}
		if prime {
			return q
		}
	}
}

// factorCoeffBound bounds the absolute coefficients of any monic factor of
// the monic integer polynomial f (a coarse Mignotte-style bound).
func factorCoeffBound(f []*big.Int) *big.Int {
	h := new(big.Int)
	for _, c := range f {
		a := new(big.Int).Abs(c)
		if a.Cmp(h) > 0 {
			h.Set(a)
		}
	}
	n := len(f) - 1
	b := new(big.Int).Lsh(h, uint(n))
	return b.Mul(b, big.NewInt(int64(n+1)))
}

// ============================================================
// Arithmetic modulo a small prime
// ============================================================

// zn is a dense polynomial over Z/p, coefficients ascending in [0, p).
type zn []int64

func znReduce(f []*big.Int, p int64) zn {
	out := make(zn, len(f))
	m := big.NewInt(p)
	t := new(big.Int)
	for i, c := range f {
		out[i] = t.Mod(c, m).Int64()
	}
	return znTrim(out)
}

func znTrim(a zn) zn {
	n := len(a)
	for n > 0 && a[n-1] == 0 {
		n--
	}
	return a[:n]
}

func znDeg(a zn) int { return len(znTrim(a)) - 1 }

func znClone(a zn) zn {
	out := make(zn, len(a))
	copy(out, a)
	return out
}

func znAdd(a, b zn, p int64) zn {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(zn, n)
	for i := range out {
		var x, y int64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = (x + y) % p
	}
	return znTrim(out)
}

func znSub(a, b zn, p int64) zn {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(zn, n)
	for i := range out {
		var x, y int64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = ((x-y)%p + p) % p
	}
	return znTrim(out)
}

func znScale(a zn, c, p int64) zn {
	out := make(zn, len(a))
	for i, x := range a {
		out[i] = x * c % p
	}
	return znTrim(out)
}

func znMul(a, b zn, p int64) zn {
	a, b = znTrim(a), znTrim(b)
	if len(a) == 0 || len(b) == 0 {
		return zn{}
	}
	out := make(zn, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] = (out[i+j] + x*y) % p
		}
	}
	return znTrim(out)
}

func modInv(a, p int64) int64 {
	// Extended Euclid on (a, p).
	t, newT := int64(0), int64(1)
	r, newR := p, a%p
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}
	if t < 0 {
		t += p
	}
	return t
}

func znDivMod(a, b zn, p int64) (zn, zn) {
	b = znTrim(b)
	if len(b) == 0 {
		panic("multifactor: modular division by zero")
	}
	r := znClone(znTrim(a))
	if znDeg(r) < znDeg(b) {
		return zn{}, r
	}
	q := make(zn, znDeg(r)-znDeg(b)+1)
	inv := modInv(b[len(b)-1], p)
	for znDeg(r) >= znDeg(b) {
		d := znDeg(r) - znDeg(b)
		c := r[znDeg(r)] * inv % p
		q[d] = c
		for i, bc := range b {
			r[d+i] = ((r[d+i]-c*bc%p)%p + p) % p
		}
		r = znTrim(r)
	}
	return znTrim(q), r
}

func znMonic(a zn, p int64) zn {
	a = znTrim(a)
	if len(a) == 0 {
		return a
	}
	return znScale(a, modInv(a[len(a)-1], p), p)
}

func znGCD(a, b zn, p int64) zn {
	a, b = znClone(znTrim(a)), znClone(znTrim(b))
	for len(b) != 0 {
		_, r := znDivMod(a, b, p)
		a, b = b, r
	}
	return znMonic(a, p)
}

// znPowMod computes a^e mod (h, p) by binary exponentiation.
func znPowMod(a zn, e *big.Int, h zn, p int64) zn {
	_, a = znDivMod(a, h, p)
	out := zn{1}
	for i := e.BitLen() - 1; i >= 0; i-- {
		out = znMul(out, out, p)
		_, out = znDivMod(out, h, p)
		if e.Bit(i) == 1 {
			out = znMul(out, a, p)
			_, out = znDivMod(out, h, p)
		}
	}
	return out
}

func znDerive(a zn, p int64) zn {
	if len(a) < 2 {
		return zn{}
	}
	out := make(zn, len(a)-1)
	for i := 1; i < len(a); i++ {
		out[i-1] = a[i] * (int64(i) % p) % p
	}
	return znTrim(out)
}

// ============================================================
// Cantor–Zassenhaus over Z/p
// ============================================================

// znFactor splits a squarefree polynomial over Z/p into monic irreducible
// factors: distinct-degree decomposition, then equal-degree splitting.
func znFactor(f zn, p int64, rnd *rand.Rand) []zn {
	h := znMonic(f, p)
	var out []zn
	x := zn{0, 1}
	xq := znClone(x)
	bigP := big.NewInt(p)
	for d := 1; 2*d <= znDeg(h); d++ {
		xq = znPowMod(xq, bigP, h, p)
		g := znGCD(znSub(xq, x, p), h, p)
		if znDeg(g) > 0 {
			out = append(out, znSplitEqualDegree(g, d, p, rnd)...)
			h, _ = znDivMod(h, g, p)
			h = znMonic(h, p)
			_, xq = znDivMod(xq, h, p)
		}
	}
	if znDeg(h) > 0 {
		out = append(out, h)
	}
	return out
}

// znSplitEqualDegree splits g, a product of irreducibles all of degree d,
// by random power probes.
func znSplitEqualDegree(g zn, d int, p int64, rnd *rand.Rand) []zn {
	g = znMonic(g, p)
	if znDeg(g) == d {
		return []zn{g}
	}
	// (p^d - 1) / 2
	e := new(big.Int).Exp(big.NewInt(p), big.NewInt(int64(d)), nil)
	e.Sub(e, big.NewInt(1))
	e.Rsh(e, 1)
	for {
		r := make(zn, znDeg(g))
		for i := range r {
			r[i] = rnd.Int63n(p)
		}
		if len(znTrim(r)) == 0 {
			continue
		}
		s := znPowMod(r, e, g, p)
		t := znGCD(znSub(s, zn{1}, p), g, p)
		if znDeg(t) > 0 && znDeg(t) < znDeg(g) {
			rest, _ := znDivMod(g, t, p)
			return append(znSplitEqualDegree(t, d, p, rnd), znSplitEqualDegree(znMonic(rest, p), d, p, rnd)...)
		}
	}
}

// ============================================================
// Hensel lifting to a prime power
// ============================================================

// henselLiftZ lifts monic factors of a monic integer polynomial from mod p
// to mod p^steps, one linear step at a time. The correction at each step is
// the modular Bezout solve against the fixed mod-p factors.
func henselLiftZ(f []*big.Int, facs []zn, p int64, steps int) [][]*big.Int {
	bigP := big.NewInt(p)
	lifted := make([][]*big.Int, len(facs))
	for i, g := range facs {
		lifted[i] = make([]*big.Int, len(g))
		for j, c := range g {
			lifted[i][j] = big.NewInt(c)
		}
	}
	pm := new(big.Int).Set(bigP)
	for m := 1; m < steps; m++ {
		pm1 := new(big.Int).Mul(pm, bigP)
		// e = f - prod(lifted), divisible by p^m by construction.
		prod := []*big.Int{big.NewInt(1)}
		for _, g := range lifted {
			prod = zbMul(prod, g)
		}
		e := zbSub(f, prod)
		em := make(zn, len(e))
		q := new(big.Int)
		r := new(big.Int)
		for i, c := range e {
			q.QuoRem(c, pm, r)
			if r.Sign() != 0 {
				panic("multifactor: hensel step residue not divisible by modulus")
			}
			em[i] = q.Mod(q, bigP).Int64()
		}
		em = znTrim(em)
		if len(em) != 0 {
			delta := znDiophant(facs, em, p)
			for i, d := range delta {
				for j, c := range d {
					if c == 0 {
						continue
					}
					add := new(big.Int).Mul(pm, big.NewInt(c))
					lifted[i][j].Add(lifted[i][j], add)
					lifted[i][j].Mod(lifted[i][j], pm1)
				}
			}
		}
		pm = pm1
	}
	return lifted
}

// znDiophant solves sum_i delta_i * prod_{j != i} u_j = e over Z/p for
// pairwise-coprime u_i, with deg delta_i < deg u_i.
func znDiophant(u []zn, e zn, p int64) []zn {
	if len(u) == 1 {
		_, r := znDivMod(e, u[0], p)
		return []zn{r}
	}
	b := zn{1}
	for _, g := range u[1:] {
		b = znMul(b, g, p)
	}
	// t with t*b == 1 mod u[0].
	g, _, t := znXGCD(u[0], b, p)
	if znDeg(g) != 0 {
		panic("multifactor: modular factors not coprime")
	}
	d0 := znMul(t, e, p)
	_, d0 = znDivMod(d0, u[0], p)
	rem := znSub(e, znMul(d0, b, p), p)
	e2, r := znDivMod(rem, u[0], p)
	if len(znTrim(r)) != 0 {
		panic("multifactor: modular diophantine residue")
	}
	return append([]zn{d0}, znDiophant(u[1:], e2, p)...)
}

func znXGCD(a, b zn, p int64) (g, s, t zn) {
	r0, r1 := znClone(znTrim(a)), znClone(znTrim(b))
	s0, s1 := zn{1}, zn{}
	t0, t1 := zn{}, zn{1}
	for len(r1) != 0 {
		q, r := znDivMod(r0, r1, p)
		r0, r1 = r1, r
		s0, s1 = s1, znSub(s0, znMul(q, s1, p), p)
		t0, t1 = t1, znSub(t0, znMul(q, t1, p), p)
	}
	inv := modInv(r0[len(r0)-1], p)
	return znScale(r0, inv, p), znScale(s0, inv, p), znScale(t0, inv, p)
}

// ============================================================
// Integer polynomial helpers and recombination
// ============================================================

func zbMul(a, b []*big.Int) []*big.Int {
	out := make([]*big.Int, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, x := range a {
		if x.Sign() == 0 {
			continue
		}
		for j, y := range b {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}
	return out
}

func zbSub(a, b []*big.Int) []*big.Int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int)
		if i < len(a) {
			out[i].Set(a[i])
		}
		if i < len(b) {
			out[i].Sub(out[i], b[i])
		}
	}
	return out
}

// zbDivModMonic divides a by monic b with integer long division.
func zbDivModMonic(a, b []*big.Int) (q, r []*big.Int) {
	r = make([]*big.Int, len(a))
	for i, c := range a {
		r[i] = new(big.Int).Set(c)
	}
	db := len(b) - 1
	if len(r)-1 < db {
		return nil, r
	}
	q = make([]*big.Int, len(r)-db)
	t := new(big.Int)
	for i := len(r) - 1; i >= db; i-- {
		c := new(big.Int).Set(r[i])
		q[i-db] = c
		if c.Sign() == 0 {
			continue
		}
		for j, bc := range b {
			r[i-db+j].Sub(r[i-db+j], t.Mul(c, bc))
		}
	}
	return q, r[:db]
}

func zbIsZero(a []*big.Int) bool {
	for _, c := range a {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}

// recombineZ recovers the true integer factors of the monic fstar from its
// lifted modular factors: subsets of increasing size, symmetric residues,
// exact trial division.
func recombineZ(fstar []*big.Int, lifted [][]*big.Int, modulus *big.Int) [][]*big.Int {
	half := new(big.Int).Rsh(modulus, 1)
	symmetric := func(a []*big.Int) []*big.Int {
		out := make([]*big.Int, len(a))
		for i, c := range a {
			v := new(big.Int).Mod(c, modulus)
			if v.Cmp(half) > 0 {
				v.Sub(v, modulus)
			}
			out[i] = v
		}
		return out
	}
	pool := make([]int, len(lifted))
	for i := range pool {
		pool[i] = i
	}
	current := fstar
	var out [][]*big.Int
	for len(pool) > 0 {
		found := false
		for s := 1; s <= len(pool) && !found; s++ {
			for _, sub := range combinations(pool, s) {
				cand := []*big.Int{big.NewInt(1)}
				for _, idx := range sub {
					cand = zbMul(cand, lifted[idx])
					for i, c := range cand {
						cand[i] = new(big.Int).Mod(c, modulus)
					}
				}
				cand = symmetric(cand)
				q, r := zbDivModMonic(current, cand)
				if q == nil || !zbIsZero(r) {
					continue
				}
				out = append(out, cand)
				current = q
				pool = subtractIndices(pool, sub)
				found = true
				break
			}
		}
		if !found {
			// Whatever is left is irreducible.
			break
		}
	}
	if len(current) > 1 {
		out = append(out, current)
	}
	return out
}
