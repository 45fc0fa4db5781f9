package multifactor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Modular layer
// ============================================================

func TestZnDivMod_Identity(t *testing.T) {
	const p = 7
	a := zn{3, 0, 5, 1, 2}
	b := zn{6, 0, 1}

	q, r := znDivMod(a, b, p)
	assert.Less(t, znDeg(r), znDeg(b))
	back := znAdd(znMul(q, b, p), r, p)
	assert.Equal(t, znTrim(a), back)
}

func TestZnGCD_CommonFactor(t *testing.T) {
	const p = 7
	common := zn{1, 1} // x + 1
	a := znMul(common, zn{2, 1}, p)
	b := znMul(common, zn{3, 1}, p)
	assert.Equal(t, common, znGCD(a, b, p))
}

func TestZnFactor_SplitsDistinctLinears(t *testing.T) {
	const p = 7
	rnd := rand.New(rand.NewSource(1))
	// (x-1)(x-2)(x-3) over Z/7.
	f := znMul(znMul(zn{6, 1}, zn{5, 1}, p), zn{4, 1}, p)

	facs := znFactor(f, p, rnd)
	require.Len(t, facs, 3)
	prod := zn{1}
	for _, g := range facs {
		assert.Equal(t, 1, znDeg(g))
		prod = znMul(prod, g, p)
	}
	assert.Equal(t, znMonic(f, p), prod)
}

func TestZnFactor_IrreducibleQuadratic(t *testing.T) {
	const p = 7
	rnd := rand.New(rand.NewSource(1))
	// x^2 + 1 has no root mod 7.
	facs := znFactor(zn{1, 0, 1}, p, rnd)
	require.Len(t, facs, 1)
	assert.Equal(t, zn{1, 0, 1}, facs[0])
}

// ============================================================
// Integer factorization
// ============================================================

func TestFactorSquarefreeZ_IrrationalRootPair(t *testing.T) {
	// (x^2 - 2)(x^2 - 3) = x^4 - 5x^2 + 6.
	u := uniFromInts(6, 0, -5, 0, 1)

	facs := factorSquarefreeZ(u)
	require.Len(t, facs, 2)
	prod := uni{ratInt(1)}
	seen := map[int]bool{}
	for _, g := range facs {
		assert.Equal(t, 2, g.deg())
		prod = uniMul(prod, g)
		if uniEqual(g, uniFromInts(-2, 0, 1)) {
			seen[2] = true
		}
		if uniEqual(g, uniFromInts(-3, 0, 1)) {
			seen[3] = true
		}
	}
	assert.True(t, uniEqual(prod, u))
	assert.True(t, seen[2] && seen[3])
}

func TestFactorSquarefreeZ_Irreducible(t *testing.T) {
	// x^4 + 1 is irreducible over ZZ though it splits modulo every prime.
	u := uniFromInts(1, 0, 0, 0, 1)
	facs := factorSquarefreeZ(u)
	require.Len(t, facs, 1)
	assert.True(t, uniEqual(facs[0], u))
}

func TestFactorSquarefreeZ_NonMonic(t *testing.T) {
	// (2x - 1)(3x + 2) = 6x^2 + x - 2.
	u := uniFromInts(-2, 1, 6)
	facs := factorSquarefreeZ(u)
	require.Len(t, facs, 2)
	prod := uni{ratInt(1)}
	for _, g := range facs {
		prod = uniMul(prod, g)
	}
	// Factors are primitive, so the product matches up to sign.
	if !uniEqual(prod, u) {
		prod = uniScale(prod, ratInt(-1))
	}
	assert.True(t, uniEqual(prod, u))
}
