package multifactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multifactor "github.com/njchilds90/multifactor"
)

// ============================================================
// GCD
// ============================================================

func TestGCD_CommonFactor(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	a := x.Add(y).Mul(x.Add(r.One()))
	b := x.Add(y).Mul(x.Sub(r.One()))
	g := multifactor.GCD(a, b)
	assert.True(t, g.Equal(x.Add(y)), "got %s", g)
}

func TestGCD_Coprime(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	g := multifactor.GCD(x.Add(y), x.Sub(y))
	assert.True(t, g.Equal(r.One()), "got %s", g)
}

func TestGCD_RepeatedFactor(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Add(y).Pow(2)
	g := multifactor.GCD(p, p.Derivative(0))
	assert.True(t, g.Equal(x.Add(y)), "got %s", g)
}

func TestGCD_WithZero(t *testing.T) {
	r := zzRing(t, "x")
	x := r.Var(0)

	g := multifactor.GCD(x.Add(r.One()), r.Zero())
	assert.True(t, g.Equal(x.Add(r.One())))
	assert.True(t, multifactor.GCD(r.Zero(), r.Zero()).IsZero())
}

func TestGCD_NormalizedSign(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	a := x.Add(y).Neg().Mul(x)
	b := x.Add(y).Neg().Mul(y)
	g := multifactor.GCD(a, b)
	assert.True(t, g.Equal(x.Add(y)), "got %s", g)
}

func TestGCD_RationalCoefficients(t *testing.T) {
	r := qqRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	a := x.Add(y).MulRat(rat(1).SetFrac64(1, 2)).Mul(x)
	b := x.Add(y).MulRat(rat(1).SetFrac64(2, 3)).Mul(y)
	g := multifactor.GCD(a, b)
	assert.True(t, g.Equal(x.Add(y)), "got %s", g)
}

func TestGCD_TrivariateDerivative(t *testing.T) {
	r := zzRing(t, "x", "y", "z")
	x, y, z := r.Var(0), r.Var(1), r.Var(2)

	// A degree-7 squarefree trivariate product: its gcd with the x-derivative
	// is constant, and the coefficient growth along the remainder sequence
	// must stay tame enough for this to finish.
	g1 := y.Mul(x.Pow(2)).Add(z)
	g2 := z.Add(r.One()).Mul(x.Pow(3)).Add(x.Mul(y)).Add(z)
	g3 := y.Mul(z).Add(r.One()).Mul(x.Pow(2)).Add(r.One())
	f := g1.Mul(g2).Mul(g3)

	g := multifactor.GCD(f, f.Derivative(0))
	assert.True(t, g.IsConstant(), "got %s", g)
}

func TestGCD_TrivariateRepeatedFactor(t *testing.T) {
	r := zzRing(t, "x", "y", "z")
	x, y, z := r.Var(0), r.Var(1), r.Var(2)

	p := y.Mul(x.Pow(2)).Add(z)
	f := p.Pow(2).Mul(x.Add(y))
	g := multifactor.GCD(f, f.Derivative(0))
	assert.True(t, g.Equal(p), "got %s", g)
}

// ============================================================
// Content and primitive part
// ============================================================

func TestContentWRT_PullsOutVariableFreePart(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := y.Mul(x.Pow(2)).Add(y.Mul(x)).Add(y)
	c := multifactor.ContentWRT(p, 0)
	assert.True(t, c.Equal(y), "got %s", c)

	pp := multifactor.PrimitivePartWRT(p, 0)
	want := x.Pow(2).Add(x).Add(r.One())
	assert.True(t, pp.Equal(want), "got %s", pp)
}

func TestContentWRT_PrimitiveInput(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := y.Mul(x).Add(r.One())
	c := multifactor.ContentWRT(p, 0)
	require.True(t, c.IsConstant())
	assert.True(t, c.Equal(r.One()))
}
