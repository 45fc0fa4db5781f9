package multifactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multifactor "github.com/njchilds90/multifactor"
)

// ============================================================
// Bivariate lift and recombination
// ============================================================

// p = y (y x + 1) ((y+1) x + y) ((y+2) x + y) over QQ[x,y]; at y = 1 the
// factors with positive x-degree evaluate to x+1, 2x+1, 3x+1.
func bivarFixture(t *testing.T) (multifactor.Poly, []multifactor.Poly, []multifactor.Poly) {
	t.Helper()
	r := qqRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	f1 := y.Mul(x).Add(r.One())
	f2 := y.Add(r.One()).Mul(x).Add(y)
	f3 := y.Add(r.ConstInt(2)).Mul(x).Add(y)
	p := y.Mul(f1).Mul(f2).Mul(f3)

	ufacs := []multifactor.Poly{
		x.Add(r.One()),
		x.MulRat(rat(2)).Add(r.One()),
		x.MulRat(rat(3)).Add(r.One()),
	}
	return p, ufacs, []multifactor.Poly{f1, f2, f3}
}

func TestHliftBivarCombine_SplitsThreeFactors(t *testing.T) {
	p, ufacs, want := bivarFixture(t)

	ok, content, factors, groups, err := multifactor.HliftBivarCombine(p, 0, 1, rat(1), 1, ufacs)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []int{0, 1}, content.DegreeVector())
	require.Len(t, factors, 3)
	for i, g := range factors {
		assert.True(t, g.Equal(want[i]), "factor %d: got %s want %s", i, g, want[i])
		assert.Equal(t, []int{i}, groups[i])
	}

	prod := content
	for _, g := range factors {
		prod = prod.Mul(g)
	}
	assert.True(t, prod.Equal(p))
}

func TestHliftBivarCombine_DegreeDropPoint(t *testing.T) {
	p, ufacs, _ := bivarFixture(t)

	// The leading coefficient in x vanishes at y = 0.
	ok, _, _, _, err := multifactor.HliftBivarCombine(p, 0, 1, rat(0), 1, ufacs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHliftBivarCombine_WrongDegreeSum(t *testing.T) {
	p, ufacs, _ := bivarFixture(t)

	ok, _, _, _, err := multifactor.HliftBivarCombine(p, 0, 1, rat(1), 1, ufacs[:2])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHliftBivarCombine_SameVariable(t *testing.T) {
	p, ufacs, _ := bivarFixture(t)
	_, _, _, _, err := multifactor.HliftBivarCombine(p, 0, 0, rat(1), 1, ufacs)
	require.Error(t, err)
}

func TestHliftBivarCombine_ZeroPolynomial(t *testing.T) {
	r := qqRing(t, "x", "y")
	_, _, _, _, err := multifactor.HliftBivarCombine(r.Zero(), 0, 1, rat(1), 1, []multifactor.Poly{r.Var(0)})
	require.ErrorIs(t, err, multifactor.ErrZeroPolynomial)
}

func TestHliftBivarCombine_IntegerRing(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(2).Sub(y.Pow(2))
	ufacs := []multifactor.Poly{x.Add(r.One()), x.Sub(r.One())}
	ok, content, factors, _, err := multifactor.HliftBivarCombine(p, 0, 1, rat(1), -1, ufacs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, content.IsConstant())
	require.Len(t, factors, 2)
	assert.True(t, factors[0].Equal(x.Add(y)))
	assert.True(t, factors[1].Equal(x.Sub(y)))
}

func TestHliftBivarCombine_MergesPieces(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	// x^2 - y^3 is irreducible, but its image at y = 1 splits into
	// (x-1)(x+1); the recombination has to merge the two lifted pieces.
	p := x.Pow(2).Sub(y.Pow(3))
	ufacs := []multifactor.Poly{x.Sub(r.One()), x.Add(r.One())}
	ok, _, factors, groups, err := multifactor.HliftBivarCombine(p, 0, 1, rat(1), -1, ufacs)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, factors, 1)
	assert.True(t, factors[0].Equal(p))
	assert.Equal(t, [][]int{{0, 1}}, groups)
}
