package multifactor_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multifactor "github.com/njchilds90/multifactor"
)

func zzRing(t *testing.T, vars ...string) *multifactor.Ring {
	t.Helper()
	r, err := multifactor.NewRing(multifactor.IntegerRing, vars...)
	require.NoError(t, err)
	return r
}

func qqRing(t *testing.T, vars ...string) *multifactor.Ring {
	t.Helper()
	r, err := multifactor.NewRing(multifactor.RationalField, vars...)
	require.NoError(t, err)
	return r
}

func rat(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

// ============================================================
// Arithmetic
// ============================================================

func TestPoly_AddMul(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Add(y).Mul(x.Sub(y))
	want := x.Pow(2).Sub(y.Pow(2))
	assert.True(t, p.Equal(want), "got %s", p)
}

func TestPoly_String_Ordering(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(2).Sub(y.Pow(2))
	assert.Equal(t, "x^2 - y^2", p.String())

	q := y.Mul(x).Add(r.ConstInt(-3)).Add(x.Pow(3))
	assert.Equal(t, "x^3 + x*y - 3", q.String())
}

func TestPoly_CancellationToZero(t *testing.T) {
	r := zzRing(t, "x")
	x := r.Var(0)
	assert.True(t, x.Sub(x).IsZero())
}

func TestPoly_Pow(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Add(y).Pow(2)
	want := x.Pow(2).Add(x.Mul(y).MulRat(rat(2))).Add(y.Pow(2))
	assert.True(t, p.Equal(want), "got %s", p)
	assert.True(t, x.Pow(0).Equal(r.One()))
}

func TestPoly_Degree(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(3).Mul(y).Add(y.Pow(2))
	assert.Equal(t, 3, p.Degree(0))
	assert.Equal(t, 2, p.Degree(1))
	assert.Equal(t, []int{3, 2}, p.DegreeVector())
	assert.Equal(t, -1, r.Zero().Degree(0))
}

func TestPoly_Derivative(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(2).Mul(y)
	assert.True(t, p.Derivative(0).Equal(x.Mul(y).MulRat(rat(2))))
	assert.True(t, p.Derivative(1).Equal(x.Pow(2)))
	assert.True(t, r.ConstInt(7).Derivative(0).IsZero())
}

func TestPoly_EvalVar(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(2).Add(y)
	got := p.EvalVar(0, rat(3))
	assert.True(t, got.Equal(y.Add(r.ConstInt(9))), "got %s", got)
}

func TestPoly_Shift_Roundtrip(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(3).Mul(y).Add(x.Mul(y.Pow(2))).Add(r.ConstInt(5))
	shifted := p.Shift(1, rat(2))
	back := shifted.Shift(1, rat(-2))
	assert.True(t, back.Equal(p))
	// Shift really is substitution: values agree at a sample point.
	lhs := shifted.EvalVar(1, rat(1)).EvalVar(0, rat(2))
	rhs := p.EvalVar(1, rat(3)).EvalVar(0, rat(2))
	assert.Zero(t, lhs.ConstantValue().Cmp(rhs.ConstantValue()))
}

func TestPoly_CoeffWRT(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := y.Mul(x.Pow(2)).Add(x).Add(y.Pow(3))
	assert.True(t, p.CoeffWRT(0, 2).Equal(y))
	assert.True(t, p.CoeffWRT(0, 1).Equal(r.One()))
	assert.True(t, p.CoeffWRT(0, 0).Equal(y.Pow(3)))
	assert.True(t, p.LeadingCoeffWRT(0).Equal(y))
}

// ============================================================
// Exact division
// ============================================================

func TestPoly_DivExact_Exact(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Pow(2).Sub(y.Pow(2))
	q, err := p.DivExact(x.Sub(y))
	require.NoError(t, err)
	assert.True(t, q.Equal(x.Add(y)), "got %s", q)
}

func TestPoly_DivExact_Inexact(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	_, err := x.Pow(2).Add(y).DivExact(x.Sub(y))
	require.ErrorIs(t, err, multifactor.ErrInexactDivision)
}

func TestPoly_DivExact_NonIntegerQuotient(t *testing.T) {
	r := zzRing(t, "x")
	x := r.Var(0)

	_, err := x.MulRat(rat(2)).DivExact(x.MulRat(rat(4)))
	require.ErrorIs(t, err, multifactor.ErrInexactDivision)
}

func TestPoly_DivExact_ByZero(t *testing.T) {
	r := zzRing(t, "x")
	_, err := r.Var(0).DivExact(r.Zero())
	require.ErrorIs(t, err, multifactor.ErrInexactDivision)
}

func TestPoly_Divides(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p := x.Add(y).Mul(x.Sub(y))
	assert.True(t, x.Add(y).Divides(p))
	assert.False(t, x.Add(r.One()).Divides(p))
}

// ============================================================
// Constants and rendering edge cases
// ============================================================

func TestPoly_Constants(t *testing.T) {
	r := qqRing(t, "x")
	c := r.Const(big.NewRat(3, 2))
	assert.True(t, c.IsConstant())
	assert.Equal(t, "3/2", c.ConstantValue().RatString())
	assert.Equal(t, "3/2", c.String())
	assert.True(t, r.Zero().IsConstant())
	assert.Equal(t, "0", r.Zero().String())
}

func TestPoly_String_NegativeLead(t *testing.T) {
	r := zzRing(t, "x")
	x := r.Var(0)
	p := x.Neg().Add(r.One())
	assert.Equal(t, "-x + 1", p.String())
}

// ============================================================
// Wire form
// ============================================================

func TestPoly_JSON_Roundtrip(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)
	p := x.Pow(2).Mul(y).Sub(y.MulRat(rat(3))).Add(r.ConstInt(7))

	data, err := json.Marshal(p.ToJSON())
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))

	back, err := multifactor.FromJSON(m)
	require.NoError(t, err)
	assert.True(t, back.Equal(p), "got %s", back)
}

func TestFromJSON_BadDomain(t *testing.T) {
	_, err := multifactor.FromJSON(map[string]interface{}{
		"domain": "RR",
		"vars":   []interface{}{"x"},
		"terms":  []interface{}{},
	})
	require.Error(t, err)
}
