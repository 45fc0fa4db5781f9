package multifactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multifactor "github.com/njchilds90/multifactor"
)

// ============================================================
// Expression parsing
// ============================================================

func TestParsePoly_Arithmetic(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p, err := multifactor.ParsePoly(r, "2*x^2*y - (x + 1)*(x - 1)")
	require.NoError(t, err)
	want := x.Pow(2).Mul(y).MulRat(rat(2)).Sub(x.Pow(2)).Add(r.One())
	assert.True(t, p.Equal(want), "got %s want %s", p, want)
}

func TestParsePoly_RationalConstant(t *testing.T) {
	r := qqRing(t, "x")
	x := r.Var(0)

	p, err := multifactor.ParsePoly(r, "3/4*x + 1/2")
	require.NoError(t, err)
	want := x.MulRat(rat(1).SetFrac64(3, 4)).Add(r.Const(rat(1).SetFrac64(1, 2)))
	assert.True(t, p.Equal(want))
}

func TestParsePoly_UnaryMinus(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p, err := multifactor.ParsePoly(r, "-x^2 + -y")
	require.NoError(t, err)
	assert.True(t, p.Equal(x.Pow(2).Neg().Sub(y)))
}

func TestParsePoly_Errors(t *testing.T) {
	r := zzRing(t, "x", "y")

	_, err := multifactor.ParsePoly(r, "x + z")
	assert.ErrorContains(t, err, "unknown variable")

	_, err = multifactor.ParsePoly(r, "x / y")
	assert.ErrorContains(t, err, "divisor")

	_, err = multifactor.ParsePoly(r, "x^")
	assert.Error(t, err)

	_, err = multifactor.ParsePoly(r, "(x + 1")
	assert.ErrorContains(t, err, "')'")

	_, err = multifactor.ParsePoly(r, "x + 1)")
	assert.ErrorContains(t, err, "unexpected")
}

func TestFromJSON_ExprForm(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	p, err := multifactor.FromJSON(map[string]interface{}{
		"domain": "ZZ",
		"vars":   []interface{}{"x", "y"},
		"expr":   "x^2 - y^2",
	})
	require.NoError(t, err)
	assert.True(t, p.Equal(x.Pow(2).Sub(y.Pow(2))))
}

func TestHandleToolCall_ExprParam(t *testing.T) {
	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool: "factor",
		Params: map[string]interface{}{
			"poly": map[string]interface{}{
				"domain": "ZZ",
				"vars":   []interface{}{"x", "y"},
				"expr":   "x^2 - y^2",
			},
		},
	})
	require.Empty(t, resp.Error)
	assert.Contains(t, resp.String, "(x + y)^1")
}
