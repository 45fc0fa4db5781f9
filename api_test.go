package multifactor_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multifactor "github.com/njchilds90/multifactor"
)

func wirePoly(t *testing.T, p multifactor.Poly) map[string]interface{} {
	t.Helper()
	// Round-trip through encoding/json so the params look exactly like a
	// decoded request body.
	data, err := json.Marshal(p.ToJSON())
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// ============================================================
// Tool interface
// ============================================================

func TestHandleToolCall_Factor(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool:   "factor",
		Params: map[string]interface{}{"poly": wirePoly(t, x.Pow(2).Sub(y.Pow(2)))},
	})
	require.Empty(t, resp.Error)
	assert.Contains(t, resp.String, "(x + y)^1")
	assert.Contains(t, resp.String, "(x - y)^1")

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	facs, ok := result["factors"].([]interface{})
	require.True(t, ok)
	assert.Len(t, facs, 2)
}

func TestHandleToolCall_Squarefree(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool:   "squarefree",
		Params: map[string]interface{}{"poly": wirePoly(t, x.Add(y).Pow(2))},
	})
	require.Empty(t, resp.Error)
	assert.Contains(t, resp.String, "(x + y)^2")
}

func TestHandleToolCall_GCD(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	common := x.Add(y)
	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool: "gcd",
		Params: map[string]interface{}{
			"a": wirePoly(t, common.Mul(x)),
			"b": wirePoly(t, common.Mul(y)),
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "x + y", resp.String)
}

func TestHandleToolCall_DivExactError(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool: "divexact",
		Params: map[string]interface{}{
			"a": wirePoly(t, x),
			"b": wirePoly(t, y),
		},
	})
	assert.NotEmpty(t, resp.Error)
}

func TestHandleToolCall_Content(t *testing.T) {
	r := zzRing(t, "x", "y")
	x, y := r.Var(0), r.Var(1)

	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool: "content",
		Params: map[string]interface{}{
			"poly": wirePoly(t, y.Mul(x.Pow(2)).Add(y.Mul(x))),
			"var":  "x",
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "y", resp.String)
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := multifactor.HandleToolCall(multifactor.ToolRequest{Tool: "integrate"})
	assert.Contains(t, resp.Error, "unknown tool")
}

func TestHandleToolCall_MissingParam(t *testing.T) {
	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool:   "factor",
		Params: map[string]interface{}{},
	})
	assert.Contains(t, resp.Error, "missing param")
}

func TestHandleToolCall_BadWirePoly(t *testing.T) {
	resp := multifactor.HandleToolCall(multifactor.ToolRequest{
		Tool: "factor",
		Params: map[string]interface{}{
			"poly": map[string]interface{}{"domain": "GF(7)", "vars": []interface{}{"x"}},
		},
	})
	assert.Contains(t, resp.Error, "unknown domain")
}

func TestMCPToolSpec_ValidJSON(t *testing.T) {
	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(multifactor.MCPToolSpec()), &spec))
	tools, ok := spec["tools"].([]interface{})
	require.True(t, ok)
	assert.Len(t, tools, 5)
}
