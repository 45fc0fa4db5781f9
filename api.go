package multifactor

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// JSON codec
// ============================================================
//
// Wire form of a polynomial:
//
//	{
//	  "domain": "ZZ",
//	  "vars":   ["x", "y"],
//	  "terms":  [{"coeff": "3", "exp": [2, 0]}, {"coeff": "-1/2", "exp": [0, 1]}]
//	}
//
// Coefficients travel as exact rational strings so nothing is lost to
// floating point. In requests, "terms" may be replaced by an infix "expr"
// string, which goes through ParsePoly.

// ToJSON renders p in the wire form accepted by FromJSON.
func (p Poly) ToJSON() map[string]interface{} {
	terms := []interface{}{}
	for _, t := range p.Terms() {
		exp := make([]interface{}, len(t.Exp))
		for i, e := range t.Exp {
			exp[i] = e
		}
		terms = append(terms, map[string]interface{}{
			"coeff": t.Coeff.RatString(),
			"exp":   exp,
		})
	}
	vars := make([]interface{}, p.ring.NumVars())
	for i, v := range p.ring.Vars() {
		vars[i] = v
	}
	return map[string]interface{}{
		"domain": p.ring.Domain().String(),
		"vars":   vars,
		"terms":  terms,
	}
}

// FromJSON parses the wire form of a polynomial.
func FromJSON(raw map[string]interface{}) (Poly, error) {
	domStr, ok := raw["domain"].(string)
	if !ok {
		return Poly{}, fmt.Errorf("polynomial domain must be a string")
	}
	var dom Domain
	switch domStr {
	case "ZZ":
		dom = IntegerRing
	case "QQ":
		dom = RationalField
	default:
		return Poly{}, fmt.Errorf("unknown domain %q", domStr)
	}
	varsRaw, ok := raw["vars"].([]interface{})
	if !ok || len(varsRaw) == 0 {
		return Poly{}, fmt.Errorf("polynomial vars must be a non-empty array")
	}
	vars := make([]string, len(varsRaw))
	for i, v := range varsRaw {
		s, ok := v.(string)
		if !ok {
			return Poly{}, fmt.Errorf("vars[%d] must be a string", i)
		}
		vars[i] = s
	}
	ring, err := NewRing(dom, vars...)
	if err != nil {
		return Poly{}, err
	}
	if src, ok := raw["expr"].(string); ok {
		return ParsePoly(ring, src)
	}
	termsRaw, ok := raw["terms"].([]interface{})
	if !ok {
		return Poly{}, fmt.Errorf("polynomial needs a terms array or an expr string")
	}
	terms := make([]Term, len(termsRaw))
	for i, tr := range termsRaw {
		m, ok := tr.(map[string]interface{})
		if !ok {
			return Poly{}, fmt.Errorf("terms[%d] must be an object", i)
		}
		cs, ok := m["coeff"].(string)
		if !ok {
			return Poly{}, fmt.Errorf("terms[%d].coeff must be a rational string", i)
		}
		c, ok2 := new(big.Rat).SetString(cs)
		if !ok2 {
			return Poly{}, fmt.Errorf("terms[%d].coeff %q is not a rational", i, cs)
		}
		expRaw, ok := m["exp"].([]interface{})
		if !ok || len(expRaw) != len(vars) {
			return Poly{}, fmt.Errorf("terms[%d].exp must have one entry per variable", i)
		}
		exp := make([]int, len(expRaw))
		for j, er := range expRaw {
			switch v := er.(type) {
			case float64:
				if v != float64(int(v)) || v < 0 {
					return Poly{}, fmt.Errorf("terms[%d].exp[%d] must be a nonnegative integer", i, j)
				}
				exp[j] = int(v)
			case int:
				if v < 0 {
					return Poly{}, fmt.Errorf("terms[%d].exp[%d] must be a nonnegative integer", i, j)
				}
				exp[j] = v
			default:
				return Poly{}, fmt.Errorf("terms[%d].exp[%d] must be a nonnegative integer", i, j)
			}
		}
		terms[i] = Term{Coeff: c, Exp: exp}
	}
	return ring.Poly(terms...), nil
}

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall executes one tool request against the factorization
// engine.
func HandleToolCall(req ToolRequest) ToolResponse {
	getPoly := func(key string) (Poly, error) {
		v, ok := req.Params[key]
		if !ok {
			return Poly{}, fmt.Errorf("missing param: %s", key)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return Poly{}, fmt.Errorf("invalid type for param %s", key)
		}
		return FromJSON(m)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	respond := func(p Poly) ToolResponse {
		return ToolResponse{Result: p.ToJSON(), String: p.String()}
	}

	switch req.Tool {
	case "factor":
		p, err := getPoly("poly")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		fl, err := Factor(p)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		facs := make([]interface{}, len(fl.Factors))
		parts := make([]string, 0, len(fl.Factors)+1)
		parts = append(parts, fl.Unit.String())
		for i, fp := range fl.Factors {
			facs[i] = map[string]interface{}{"poly": fp.Poly.ToJSON(), "mult": fp.Mult}
			parts = append(parts, fmt.Sprintf("(%s)^%d", fp.Poly, fp.Mult))
		}
		return ToolResponse{
			Result: map[string]interface{}{"unit": fl.Unit.ToJSON(), "factors": facs},
			String: strings.Join(parts, " * "),
		}

	case "squarefree":
		p, err := getPoly("poly")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		unit, parts, err := SquarefreeDecompose(p)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		out := make([]interface{}, len(parts))
		strs := make([]string, 0, len(parts)+1)
		strs = append(strs, unit.String())
		for i, sf := range parts {
			out[i] = map[string]interface{}{"poly": sf.Poly.ToJSON(), "mult": sf.Mult}
			strs = append(strs, fmt.Sprintf("(%s)^%d", sf.Poly, sf.Mult))
		}
		return ToolResponse{
			Result: map[string]interface{}{"unit": unit.ToJSON(), "parts": out},
			String: strings.Join(strs, " * "),
		}

	case "gcd":
		a, err := getPoly("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getPoly("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !a.Ring().same(b.Ring()) {
			return ToolResponse{Error: "operands live in different rings"}
		}
		return respond(GCD(a, b))

	case "divexact":
		a, err := getPoly("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getPoly("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !a.Ring().same(b.Ring()) {
			return ToolResponse{Error: "operands live in different rings"}
		}
		q, err := a.DivExact(b)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(q)

	case "content":
		p, err := getPoly("poly")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		idx := p.Ring().VarIndex(v)
		if idx < 0 {
			return ToolResponse{Error: fmt.Sprintf("unknown variable %q", v)}
		}
		return respond(ContentWRT(p, idx))

	default:
		return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
	}
}

// MCPToolSpec returns the JSON tool schema for agent registration.
func MCPToolSpec() string {
	return `{
  "tools": [
    {
      "name": "factor",
      "description": "Factor a multivariate polynomial over ZZ or QQ into irreducibles with multiplicities",
      "params": {"poly": "polynomial"}
    },
    {
      "name": "squarefree",
      "description": "Squarefree decomposition: unit and pairwise-coprime squarefree parts with multiplicities",
      "params": {"poly": "polynomial"}
    },
    {
      "name": "gcd",
      "description": "Greatest common divisor of two polynomials over the same ring",
      "params": {"a": "polynomial", "b": "polynomial"}
    },
    {
      "name": "divexact",
      "description": "Exact polynomial division; errors when the division is inexact",
      "params": {"a": "polynomial", "b": "polynomial"}
    },
    {
      "name": "content",
      "description": "Content of a polynomial with respect to one variable",
      "params": {"poly": "polynomial", "var": "string"}
    }
  ],
  "polynomial": {
    "domain": "ZZ or QQ",
    "vars": ["variable names"],
    "terms": [{"coeff": "exact rational string", "exp": ["one nonnegative integer per variable"]}],
    "expr": "infix string such as 2*x^2*y - 3, accepted in place of terms"
  }
}`
}
