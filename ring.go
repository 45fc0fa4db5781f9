package multifactor

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ============================================================
// Coefficient domains
// ============================================================

// Domain identifies the exact coefficient domain of a ring. Only
// characteristic-zero exact domains are supported; floating-point or other
// inexact coefficient types are rejected at ring construction.
type Domain int

const (
	// IntegerRing is the ring of integers ZZ.
	IntegerRing Domain = iota
	// RationalField is the field of rationals QQ.
	RationalField
)

func (d Domain) String() string {
	switch d {
	case IntegerRing:
		return "ZZ"
	case RationalField:
		return "QQ"
	}
	return "?"
}

// ============================================================
// Ring — parent object for polynomials
// ============================================================

// Ring is a multivariate polynomial ring: an exact coefficient domain
// together with an ordered list of distinct variable names. Ring values are
// immutable once constructed.
type Ring struct {
	domain Domain
	vars   []string
	key    string
}

// Process-wide registry of ring parents, keyed by construction data.
// Entries are inserted at most once and never mutated afterwards, so
// concurrent factorizations may share ring handles freely.
var (
	ringMu       sync.Mutex
	ringRegistry = map[string]*Ring{}
)

func ringKey(domain Domain, vars []string) string {
	return domain.String() + "[" + strings.Join(vars, ",") + "]"
}

func validateRing(domain Domain, vars []string) error {
	if domain != IntegerRing && domain != RationalField {
		return errors.Wrapf(ErrUnsupportedDomain, "domain %d", int(domain))
	}
	if len(vars) == 0 {
		return errors.New("multifactor: ring needs at least one variable")
	}
	seen := map[string]bool{}
	for _, v := range vars {
		if v == "" {
			return errors.New("multifactor: empty variable name")
		}
		if seen[v] {
			return errors.Newf("multifactor: duplicate variable %q", v)
		}
		seen[v] = true
	}
	return nil
}

// NewRing returns the ring over domain in the given variables. Identical
// construction data yields the identical *Ring handle: the result is cached
// in a process-wide registry so that parent identity can be tested by
// pointer comparison.
func NewRing(domain Domain, vars ...string) (*Ring, error) {
	if err := validateRing(domain, vars); err != nil {
		return nil, err
	}
	key := ringKey(domain, vars)
	ringMu.Lock()
	defer ringMu.Unlock()
	if r, ok := ringRegistry[key]; ok {
		return r, nil
	}
	r := newRing(domain, vars, key)
	ringRegistry[key] = r
	return r, nil
}

// NewRingUncached builds a fresh ring handle, bypassing the registry.
func NewRingUncached(domain Domain, vars ...string) (*Ring, error) {
	if err := validateRing(domain, vars); err != nil {
		return nil, err
	}
	return newRing(domain, vars, ringKey(domain, vars)), nil
}

func newRing(domain Domain, vars []string, key string) *Ring {
	vs := make([]string, len(vars))
	copy(vs, vars)
	return &Ring{domain: domain, vars: vs, key: key}
}

// Domain reports the coefficient domain.
func (r *Ring) Domain() Domain { return r.domain }

// NumVars reports the number of variables.
func (r *Ring) NumVars() int { return len(r.vars) }

// Vars returns a copy of the ordered variable names.
func (r *Ring) Vars() []string {
	vs := make([]string, len(r.vars))
	copy(vs, r.vars)
	return vs
}

// VarIndex returns the index of the named variable, or -1.
func (r *Ring) VarIndex(name string) int {
	for i, v := range r.vars {
		if v == name {
			return i
		}
	}
	return -1
}

func (r *Ring) String() string { return r.key }

// same reports whether two rings have identical construction data. Cached
// rings compare by pointer; uncached clones still count as the same parent.
func (r *Ring) same(o *Ring) bool { return r == o || r.key == o.key }

// fieldRing returns the rational-coefficient ring in the same variables.
// Lifting arithmetic runs over the field and results are mapped back.
func (r *Ring) fieldRing() *Ring {
	if r.domain == RationalField {
		return r
	}
	f, err := NewRing(RationalField, r.vars...)
	if err != nil {
		panic("multifactor: " + err.Error())
	}
	return f
}
