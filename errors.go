package multifactor

import "github.com/cockroachdb/errors"

// Sentinel errors. Callers discriminate with errors.Is; everything retryable
// (bad evaluation point, unresolved recombination, leading-coefficient
// mismatch) is reported through ok=false returns instead and never as an
// error value.
var (
	// ErrUnsupportedDomain is returned when a ring is constructed over
	// anything but the integers or the rationals.
	ErrUnsupportedDomain = errors.New("multifactor: unsupported coefficient domain")

	// ErrZeroPolynomial is returned when the zero polynomial is passed to
	// an operation that requires nonzero input.
	ErrZeroPolynomial = errors.New("multifactor: zero polynomial")

	// ErrInexactDivision is returned by DivExact when the divisor does not
	// divide exactly over the coefficient domain.
	ErrInexactDivision = errors.New("multifactor: inexact division")

	// ErrLengthMismatch is returned when the number of supplied univariate
	// factors disagrees with the number of target leading coefficients.
	ErrLengthMismatch = errors.New("multifactor: factor and leading-coefficient counts differ")

	// ErrRetriesExhausted is returned when no evaluation point within the
	// configured retry budget produced a verifiable factorization.
	ErrRetriesExhausted = errors.New("multifactor: evaluation point retries exhausted")
)
