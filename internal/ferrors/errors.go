// Package ferrors defines the error taxonomy shared by the generation
// and address-utility packages. Each kind is a distinct sentinel so
// callers can distinguish failures with errors.Is rather than string
// matching.
package ferrors

import "errors"

var (
	// ErrInvalidCidr is returned by netaddr.ParseCIDR on malformed
	// input or an out-of-range prefix length.
	ErrInvalidCidr = errors.New("invalid cidr")

	// ErrEmptyInput is returned by WeightedChoice when the item list
	// is empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrWeightSizeMismatch is returned by WeightedChoice when the
	// number of weights does not match the number of items.
	ErrWeightSizeMismatch = errors.New("weight size mismatch")

	// ErrUnknownPattern is returned by the pattern factory when the
	// requested pattern type has no known implementation or alias.
	ErrUnknownPattern = errors.New("unknown pattern")

	// ErrNoRateSpecified is a GeneratorConfig validation failure:
	// neither BandwidthGbps nor FlowsPerSecond is positive.
	ErrNoRateSpecified = errors.New("no rate specified")

	// ErrNoPatterns is a GeneratorConfig validation failure: the
	// pattern list is empty.
	ErrNoPatterns = errors.New("no traffic patterns configured")

	// ErrBadPatternSum is a GeneratorConfig validation failure: the
	// pattern percentages do not sum to 100 within tolerance.
	ErrBadPatternSum = errors.New("traffic pattern percentages do not sum to 100")

	// ErrNoSubnets is a GeneratorConfig validation failure: either the
	// source or destination subnet list is empty.
	ErrNoSubnets = errors.New("no subnets configured")

	// ErrBadSourceWeights is a GeneratorConfig validation failure: the
	// source weights list has the wrong length or doesn't sum to 100.
	ErrBadSourceWeights = errors.New("bad source weights")

	// ErrBadPacketRange is a GeneratorConfig validation failure:
	// MinPacketSize exceeds MaxPacketSize.
	ErrBadPacketRange = errors.New("min packet size exceeds max packet size")

	// ErrBadBidiMode is a GeneratorConfig validation failure:
	// BidirectionalMode is neither "none" nor "random".
	ErrBadBidiMode = errors.New("bad bidirectional mode")

	// ErrBadBidiProb is a GeneratorConfig validation failure:
	// BidirectionalProb is outside [0,1].
	ErrBadBidiProb = errors.New("bad bidirectional probability")

	// ErrConfigInvalid wraps any of the GeneratorConfig validation
	// failures above when a caller needs a single sentinel to test
	// against regardless of sub-kind.
	ErrConfigInvalid = errors.New("invalid generator config")

	// ErrIO marks a sink- or listener-construction failure (NATS
	// dial, ClickHouse connect, HTTP bind).
	ErrIO = errors.New("io error")
)
