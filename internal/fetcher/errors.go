package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrProxyUnreachable is returned when the SOCKS5 proxy does not answer.
	ErrProxyUnreachable = errors.New("cannot connect to SOCKS5 proxy")

	// ErrInvalidURLTemplate is returned when the query URL template lacks a placeholder.
	ErrInvalidURLTemplate = errors.New("invalid query URL template")
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindTransport is a network-level failure or an unexpected status code.
	KindTransport Kind = iota

	// KindRateLimited is a server-signaled rate limit.
	KindRateLimited

	// KindBadRequest means the server rejected the query; treated as no flights.
	KindBadRequest

	// KindMalformed is a response with an unexpected shape.
	KindMalformed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRateLimited:
		return "rate-limited"
	case KindBadRequest:
		return "bad-request"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Tier is the severity of a rate limit.
type Tier int

const (
	// TierShort asks for a short cooldown.
	TierShort Tier = iota

	// TierMedium asks for a medium cooldown.
	TierMedium

	// TierLong asks for a long cooldown.
	TierLong
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierShort:
		return "short"
	case TierMedium:
		return "medium"
	case TierLong:
		return "long"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure.
type Error struct {
	Kind   Kind
	Tier   Tier
	Status int
	Err    error
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindRateLimited {
		msg += " (" + e.Tier.String() + ")"
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify returns the kind and tier of err. Errors that are not an *Error
// are reported as KindTransport.
func Classify(err error) (Kind, Tier) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, fe.Tier
	}
	return KindTransport, TierShort
}

// RateLimited builds a KindRateLimited error.
func RateLimited(tier Tier, err error) *Error {
	return &Error{Kind: KindRateLimited, Tier: tier, Err: err}
}

// BadRequest builds a KindBadRequest error.
func BadRequest(err error) *Error {
	return &Error{Kind: KindBadRequest, Err: err}
}

// Malformed builds a KindMalformed error.
func Malformed(err error) *Error {
	return &Error{Kind: KindMalformed, Err: err}
}

// Transport builds a KindTransport error.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}
