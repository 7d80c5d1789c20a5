package quakes

import "errors"

var (
	// ErrInvalidURL is returned when the feed URL cannot be used for an HTTP GET.
	ErrInvalidURL = errors.New("invalid feed url")

	// ErrNetwork wraps transport failures: DNS, connect, timeouts, resets.
	ErrNetwork = errors.New("feed request failed")

	// ErrStatus is returned when the feed answered with anything but 200.
	ErrStatus = errors.New("unexpected feed status")

	// ErrDecode is returned when the body is not a JSON object.
	ErrDecode = errors.New("decode feed")
)

// Outcome labels for metrics and logs.
const (
	OutcomeOK         = "ok"
	OutcomeInvalidURL = "invalid_url"
	OutcomeNetwork    = "network_error"
	OutcomeStatus     = "status_error"
	OutcomeParse      = "parse_error"
	OutcomeUnknown    = "unknown_error"
)

// Outcome classifies an error returned by Query.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidURL):
		return OutcomeInvalidURL
	case errors.Is(err, ErrNetwork):
		return OutcomeNetwork
	case errors.Is(err, ErrStatus):
		return OutcomeStatus
	case errors.Is(err, ErrDecode):
		return OutcomeParse
	default:
		return OutcomeUnknown
	}
}
