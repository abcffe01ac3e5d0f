package booking

import "errors"

var (
	// ErrAuthentication is returned when the platform rejects the account credentials.
	ErrAuthentication = errors.New("booking: authentication failed")
	// ErrTokenExpired is reported by collaborators when the platform rejects the
	// current access token. The executor refreshes the credential and retries.
	ErrTokenExpired = errors.New("booking: access token expired")
	// ErrFetchFailed wraps network or HTTP failures during a catalog fetch.
	ErrFetchFailed = errors.New("booking: class fetch failed")
	// ErrBookingFailed wraps network or HTTP failures during a reservation request.
	ErrBookingFailed = errors.New("booking: reservation request failed")
)

// ErrorKind maps sentinel errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrFetchFailed):
		return "fetch"
	case errors.Is(err, ErrBookingFailed):
		return "booking"
	}
	return "unexpected"
}
