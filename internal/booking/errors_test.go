package booking

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"authentication", ErrAuthentication, "authentication"},
		{"token expiry", fmt.Errorf("wrapped: %w", ErrTokenExpired), "token_expired"},
		{"fetch", ErrFetchFailed, "fetch"},
		{"booking", ErrBookingFailed, "booking"},
		{"unexpected", errors.New("boom"), "unexpected"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorKind(tc.err); got != tc.want {
				t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
