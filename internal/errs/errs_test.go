package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, NotFound, CodeOf(New(NotFound, "gone")))
	require.Equal(t, Internal, CodeOf(errors.New("raw")))
	require.Equal(t, Internal, CodeOf(nil))

	// wrapping keeps the code reachable
	wrapped := fmt.Errorf("usecase get note: %w", New(PermissionDenied, "invalid modification code"))
	require.Equal(t, PermissionDenied, CodeOf(wrapped))
}

func TestMessageOf_HidesUntypedErrors(t *testing.T) {
	require.Equal(t, "gone", MessageOf(New(NotFound, "gone")))
	require.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused to 10.0.0.3")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		InvalidArgument:  http.StatusBadRequest,
		NotFound:         http.StatusNotFound,
		PermissionDenied: http.StatusForbidden,
		Conflict:         http.StatusConflict,
		Internal:         http.StatusInternalServerError,
		Code("mystery"):  http.StatusInternalServerError,
	}

	for code, want := range cases {
		require.Equal(t, want, HTTPStatus(code), "code %s", code)
	}
}

func TestWrap_Unwraps(t *testing.T) {
	cause := errors.New("row not found")
	err := Wrap(NotFound, "note not found", cause)

	require.True(t, errors.Is(err, cause))
	require.Equal(t, NotFound, CodeOf(err))
}
