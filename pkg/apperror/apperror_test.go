package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("Proposal with ID x not found."), http.StatusNotFound},
		{InvalidState("Proposal with ID x is closed."), http.StatusConflict},
		{InvalidInput("bad body", nil), http.StatusBadRequest},
		{Unauthorized("no session", nil), http.StatusUnauthorized},
		{Upstream("ledger down", errors.New("dial tcp")), http.StatusBadGateway},
		{Unavailable("archive not configured"), http.StatusServiceUnavailable},
		{Internal("store failed", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ToHTTPStatus(tc.err), tc.err.Error())
	}
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("vote: %w", Upstream("event bus unavailable", cause))
	require.ErrorIs(t, err, ErrUpstream)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "upstream_failure", Kind(err))
}

func TestToJSON(t *testing.T) {
	body := ToJSON(InvalidState("Proposal with ID p1 is closed."))
	require.Equal(t, "invalid_state", body["error"])
	require.Equal(t, "Proposal with ID p1 is closed.", body["message"])

	body = ToJSON(errors.New("secret driver detail"))
	require.Equal(t, "internal", body["error"])
	require.NotContains(t, body["message"], "secret")
}
