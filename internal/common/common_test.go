package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("scan: %w", NewAppError("BAD_REQUEST", "bad item", http.StatusBadRequest, base))
	require.True(t, IsAppError(err))
	require.True(t, errors.Is(err, base))
	require.Equal(t, "scan: bad item", err.Error())
	require.False(t, IsAppError(base))

	var nilErr *AppError
	require.Equal(t, "", nilErr.Error())
	require.Equal(t, "Not Found", (&AppError{HTTPStatus: http.StatusNotFound}).Error())
}

func TestJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, http.StatusNotFound, "NOT_FOUND", "checkout not found", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, ErrorBody{Code: "NOT_FOUND", Message: "checkout not found"}, body["error"])
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	require.Equal(t, "10.0.0.1", ClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	require.Equal(t, "10.0.0.2", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	require.Equal(t, "10.0.0.3", ClientIP(req))
	require.Equal(t, "", ClientIP(nil))
}
