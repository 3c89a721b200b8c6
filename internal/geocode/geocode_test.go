package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("key-id", "key")
	require.NoError(t, err)
	return client.WithEndpoint(srv.URL).WithHTTPClient(srv.Client())
}

func TestResolve_Success(t *testing.T) {
	var gotKeyID, gotKey, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKeyID = r.Header.Get("X-NCP-APIGW-API-KEY-ID")
		gotKey = r.Header.Get("X-NCP-APIGW-API-KEY")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","addresses":[{"x":"126.9780","y":"37.5665"}]}`))
	})

	coords, err := client.Resolve(context.Background(), "서울특별시 중구 세종대로 110")
	require.NoError(t, err)

	assert.InDelta(t, 37.5665, coords.Latitude, 1e-9)
	assert.InDelta(t, 126.9780, coords.Longitude, 1e-9)
	assert.Equal(t, "key-id", gotKeyID)
	assert.Equal(t, "key", gotKey)
	assert.Equal(t, "서울특별시 중구 세종대로 110", gotQuery)
}

func TestResolve_NoMatchIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","addresses":[]}`))
	})

	_, err := client.Resolve(context.Background(), "없는 주소")
	require.Error(t, err)

	var gErr *Error
	require.ErrorAs(t, err, &gErr)
	assert.True(t, gErr.NotFound)
}

func TestResolve_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Resolve(context.Background(), "주소")
	require.Error(t, err)

	var gErr *Error
	require.ErrorAs(t, err, &gErr)
	assert.False(t, gErr.NotFound)
}

func TestResolve_EmptyAddress(t *testing.T) {
	client, err := NewClient("id", "key")
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient("", "key")
	assert.Error(t, err)
	_, err = NewClient("id", "")
	assert.Error(t, err)
}
