package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestLoginStoresToken(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":{"token":"tok123","role":"admin"}}`)
	})

	require.NoError(t, client.Login(context.Background(), "a@b.c", "secret"))
	assert.Equal(t, "tok123", client.Token)
}

func TestUnauthorizedMapsToAuthKind(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized,
			`{"error":{"code":"LOGIN_REQUIRED","message":"Login required"}}`)
	})

	_, err := client.AdminProducts(context.Background(), ListQuery{})
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindAuth, apiErr.Kind)
	assert.Equal(t, "LOGIN_REQUIRED", apiErr.Code)
	assert.True(t, IsAuth(err))
}

func TestForbiddenMapsToAuthKind(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden,
			`{"error":{"code":"ACCOUNT_PENDING","message":"Shop is awaiting approval"}}`)
	})

	_, err := client.ShopProducts(context.Background(), ListQuery{})
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindAuth, apiErr.Kind)
	assert.Equal(t, "ACCOUNT_PENDING", apiErr.Code)
}

func TestBadRequestMapsToValidationKind(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest,
			`{"error":{"code":"INVALID_REQUEST","message":"Stock must be >= 0"}}`)
	})

	_, err := client.AdminUpdateStock(context.Background(), 1, -1)
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindValidation, apiErr.Kind)
}

func TestConflictSurfacesServerMessageVerbatim(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict,
			`{"error":{"code":"CATEGORY_IN_USE","message":"Category still has products"}}`)
	})

	_, err := client.AdminProducts(context.Background(), ListQuery{})
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindBusiness, apiErr.Kind)
	assert.Equal(t, "Category still has products", apiErr.Message)
	assert.Equal(t, "business", apiErr.NotifyKind())
}

func TestMalformedBodyMapsToDecodeKind(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `<html>boom</html>`)
	})

	_, err := client.AdminProducts(context.Background(), ListQuery{})
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindDecode, apiErr.Kind)
}

func TestConnectionFailureMapsToNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := New(srv.URL)
	srv.Close()

	_, err := client.AdminProducts(context.Background(), ListQuery{})
	require.Error(t, err)
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Equal(t, "network", apiErr.NotifyKind())
}

func TestPagedDecode(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "shoe", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK,
			`{"items":[{"id":"1","name":"Running shoe"}],"total":1,"page":1,"per_page":10}`)
	})
	client.Token = "tok"

	page, err := client.AdminProducts(context.Background(), ListQuery{Q: "shoe"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Running shoe", page.Items[0].Name)
}

func TestSourceFetchAllPagesThrough(t *testing.T) {
	calls := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, http.StatusOK,
				`{"items":[{"id":"1","name":"a"},{"id":"2","name":"b"}],"total":3,"page":1,"per_page":2}`)
		default:
			writeJSON(w, http.StatusOK,
				`{"items":[{"id":"3","name":"c"}],"total":3,"page":2,"per_page":2}`)
		}
	})

	source := &ShopProductSource{Client: client}
	rows, err := source.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 2, calls)
}
