package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParsePaginationDefaults(t *testing.T) {
	c, _ := newTestContext(t, "/")
	page, perPage := ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)
}

func TestParsePaginationExplicit(t *testing.T) {
	c, _ := newTestContext(t, "/?page=3&perPage=25")
	page, perPage := ParsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, perPage)
}

func TestParsePaginationCapsPerPage(t *testing.T) {
	c, _ := newTestContext(t, "/?page=0&perPage=5000")
	page, perPage := ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)
}

func TestOKEnvelope(t *testing.T) {
	c, rec := newTestContext(t, "/")
	require.NoError(t, OK(c, map[string]string{"hello": "world"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"hello":"world"}}`, rec.Body.String())
}

func TestFailEnvelope(t *testing.T) {
	c, rec := newTestContext(t, "/")
	require.NoError(t, Fail(c, http.StatusConflict, "DUPLICATE_CATEGORY", "Category already exists", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error":{"code":"DUPLICATE_CATEGORY","message":"Category already exists"}}`,
		rec.Body.String())
}

func TestPagedEnvelope(t *testing.T) {
	c, rec := newTestContext(t, "/")
	require.NoError(t, Paged(c, []int{1, 2, 3}, 12, 2, 3))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[1,2,3],"total":12,"page":2,"per_page":3}`, rec.Body.String())
}

func TestParseIDParam(t *testing.T) {
	c, _ := newTestContext(t, "/")
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	c.SetParamValues("abc")
	_, err = ParseIDParam(c, "id")
	assert.Error(t, err)
}
