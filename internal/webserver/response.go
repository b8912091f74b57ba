package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the uniform error envelope. Clients key off Code for the
// notification variant and surface Message verbatim.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

// ListResponse is the paged collection envelope.
type ListResponse struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// OK writes a 200 data envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, dataResponse{Data: data})
}

// Fail writes an error envelope with the given HTTP status.
func Fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, errorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// Paged writes a 200 list envelope.
func Paged(c echo.Context, items interface{}, total int64, page, perPage int) error {
	return c.JSON(http.StatusOK, ListResponse{Items: items, Total: total, Page: page, PerPage: perPage})
}

// ParsePagination reads page/perPage query params with a default page size
// of 10 capped at 100.
func ParsePagination(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return page, perPage
}

// ParseIDParam parses an int64 path parameter.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
