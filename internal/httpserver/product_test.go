package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/parapharma/shop/internal/service"
)

func TestSearchUnavailableWithoutIndex(t *testing.T) {
	r := initTestRepo(t)
	handler := &ProductHTTP{Svc: &service.CatalogService{Repo: r}, ES: nil}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=arnica", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Search(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, he.Code)
}
