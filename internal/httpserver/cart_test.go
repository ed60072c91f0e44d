package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
)

func initTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return repo.New(db)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user *models.User) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(auth.ContextUserID, user.ID.String())
	c.Set(auth.ContextRole, user.Role)
	return c
}

func TestCartHandlerAddAndGet(t *testing.T) {
	r := initTestRepo(t)
	handler := &CartHTTP{Svc: &service.CartService{Repo: r}}

	user := &models.User{
		FirstName: "Test", LastName: "User",
		Email: "handler-cart@example.com", Phone: "06", PasswordHash: "x",
		Role: models.RolePharmacist, IsVerified: true,
	}
	require.NoError(t, r.CreateUser(t.Context(), user))

	category := &models.Category{Name: "vitamins"}
	require.NoError(t, r.CreateCategory(t.Context(), category))
	product := &models.Product{
		Name: "vitamin d", Description: "daily drops",
		LambdaUserPrice: 8, PharmacistPrice: 6, Size: "20ml",
		Qty: 10, CategoryID: category.ID,
	}
	require.NoError(t, r.CreateProduct(t.Context(), product))

	e := echo.New()

	body, _ := json.Marshal(transport.CartItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.AddItem(authedContext(e, req, rec, user)))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec = httptest.NewRecorder()

	require.NoError(t, handler.GetCart(authedContext(e, req, rec, user)))
	require.Equal(t, http.StatusOK, rec.Code)

	var view transport.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.Equal(t, product.PharmacistPrice, view.Items[0].Product.Price, "pharmacist sees the pharmacist price")
}

func TestCartHandlerNegativeDeltaMerges(t *testing.T) {
	r := initTestRepo(t)
	handler := &CartHTTP{Svc: &service.CartService{Repo: r}}

	user := &models.User{
		FirstName: "Test", LastName: "User",
		Email: "handler-delta@example.com", Phone: "06", PasswordHash: "x",
		Role: models.RolePharmacist, IsVerified: true,
	}
	require.NoError(t, r.CreateUser(t.Context(), user))

	category := &models.Category{Name: "homeopathy"}
	require.NoError(t, r.CreateCategory(t.Context(), category))
	product := &models.Product{
		Name: "arnica granules", Description: "9ch tube",
		LambdaUserPrice: 4, PharmacistPrice: 3, Size: "4g",
		Qty: 10, CategoryID: category.ID,
	}
	require.NoError(t, r.CreateProduct(t.Context(), product))

	e := echo.New()

	add := func(qty int) *models.Cart {
		t.Helper()
		body, _ := json.Marshal(transport.CartItemRequest{ProductID: product.ID, Quantity: qty})
		req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.AddItem(authedContext(e, req, rec, user)))
		require.Equal(t, http.StatusOK, rec.Code)

		var cart models.Cart
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
		return &cart
	}

	// the delta is any integer: a negative add decrements the merged line
	cart := add(5)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 5, cart.Items[0].Quantity)

	cart = add(-2)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartHandlerUnauthorized(t *testing.T) {
	r := initTestRepo(t)
	handler := &CartHTTP{Svc: &service.CartService{Repo: r}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetCart(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
