package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/service"
)

type CategoryHTTP struct {
	Svc *service.CatalogService
}

func (h *CategoryHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return respondError(c, l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(ctx, req.Name)
	if err != nil {
		return respondError(c, l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHTTP) Rename(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.rename")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("rename_category_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("rename_category_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.RenameCategory(ctx, id, req.Name)
	if err != nil {
		return respondError(c, l, "rename_category_error", err)
	}

	l.Info("rename_category_success", "category_id", category.ID)
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_category_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return respondError(c, l, "delete_category_error", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "category deleted"})
}
