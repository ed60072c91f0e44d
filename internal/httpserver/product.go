package httpserver

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/events"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/search"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/transport"
	"github.com/parapharma/shop/internal/util"
)

type ProductHTTP struct {
	Svc       *service.CatalogService
	ES        *elasticsearch.Client
	Producer  *events.Producer
	UploadDir string
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return respondError(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductView(*product, auth.Role(c)))
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	products, total, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return respondError(c, l, "list_products_error", err)
	}

	role := auth.Role(c)
	views := make([]transport.ProductView, len(products))
	for i, p := range products {
		views[i] = transport.NewProductView(p, role)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": transport.ListMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	if h.ES == nil {
		l.Warn("search_products_error", "status", 503)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
	}

	query := c.QueryParam("q")
	if query == "" {
		l.Warn("search_products_error", "status", 400)
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, docs, err := search.Search(ctx, h.ES, query, from, limit)
	if err != nil {
		l.Error("search_products_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": docs,
		"meta": transport.ListMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(from+limit) < total,
		},
	})
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	input, err := bindProductForm(c)
	if err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	paths, err := h.saveImages(c)
	if err != nil {
		l.Error("create_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store images")
	}

	product, err := h.Svc.CreateProduct(ctx, input, paths)
	if err != nil {
		return respondError(c, l, "create_product_error", err)
	}

	h.syncIndex(c, l, *product)
	publishEvent(l, h.Producer, events.TopicProductEvents, product.ID.String(), map[string]any{
		"type": "product_created",
		"id":   product.ID,
		"name": product.Name,
	})

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, transport.NewProductView(*product, models.RoleAdmin))
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	input, err := bindProductForm(c)
	if err != nil {
		l.Warn("update_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	paths, err := h.saveImages(c)
	if err != nil {
		l.Error("update_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store images")
	}

	product, err := h.Svc.UpdateProduct(ctx, id, input, paths)
	if err != nil {
		return respondError(c, l, "update_product_error", err)
	}

	h.syncIndex(c, l, *product)
	publishEvent(l, h.Producer, events.TopicProductEvents, product.ID.String(), map[string]any{
		"type": "product_updated",
		"id":   product.ID,
		"name": product.Name,
	})

	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, transport.NewProductView(*product, models.RoleAdmin))
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return respondError(c, l, "delete_product_error", err)
	}

	if h.ES != nil {
		if err := search.DeleteProduct(c.Request().Context(), h.ES, id); err != nil {
			l.Warn("index_delete_failed", "product_id", id, "error", err)
		}
	}
	publishEvent(l, h.Producer, events.TopicProductEvents, id.String(), map[string]any{
		"type": "product_deleted",
		"id":   id,
	})

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}

// syncIndex keeps the search index in step with the database after a write;
// an unreachable cluster only costs search freshness.
func (h *ProductHTTP) syncIndex(c echo.Context, l *slog.Logger, p models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, p); err != nil {
		l.Warn("index_sync_failed", "product_id", p.ID, "error", err)
	}
}

func bindProductForm(c echo.Context) (service.ProductInput, error) {
	var input service.ProductInput
	input.Name = c.FormValue("name")
	input.Description = c.FormValue("description")
	input.Size = c.FormValue("size")
	input.Datasheet = c.FormValue("datasheet")

	if v := c.FormValue("lambda_user_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return input, errors.New("lambda_user_price is not a number")
		}
		input.LambdaUserPrice = f
	}
	if v := c.FormValue("pharmacist_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return input, errors.New("pharmacist_price is not a number")
		}
		input.PharmacistPrice = f
	}
	if v := c.FormValue("qty"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, errors.New("qty is not a number")
		}
		input.Qty = n
	}
	if v := c.FormValue("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return input, errors.New("category_id is not a uuid")
		}
		input.CategoryID = id
	}
	return input, nil
}

// saveImages stores every uploaded "images" part under the upload dir with a
// fresh name and returns the public paths.
func (h *ProductHTTP) saveImages(c echo.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// not multipart: no images to store
		return nil, nil
	}

	var paths []string
	for _, file := range form.File["images"] {
		path, err := h.saveImage(file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (h *ProductHTTP) saveImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
