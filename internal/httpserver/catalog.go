package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/config"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/service"
	"github.com/AliakbarCal15/Internship-Task-39/internal/transport"
	"github.com/AliakbarCal15/Internship-Task-39/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("get_product_failed", "status", 400, "reason", "invalid id", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, transport.NewProductResponse(product))
}

func (h *CatalogHTTP) Browse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.browse")

	var brands []string
	for _, v := range c.QueryParams()["brand"] {
		brands = append(brands, config.CSV(v)...)
	}

	page, err := h.Svc.Browse(ctx, service.Filter{
		Query:     c.QueryParam("q"),
		MinPrice:  util.ParseFloatDefault(c.QueryParam("min_price"), 0),
		MaxPrice:  util.ParseFloatDefault(c.QueryParam("max_price"), 0),
		Brands:    brands,
		Category:  strings.TrimSpace(c.QueryParam("category")),
		MinRating: util.ParseFloatDefault(c.QueryParam("min_rating"), 0),
		Sort:      c.QueryParam("sort"),
		Page:      util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:      util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("browse_failed", "status", 400, "reason", "invalid filter", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("browse_failed", "status", 500, "reason", "cannot query catalog", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot query catalog")
	}

	data := make([]transport.ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, transport.NewProductResponse(&page.Items[i]))
	}

	l.Info("browse_success", "total", page.Total)
	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: data,
		Meta: transport.PageMeta{
			Page:       page.Page,
			Size:       page.Size,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasPrev:    page.HasPrev,
			HasNext:    page.HasNext,
		},
	})
}
