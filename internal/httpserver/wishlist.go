package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	sessionmw "github.com/AliakbarCal15/Internship-Task-39/internal/middleware/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
	"github.com/AliakbarCal15/Internship-Task-39/internal/transport"
)

type WishlistHTTP struct {
	Catalog pricing.CatalogLookup
}

func (h *WishlistHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	s := sessionmw.Current(c)
	s.Lock()
	ids := s.Wishlist().Items()
	s.Unlock()

	resp := transport.WishlistResponse{Items: make([]transport.ProductResponse, 0, len(ids))}
	for _, id := range ids {
		p, err := h.Catalog.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				resp.Missing = append(resp.Missing, id)
				continue
			}
			l.Error("get_wishlist_failed", "status", 500, "reason", "cannot resolve product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot resolve product")
		}
		resp.Items = append(resp.Items, transport.NewProductResponse(p))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_wishlist_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		l.Warn("add_wishlist_failed", "status", 400, "reason", "product_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	if _, err := h.Catalog.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("add_wishlist_failed", "status", 404, "reason", "product not found", "product_id", req.ProductID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_wishlist_failed", "status", 500, "reason", "cannot resolve product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot resolve product")
	}

	s := sessionmw.Current(c)
	s.Lock()
	added := s.Wishlist().Add(req.ProductID)
	s.Unlock()

	if !added {
		return c.NoContent(http.StatusOK)
	}
	l.Info("add_wishlist_success", "product_id", req.ProductID)
	return c.NoContent(http.StatusCreated)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "wishlist.remove")
	productID := c.Param("product_id")

	s := sessionmw.Current(c)
	s.Lock()
	removed := s.Wishlist().Remove(productID)
	s.Unlock()

	if !removed {
		l.Warn("remove_wishlist_failed", "status", 404, "reason", "not in wishlist", "product_id", productID)
		return echo.NewHTTPError(http.StatusNotFound, "not in wishlist")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHTTP) MoveToCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "wishlist.move_to_cart")
	productID := c.Param("product_id")

	s := sessionmw.Current(c)
	s.Lock()
	moved := s.Wishlist().MoveToCart(productID, s.Ledger())
	s.Unlock()

	if !moved {
		l.Warn("move_to_cart_failed", "status", 404, "reason", "not in wishlist", "product_id", productID)
		return echo.NewHTTPError(http.StatusNotFound, "not in wishlist")
	}
	l.Info("move_to_cart_success", "product_id", productID)
	return c.NoContent(http.StatusNoContent)
}
