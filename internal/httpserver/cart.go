package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/cart"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	sessionmw "github.com/AliakbarCal15/Internship-Task-39/internal/middleware/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
	"github.com/AliakbarCal15/Internship-Task-39/internal/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/transport"
)

type CartHTTP struct {
	Pricer  *pricing.Engine
	Coupons cart.CouponTable
}

// render prices the ledger; the caller holds the session lock.
func (h *CartHTTP) render(ctx context.Context, s *session.State) (transport.CartResponse, error) {
	priced, err := h.Pricer.Price(ctx, s.Ledger())
	if err != nil {
		return transport.CartResponse{}, err
	}
	return transport.NewCartResponse(priced), nil
}

func (h *CartHTTP) respond(c echo.Context, l *slog.Logger, s *session.State, status int) error {
	resp, err := h.render(c.Request().Context(), s)
	if err != nil {
		l.Error("price_cart_failed", "status", 500, "reason", "cannot price cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot price cart")
	}
	return c.JSON(status, resp)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.get")
	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()
	return h.respond(c, l, s, http.StatusOK)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" || req.Quantity <= 0 {
		l.Warn("add_item_failed", "status", 400, "reason", "quantity>0 and product_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "quantity>0 and product_id required")
	}
	if req.Quantity > cart.MaxQuantity {
		l.Warn("add_item_failed", "status", 400, "reason", "quantity too large", "quantity", req.Quantity)
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("quantity must not exceed %d", cart.MaxQuantity))
	}

	if _, err := h.Pricer.Catalog.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("add_item_failed", "status", 404, "reason", "product not found", "product_id", req.ProductID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_item_failed", "status", 500, "reason", "cannot resolve product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot resolve product")
	}

	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()
	s.Ledger().Add(req.ProductID, req.Quantity)

	l.Info("add_item_success", "product_id", req.ProductID, "quantity", req.Quantity)
	return h.respond(c, l, s, http.StatusOK)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.update_item")
	productID := c.Param("product_id")

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity > cart.MaxQuantity {
		l.Warn("update_item_failed", "status", 400, "reason", "quantity too large", "quantity", req.Quantity)
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("quantity must not exceed %d", cart.MaxQuantity))
	}

	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()

	if s.Ledger().Quantity(productID) == 0 {
		l.Warn("update_item_failed", "status", 404, "reason", "item not in cart", "product_id", productID)
		return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
	}
	s.Ledger().SetQuantity(productID, req.Quantity)

	l.Info("update_item_success", "product_id", productID, "quantity", s.Ledger().Quantity(productID))
	return h.respond(c, l, s, http.StatusOK)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove_item")
	productID := c.Param("product_id")

	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()
	s.Ledger().Remove(productID)

	l.Info("remove_item_success", "product_id", productID)
	return h.respond(c, l, s, http.StatusOK)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.clear")

	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()
	s.Ledger().Clear()

	l.Info("clear_cart_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.apply_coupon")

	var req transport.CouponRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("apply_coupon_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()

	if err := s.Ledger().ApplyCoupon(ctx, req.Code, h.Coupons, h.Pricer); err != nil {
		if errors.Is(err, cart.ErrInvalidCoupon) {
			reason := "invalid coupon code"
			if errors.Is(err, cart.ErrMinimumNotMet) {
				reason = "minimum order value not met for this coupon"
			}
			l.Warn("apply_coupon_failed", "status", 422, "reason", reason, "code", req.Code)
			return echo.NewHTTPError(http.StatusUnprocessableEntity, reason)
		}
		l.Error("apply_coupon_failed", "status", 500, "reason", "cannot apply coupon", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot apply coupon")
	}

	l.Info("apply_coupon_success", "code", req.Code)
	return h.respond(c, l, s, http.StatusOK)
}

func (h *CartHTTP) RemoveCoupon(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove_coupon")

	s := sessionmw.Current(c)
	s.Lock()
	defer s.Unlock()
	s.Ledger().RemoveCoupon()

	return h.respond(c, l, s, http.StatusOK)
}
