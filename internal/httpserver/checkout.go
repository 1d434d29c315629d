package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/checkout"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	sessionmw "github.com/AliakbarCal15/Internship-Task-39/internal/middleware/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/transport"
)

type CheckoutHTTP struct {
	Svc *checkout.Service
}

func (h *CheckoutHTTP) Place(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s := sessionmw.Current(c)
	if err := h.Svc.Place(ctx, s, req.Address, req.PaymentMethod); err != nil {
		switch {
		case errors.Is(err, checkout.ErrValidation):
			l.Warn("place_order_failed", "status", 400, "reason", "invalid checkout details", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrEmptyCart):
			l.Warn("place_order_failed", "status", 422, "reason", "cart is empty")
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "cart is empty")
		case errors.Is(err, checkout.ErrPlacementPending):
			l.Warn("place_order_failed", "status", 409, "reason", "placement already pending")
			return echo.NewHTTPError(http.StatusConflict, "order placement already in progress")
		}
		l.Error("place_order_failed", "status", 500, "reason", "cannot place order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot place order")
	}

	return c.JSON(http.StatusAccepted, transport.NewPlacementResponse(s.Placement()))
}

func (h *CheckoutHTTP) Status(c echo.Context) error {
	s := sessionmw.Current(c)
	return c.JSON(http.StatusOK, transport.NewPlacementResponse(s.Placement()))
}
