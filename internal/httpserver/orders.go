package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	sessionmw "github.com/AliakbarCal15/Internship-Task-39/internal/middleware/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/orders"
	"github.com/AliakbarCal15/Internship-Task-39/internal/tracker"
	"github.com/AliakbarCal15/Internship-Task-39/internal/transport"
)

type OrdersHTTP struct{}

func (h *OrdersHTTP) List(c echo.Context) error {
	list := sessionmw.Current(c).Orders().List()

	resp := make([]transport.OrderResponse, 0, len(list))
	for _, o := range list {
		resp = append(resp, transport.NewOrderResponse(o, false))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrdersHTTP) Get(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "orders.get")
	id := c.Param("id")

	o, err := sessionmw.Current(c).Orders().Get(id)
	if err != nil {
		l.Warn("get_order_failed", "status", 404, "reason", "order not found", "order_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(o, true))
}

func (h *OrdersHTTP) Advance(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.advance")
	id := c.Param("id")

	var req transport.AdvanceOrderRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			l.Warn("advance_order_failed", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
	}

	o, err := sessionmw.Current(c).Orders().Advance(ctx, id, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			l.Warn("advance_order_failed", "status", 404, "reason", "order not found", "order_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, tracker.ErrTerminal):
			l.Warn("advance_order_failed", "status", 409, "reason", "order already delivered", "order_id", id)
			return echo.NewHTTPError(http.StatusConflict, "order already delivered")
		}
		l.Error("advance_order_failed", "status", 500, "reason", "cannot advance order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot advance order")
	}

	l.Info("advance_order_success", "order_id", id, "status", o.Status)
	return c.JSON(http.StatusOK, transport.NewOrderResponse(o, true))
}
