package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	sessionmw "github.com/AliakbarCal15/Internship-Task-39/internal/middleware/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/session"
)

type Deps struct {
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	WishlistHandler *WishlistHTTP
	CheckoutHandler *CheckoutHTTP
	OrdersHandler   *OrdersHTTP

	Tokens   *session.Tokens
	Registry *session.Registry

	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("readiness_failed", "status", 503, "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	catalog := e.Group("/catalog")
	catalog.GET("/products", d.CatalogHandler.Browse)
	catalog.GET("/products/:id", d.CatalogHandler.GetProduct)

	sessionMW := sessionmw.Attach(d.Tokens, d.Registry)

	cart := e.Group("/cart", sessionMW)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:product_id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:product_id", d.CartHandler.RemoveItem)
	cart.POST("/coupon", d.CartHandler.ApplyCoupon)
	cart.DELETE("/coupon", d.CartHandler.RemoveCoupon)

	wishlist := e.Group("/wishlist", sessionMW)
	wishlist.GET("", d.WishlistHandler.Get)
	wishlist.POST("", d.WishlistHandler.Add)
	wishlist.DELETE("/:product_id", d.WishlistHandler.Remove)
	wishlist.POST("/:product_id/move-to-cart", d.WishlistHandler.MoveToCart)

	checkout := e.Group("/checkout", sessionMW)
	checkout.POST("", d.CheckoutHandler.Place)
	checkout.GET("", d.CheckoutHandler.Status)

	orders := e.Group("/orders", sessionMW)
	orders.GET("", d.OrdersHandler.List)
	orders.GET("/:id", d.OrdersHandler.Get)
	orders.POST("/:id/advance", d.OrdersHandler.Advance)

	e.DELETE("/session", func(c echo.Context) error {
		if id := sessionmw.SessionID(c); id != "" {
			d.Registry.Reset(id)
			logging.FromContext(c.Request().Context()).Info("session_reset")
		}
		c.SetCookie(session.DeleteCookie())
		return c.NoContent(http.StatusNoContent)
	}, sessionMW)
}
