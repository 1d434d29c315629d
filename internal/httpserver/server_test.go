package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliakbarCal15/Internship-Task-39/internal/cart"
	"github.com/AliakbarCal15/Internship-Task-39/internal/checkout"
	"github.com/AliakbarCal15/Internship-Task-39/internal/db/dbtest"
	"github.com/AliakbarCal15/Internship-Task-39/internal/events"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
	"github.com/AliakbarCal15/Internship-Task-39/internal/service"
	"github.com/AliakbarCal15/Internship-Task-39/internal/session"
	"github.com/AliakbarCal15/Internship-Task-39/internal/transport"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Registry *session.Registry
	Events   *events.Recorder
	cookie   *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gorm := &repo.GormRepo{DB: dbtest.OpenSeeded(t)}
	engine := pricing.NewEngine(gorm, pricing.DefaultConfig())
	rec := &events.Recorder{}
	materializer := checkout.NewOrderMaterializer(0, 5*24*time.Hour, rec, "order_events")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	reg := session.NewRegistry(ctx, session.WithEvents(rec, "order_events"))

	e := echo.New()
	Register(e, &Deps{
		CatalogHandler:  &CatalogHTTP{Svc: &service.CatalogService{Repo: gorm}},
		CartHandler:     &CartHTTP{Pricer: engine, Coupons: gorm},
		WishlistHandler: &WishlistHTTP{Catalog: gorm},
		CheckoutHandler: &CheckoutHTTP{Svc: checkout.NewService(engine, materializer)},
		OrdersHandler:   &OrdersHTTP{},
		Tokens:          session.NewTokens([]byte("test-session-secret"), time.Hour),
		Registry:        reg,
	})

	return &testEnv{T: t, E: e, Registry: reg, Events: rec}
}

// doJSONRequest sends through the full echo stack and keeps the session cookie.
func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, []byte) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if env.cookie != nil {
		req.AddCookie(env.cookie)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			env.cookie = ck
		}
	}
	return rec, rec.Body.Bytes()
}

func (env *testEnv) cart() transport.CartResponse {
	rec, body := env.doJSONRequest(http.MethodGet, "/cart", nil)
	require.Equal(env.T, http.StatusOK, rec.Code, string(body))
	var resp transport.CartResponse
	require.NoError(env.T, json.Unmarshal(body, &resp))
	return resp
}

func checkoutBody() transport.CheckoutRequest {
	return transport.CheckoutRequest{
		Address: models.Address{
			FullName: "Asha Rao",
			Phone:    "9876543210",
			Pincode:  "560001",
			Address:  "12 MG Road",
			City:     "Bengaluru",
			State:    "Karnataka",
			Type:     "home",
		},
		PaymentMethod: models.PaymentUPI,
	}
}

func (env *testEnv) waitPlacement() transport.PlacementResponse {
	var resp transport.PlacementResponse
	require.Eventually(env.T, func() bool {
		rec, body := env.doJSONRequest(http.MethodGet, "/checkout", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return false
		}
		return resp.State == "settled"
	}, 2*time.Second, 10*time.Millisecond)
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSONRequest(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.doJSONRequest(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReadyFailure(t *testing.T) {
	e := echo.New()
	Register(e, &Deps{
		CatalogHandler:  &CatalogHTTP{},
		CartHandler:     &CartHTTP{},
		WishlistHandler: &WishlistHTTP{},
		CheckoutHandler: &CheckoutHTTP{},
		OrdersHandler:   &OrdersHTTP{},
		Ready:           func(context.Context) error { return errors.New("db down") },
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCatalog_Browse(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.doJSONRequest(http.MethodGet, "/catalog/products?brand=Apple,Samsung&sort=price_asc", nil)
	require.Equal(t, http.StatusOK, rec.Code, string(body))

	var page transport.ProductPage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Data, 2)
	assert.Equal(t, "2", page.Data[0].ID)
	assert.Equal(t, "1", page.Data[1].ID)
	assert.EqualValues(t, 107910, page.Data[1].EffectivePrice)
	assert.EqualValues(t, 2, page.Meta.Total)
	assert.Equal(t, 8, page.Meta.Size)

	rec, _ = env.doJSONRequest(http.MethodGet, "/catalog/products?sort=cheapest", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog_GetProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.doJSONRequest(http.MethodGet, "/catalog/products/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p transport.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "Nike Air Max 270", p.Title)

	rec, _ = env.doJSONRequest(http.MethodGet, "/catalog/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_SessionCookieIssued(t *testing.T) {
	env := newTestEnv(t)

	env.cart()
	require.NotNil(t, env.cookie)
	assert.Equal(t, 1, env.Registry.Len())

	env.cart()
	assert.Equal(t, 1, env.Registry.Len(), "cookie should resolve to the same session")
}

func TestCart_AddPriceAndCoupon(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "1", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code, string(body))

	resp := env.cart()
	assert.EqualValues(t, 215820, resp.Subtotal)
	assert.Zero(t, resp.DeliveryFee)
	assert.True(t, resp.FreeDelivery)
	assert.EqualValues(t, 215820, resp.Total)
	assert.Equal(t, 2, resp.ItemCount)

	rec, body = env.doJSONRequest(http.MethodPost, "/cart/coupon", transport.CouponRequest{Code: "first50"})
	require.Equal(t, http.StatusOK, rec.Code, string(body))
	var withCoupon transport.CartResponse
	require.NoError(t, json.Unmarshal(body, &withCoupon))
	assert.EqualValues(t, 107910, withCoupon.Discount)
	assert.EqualValues(t, 107910, withCoupon.Total)
	require.NotNil(t, withCoupon.Coupon)
	assert.Equal(t, "FIRST50", withCoupon.Coupon.Code)

	rec, _ = env.doJSONRequest(http.MethodDelete, "/cart/coupon", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.cart().Discount)
}

func TestCart_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body transport.AddItemRequest
		want int
	}{
		{name: "zero quantity", body: transport.AddItemRequest{ProductID: "1", Quantity: 0}, want: http.StatusBadRequest},
		{name: "negative quantity", body: transport.AddItemRequest{ProductID: "1", Quantity: -3}, want: http.StatusBadRequest},
		{name: "missing product id", body: transport.AddItemRequest{Quantity: 1}, want: http.StatusBadRequest},
		{name: "unknown product", body: transport.AddItemRequest{ProductID: "999", Quantity: 1}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.doJSONRequest(http.MethodPost, "/cart/items", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.True(t, env.cart().Empty)
}

func TestCart_QuantityIsBounded(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "1", Quantity: math.MaxInt})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "1", Quantity: cart.MaxQuantity + 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, env.cart().Empty)

	for i := 0; i < 2; i++ {
		rec, _ = env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "1", Quantity: cart.MaxQuantity})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	resp := env.cart()
	require.Len(t, resp.Items, 1)
	assert.Equal(t, cart.MaxQuantity, resp.Items[0].Quantity)
	assert.Positive(t, resp.Subtotal)
	assert.Positive(t, resp.Total)

	rec, _ = env.doJSONRequest(http.MethodPatch, "/cart/items/1", transport.UpdateItemRequest{Quantity: math.MaxInt})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, cart.MaxQuantity, env.cart().Items[0].Quantity)
}

func TestCart_CouponRejections(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "5", Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.doJSONRequest(http.MethodPost, "/cart/coupon", transport.CouponRequest{Code: "FIRST50"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, string(body), "minimum")

	rec, body = env.doJSONRequest(http.MethodPost, "/cart/coupon", transport.CouponRequest{Code: "NOPE"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, string(body), "invalid coupon")

	resp := env.cart()
	assert.Nil(t, resp.Coupon)
	assert.Zero(t, resp.Discount)
	assert.EqualValues(t, 40, resp.DeliveryFee)
	assert.EqualValues(t, 539, resp.Total)
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	env := newTestEnv(t)

	env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "4", Quantity: 3})
	env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "5", Quantity: 1})

	rec, body := env.doJSONRequest(http.MethodPatch, "/cart/items/4", transport.UpdateItemRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code, string(body))
	var resp transport.CartResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Items[0].Quantity, "quantity clamps to one")

	rec, _ = env.doJSONRequest(http.MethodPatch, "/cart/items/3", transport.UpdateItemRequest{Quantity: 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.doJSONRequest(http.MethodDelete, "/cart/items/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.cart().Items, 1)

	rec, _ = env.doJSONRequest(http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	resp = env.cart()
	assert.True(t, resp.Empty)
	assert.Zero(t, resp.DeliveryFee)
}

func TestWishlist_Flow(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSONRequest(http.MethodPost, "/wishlist", transport.WishlistRequest{ProductID: "3"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = env.doJSONRequest(http.MethodPost, "/wishlist", transport.WishlistRequest{ProductID: "3"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.doJSONRequest(http.MethodPost, "/wishlist", transport.WishlistRequest{ProductID: "missing"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := env.doJSONRequest(http.MethodGet, "/wishlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wl transport.WishlistResponse
	require.NoError(t, json.Unmarshal(body, &wl))
	require.Len(t, wl.Items, 1)
	assert.Equal(t, "3", wl.Items[0].ID)

	rec, _ = env.doJSONRequest(http.MethodPost, "/wishlist/3/move-to-cart", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.doJSONRequest(http.MethodPost, "/wishlist/3/move-to-cart", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	cartResp := env.cart()
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, "3", cartResp.Items[0].ProductID)
	assert.Equal(t, 1, cartResp.Items[0].Quantity)

	rec, _ = env.doJSONRequest(http.MethodDelete, "/wishlist/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSONRequest(http.MethodPost, "/checkout", checkoutBody())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, body := env.doJSONRequest(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `"state":"idle"`)
}

func TestCheckout_InvalidDetails(t *testing.T) {
	env := newTestEnv(t)
	env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "5", Quantity: 1})

	body := checkoutBody()
	body.PaymentMethod = "crypto"
	rec, _ := env.doJSONRequest(http.MethodPost, "/checkout", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.cart().Empty)
}

func TestCheckout_PlaceTrackAndAdvance(t *testing.T) {
	env := newTestEnv(t)

	env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "1", Quantity: 2})
	env.doJSONRequest(http.MethodPost, "/cart/coupon", transport.CouponRequest{Code: "FIRST50"})

	rec, body := env.doJSONRequest(http.MethodPost, "/checkout", checkoutBody())
	require.Equal(t, http.StatusAccepted, rec.Code, string(body))

	placement := env.waitPlacement()
	require.NotNil(t, placement.Order)
	assert.Empty(t, placement.Error)
	assert.EqualValues(t, 107910, placement.Order.Total)
	assert.Equal(t, "FIRST50", placement.Order.CouponCode)

	assert.True(t, env.cart().Empty, "cart is cleared after a successful placement")

	rec, body = env.doJSONRequest(http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []transport.OrderResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	id := list[0].ID

	rec, body = env.doJSONRequest(http.MethodGet, "/orders/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var order transport.OrderResponse
	require.NoError(t, json.Unmarshal(body, &order))
	require.NotNil(t, order.Tracking)
	assert.Equal(t, 0, order.Tracking.CurrentIndex)
	assert.True(t, order.Tracking.Steps[0].InProgress)
	assert.True(t, order.Tracking.Steps[1].Pending)

	for i := 0; i < 4; i++ {
		rec, body = env.doJSONRequest(http.MethodPost, "/orders/"+id+"/advance", nil)
		require.Equal(t, http.StatusOK, rec.Code, string(body))
	}
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, "Delivered", order.StatusLabel)

	rec, _ = env.doJSONRequest(http.MethodPost, "/orders/"+id+"/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.doJSONRequest(http.MethodGet, "/orders/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var types []string
	for _, p := range env.Events.Events() {
		types = append(types, p.Event.(events.Event).Type)
	}
	assert.Equal(t, []string{
		events.TypeOrderPlaced,
		events.TypeOrderStatusChanged,
		events.TypeOrderStatusChanged,
		events.TypeOrderStatusChanged,
		events.TypeOrderStatusChanged,
	}, types)
}

func TestSession_Reset(t *testing.T) {
	env := newTestEnv(t)
	env.doJSONRequest(http.MethodPost, "/cart/items", transport.AddItemRequest{ProductID: "5", Quantity: 2})
	require.False(t, env.cart().Empty)

	rec, _ := env.doJSONRequest(http.MethodDelete, "/session", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, env.Registry.Len())

	assert.True(t, env.cart().Empty, "old cookie maps to a fresh session")
}
