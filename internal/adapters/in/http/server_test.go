package http_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/GregTMJ/Orders-API/internal/adapters/in/http"
	"github.com/GregTMJ/Orders-API/internal/api"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/queries"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fixture struct {
	e      *echo.Echo
	create *MockCreateOrderHandler
	update *MockUpdateOrderStatusHandler
	get    *MockGetOrderHandler
	list   *MockListOrdersHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		create: new(MockCreateOrderHandler),
		update: new(MockUpdateOrderStatusHandler),
		get:    new(MockGetOrderHandler),
		list:   new(MockListOrdersHandler),
	}
	server := httpadapter.NewServer(f.create, f.update, f.get, f.list)

	e, err := httpadapter.NewRouter(server, httpadapter.RouterConfig{
		AllowedOrigins: []string{"http://shop.example"},
		Auth:           httpadapter.NewAuthenticator(testSecret, "HS256"),
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	f.e = e

	t.Cleanup(func() {
		f.create.AssertExpectations(t)
		f.update.AssertExpectations(t)
		f.get.AssertExpectations(t)
		f.list.AssertExpectations(t)
	})
	return f
}

func signToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.Error {
	t.Helper()

	var body api.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func newTestOrder(t *testing.T, ownerID string, status order.Status) *order.Order {
	t.Helper()

	o, err := order.NewOrder(ownerID, json.RawMessage(`[{"sku":"A1","qty":2}]`), kernel.MustPrice("1000.00"), status)
	require.NoError(t, err)
	return o
}

func TestPublicRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/ping/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"pong"`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/swagger/doc.json", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Orders API")

	rec = f.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/swagger/index.html", rec.Header().Get(echo.HeaderLocation))
}

func TestOrdersRoutes_RequireBearerToken(t *testing.T) {
	f := newFixture(t)

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "no token", token: "", want: "token was not provided"},
		{name: "garbage", token: "not-a-jwt", want: "token is invalid"},
		{name: "wrong secret", token: otherSecret, want: "token is invalid"},
		{name: "expired", token: signToken(t, "u1", -time.Minute), want: "token has expired"},
		{name: "no subject", token: signToken(t, "", time.Hour), want: "token has no user id"},
	}

	routes := []struct{ method, path string }{
		{http.MethodGet, "/orders/"},
		{http.MethodPost, "/orders/"},
		{http.MethodGet, "/orders/" + kernel.NewUUID().String() + "/"},
		{http.MethodPatch, "/orders/" + kernel.NewUUID().String() + "/"},
		{http.MethodGet, "/orders/user/u1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, route := range routes {
				rec := f.do(t, route.method, route.path, "", tt.token)

				require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
				body := decodeError(t, rec)
				assert.Equal(t, http.StatusUnauthorized, body.Code)
				assert.Equal(t, tt.want, body.Message)
			}
		})
	}
}

func TestCreateOrder_Created(t *testing.T) {
	f := newFixture(t)
	created := newTestOrder(t, "u1", order.Pending)

	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.OwnerID() == "u1" &&
			cmd.TotalPrice().String() == "1000.00" &&
			cmd.Status() == order.Unknown &&
			string(cmd.Items()) == `[{"sku":"A1","qty":2}]`
	})).Return(created, nil).Once()

	rec := f.do(t, http.MethodPost, "/orders/", `{"items":[{"sku":"A1","qty":2}],"total_price":1000.00}`,
		signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, created.ID().String(), body["id"])
	assert.Equal(t, "1000.00", body["total_price"])
	assert.Equal(t, "PENDING", body["status"])
	assert.Contains(t, body, "created_at")
	assert.NotContains(t, body, "owner_id")
}

func TestCreateOrder_WithStatus(t *testing.T) {
	f := newFixture(t)

	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.Status() == order.Paid && cmd.TotalPrice().String() == "12.50"
	})).Return(newTestOrder(t, "u1", order.Paid), nil).Once()

	rec := f.do(t, http.MethodPost, "/orders", `{"items":[],"total_price":12.5,"status":"PAID"}`,
		signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"PAID"`)
}

func TestCreateOrder_PriceAsString(t *testing.T) {
	f := newFixture(t)

	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.TotalPrice().String() == "10.50"
	})).Return(newTestOrder(t, "u1", order.Pending), nil).Once()

	rec := f.do(t, http.MethodPost, "/orders/", `{"items":[],"total_price":"10.5"}`, signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.IsType(t, "", body["total_price"])
	f.create.AssertExpectations(t)
}

func TestCreateOrder_Unprocessable(t *testing.T) {
	f := newFixture(t)
	token := signToken(t, "u1", time.Hour)

	bodies := map[string]string{
		"zero price":                  `{"items":[],"total_price":0}`,
		"negative price":              `{"items":[],"total_price":-5}`,
		"three decimals":              `{"items":[],"total_price":10.123}`,
		"too large":                   `{"items":[],"total_price":10000000000}`,
		"items not an array":          `{"items":{"sku":"A1"},"total_price":10}`,
		"missing items":               `{"total_price":10}`,
		"missing total price":         `{"items":[]}`,
		"unknown status":              `{"items":[],"total_price":10,"status":"LOST"}`,
		"zero price string":           `{"items":[],"total_price":"0.00"}`,
		"price string not decimal":    `{"items":[],"total_price":"ten"}`,
		"price string three decimals": `{"items":[],"total_price":"10.123"}`,
		"price as bool":               `{"items":[],"total_price":true}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/orders/", body, token)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Equal(t, http.StatusUnprocessableEntity, decodeError(t, rec).Code)
		})
	}

	f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateOrder_PublishFailureIsServerError(t *testing.T) {
	f := newFixture(t)
	f.create.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewInfrastructureError("rabbitmq", errors.New("connection refused"))).Once()

	rec := f.do(t, http.MethodPost, "/orders/", `{"items":[],"total_price":10}`, signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	snaps := []order.Snapshot{
		newTestOrder(t, "u1", order.Pending).Snapshot(),
		newTestOrder(t, "u2", order.Paid).Snapshot(),
	}

	f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		return q.OwnerID() == ""
	})).Return(snaps, nil).Twice()

	for _, path := range []string{"/orders/", "/orders"} {
		rec := f.do(t, http.MethodGet, path, "", signToken(t, "u1", time.Hour))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body []api.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, snaps[1].ID.String(), body[1].Id.String())
		assert.Equal(t, api.OrderStatusPAID, body[1].Status)
	}
}

func TestListOrders_EmptyIsArray(t *testing.T) {
	f := newFixture(t)
	f.list.On("Handle", mock.Anything, mock.Anything).Return([]order.Snapshot{}, nil).Once()

	rec := f.do(t, http.MethodGet, "/orders/", "", signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListUserOrders(t *testing.T) {
	f := newFixture(t)
	f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		return q.OwnerID() == "u2"
	})).Return([]order.Snapshot{newTestOrder(t, "u2", order.Shipped).Snapshot()}, nil).Once()

	rec := f.do(t, http.MethodGet, "/orders/user/u2/", "", signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body []api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, api.OrderStatusSHIPPED, body[0].Status)
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	snap := newTestOrder(t, "u1", order.Pending).Snapshot()

	f.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID().IsEqual(snap.ID) && q.RequestedBy() == "u9"
	})).Return(snap, nil).Once()

	rec := f.do(t, http.MethodGet, "/orders/"+snap.ID.String()+"/", "", signToken(t, "u9", time.Hour))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, snap.ID.String(), body.Id.String())
	assert.JSONEq(t, string(snap.Items), string(body.Items))
	assert.True(t, snap.CreatedAt.Equal(body.CreatedAt))
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()
	f.get.On("Handle", mock.Anything, mock.Anything).
		Return(order.Snapshot{}, errs.NewObjectNotFoundError("order_id", id)).Once()

	rec := f.do(t, http.MethodGet, "/orders/"+id.String()+"/", "", signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeError(t, rec).Message)
}

func TestGetOrder_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/orders/not-a-uuid/", "", signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusNotFound, rec.Code)
	f.get.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	updated := newTestOrder(t, "u1", order.Paid)

	f.update.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
		return cmd.OrderID().IsEqual(updated.ID()) && cmd.Status() == order.Paid && cmd.RequestedBy() == "u1"
	})).Return(updated, nil).Once()

	rec := f.do(t, http.MethodPatch, "/orders/"+updated.ID().String()+"/", `{"status":"PAID"}`,
		signToken(t, "u1", time.Hour))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, api.OrderStatusPAID, body.Status)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	id := kernel.NewUUID()
	token := signToken(t, "u1", time.Hour)

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.update.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewObjectNotFoundError("order_id", id)).Once()

		rec := f.do(t, http.MethodPatch, "/orders/"+id.String()+"/", `{"status":"PAID"}`, token)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejected transition", func(t *testing.T) {
		f := newFixture(t)
		f.update.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewValueIsInvalidErrorWithCause("status", errors.New("transition from SHIPPED to PENDING is not allowed"))).
			Once()

		rec := f.do(t, http.MethodPatch, "/orders/"+id.String()+"/", `{"status":"PENDING"}`, token)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "not allowed")
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPatch, "/orders/"+id.String()+"/", `{"status":"LOST"}`, token)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPatch, "/orders/"+id.String()+"/", `{}`, token)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPatch, "/orders/42/", `{"status":"PAID"}`, token)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/orders/", nil)
	req.Header.Set(echo.HeaderOrigin, "http://shop.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://shop.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/nothing-here", "", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
}
