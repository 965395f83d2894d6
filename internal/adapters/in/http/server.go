package http

import (
	"context"
	"net/http"

	"github.com/GregTMJ/Orders-API/internal/api"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/queries"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Use case ports of the HTTP surface. The command and query handlers in
// internal/core/application implement them.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (order.Snapshot, error)
	}

	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]order.Snapshot, error)
	}
)

var _ api.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       CreateOrderHandler
	updateOrderStatusHandler UpdateOrderStatusHandler

	// Query handlers
	getOrderHandler   GetOrderHandler
	listOrdersHandler ListOrdersHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler CreateOrderHandler,
	updateOrderStatusHandler UpdateOrderStatusHandler,
	getOrderHandler GetOrderHandler,
	listOrdersHandler ListOrdersHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		listOrdersHandler:        listOrdersHandler,
	}
}

// CreateOrder handles POST /orders/ - creates an order owned by the caller.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder api.CreateOrderJSONRequestBody
	if err := ctx.Bind(&newOrder); err != nil {
		return ctx.JSON(http.StatusBadRequest, api.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	totalPrice, err := kernel.PriceFromString(string(newOrder.TotalPrice))
	if err != nil {
		return errorResponse(ctx, err)
	}

	status := order.Unknown
	if newOrder.Status != nil {
		if status, err = order.ParseStatus(string(*newOrder.Status)); err != nil {
			return errorResponse(ctx, err)
		}
	}

	cmd, err := commands.NewCreateOrderCommand(UserID(ctx), newOrder.Items, totalPrice, status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(created.Snapshot()))
}

// ListOrders handles GET /orders/ - retrieves every order.
func (s *Server) ListOrders(ctx echo.Context) error {
	return s.listOrders(ctx, queries.NewListAllOrdersQuery())
}

// ListUserOrders handles GET /orders/user/{id}/ - retrieves the orders of one user.
func (s *Server) ListUserOrders(ctx echo.Context, id string) error {
	return s.listOrders(ctx, queries.NewListOrdersQuery(id))
}

func (s *Server) listOrders(ctx echo.Context, query queries.ListOrdersQuery) error {
	snapshots, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]api.Order, len(snapshots))
	for i, snap := range snapshots {
		response[i] = toOrder(snap)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /orders/{id}/ - retrieves one order through the cache.
func (s *Server) GetOrder(ctx echo.Context, id string) error {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return orderNotFound(ctx)
	}

	query, err := queries.NewGetOrderQuery(orderID, UserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	snap, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(snap))
}

// UpdateOrderStatus handles PATCH /orders/{id}/ - changes the status of an order.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id string) error {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return orderNotFound(ctx)
	}

	var update api.UpdateOrderStatusJSONRequestBody
	if err = ctx.Bind(&update); err != nil {
		return ctx.JSON(http.StatusBadRequest, api.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := order.ParseStatus(string(update.Status))
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, UserID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(updated.Snapshot()))
}

// Ping handles GET /ping/.
func (s *Server) Ping(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "pong")
}

func toOrder(snap order.Snapshot) api.Order {
	return api.Order{
		Id:         snap.ID.Bytes(),
		Items:      snap.Items,
		TotalPrice: snap.TotalPrice.String(),
		Status:     api.OrderStatus(snap.Status),
		CreatedAt:  snap.CreatedAt,
	}
}

func orderNotFound(ctx echo.Context) error {
	return errorResponse(ctx, errs.NewObjectNotFoundError("order_id", ctx.Param("id")))
}
