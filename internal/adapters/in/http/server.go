// Package http exposes the dispatch trigger surface over REST. Every route
// is a thin adapter: parse identifiers, build the command or query, map the
// business outcome to a status code. All orchestration lives in the
// application layer.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the uniform error body for all routes.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderReadyRequest carries the order identity handed over by the
// order-fulfillment flow when the vendor marks the order ready.
type OrderReadyRequest struct {
	OrderNumber string `json:"orderNumber"`
	VendorID    string `json:"vendorId"`
	CustomerID  string `json:"customerId"`
}

// CourierActionRequest names the courier acting on an order. Reason is only
// read by the cancellation route.
type CourierActionRequest struct {
	CourierID string `json:"courierId"`
	Reason    string `json:"reason,omitempty"`
}

// RegisterCourierRequest carries a new courier's identity. ID is optional;
// one is generated when absent.
type RegisterCourierRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// RegisterCourierResponse returns the registered courier's identifier.
type RegisterCourierResponse struct {
	ID string `json:"id"`
}

// DispatchBoardEntry is one row of the operations dashboard.
type DispatchBoardEntry struct {
	EntryID     string  `json:"entryId"`
	OrderID     string  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	OrderStatus string  `json:"orderStatus"`
	QueueStatus string  `json:"queueStatus"`
	CourierID   *string `json:"courierId,omitempty"`
	Attempts    int     `json:"attempts"`
	ExpiresAt   *string `json:"expiresAt,omitempty"`
	EnqueuedAt  string  `json:"enqueuedAt"`
}

// AvailableCourier is one courier currently eligible for offers.
type AvailableCourier struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	orderReadyHandler     commands.OrderReadyCommandHandler
	acceptOfferHandler    commands.AcceptOfferCommandHandler
	rejectOfferHandler    commands.RejectOfferCommandHandler
	pickedUpHandler       commands.OrderPickedUpCommandHandler
	outForDeliveryHandler commands.OrderOutForDeliveryCommandHandler
	deliveredHandler      commands.OrderDeliveredCommandHandler
	courierCancelHandler  commands.CourierCancelCommandHandler
	registerHandler       commands.RegisterCourierCommandHandler
	courierOnlineHandler  commands.CourierOnlineCommandHandler
	courierOfflineHandler commands.CourierOfflineCommandHandler

	// Query handlers
	dispatchBoardHandler     queries.GetDispatchBoardQueryHandler
	availableCouriersHandler queries.GetAvailableCouriersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	orderReadyHandler commands.OrderReadyCommandHandler,
	acceptOfferHandler commands.AcceptOfferCommandHandler,
	rejectOfferHandler commands.RejectOfferCommandHandler,
	pickedUpHandler commands.OrderPickedUpCommandHandler,
	outForDeliveryHandler commands.OrderOutForDeliveryCommandHandler,
	deliveredHandler commands.OrderDeliveredCommandHandler,
	courierCancelHandler commands.CourierCancelCommandHandler,
	registerHandler commands.RegisterCourierCommandHandler,
	courierOnlineHandler commands.CourierOnlineCommandHandler,
	courierOfflineHandler commands.CourierOfflineCommandHandler,
	dispatchBoardHandler queries.GetDispatchBoardQueryHandler,
	availableCouriersHandler queries.GetAvailableCouriersQueryHandler,
) *Server {
	return &Server{
		orderReadyHandler:        orderReadyHandler,
		acceptOfferHandler:       acceptOfferHandler,
		rejectOfferHandler:       rejectOfferHandler,
		pickedUpHandler:          pickedUpHandler,
		outForDeliveryHandler:    outForDeliveryHandler,
		deliveredHandler:         deliveredHandler,
		courierCancelHandler:     courierCancelHandler,
		registerHandler:          registerHandler,
		courierOnlineHandler:     courierOnlineHandler,
		courierOfflineHandler:    courierOfflineHandler,
		dispatchBoardHandler:     dispatchBoardHandler,
		availableCouriersHandler: availableCouriersHandler,
	}
}

// RegisterRoutes mounts the trigger surface on the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/:id/ready", s.OrderReady)
	api.POST("/orders/:id/accept", s.AcceptOffer)
	api.POST("/orders/:id/reject", s.RejectOffer)
	api.POST("/orders/:id/pickup", s.OrderPickedUp)
	api.POST("/orders/:id/out-for-delivery", s.OrderOutForDelivery)
	api.POST("/orders/:id/delivered", s.OrderDelivered)
	api.POST("/orders/:id/cancel", s.CourierCancel)

	api.POST("/couriers", s.RegisterCourier)
	api.POST("/couriers/:id/online", s.CourierOnline)
	api.POST("/couriers/:id/offline", s.CourierOffline)

	api.GET("/dispatch/board", s.GetDispatchBoard)
	api.GET("/couriers/available", s.GetAvailableCouriers)
}

// OrderReady handles POST /api/v1/orders/:id/ready.
func (s *Server) OrderReady(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req OrderReadyRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	vendorID, err := kernel.UUIDFromString(req.VendorID)
	if err != nil {
		return badRequest(ctx, "invalid vendor id")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "invalid customer id")
	}

	cmd, err := commands.NewOrderReadyCommand(orderID, req.OrderNumber, vendorID, customerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.orderReadyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// AcceptOffer handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	orderID, courierID, _, err := orderCourierParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewAcceptOfferCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.acceptOfferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RejectOffer handles POST /api/v1/orders/:id/reject.
func (s *Server) RejectOffer(ctx echo.Context) error {
	orderID, courierID, _, err := orderCourierParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewRejectOfferCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.rejectOfferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// OrderPickedUp handles POST /api/v1/orders/:id/pickup.
func (s *Server) OrderPickedUp(ctx echo.Context) error {
	orderID, courierID, _, err := orderCourierParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewOrderPickedUpCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.pickedUpHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// OrderOutForDelivery handles POST /api/v1/orders/:id/out-for-delivery.
func (s *Server) OrderOutForDelivery(ctx echo.Context) error {
	orderID, courierID, _, err := orderCourierParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewOrderOutForDeliveryCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.outForDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// OrderDelivered handles POST /api/v1/orders/:id/delivered.
func (s *Server) OrderDelivered(ctx echo.Context) error {
	orderID, courierID, _, err := orderCourierParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewOrderDeliveredCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.deliveredHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CourierCancel handles POST /api/v1/orders/:id/cancel.
func (s *Server) CourierCancel(ctx echo.Context) error {
	orderID, courierID, reason, err := orderCourierParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCourierCancelCommand(orderID, courierID, reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.courierCancelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	var req RegisterCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID := kernel.NewUUID()
	if req.ID != "" {
		var err error
		courierID, err = kernel.UUIDFromString(req.ID)
		if err != nil {
			return badRequest(ctx, "invalid courier id")
		}
	}

	cmd, err := commands.NewRegisterCourierCommand(courierID, req.Name)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.registerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: "Failed to register courier",
		})
	}

	return ctx.JSON(http.StatusCreated, RegisterCourierResponse{ID: courierID.String()})
}

// CourierOnline handles POST /api/v1/couriers/:id/online.
func (s *Server) CourierOnline(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid courier id")
	}

	cmd, err := commands.NewCourierOnlineCommand(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.courierOnlineHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CourierOffline handles POST /api/v1/couriers/:id/offline.
func (s *Server) CourierOffline(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid courier id")
	}

	cmd, err := commands.NewCourierOfflineCommand(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.courierOfflineHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetDispatchBoard handles GET /api/v1/dispatch/board.
func (s *Server) GetDispatchBoard(ctx echo.Context) error {
	query := queries.NewGetDispatchBoardQuery()

	board, err := s.dispatchBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load dispatch board",
		})
	}

	response := make([]DispatchBoardEntry, len(board))
	for i, row := range board {
		entry := DispatchBoardEntry{
			EntryID:     row.EntryID.String(),
			OrderID:     row.OrderID.String(),
			OrderNumber: row.OrderNumber,
			OrderStatus: row.OrderStatus.String(),
			QueueStatus: row.QueueStatus.String(),
			Attempts:    row.Attempts,
			EnqueuedAt:  row.EnqueuedAt.Format(timeFormat),
		}
		if row.CourierID != nil {
			id := row.CourierID.String()
			entry.CourierID = &id
		}
		if row.ExpiresAt != nil {
			t := row.ExpiresAt.Format(timeFormat)
			entry.ExpiresAt = &t
		}
		response[i] = entry
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAvailableCouriers handles GET /api/v1/couriers/available.
func (s *Server) GetAvailableCouriers(ctx echo.Context) error {
	query := queries.NewGetAvailableCouriersQuery()

	couriers, err := s.availableCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve available couriers",
		})
	}

	response := make([]AvailableCourier, len(couriers))
	for i, c := range couriers {
		response[i] = AvailableCourier{
			ID:   c.ID.String(),
			Name: c.Name,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// orderCourierParams extracts the order id from the path and the courier id
// (plus optional reason) from the body.
func orderCourierParams(ctx echo.Context) (kernel.UUID, kernel.UUID, string, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, "", errors.New("invalid order id")
	}

	var req CourierActionRequest
	if err = ctx.Bind(&req); err != nil {
		return kernel.UUID{}, kernel.UUID{}, "", errors.New("invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, "", errors.New("invalid courier id")
	}

	return orderID, courierID, req.Reason, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// isInvariantViolation reports whether err is a state machine violation:
// the request names a legal route but the entities are not in a state that
// allows it.
func isInvariantViolation(err error) bool {
	return errors.Is(err, queue.ErrInvalidQueueTransition) ||
		errors.Is(err, queue.ErrOfferCourierMismatch) ||
		errors.Is(err, order.ErrCourierMismatch)
}

// commandError maps business outcomes to HTTP status codes.
func commandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrOfferNoLongerValid):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: "offer is no longer valid",
		})
	case isInvariantViolation(err):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}
