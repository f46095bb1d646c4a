// Order HTTP handlers.
//
// This file exposes the order-intake endpoint and the order lookup:
//   - POST /orders        (submit a new order through the admission pipeline)
//   - GET  /orders/{id}   (fetch a stored order)
//
// Handlers are transport-thin: they decode input, call the order service,
// and translate pipeline outcomes into the response shapes the storefront
// pages expect. Admission (rate governance) runs as middleware before these
// handlers are reached.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/naijamart/go-order-backend/internal/domain"
	"github.com/naijamart/go-order-backend/internal/http/middleware"
	"github.com/naijamart/go-order-backend/internal/services"
	"github.com/naijamart/go-order-backend/internal/validation"
)

// OrderService defines the pipeline operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type OrderService interface {
	// Submit runs one submission through validation, duplicate suppression,
	// tenant routing, and persistence.
	Submit(ctx context.Context, in validation.OrderInput, host string) (*domain.Order, error)
	// Get fetches a stored order by id from the partition resolved for host.
	Get(ctx context.Context, id, host string) (*domain.Order, error)
}

// Handlers groups the HTTP endpoints of the order API.
type Handlers struct {
	orderSvc OrderService
}

// New constructs a Handlers instance bound to the given service.
func New(orderSvc OrderService) *Handlers {
	return &Handlers{orderSvc: orderSvc}
}

//
// DTOs
//

// SubmitOrderResponse is returned for accepted submissions. OrderID is empty
// when storage is unconfigured and the order was accepted but not recorded.
type SubmitOrderResponse struct {
	Success bool   `json:"success" example:"true"`
	OrderID string `json:"order_id,omitempty" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Message string `json:"message" example:"Order created successfully"`
}

// SubmitOrderError is the failure shape of the intake endpoint. The storefront
// pages parse these fields; do not rename them.
type SubmitOrderError struct {
	Error   string `json:"error" example:"Validation failed"`
	Message string `json:"message,omitempty" example:"phone: Invalid Nigerian phone number. Use format: +234... or 0..."`
}

//
// Handlers
//

// SubmitOrder godoc
// @ID          submitOrder
// @Summary     Submit a new order
// @Description Runs the submission through the admission pipeline and persists it in the partition resolved from the request host.
// @Tags        Orders
// @Accept      json
// @Produce     json
//
// @Param       body  body  validation.OrderInput  true  "Order submission payload"
//
// @Success     200  {object}  handlers.SubmitOrderResponse
// @Failure     400  {object}  handlers.SubmitOrderError  "Validation failed"
// @Failure     409  {object}  handlers.SubmitOrderError  "Duplicate order detected"
// @Failure     429  {object}  handlers.SubmitOrderError  "Too many requests"
// @Failure     500  {object}  handlers.SubmitOrderError  "Failed to process order"
// @Router      /orders [post]
func (h *Handlers) SubmitOrder(c *gin.Context) {
	var in validation.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.ObserveOrder(middleware.OutcomeInvalid)
		c.AbortWithStatusJSON(http.StatusBadRequest, SubmitOrderError{
			Error:   "Validation failed",
			Message: "invalid JSON body",
		})
		return
	}

	order, err := h.orderSvc.Submit(c.Request.Context(), in, c.Request.Host)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			middleware.ObserveOrder(middleware.OutcomeInvalid)
			c.AbortWithStatusJSON(http.StatusBadRequest, SubmitOrderError{
				Error:   "Validation failed",
				Message: verr.Error(),
			})
		case errors.Is(err, services.ErrDuplicateOrder):
			middleware.ObserveOrder(middleware.OutcomeDuplicate)
			c.AbortWithStatusJSON(http.StatusConflict, SubmitOrderError{
				Error:   "Duplicate order detected",
				Message: "An identical order was submitted recently. Please wait a few minutes before ordering again.",
			})
		case errors.Is(err, services.ErrStorageUnavailable):
			// Deliberate degradation: the customer-facing flow keeps working
			// even when the database integration is not wired up.
			middleware.ObserveOrder(middleware.OutcomeUnrecorded)
			middleware.LoggerFrom(c).Warn().Msg("storage not configured; order accepted but not recorded")
			ok(c, http.StatusOK, SubmitOrderResponse{
				Success: true,
				Message: "Order received (database not configured)",
			})
		default:
			middleware.ObserveOrder(middleware.OutcomeFailed)
			middleware.LoggerFrom(c).Error().Err(err).Msg("order write failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, SubmitOrderError{
				Error:   "Failed to process order",
				Message: err.Error(),
			})
		}
		return
	}

	middleware.ObserveOrder(middleware.OutcomeCreated)
	ok(c, http.StatusOK, SubmitOrderResponse{
		Success: true,
		OrderID: order.ID,
		Message: "Order created successfully",
	})
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Fetch a stored order
// @Description Returns an order by id from the partition resolved from the request host.
// @Tags        Orders
// @Produce     json
//
// @Param       id  path  string  true  "Order ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Order
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unconfigured"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order id must be a UUID")
		return
	}

	o, err := h.orderSvc.Get(c.Request.Context(), id, c.Request.Host)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.Is(err, services.ErrStorageUnavailable):
			fail(c, http.StatusServiceUnavailable, ErrCodeStorageOffline, "order storage not configured")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, o)
}
