package orders

import (
	"errors"
	"net/http"
	"strconv"

	"rates-and-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrPincodeNotFound) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Unknown pincode"})
		}
		c.Logger().Error("Handler.CreateOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create order"})
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.svc.GetOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		}
		c.Logger().Error("Handler.GetOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve order"})
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c echo.Context) error {
	page := 1
	limit := 10
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	status := c.QueryParam("status")

	orders, total, err := h.svc.ListOrders(c.Request().Context(), status, page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

func (h *Handler) DeleteOrder(c echo.Context) error {
	if err := h.svc.DeleteOrder(c.Request().Context(), c.Param("orderId")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		}
		if errors.Is(err, models.ErrOrderNotDraft) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Only draft orders can be deleted"})
		}
		c.Logger().Error("Handler.DeleteOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete order"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CompareForOrders(c echo.Context) error {
	var req models.CompareOrdersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	result, err := h.svc.CompareForOrders(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "One or more orders not found"})
		}
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Orders must share one sender and recipient pincode"})
		}
		c.Logger().Error("Handler.CompareForOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compare rates for orders"})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Book(c echo.Context) error {
	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	result, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "One or more orders not found"})
		}
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "One or more orders are already booked"})
		}
		if errors.Is(err, models.ErrRouteNotServiceable) {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "Selected carrier cannot service these orders: " + err.Error()})
		}
		c.Logger().Error("Handler.Book: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to book orders"})
	}
	return c.JSON(http.StatusOK, result)
}
