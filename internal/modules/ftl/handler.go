package ftl

import (
	"errors"
	"net/http"
	"strconv"

	"rates-and-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for full-truck-load quotes and bookings.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new FTL handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) ListRoutes(c echo.Context) error {
	routes, err := h.svc.ListRoutes(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListFTLRoutes: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list routes"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"routes": routes, "total": len(routes)})
}

func (h *Handler) Calculate(c echo.Context) error {
	var req models.FTLRateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	price, err := h.svc.Calculate(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "No price for this route and container"})
		}
		c.Logger().Error("Handler.CalculateFTL: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to calculate FTL price"})
	}
	return c.JSON(http.StatusOK, price)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req models.CreateFTLOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "No price for this route and container"})
		}
		c.Logger().Error("Handler.CreateFTLOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create FTL order"})
	}
	return c.JSON(http.StatusCreated, order)
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

	orders, total, err := h.svc.ListOrders(c.Request().Context(), page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListFTLOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list FTL orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}
