package rates

import (
	"errors"
	"net/http"

	"rates-and-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for rate comparisons.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new rates handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) Compare(c echo.Context) error {
	var req models.RateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	result, err := h.svc.Compare(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidWeight) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid shipment weight"})
		}
		c.Logger().Error("Handler.Compare: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compare rates"})
	}

	return c.JSON(http.StatusOK, result)
}
