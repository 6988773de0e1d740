package pincode

import (
	"net/http"
	"strconv"

	"rates-and-booking/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for pincode lookups.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Lookup(c echo.Context) error {
	pin, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid pincode"})
	}

	loc, ok := h.svc.Lookup(pin)
	if !ok {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Pincode not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pincode":  pin,
		"city":     loc.District,
		"state":    loc.OriginalState,
		"office":   loc.OriginalCity,
		"district": loc.District,
	})
}
