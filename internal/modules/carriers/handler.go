package carriers

import (
	"errors"
	"net/http"

	"rates-and-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles admin HTTP requests for carrier rate cards.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new carrier handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) List(c echo.Context) error {
	configs, err := h.svc.List(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListCarriers: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list carriers"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"carriers": configs, "total": len(configs)})
}

func (h *Handler) Get(c echo.Context) error {
	cfg, err := h.svc.GetByNameMode(c.Request().Context(), c.Param("name"), c.Param("mode"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Carrier not found"})
		}
		c.Logger().Error("Handler.GetCarrier: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve carrier"})
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) Create(c echo.Context) error {
	var cfg models.CarrierConfig
	if err := c.Bind(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(cfg); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	created, err := h.svc.Create(c.Request().Context(), cfg)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Carrier with this name and mode already exists"})
		}
		c.Logger().Error("Handler.CreateCarrier: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create carrier"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	var cfg models.CarrierConfig
	if err := c.Bind(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(cfg); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	updated, err := h.svc.Update(c.Request().Context(), c.Param("name"), c.Param("mode"), cfg)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Carrier not found"})
		}
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Carrier with this name and mode already exists"})
		}
		c.Logger().Error("Handler.UpdateCarrier: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update carrier"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("name"), c.Param("mode")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Carrier not found"})
		}
		c.Logger().Error("Handler.DeleteCarrier: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete carrier"})
	}
	return c.NoContent(http.StatusNoContent)
}
