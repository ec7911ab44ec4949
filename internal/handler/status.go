package handler

import (
	"net/http"

	"securebase-billing/internal/dto"
	"securebase-billing/internal/service"

	"github.com/labstack/echo/v4"
)

type StatusHandler struct {
	fulfillmentService service.FulfillmentService
}

func NewStatusHandler(fulfillmentService service.FulfillmentService) *StatusHandler {
	return &StatusHandler{
		fulfillmentService: fulfillmentService,
	}
}

func (h *StatusHandler) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	record, err := h.fulfillmentService.GetStatus(ctx, c.QueryParam("email"))
	if err != nil {
		return err
	}

	resp := dto.StatusResponse{
		Email:  record.Email,
		Status: string(record.Status),
		Plan:   string(record.PlanIdentifier),
	}
	if !record.LastUpdatedAt.IsZero() {
		resp.LastUpdatedAt = &record.LastUpdatedAt
	}

	return c.JSON(http.StatusOK, resp)
}
