package handler

import (
	"net/http"

	"securebase-billing/internal/dto"
	"securebase-billing/internal/model"
	"securebase-billing/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	successURL      string
	cancelURL       string
	defaultPlan     model.Plan
}

func NewCheckoutHandler(checkoutService service.CheckoutService, successURL, cancelURL string, defaultPlan model.Plan) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		successURL:      successURL,
		cancelURL:       cancelURL,
		defaultPlan:     defaultPlan,
	}
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.checkoutService.CreateSession(ctx, &service.PurchaseIntent{
		Plan:           model.ParsePlan(req.PlanName, h.defaultPlan),
		PriceReference: req.PriceReference,
		PayerEmail:     req.CustomerEmail,
		SuccessURL:     h.successURL,
		CancelURL:      h.cancelURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CheckoutResponse{
		CheckoutURL: session.CheckoutURL,
		SessionID:   session.SessionID,
	})
}
