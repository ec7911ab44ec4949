package handler

import (
	"errors"
	"io"
	"net/http"

	"securebase-billing/internal/apperror"
	"securebase-billing/internal/client"
	"securebase-billing/internal/dto"
	"securebase-billing/internal/middleware"
	"securebase-billing/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	maxWebhookBodyBytes = 1 << 20
	signatureHeader     = "Stripe-Signature"
)

type WebhookHandler struct {
	stripeClient       client.StripeClient
	fulfillmentService service.FulfillmentService
}

func NewWebhookHandler(stripeClient client.StripeClient, fulfillmentService service.FulfillmentService) *WebhookHandler {
	return &WebhookHandler{
		stripeClient:       stripeClient,
		fulfillmentService: fulfillmentService,
	}
}

func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	log := middleware.Logger(c)

	// the signature covers the raw bytes, so the body is never bound
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "read body failed")
	}

	event, err := h.stripeClient.VerifyEvent(body, c.Request().Header.Get(signatureHeader))
	if err != nil {
		var verificationErr *apperror.VerificationError
		if errors.As(err, &verificationErr) {
			log.WithFields(logrus.Fields{
				"remote_ip": c.RealIP(),
				"reason":    verificationErr.Err.Error(),
			}).Warn("webhook signature rejected")
		}
		return err
	}

	log = log.WithFields(logrus.Fields{
		"event_id": event.EventID(),
		"type":     event.Kind(),
	})
	log.Info("webhook event received")

	if err := h.fulfillmentService.Handle(ctx, event); err != nil {
		log.WithError(err).Error("webhook event handling failed")
		return err
	}

	return c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
