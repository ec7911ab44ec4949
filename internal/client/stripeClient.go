package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"securebase-billing/internal/apperror"
	"securebase-billing/internal/config"
	"securebase-billing/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	metadataPlanName           = "plan_name"
	metadataCustomerEmail      = "customer_email"
	metadataProvisioningStatus = "provisioning_status"
)

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error)
	VerifyEvent(payload []byte, signatureHeader string) (model.Event, error)
}

type CreateSessionRequest struct {
	PriceID       string
	CustomerEmail string
	PlanName      string
	SuccessURL    string
	CancelURL     string
}

type CreateSessionResponse struct {
	SessionID   string
	CheckoutURL string
}

// sessionCreator is the slice of the stripe checkout session API we use.
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeClientImpl struct {
	sessions      sessionCreator
	webhookSecret string
}

func NewStripeClient(stripeCfg *config.Stripe, log *logrus.Logger) StripeClient {
	backendCfg := &stripe.BackendConfig{
		HTTPClient: &http.Client{
			Timeout: stripeCfg.Timeout,
		},
		// failed checkouts are re-initiated by the browser
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     log,
	}
	if stripeCfg.APIBaseURL != "" {
		backendCfg.URL = stripe.String(stripeCfg.APIBaseURL)
	}

	return &stripeClientImpl{
		sessions: &session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: stripeCfg.SecretKey,
		},
		webhookSecret: stripeCfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(req.CustomerEmail),
		ClientReferenceID: stripe.String(req.CustomerEmail),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata(metadataPlanName, req.PlanName)
	params.AddMetadata(metadataCustomerEmail, req.CustomerEmail)
	params.AddMetadata(metadataProvisioningStatus, string(model.StatusPending))

	s, err := c.sessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return nil, &apperror.PaymentError{Err: errors.New(stripeErr.Msg)}
		}
		return nil, &apperror.PaymentError{Err: err}
	}

	return &CreateSessionResponse{
		SessionID:   s.ID,
		CheckoutURL: s.URL,
	}, nil
}

func (c *stripeClientImpl) VerifyEvent(payload []byte, signatureHeader string) (model.Event, error) {
	if strings.TrimSpace(c.webhookSecret) == "" {
		return nil, &apperror.VerificationError{Err: errors.New("webhook secret is not configured")}
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, &apperror.VerificationError{Err: errors.New("missing signature header")}
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, &apperror.VerificationError{Err: err}
	}

	return parseEvent(&event)
}

func parseEvent(event *stripe.Event) (model.Event, error) {
	switch string(event.Type) {
	case model.EventTypeCheckoutSessionCompleted:
		if event.Data == nil {
			return nil, apperror.NewValidationError("data", "checkout session event has no data")
		}

		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, apperror.NewValidationError("data", fmt.Sprintf("decode checkout session: %v", err))
		}

		return &model.CheckoutSessionCompleted{
			ID:            event.ID,
			SessionID:     s.ID,
			CustomerEmail: sessionEmail(&s),
			AmountTotal:   s.AmountTotal,
			Currency:      string(s.Currency),
			PlanName:      s.Metadata[metadataPlanName],
		}, nil
	default:
		return &model.Unrecognized{ID: event.ID, Type: string(event.Type)}, nil
	}
}

func sessionEmail(s *stripe.CheckoutSession) string {
	if s.CustomerEmail != "" {
		return s.CustomerEmail
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.Metadata[metadataCustomerEmail]
}
