package service

import (
	"context"
	"fmt"

	"securebase-billing/internal/apperror"
	"securebase-billing/internal/client"
	"securebase-billing/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// PurchaseIntent lives only for the duration of one checkout request.
type PurchaseIntent struct {
	Plan           model.Plan
	PriceReference string `validate:"required"`
	PayerEmail     string `validate:"required,email"`
	SuccessURL     string `validate:"required,url"`
	CancelURL      string `validate:"required,url"`
}

type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
}

type CheckoutService interface {
	CreateSession(ctx context.Context, intent *PurchaseIntent) (*CheckoutSession, error)
}

type checkoutServiceImpl struct {
	stripeClient client.StripeClient
	validate     *validator.Validate
	log          *logrus.Logger
}

func NewCheckoutService(stripeClient client.StripeClient, log *logrus.Logger) CheckoutService {
	return &checkoutServiceImpl{
		stripeClient: stripeClient,
		validate:     validator.New(),
		log:          log,
	}
}

func (s *checkoutServiceImpl) CreateSession(ctx context.Context, intent *PurchaseIntent) (*CheckoutSession, error) {
	if err := s.validate.Struct(intent); err != nil {
		return nil, apperror.FromValidator(err)
	}

	resp, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CreateSessionRequest{
		PriceID:       intent.PriceReference,
		CustomerEmail: model.NormalizeEmail(intent.PayerEmail),
		PlanName:      string(intent.Plan),
		SuccessURL:    intent.SuccessURL,
		CancelURL:     intent.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": resp.SessionID,
		"plan":       intent.Plan,
	}).Info("checkout session created")

	return &CheckoutSession{
		SessionID:   resp.SessionID,
		CheckoutURL: resp.CheckoutURL,
	}, nil
}
