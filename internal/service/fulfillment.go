package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"securebase-billing/internal/apperror"
	"securebase-billing/internal/client"
	"securebase-billing/internal/model"
	"securebase-billing/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type FulfillmentService interface {
	// Handle applies a verified event. Only store failures are returned as
	// errors the processor should retry on.
	Handle(ctx context.Context, event model.Event) error
	GetStatus(ctx context.Context, email string) (*model.FulfillmentRecord, error)
	// Wait blocks until in-flight notifications have finished.
	Wait()
}

type fulfillmentServiceImpl struct {
	fulfillmentRepo  repository.FulfillmentRepository
	webhookEventRepo repository.WebhookEventRepository
	notifierClient   client.NotifierClient
	defaultPlan      model.Plan
	storeTimeout     time.Duration
	log              *logrus.Logger

	notifications sync.WaitGroup
}

func NewFulfillmentService(
	fulfillmentRepo repository.FulfillmentRepository,
	webhookEventRepo repository.WebhookEventRepository,
	notifierClient client.NotifierClient,
	defaultPlan model.Plan,
	storeTimeout time.Duration,
	log *logrus.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		fulfillmentRepo:  fulfillmentRepo,
		webhookEventRepo: webhookEventRepo,
		notifierClient:   notifierClient,
		defaultPlan:      defaultPlan,
		storeTimeout:     storeTimeout,
		log:              log,
	}
}

func (s *fulfillmentServiceImpl) Handle(ctx context.Context, event model.Event) error {
	switch ev := event.(type) {
	case *model.CheckoutSessionCompleted:
		return s.handleCheckoutCompleted(ctx, ev)
	case *model.Unrecognized:
		s.log.WithFields(logrus.Fields{
			"event_id": ev.EventID(),
			"type":     ev.Kind(),
		}).Info("webhook event ignored (unhandled type)")
		return nil
	default:
		return fmt.Errorf("unexpected event %T", event)
	}
}

func (s *fulfillmentServiceImpl) handleCheckoutCompleted(ctx context.Context, ev *model.CheckoutSessionCompleted) error {
	email := model.NormalizeEmail(ev.CustomerEmail)
	if email == "" {
		return apperror.NewValidationError("customer_email", "checkout session has no customer email")
	}
	if strings.TrimSpace(ev.SessionID) == "" {
		return apperror.NewValidationError("id", "checkout session has no id")
	}

	log := s.log.WithFields(logrus.Fields{
		"event_id":   ev.ID,
		"session_id": ev.SessionID,
	})

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	processed, err := s.webhookEventRepo.Exists(storeCtx, ev.SessionID)
	if err != nil {
		return &apperror.StoreError{Op: "lookup webhook event", Err: err}
	}
	if processed {
		log.Info("checkout session already fulfilled, skipping")
		return nil
	}

	plan := model.ParsePlan(ev.PlanName, s.defaultPlan)
	if err := s.fulfillmentRepo.UpsertStatus(storeCtx, email, model.StatusPro, plan); err != nil {
		return &apperror.StoreError{Op: "upsert fulfillment record", Err: err}
	}

	created, err := s.webhookEventRepo.MarkProcessed(storeCtx, ev.SessionID, ev.ID, ev.Kind())
	if err != nil {
		return &apperror.StoreError{Op: "mark webhook event processed", Err: err}
	}
	if !created {
		// a concurrent delivery of the same session got here first and owns the notification
		log.Info("checkout session fulfilled by concurrent delivery")
		return nil
	}

	log.WithField("plan", plan).Info("fulfillment record upgraded to pro")

	s.notify(ctx, log, &model.Notification{Text: summarize(email, plan, ev)})
	return nil
}

func (s *fulfillmentServiceImpl) notify(ctx context.Context, log *logrus.Entry, msg *model.Notification) {
	// the request context ends with the response; the notifier carries its own timeout
	notifyCtx := context.WithoutCancel(ctx)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("notification panicked: %v", r)
			}
		}()

		if err := s.notifierClient.Notify(notifyCtx, msg); err != nil {
			log.WithError(err).Warn("notification delivery failed")
		}
	}()
}

func (s *fulfillmentServiceImpl) Wait() {
	s.notifications.Wait()
}

func (s *fulfillmentServiceImpl) GetStatus(ctx context.Context, email string) (*model.FulfillmentRecord, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, apperror.NewValidationError("email", "is required")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	record, err := s.fulfillmentRepo.Get(storeCtx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.FulfillmentRecord{Email: email, Status: model.StatusUnpaid}, nil
		}
		return nil, &apperror.StoreError{Op: "get fulfillment record", Err: err}
	}

	return record, nil
}

func summarize(email string, plan model.Plan, ev *model.CheckoutSessionCompleted) string {
	text := fmt.Sprintf("New SecureBase subscription: %s upgraded to pro (%s plan)", email, plan)
	if ev.AmountTotal > 0 {
		amount := decimal.New(ev.AmountTotal, -2).StringFixed(2)
		text += fmt.Sprintf(", paid %s %s", amount, strings.ToUpper(ev.Currency))
	}
	return text
}
