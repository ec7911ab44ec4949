package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"securebase-billing/internal/client"
	"securebase-billing/internal/model"
	"securebase-billing/internal/repository"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

type fakeStripeClient struct {
	calls int
	resp  *client.CreateSessionResponse
	err   error
}

func (f *fakeStripeClient) CreateCheckoutSession(ctx context.Context, req *client.CreateSessionRequest) (*client.CreateSessionResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeStripeClient) VerifyEvent(payload []byte, signatureHeader string) (model.Event, error) {
	return nil, errors.New("not used")
}

type fakeFulfillmentRepo struct {
	mu      sync.Mutex
	records map[string]model.FulfillmentRecord
	upserts int
	err     error
}

func newFakeFulfillmentRepo() *fakeFulfillmentRepo {
	return &fakeFulfillmentRepo{records: map[string]model.FulfillmentRecord{}}
}

func (f *fakeFulfillmentRepo) UpsertStatus(ctx context.Context, email string, status model.Status, plan model.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts++
	rec, ok := f.records[email]
	if ok && rec.Status.Rank() > status.Rank() {
		return nil
	}
	f.records[email] = model.FulfillmentRecord{
		Email:          email,
		Status:         status,
		PlanIdentifier: plan,
		LastUpdatedAt:  time.Now(),
	}
	return nil
}

func (f *fakeFulfillmentRepo) Get(ctx context.Context, email string) (*model.FulfillmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

type fakeWebhookEventRepo struct {
	mu        sync.Mutex
	processed map[string]string
	err       error
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{processed: map[string]string{}}
}

func (f *fakeWebhookEventRepo) Exists(ctx context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.processed[sessionID]
	return ok, nil
}

func (f *fakeWebhookEventRepo) MarkProcessed(ctx context.Context, sessionID, eventID, eventType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.processed[sessionID]; ok {
		return false, nil
	}
	f.processed[sessionID] = eventID
	return true, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
	panics   bool
}

func (f *fakeNotifier) Notify(ctx context.Context, msg *model.Notification) error {
	if f.panics {
		panic("channel exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg.Text)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}
