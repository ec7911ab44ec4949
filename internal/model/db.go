package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPending Status = "pending"
	StatusPro     Status = "pro"
)

// Rank orders statuses so an upsert can refuse to move a record backwards.
func (s Status) Rank() int {
	switch s {
	case StatusPro:
		return 2
	case StatusPending:
		return 1
	default:
		return 0
	}
}

type Plan string

const (
	PlanStandard   Plan = "standard"
	PlanFintech    Plan = "fintech"
	PlanHealthcare Plan = "healthcare"
	PlanGovernment Plan = "government"
)

// ParsePlan returns the tier for a plan name, falling back when the name is
// empty or unknown.
func ParsePlan(name string, fallback Plan) Plan {
	switch p := Plan(strings.ToLower(strings.TrimSpace(name))); p {
	case PlanStandard, PlanFintech, PlanHealthcare, PlanGovernment:
		return p
	default:
		return fallback
	}
}

type FulfillmentRecord struct {
	Email          string    `gorm:"primaryKey;size:255;not null" dynamodbav:"email"`
	Status         Status    `gorm:"size:16;index;not null" dynamodbav:"status"`
	PlanIdentifier Plan      `gorm:"size:32" dynamodbav:"plan_identifier"`
	LastUpdatedAt  time.Time `gorm:"not null" dynamodbav:"last_updated_at"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
}

// WebhookEvent is the idempotency ledger: one row per fulfilled checkout session.
type WebhookEvent struct {
	SessionID   string    `gorm:"primaryKey;size:128;not null" dynamodbav:"session_id"`
	EventID     string    `gorm:"size:128;index" dynamodbav:"event_id"`
	EventType   string    `gorm:"size:64" dynamodbav:"event_type"`
	ProcessedAt time.Time `dynamodbav:"processed_at"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
