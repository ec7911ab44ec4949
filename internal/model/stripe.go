package model

const EventTypeCheckoutSessionCompleted = "checkout.session.completed"

// Event is a verified processor event. The set of implementations is closed:
// CheckoutSessionCompleted for the one kind that drives fulfillment and
// Unrecognized for everything else.
type Event interface {
	EventID() string
	Kind() string
	isEvent()
}

type CheckoutSessionCompleted struct {
	ID            string
	SessionID     string
	CustomerEmail string
	AmountTotal   int64 // minor units
	Currency      string
	PlanName      string
}

func (e *CheckoutSessionCompleted) EventID() string { return e.ID }
func (e *CheckoutSessionCompleted) Kind() string    { return EventTypeCheckoutSessionCompleted }
func (e *CheckoutSessionCompleted) isEvent()        {}

type Unrecognized struct {
	ID   string
	Type string
}

func (e *Unrecognized) EventID() string { return e.ID }
func (e *Unrecognized) Kind() string    { return e.Type }
func (e *Unrecognized) isEvent()        {}

// Notification is the human readable summary sent to the messaging channel.
type Notification struct {
	Text string `json:"text"`
}
