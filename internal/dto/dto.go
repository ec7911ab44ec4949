package dto

import "time"

type CheckoutRequest struct {
	CustomerEmail  string `json:"customerEmail" validate:"required,email"`
	PriceReference string `json:"priceReference" validate:"required"`
	PlanName       string `json:"planName,omitempty"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type StatusResponse struct {
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	Plan          string     `json:"plan,omitempty"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
