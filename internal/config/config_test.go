package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "gorm", cfg.Store.Driver)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Second, cfg.Stripe.Timeout)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Empty(t, cfg.Notify.WebhookURL)
}

func TestParsePrefixedSections(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("STORE_DRIVER", "dynamodb")
	t.Setenv("DYNAMODB_FULFILLMENT_TABLE", "records")
	t.Setenv("NOTIFY_TIMEOUT", "2s")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "whsec_test", cfg.Stripe.WebhookSecret)
	assert.Equal(t, "dynamodb", cfg.Store.Driver)
	assert.Equal(t, "records", cfg.DynamoDB.FulfillmentTable)
	assert.Equal(t, 2*time.Second, cfg.Notify.Timeout)
}

func TestCheckoutURLs(t *testing.T) {
	c := Checkout{SuccessPath: "/ok", CancelPath: "/no"}
	assert.Equal(t, "https://securebase.io/ok", c.SuccessURL("https://securebase.io"))
	assert.Equal(t, "https://securebase.io/no", c.CancelURL("https://securebase.io"))
}
