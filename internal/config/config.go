package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"securebase.db"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite, mysql

	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Store    Store    `envPrefix:"STORE_"`
	DynamoDB DynamoDB `envPrefix:"DYNAMODB_"`
	Notify   Notify   `envPrefix:"NOTIFY_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
}

type Stripe struct {
	SecretKey     string        `env:"SECRET_KEY"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	APIBaseURL    string        `env:"API_BASE_URL"` // stripe-mock or a test server
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Store struct {
	Driver  string        `env:"DRIVER" envDefault:"gorm"` // gorm, dynamodb
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type DynamoDB struct {
	Region            string `env:"REGION" envDefault:"us-east-1"`
	EndpointURL       string `env:"ENDPOINT_URL"`
	AccessKeyID       string `env:"ACCESS_KEY_ID"`
	SecretAccessKey   string `env:"SECRET_ACCESS_KEY"`
	FulfillmentTable  string `env:"FULFILLMENT_TABLE" envDefault:"securebase-fulfillment"`
	WebhookEventTable string `env:"WEBHOOK_EVENT_TABLE" envDefault:"securebase-webhook-events"`
}

type Notify struct {
	WebhookURL string        `env:"WEBHOOK_URL"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type Checkout struct {
	SuccessPath string `env:"SUCCESS_PATH" envDefault:"/dashboard?checkout=success"`
	CancelPath  string `env:"CANCEL_PATH" envDefault:"/pricing?checkout=cancelled"`
	DefaultPlan string `env:"DEFAULT_PLAN" envDefault:"standard"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

func (c *Checkout) SuccessURL(baseURL string) string {
	return baseURL + c.SuccessPath
}

func (c *Checkout) CancelURL(baseURL string) string {
	return baseURL + c.CancelPath
}
