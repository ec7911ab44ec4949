package server

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"securebase-billing/internal/apperror"
	"securebase-billing/internal/client"
	"securebase-billing/internal/config"
	"securebase-billing/internal/dto"
	"securebase-billing/internal/handler"
	appmiddleware "securebase-billing/internal/middleware"
	"securebase-billing/internal/model"
	"securebase-billing/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	echo            *echo.Echo
	log             *logrus.Logger
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	statusHandler   *handler.StatusHandler
}

func NewServer(
	cfg *config.Config,
	checkoutService service.CheckoutService,
	fulfillmentService service.FulfillmentService,
	stripeClient client.StripeClient,
	log *logrus.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmiddleware.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.CORS())

	s := &Server{
		echo: e,
		log:  log,
		checkoutHandler: handler.NewCheckoutHandler(
			checkoutService,
			cfg.Checkout.SuccessURL(cfg.BaseURL),
			cfg.Checkout.CancelURL(cfg.BaseURL),
			model.ParsePlan(cfg.Checkout.DefaultPlan, model.PlanStandard),
		),
		webhookHandler: handler.NewWebhookHandler(stripeClient, fulfillmentService),
		statusHandler:  handler.NewStatusHandler(fulfillmentService),
	}
	e.HTTPErrorHandler = s.handleError

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	s.echo.POST("/checkout", s.checkoutHandler.CreateSession)
	s.echo.POST("/webhook", s.webhookHandler.StripeWebhook)
	s.echo.GET("/status", s.statusHandler.GetStatus)
}

// handleError writes every failure as {"error": "..."}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code int
		msg  string
	)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
	} else {
		code, msg = apperror.HTTPStatus(err)
	}

	if code >= http.StatusInternalServerError {
		appmiddleware.Logger(c).WithError(err).Error("request error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, dto.ErrorResponse{Error: msg})
	}
	if err != nil {
		s.log.WithError(err).Error("write error response")
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type requestValidator struct {
	validate *validator.Validate
}

// newRequestValidator reports request fields by their json names.
func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (rv *requestValidator) Validate(i interface{}) error {
	if err := rv.validate.Struct(i); err != nil {
		return apperror.FromValidator(err)
	}
	return nil
}
