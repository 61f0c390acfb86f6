package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/channels"
	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// DefaultEmailFrom is used when EmailConfig.From is empty.
const DefaultEmailFrom = "Rindwa Alerts <alerts@rindwa.rw>"

// EmailConfig configures the email client. An empty Endpoint or APIKey
// selects simulation mode.
type EmailConfig struct {
	Endpoint string
	APIKey   string
	From     string
	Timeout  time.Duration
}

type emailBody struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type emailResponse struct {
	ID string `json:"id"`
}

type emailError struct {
	Message string `json:"message"`
}

// EmailClient sends HTML email through a JSON HTTP API.
type EmailClient struct {
	http      *resty.Client
	endpoint  string
	from      string
	simulated bool
	logger    *zap.Logger
}

var _ notifier.EmailSender = (*EmailClient)(nil)

// NewEmailClient creates an EmailClient.
func NewEmailClient(cfg EmailConfig, logger *zap.Logger) *EmailClient {
	from := cfg.From
	if from == "" {
		from = DefaultEmailFrom
	}
	c := &EmailClient{
		endpoint:  cfg.Endpoint,
		from:      from,
		simulated: cfg.Endpoint == "" || cfg.APIKey == "",
		logger:    logger.Named("email-client"),
	}
	if c.simulated {
		c.logger.Warn("Email credentials not configured, running in simulation mode")
		return c
	}
	c.http = newClient("", cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)
	c.logger.Info("Email client configured", zap.String("endpoint", RedactURL(cfg.Endpoint)))
	return c
}

// Simulated reports whether sends are only logged.
func (c *EmailClient) Simulated() bool { return c.simulated }

// SendEmail implements notifier.EmailSender.
func (c *EmailClient) SendEmail(ctx context.Context, req channels.EmailRequest) (notifier.SendResult, error) {
	if c.simulated {
		return simulate(c.logger, types.ChannelEmail, req.To, zap.String("subject", req.Subject)), nil
	}

	var (
		out    emailResponse
		errOut emailError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(emailBody{From: c.from, To: req.To, Subject: req.Subject, HTML: req.Body}).
		SetResult(&out).
		SetError(&errOut).
		Post(c.endpoint)
	if err != nil {
		return notifier.SendResult{}, fmt.Errorf("email request: %w", err)
	}
	if resp.IsError() {
		return notifier.SendResult{}, httpError("email", resp, errOut.Message)
	}
	return notifier.SendResult{ProviderMessageID: out.ID}, nil
}
