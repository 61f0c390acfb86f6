package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/channels"
	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// SMSConfig configures the SMS client against a Twilio-style messages API.
// An empty Endpoint, AccountSID or AuthToken selects simulation mode.
type SMSConfig struct {
	Endpoint   string // base URL, e.g. https://api.twilio.com/2010-04-01
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

type smsResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type smsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SMSClient sends text messages.
type SMSClient struct {
	http       *resty.Client
	accountSID string
	from       string
	simulated  bool
	logger     *zap.Logger
}

var _ notifier.SMSSender = (*SMSClient)(nil)

// NewSMSClient creates an SMSClient.
func NewSMSClient(cfg SMSConfig, logger *zap.Logger) *SMSClient {
	c := &SMSClient{
		accountSID: cfg.AccountSID,
		from:       cfg.From,
		simulated:  cfg.Endpoint == "" || cfg.AccountSID == "" || cfg.AuthToken == "",
		logger:     logger.Named("sms-client"),
	}
	if c.simulated {
		c.logger.Warn("SMS credentials not configured, running in simulation mode")
		return c
	}
	c.http = newClient(strings.TrimRight(cfg.Endpoint, "/"), cfg.Timeout).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)
	c.logger.Info("SMS client configured", zap.String("endpoint", RedactURL(cfg.Endpoint)))
	return c
}

// Simulated reports whether sends are only logged.
func (c *SMSClient) Simulated() bool { return c.simulated }

// SendSMS implements notifier.SMSSender.
func (c *SMSClient) SendSMS(ctx context.Context, req channels.SMSRequest) (notifier.SendResult, error) {
	if c.simulated {
		return simulate(c.logger, types.ChannelSMS, req.To, zap.Int("length", len([]rune(req.Message)))), nil
	}

	var (
		out    smsResponse
		errOut smsError
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   req.To,
			"From": c.from,
			"Body": req.Message,
		}).
		SetResult(&out).
		SetError(&errOut).
		SetPathParam("sid", c.accountSID).
		Post("/Accounts/{sid}/Messages.json")
	if err != nil {
		return notifier.SendResult{}, fmt.Errorf("sms request: %w", err)
	}
	if resp.IsError() {
		return notifier.SendResult{}, httpError("sms", resp, errOut.Message)
	}
	if out.Status == "failed" || out.Status == "undelivered" {
		return notifier.SendResult{}, &ProviderError{Provider: "sms", Message: "message " + out.Status}
	}
	return notifier.SendResult{ProviderMessageID: out.SID}, nil
}
