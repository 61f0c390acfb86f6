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

// PushConfig configures the push client. An empty Endpoint or ServerKey
// selects simulation mode.
type PushConfig struct {
	Endpoint  string
	ServerKey string
	Timeout   time.Duration
}

// pushResponse is the legacy FCM send response.
type pushResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// PushClient sends push notifications to an FCM-compatible endpoint.
type PushClient struct {
	http      *resty.Client
	endpoint  string
	simulated bool
	logger    *zap.Logger
}

var _ notifier.PushSender = (*PushClient)(nil)

// NewPushClient creates a PushClient.
func NewPushClient(cfg PushConfig, logger *zap.Logger) *PushClient {
	c := &PushClient{
		endpoint:  cfg.Endpoint,
		simulated: cfg.Endpoint == "" || cfg.ServerKey == "",
		logger:    logger.Named("push-client"),
	}
	if c.simulated {
		c.logger.Warn("Push credentials not configured, running in simulation mode")
		return c
	}
	c.http = newClient("", cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "key="+cfg.ServerKey)
	c.logger.Info("Push client configured", zap.String("endpoint", RedactURL(cfg.Endpoint)))
	return c
}

// Simulated reports whether sends are only logged.
func (c *PushClient) Simulated() bool { return c.simulated }

// SendPush implements notifier.PushSender.
func (c *PushClient) SendPush(ctx context.Context, req channels.PushRequest) (notifier.SendResult, error) {
	if c.simulated {
		return simulate(c.logger, types.ChannelPush, req.To,
			zap.String("platform", string(req.Platform)),
			zap.String("title", req.Notification.Title),
		), nil
	}

	var out pushResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return notifier.SendResult{}, fmt.Errorf("push request: %w", err)
	}
	if resp.IsError() {
		return notifier.SendResult{}, httpError("push", resp, "")
	}

	if out.Failure > 0 || out.Success == 0 {
		msg := "no message accepted"
		if len(out.Results) > 0 && out.Results[0].Error != "" {
			msg = out.Results[0].Error
		}
		return notifier.SendResult{}, &ProviderError{Provider: "push", Message: msg}
	}
	var id string
	if len(out.Results) > 0 {
		id = out.Results[0].MessageID
	}
	return notifier.SendResult{ProviderMessageID: id}, nil
}
