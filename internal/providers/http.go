package providers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "rindwa-notifyd/v1"
)

// ProviderError is a rejection reported by a provider.
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when the rejection came inside a 2xx body
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s provider rejected message: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s provider returned HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
}

// newClient returns a resty client with the shared defaults.
func newClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
}

// httpError converts a non-2xx response to a ProviderError. detail is the
// decoded provider message, if any.
func httpError(provider string, resp *resty.Response, detail string) error {
	msg := strings.TrimSpace(detail)
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &ProviderError{Provider: provider, StatusCode: resp.StatusCode(), Message: msg}
}

// simulate logs a send that was not performed and returns a synthetic ID.
func simulate(logger *zap.Logger, ch types.Channel, to string, fields ...zap.Field) notifier.SendResult {
	id := fmt.Sprintf("sim-%s-%s", ch, uuid.NewString())
	logger.Info("Simulated send",
		append([]zap.Field{
			zap.Bool("simulated", true),
			zap.String("channel", string(ch)),
			zap.String("to", to),
			zap.String("message_id", id),
		}, fields...)...,
	)
	return notifier.SendResult{ProviderMessageID: id}
}

// RedactURL masks credentials in a URL for safe logging.
// It redacts userinfo passwords and query parameter values.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			q.Set(key, "REDACTED")
		}
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}
