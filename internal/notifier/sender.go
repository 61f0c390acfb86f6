package notifier

import (
	"context"

	"github.com/winnyineza/RindwaApp-sub000/internal/channels"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// SendResult is what a provider reports for an accepted message.
type SendResult struct {
	ProviderMessageID string
}

// PushSender delivers a built push request to one device.
type PushSender interface {
	SendPush(ctx context.Context, req channels.PushRequest) (SendResult, error)
}

// EmailSender delivers one email.
type EmailSender interface {
	SendEmail(ctx context.Context, req channels.EmailRequest) (SendResult, error)
}

// SMSSender delivers one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, req channels.SMSRequest) (SendResult, error)
}

// Senders bundles the outbound clients. A nil client makes every send on its
// channel fail with a recorded error.
type Senders struct {
	Push  PushSender
	Email EmailSender
	SMS   SMSSender
}

// SubscriptionSource supplies the subscribers of a dispatch round.
type SubscriptionSource interface {
	ActiveSubscribersFor(ctx context.Context, incidentID string) ([]types.Subscription, error)
	AllActiveSubscribers(ctx context.Context) ([]types.Subscription, error)
}

// Recorder receives one record per attempted send.
type Recorder interface {
	RecordDelivery(ctx context.Context, rec types.DeliveryRecord) error
}

// ContentBuilder renders the text carried by each channel.
type ContentBuilder interface {
	ProgressPush(incidentID string, u types.NotificationUpdate) (title, body string)
	ProgressEmail(incidentID string, u types.NotificationUpdate) (channels.EmailPayload, error)
	ProgressSMS(incidentID string, u types.NotificationUpdate) string
	ResolutionEmail(incidentID string, r types.ResolutionDetails) (channels.EmailPayload, error)
}
