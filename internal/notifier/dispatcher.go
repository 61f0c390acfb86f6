package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/channels"
	"github.com/winnyineza/RindwaApp-sub000/internal/content"
	"github.com/winnyineza/RindwaApp-sub000/internal/quiethours"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// Skip reasons reported in metrics.
const (
	skipCriticalOnly = "critical_only"
	skipQuietHours   = "quiet_hours"
)

var (
	errNoPushSender  = errors.New("no push sender configured")
	errNoEmailSender = errors.New("no email sender configured")
	errNoSMSSender   = errors.New("no sms sender configured")
)

// DispatcherOptions configures the Dispatcher behavior.
type DispatcherOptions struct {
	Workers     int           // concurrent sends per round, default 16
	SendTimeout time.Duration // per-send deadline, default 10s
	// RatePerSecond paces each channel across all rounds. Missing or zero
	// entries are unlimited.
	RatePerSecond map[types.Channel]float64
	// Content renders titles and bodies. Default: content.NewBuilder().
	Content ContentBuilder
	// Now drives quiet-hours evaluation and record timestamps. Default: time.Now.
	Now func() time.Time
}

// DefaultDispatcherOptions returns sensible defaults.
func DefaultDispatcherOptions() DispatcherOptions {
	return DispatcherOptions{
		Workers:     16,
		SendTimeout: 10 * time.Second,
	}
}

// RoundResult summarizes one dispatch round. Individual failures are only
// available from the recorder.
type RoundResult struct {
	Subscribers         int `json:"subscribers"`
	SkippedCriticalOnly int `json:"skippedCriticalOnly"`
	SkippedQuietHours   int `json:"skippedQuietHours"`
	Attempted           int `json:"attempted"`
	Failed              int `json:"failed"`
}

// ResolutionResult summarizes a resolution dispatch: the long-form report
// emails followed by the regular resolved status round.
type ResolutionResult struct {
	ReportsAttempted int         `json:"reportsAttempted"`
	ReportsFailed    int         `json:"reportsFailed"`
	Update           RoundResult `json:"update"`
}

// Dispatcher fans incident updates and broadcasts out to subscribers.
type Dispatcher struct {
	logger   *zap.Logger
	subs     SubscriptionSource
	senders  Senders
	recorder Recorder
	content  ContentBuilder
	limiter  *channelLimiter
	opts     DispatcherOptions
}

// NewDispatcher creates a new Dispatcher. Zero option fields take their defaults.
func NewDispatcher(subs SubscriptionSource, senders Senders, recorder Recorder, logger *zap.Logger, opts DispatcherOptions) *Dispatcher {
	defaults := DefaultDispatcherOptions()
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaults.SendTimeout
	}
	if opts.Content == nil {
		opts.Content = content.NewBuilder()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		logger:   logger.Named("dispatcher"),
		subs:     subs,
		senders:  senders,
		recorder: recorder,
		content:  opts.Content,
		limiter:  newChannelLimiter(opts.RatePerSecond),
		opts:     opts,
	}
}

// progressContent is rendered once per round and shared by every subscriber.
type progressContent struct {
	push     channels.PushPayload
	email    channels.EmailPayload
	emailErr error
	sms      string
}

func (d *Dispatcher) renderProgress(incidentID string, u types.NotificationUpdate) progressContent {
	title, body := d.content.ProgressPush(incidentID, u)
	priority, sound := channels.PushPriorityNormal, channels.SoundDefault
	if u.IsUrgent() {
		priority, sound = channels.PushPriorityHigh, channels.SoundEmergency
	}
	push := channels.PushPayload{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":       "status_update",
			"incidentId": incidentID,
			"status":     u.Status,
			"priority":   u.Priority,
		},
		Actions:  []channels.PushAction{{Action: "view", Title: "View details", Icon: "eye"}},
		Priority: priority,
		Sound:    sound,
	}
	email, err := d.content.ProgressEmail(incidentID, u)
	if err != nil {
		d.logger.Error("Failed to render progress email", zap.String("incident_id", incidentID), zap.Error(err))
	}
	return progressContent{
		push:     push,
		email:    email,
		emailErr: err,
		sms:      d.content.ProgressSMS(incidentID, u),
	}
}

// SendProgressUpdate notifies every active subscriber of incidentID. For each
// subscriber the critical-only filter is applied first, then quiet hours, then
// each enabled channel with an address is sent independently. Only a failure
// to list subscribers is returned as an error.
func (d *Dispatcher) SendProgressUpdate(ctx context.Context, incidentID string, update types.NotificationUpdate) (RoundResult, error) {
	subs, err := d.subs.ActiveSubscribersFor(ctx, incidentID)
	if err != nil {
		return RoundResult{}, fmt.Errorf("list subscribers of incident %s: %w", incidentID, err)
	}

	result := RoundResult{Subscribers: len(subs)}
	if len(subs) == 0 {
		return result, nil
	}

	urgent := update.IsUrgent()
	now := d.opts.Now()
	rendered := d.renderProgress(incidentID, update)

	var jobs []delivery
	for _, sub := range subs {
		if sub.Preferences.CriticalOnly && !urgent {
			result.SkippedCriticalOnly++
			skippedTotal.WithLabelValues(skipCriticalOnly).Inc()
			continue
		}
		if quiethours.IsQuietHours(sub, now) {
			result.SkippedQuietHours++
			skippedTotal.WithLabelValues(skipQuietHours).Inc()
			continue
		}
		jobs = append(jobs, d.progressJobs(incidentID, sub, rendered)...)
	}

	result.Attempted = len(jobs)
	result.Failed = d.fanOut(ctx, jobs)

	d.logger.Info("Dispatched progress update",
		zap.String("incident_id", incidentID),
		zap.String("status", update.Status),
		zap.Bool("urgent", urgent),
		zap.Int("subscribers", result.Subscribers),
		zap.Int("skipped_critical_only", result.SkippedCriticalOnly),
		zap.Int("skipped_quiet_hours", result.SkippedQuietHours),
		zap.Int("attempted", result.Attempted),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (d *Dispatcher) progressJobs(incidentID string, sub types.Subscription, c progressContent) []delivery {
	jobs := make([]delivery, 0, 3)
	if sub.WantsPush() {
		jobs = append(jobs, d.pushJob(incidentID, sub, c.push))
	}
	if sub.WantsEmail() {
		jobs = append(jobs, d.emailJob(incidentID, sub, c.email, c.emailErr))
	}
	if sub.WantsSMS() {
		jobs = append(jobs, d.smsJob(incidentID, sub, c.sms))
	}
	return jobs
}

func (d *Dispatcher) pushJob(incidentID string, sub types.Subscription, p channels.PushPayload) delivery {
	target := channels.PushTarget{Token: sub.Contact.PushToken, DeviceClass: sub.Contact.DeviceClass}
	return delivery{
		incidentID:     incidentID,
		subscriptionID: sub.ID,
		channel:        types.ChannelPush,
		target:         target.Token,
		send: func(ctx context.Context) (SendResult, error) {
			if d.senders.Push == nil {
				return SendResult{}, errNoPushSender
			}
			return d.senders.Push.SendPush(ctx, channels.BuildPush(target, p))
		},
	}
}

func (d *Dispatcher) emailJob(incidentID string, sub types.Subscription, p channels.EmailPayload, renderErr error) delivery {
	to := sub.Contact.Email
	return delivery{
		incidentID:     incidentID,
		subscriptionID: sub.ID,
		channel:        types.ChannelEmail,
		target:         to,
		send: func(ctx context.Context) (SendResult, error) {
			if renderErr != nil {
				return SendResult{}, fmt.Errorf("render email: %w", renderErr)
			}
			if d.senders.Email == nil {
				return SendResult{}, errNoEmailSender
			}
			return d.senders.Email.SendEmail(ctx, channels.BuildEmail(to, p))
		},
	}
}

func (d *Dispatcher) smsJob(incidentID string, sub types.Subscription, message string) delivery {
	to := sub.Contact.Phone
	return delivery{
		incidentID:     incidentID,
		subscriptionID: sub.ID,
		channel:        types.ChannelSMS,
		target:         to,
		send: func(ctx context.Context) (SendResult, error) {
			if d.senders.SMS == nil {
				return SendResult{}, errNoSMSSender
			}
			return d.senders.SMS.SendSMS(ctx, channels.BuildSMS(to, message))
		},
	}
}
