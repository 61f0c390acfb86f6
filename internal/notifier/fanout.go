package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// delivery is one channel send for one subscriber.
type delivery struct {
	incidentID     string
	subscriptionID string
	channel        types.Channel
	target         string
	send           func(ctx context.Context) (SendResult, error)
}

type outcome struct {
	res SendResult
	err error
}

// fanOut runs deliveries on at most opts.Workers goroutines and returns how
// many failed. Every delivery produces exactly one record.
func (d *Dispatcher) fanOut(ctx context.Context, jobs []delivery) int {
	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(d.opts.Workers)
	for _, job := range jobs {
		g.Go(func() error {
			if !d.deliver(ctx, job) {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

// deliver performs one send under the per-send timeout and records the result.
func (d *Dispatcher) deliver(ctx context.Context, job delivery) bool {
	start := time.Now()
	res, err := d.attempt(ctx, job)
	sendDuration.WithLabelValues(string(job.channel)).Observe(time.Since(start).Seconds())

	rec := types.DeliveryRecord{
		ID:                uuid.NewString(),
		IncidentID:        job.incidentID,
		SubscriptionID:    job.subscriptionID,
		Target:            job.target,
		Channel:           job.channel,
		Success:           err == nil,
		ProviderMessageID: res.ProviderMessageID,
		DeliveredAt:       d.opts.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
		deliveriesTotal.WithLabelValues(string(job.channel), "failure").Inc()
		d.logger.Warn("Channel send failed",
			zap.String("incident_id", job.incidentID),
			zap.String("subscription_id", job.subscriptionID),
			zap.String("channel", string(job.channel)),
			zap.String("target", redactTarget(job.target)),
			zap.Error(err),
		)
	} else {
		deliveriesTotal.WithLabelValues(string(job.channel), "success").Inc()
	}

	// The record must land even when the caller has gone away.
	if rerr := d.recorder.RecordDelivery(context.WithoutCancel(ctx), rec); rerr != nil {
		recordErrorsTotal.Inc()
		d.logger.Error("Failed to record delivery",
			zap.String("incident_id", job.incidentID),
			zap.String("channel", string(job.channel)),
			zap.Error(rerr),
		)
	}
	return err == nil
}

// attempt waits for the channel limiter and runs the send. A send that does
// not return by the deadline is abandoned.
func (d *Dispatcher) attempt(ctx context.Context, job delivery) (SendResult, error) {
	sendCtx, cancel := context.WithTimeout(ctx, d.opts.SendTimeout)
	defer cancel()

	if err := d.limiter.Wait(sendCtx, job.channel); err != nil {
		return SendResult{}, err
	}

	done := make(chan outcome, 1)
	go func() {
		res, err := job.send(sendCtx)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			return SendResult{}, d.timeoutError(job.channel)
		}
		return o.res, o.err
	case <-sendCtx.Done():
		if errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			return SendResult{}, d.timeoutError(job.channel)
		}
		return SendResult{}, fmt.Errorf("%s send cancelled: %w", job.channel, sendCtx.Err())
	}
}

func (d *Dispatcher) timeoutError(ch types.Channel) error {
	return fmt.Errorf("%w: %s send exceeded %s", types.ErrSendTimeout, ch, d.opts.SendTimeout)
}

// redactTarget keeps enough of an address to correlate log lines.
func redactTarget(target string) string {
	if len(target) <= 6 {
		return "***"
	}
	return target[:3] + "***" + target[len(target)-3:]
}
