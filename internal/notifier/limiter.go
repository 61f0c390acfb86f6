package notifier

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// channelLimiter paces outbound sends per channel. It is read-only after
// construction.
type channelLimiter struct {
	limiters map[types.Channel]*rate.Limiter
}

// newChannelLimiter builds one limiter per channel with a positive rate.
// Channels with no rate are unlimited.
func newChannelLimiter(perSecond map[types.Channel]float64) *channelLimiter {
	l := &channelLimiter{limiters: make(map[types.Channel]*rate.Limiter)}
	for ch, r := range perSecond {
		if r <= 0 {
			continue
		}
		l.limiters[ch] = rate.NewLimiter(rate.Limit(r), max(1, int(r))) // one second of burst, minimum 1
	}
	return l
}

// Wait blocks until a send on ch is allowed. A wait that cannot finish before
// the context deadline fails with types.ErrSendTimeout.
func (l *channelLimiter) Wait(ctx context.Context, ch types.Channel) error {
	limiter, ok := l.limiters[ch]
	if !ok {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			return err
		}
		return fmt.Errorf("%w: %s rate limit", types.ErrSendTimeout, ch)
	}
	return nil
}
