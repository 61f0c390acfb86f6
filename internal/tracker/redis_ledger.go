package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// DefaultRedisKey is the sorted set holding delivery records.
const DefaultRedisKey = "rindwa:deliveries"

// RedisLedger stores records as members of a sorted set scored by
// DeliveredAt in microseconds. Each member is "<seq>:<json>" with seq a
// zero-padded counter from "<key>:seq", so records sharing a score sort in
// append order.
type RedisLedger struct {
	client redis.Cmdable
	key    string
	logger *zap.Logger
}

// NewRedisLedger returns a ledger backed by client. An empty key selects
// DefaultRedisKey.
func NewRedisLedger(client redis.Cmdable, key string, logger *zap.Logger) *RedisLedger {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisLedger{client: client, key: key, logger: logger.Named("redis-ledger")}
}

// Append adds rec to the sorted set.
func (l *RedisLedger) Append(ctx context.Context, rec types.DeliveryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal delivery record %s: %w", rec.ID, err)
	}
	seq, err := l.client.Incr(ctx, l.key+":seq").Result()
	if err != nil {
		return fmt.Errorf("append delivery record %s: %w", rec.ID, err)
	}
	z := &redis.Z{Score: score(rec.DeliveredAt), Member: fmt.Sprintf("%0*d:%s", seqWidth, seq, data)}
	if err := l.client.ZAdd(ctx, l.key, z).Err(); err != nil {
		return fmt.Errorf("append delivery record %s: %w", rec.ID, err)
	}
	return nil
}

// Records returns matching records ordered by delivery time, then append
// order. Since is pushed
// down to the score range; the other filter fields are applied client-side.
func (l *RedisLedger) Records(ctx context.Context, filter RecordFilter) ([]types.DeliveryRecord, error) {
	lo := "-inf"
	if !filter.Since.IsZero() {
		lo = strconv.FormatInt(filter.Since.UnixMicro(), 10)
	}
	members, err := l.client.ZRangeByScore(ctx, l.key, &redis.ZRangeBy{Min: lo, Max: "+inf"}).Result()
	if err != nil {
		return nil, fmt.Errorf("read delivery records: %w", err)
	}

	var out []types.DeliveryRecord
	for _, m := range members {
		var rec types.DeliveryRecord
		if err := json.Unmarshal([]byte(stripSeq(m)), &rec); err != nil {
			l.logger.Warn("Skipping undecodable delivery record", zap.Error(err))
			continue
		}
		if filter.Match(rec) {
			out = append(out, rec)
		}
	}
	return filter.limit(out), nil
}

// Purge removes records delivered strictly before the cutoff.
func (l *RedisLedger) Purge(ctx context.Context, before time.Time) (int, error) {
	hi := "(" + strconv.FormatInt(before.UnixMicro(), 10)
	n, err := l.client.ZRemRangeByScore(ctx, l.key, "-inf", hi).Result()
	if err != nil {
		return 0, fmt.Errorf("purge delivery records: %w", err)
	}
	return int(n), nil
}

// seqWidth fits any int64 counter.
const seqWidth = 19

// stripSeq drops the sequence prefix. Members without one are returned as is.
func stripSeq(member string) string {
	seq, rest, ok := strings.Cut(member, ":")
	if !ok || len(seq) != seqWidth {
		return member
	}
	if _, err := strconv.ParseUint(seq, 10, 64); err != nil {
		return member
	}
	return rest
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}
