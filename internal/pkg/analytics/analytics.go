// Package analytics publishes product events without ever failing a request.
package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
)

const (
	DefaultStream  = "contractorhub:events"
	publishTimeout = 2 * time.Second
	defaultMaxLen  = 100000
)

// Event names emitted by the API.
const (
	EventBillingViewed        = "billing.viewed"
	EventBillingToggled       = "billing.toggled"
	EventEntitlementsResolved = "entitlements.resolved"
	EventLeadCreated          = "lead.created"
	EventMessageSent          = "message.sent"
	EventReviewCreated        = "review.created"
	EventUserCreated          = "user.created"
)

// Sink receives fire-and-forget events. Track must return immediately.
type Sink interface {
	Track(event, userID string, props map[string]any)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Track(string, string, map[string]any) {}

// RedisSink appends events to a Redis stream with XADD.
type RedisSink struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewRedisSink(client *redis.Client, stream string, log *zap.SugaredLogger, m *metrics.Metrics) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RedisSink{client: client, stream: stream, maxLen: defaultMaxLen, log: log, metrics: m}
}

// Track publishes in the background with its own timeout, detached from
// the request context.
func (s *RedisSink) Track(event, userID string, props map[string]any) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publish(ctx, event, userID, props); err != nil {
			s.metrics.ObserveAnalyticsDropped()
			s.log.Warnw("analytics event dropped", "event", event, "user_id", userID, "error", err)
		}
	}()
}

// Flush waits for in-flight publishes; used on shutdown.
func (s *RedisSink) Flush() {
	s.wg.Wait()
}

func (s *RedisSink) publish(ctx context.Context, event, userID string, props map[string]any) error {
	payload := "{}"
	if len(props) > 0 {
		b, err := json.Marshal(props)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"event":   event,
			"user_id": userID,
			"props":   payload,
			"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
}
