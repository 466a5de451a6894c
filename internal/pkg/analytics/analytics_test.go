package analytics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
)

func TestRedisSinkAppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sink := NewRedisSink(client, "test:events", nil, nil)
	sink.Track(EventBillingToggled, "u1", map[string]any{"isPaused": true})
	sink.Flush()

	entries, err := client.XRange(context.Background(), "test:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EventBillingToggled, entries[0].Values["event"])
	assert.Equal(t, "u1", entries[0].Values["user_id"])

	var props map[string]any
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["props"].(string)), &props))
	assert.Equal(t, true, props["isPaused"])
}

func TestRedisSinkNeverPropagatesFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	m := metrics.New(nil)
	sink := NewRedisSink(client, "", nil, m)
	assert.NotPanics(t, func() { sink.Track(EventLeadCreated, "u1", nil) })
	sink.Flush()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalyticsDropped))
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	assert.NotPanics(t, func() { s.Track(EventUserCreated, "u1", map[string]any{"x": 1}) })
}
