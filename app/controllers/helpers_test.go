package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ContractorHub/app/controllers"
	"github.com/ManuelReschke/ContractorHub/app/repository"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/auth"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/billing"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/entitlements"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/metrics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/router"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/testdb"
)

const (
	webhookUser     = "hooks"
	webhookPassword = "s3cret"
)

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
	fail bool
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", apperror.New(apperror.ErrUpstreamFailure, "upload failed")
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type trackedEvent struct {
	event  string
	userID string
}

// recordingSink keeps the strings it receives as-is.
type recordingSink struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (s *recordingSink) Track(event, userID string, _ map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, trackedEvent{event: event, userID: userID})
}

func (s *recordingSink) userIDs(event string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.events {
		if e.event == event {
			out = append(out, e.userID)
		}
	}
	return out
}

type harness struct {
	app      *fiber.App
	db       *gorm.DB
	uploader *fakeUploader
	sink     *recordingSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testdb.New(t)
	repos := repository.NewRepositories(db)
	m := metrics.New(prometheus.NewRegistry())
	svc := billing.NewServiceFromDB(db, billing.WithMetrics(m))
	up := &fakeUploader{}
	sink := &recordingSink{}

	ctrl := controllers.New(controllers.Deps{
		Repos:        repos,
		Billing:      svc,
		Entitlements: entitlements.NewResolver(repos.User, svc, m, nil),
		Uploader:     up,
		Analytics:    sink,
	})
	app := fiber.New()
	router.InstallRouter(app, router.Options{
		Controllers:  ctrl,
		Metrics:      m,
		WebhookUsers: router.Credentials(webhookUser, webhookPassword),
	})
	return &harness{app: app, db: db, uploader: up, sink: sink}
}

type reqOpt func(r *http.Request)

func as(userID, role string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set(auth.HeaderUserID, userID)
		r.Header.Set(auth.HeaderUserRole, role)
	}
}

func withBasicAuth(user, password string) reqOpt {
	return func(r *http.Request) { r.SetBasicAuth(user, password) }
}

// do sends a JSON request and decodes the JSON answer into a map.
func (h *harness) do(t *testing.T, method, path string, body any, opts ...reqOpt) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, o := range opts {
		o(req)
	}
	return h.send(t, req)
}

func (h *harness) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func obj(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected object, got %T", v)
	return m
}

func list(t *testing.T, v any) []any {
	t.Helper()
	l, ok := v.([]any)
	require.True(t, ok, "expected array, got %T", v)
	return l
}

func jsonRequest(method, path, raw string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}
