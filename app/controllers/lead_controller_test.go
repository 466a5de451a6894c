package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/testdb"
)

func createLead(t *testing.T, h *harness, homeownerID, category string) string {
	t.Helper()
	status, body := h.do(t, fiber.MethodPost, "/leads", map[string]string{
		"homeownerId": homeownerID,
		"category":    category,
		"title":       "Fix the sink",
		"description": "Kitchen sink leaks",
		"zipCode":     "10115",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return obj(t, body["lead"])["id"].(string)
}

func TestCreateLeadValidation(t *testing.T) {
	h := newHarness(t)
	testdb.SeedUser(t, h.db, "h1", models.ROLE_HOMEOWNER)
	testdb.SeedUser(t, h.db, "c1", models.ROLE_CONTRACTOR)

	base := map[string]string{"category": "plumbing", "title": "Fix the sink", "zipCode": "10115"}
	with := func(k, v string) map[string]string {
		out := map[string]string{k: v}
		for key, val := range base {
			if key != k {
				out[key] = val
			}
		}
		return out
	}

	status, body := h.do(t, fiber.MethodPost, "/leads", base)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "homeownerId is required", body["error"])

	status, _ = h.do(t, fiber.MethodPost, "/leads", with("homeownerId", "ghost"))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = h.do(t, fiber.MethodPost, "/leads", with("homeownerId", "c1"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "only homeowners can create leads", body["error"])

	id := createLead(t, h, "h1", "Plumbing")
	status, body = h.do(t, fiber.MethodGet, "/leads/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	lead := obj(t, body["lead"])
	assert.Equal(t, "plumbing", lead["category"])
	assert.Equal(t, models.LeadStatusOpen, lead["status"])
}

func TestLeadLifecycle(t *testing.T) {
	h := newHarness(t)
	testdb.SeedUser(t, h.db, "h1", models.ROLE_HOMEOWNER)
	id := createLead(t, h, "h1", "plumbing")
	createLead(t, h, "h1", "roofing")

	_, body := h.do(t, fiber.MethodGet, "/leads?homeownerId=h1&category=roofing", nil)
	assert.Len(t, list(t, body["leads"]), 1)

	status, _ := h.do(t, fiber.MethodPatch, "/leads/"+id+"/status", map[string]string{"status": "archived"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = h.do(t, fiber.MethodPatch, "/leads/"+id+"/status", map[string]string{"status": "hired"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "hired", obj(t, body["lead"])["status"])

	status, _ = h.do(t, fiber.MethodPatch, "/leads/missing/status", map[string]string{"status": "closed"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = h.do(t, fiber.MethodDelete, "/leads/"+id, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = h.do(t, fiber.MethodGet, "/leads/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAvailableLeadsRequireEntitlement(t *testing.T) {
	h := newHarness(t)
	testdb.SeedUser(t, h.db, "h1", models.ROLE_HOMEOWNER)
	testdb.SeedUser(t, h.db, "c1", models.ROLE_CONTRACTOR)
	createLead(t, h, "h1", "plumbing")
	createLead(t, h, "h1", "roofing")

	status, body := h.do(t, fiber.MethodGet, "/leads/available?contractorId=c1", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "contractor cannot receive leads", body["error"])

	testdb.SeedSubscription(t, h.db, "c1", "plumbing", true, true)
	status, body = h.do(t, fiber.MethodGet, "/leads/available?contractorId=c1", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	leads := list(t, body["leads"])
	require.Len(t, leads, 1)
	assert.Equal(t, "plumbing", obj(t, leads[0])["category"])

	h.do(t, fiber.MethodPost, "/billing/toggle", map[string]string{"userId": "c1"})
	status, _ = h.do(t, fiber.MethodGet, "/leads/available?contractorId=c1", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestThreadMessagingNotifiesCounterpart(t *testing.T) {
	h := newHarness(t)
	testdb.SeedUser(t, h.db, "h1", models.ROLE_HOMEOWNER)
	testdb.SeedUser(t, h.db, "c1", models.ROLE_CONTRACTOR)
	testdb.SeedUser(t, h.db, "x1", models.ROLE_CONTRACTOR)
	leadID := createLead(t, h, "h1", "plumbing")

	req := map[string]string{"leadId": leadID, "contractorId": "c1", "homeownerId": "h1"}
	status, body := h.do(t, fiber.MethodPost, "/threads", req)
	require.Equal(t, fiber.StatusCreated, status, body)
	threadID := obj(t, body["thread"])["id"].(string)

	status, _ = h.do(t, fiber.MethodPost, "/threads", req)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = h.do(t, fiber.MethodPost, "/threads/"+threadID+"/messages", map[string]string{"senderId": "x1", "body": "hi"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.do(t, fiber.MethodPost, "/threads/"+threadID+"/messages", map[string]string{"senderId": "c1", "body": "I can help"})
	require.Equal(t, fiber.StatusCreated, status)

	_, body = h.do(t, fiber.MethodGet, "/threads/"+threadID+"/messages", nil)
	assert.Len(t, list(t, body["messages"]), 1)

	_, body = h.do(t, fiber.MethodGet, "/notifications?userId=h1", nil)
	assert.Equal(t, float64(1), body["unreadCount"])
	notes := list(t, body["notifications"])
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeMessage, obj(t, notes[0])["type"])

	status, body = h.do(t, fiber.MethodPost, "/notifications/read-all", map[string]string{"userId": "h1"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["updated"])
	_, body = h.do(t, fiber.MethodGet, "/notifications?userId=h1&unread=true", nil)
	assert.Empty(t, list(t, body["notifications"]))

	status, _ = h.do(t, fiber.MethodDelete, "/threads/"+threadID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	var n int64
	require.NoError(t, h.db.Model(&models.Message{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestConversationCreateIsIdempotent(t *testing.T) {
	h := newHarness(t)
	testdb.SeedUser(t, h.db, "h1", models.ROLE_HOMEOWNER)
	testdb.SeedUser(t, h.db, "c1", models.ROLE_CONTRACTOR)

	status, _ := h.do(t, fiber.MethodPost, "/conversations", map[string]string{"participantA": "h1", "participantB": "h1"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := h.do(t, fiber.MethodPost, "/conversations", map[string]string{"participantA": "h1", "participantB": "c1"})
	require.Equal(t, fiber.StatusCreated, status, body)
	id := obj(t, body["conversation"])["id"]

	status, body = h.do(t, fiber.MethodPost, "/conversations", map[string]string{"participantA": "c1", "participantB": "h1"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id, obj(t, body["conversation"])["id"])
}

func TestDeleteLeadRemovesThreadsAndMessages(t *testing.T) {
	h := newHarness(t)
	testdb.SeedUser(t, h.db, "h1", models.ROLE_HOMEOWNER)
	testdb.SeedUser(t, h.db, "c1", models.ROLE_CONTRACTOR)
	leadID := createLead(t, h, "h1", "plumbing")

	status, body := h.do(t, fiber.MethodPost, "/threads", map[string]string{"leadId": leadID, "contractorId": "c1", "homeownerId": "h1"})
	require.Equal(t, fiber.StatusCreated, status, body)
	threadID := obj(t, body["thread"])["id"].(string)
	status, _ = h.do(t, fiber.MethodPost, "/threads/"+threadID+"/messages", map[string]string{"senderId": "c1", "body": "I can help"})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = h.do(t, fiber.MethodDelete, "/leads/"+leadID, nil)
	require.Equal(t, fiber.StatusOK, status)

	var threads, messages int64
	require.NoError(t, h.db.Model(&models.Thread{}).Count(&threads).Error)
	require.NoError(t, h.db.Model(&models.Message{}).Count(&messages).Error)
	assert.Zero(t, threads)
	assert.Zero(t, messages)

	status, _ = h.do(t, fiber.MethodDelete, "/leads/"+leadID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
