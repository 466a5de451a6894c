// Package auth resolves the caller identity. Authentication itself happens
// upstream; this service only reads the identity it is handed.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Identity is who is calling. A zero Identity means anonymous.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Provider extracts the identity from a request.
type Provider interface {
	Identify(c *fiber.Ctx) (Identity, error)
}

// HeaderProvider trusts identity headers set by the auth gateway in front
// of the API. Unknown roles degrade to homeowner.
type HeaderProvider struct{}

func (HeaderProvider) Identify(c *fiber.Ctx) (Identity, error) {
	id := strings.TrimSpace(c.Get(HeaderUserID))
	if id == "" {
		return Identity{}, nil
	}
	role := strings.ToLower(strings.TrimSpace(c.Get(HeaderUserRole)))
	if !models.ValidRole(role) {
		role = models.ROLE_HOMEOWNER
	}
	return Identity{UserID: id, Role: role}, nil
}
