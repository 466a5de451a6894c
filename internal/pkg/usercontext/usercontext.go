package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the caller identity for a request
type UserContext struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	IsLoggedIn bool   `json:"isLoggedIn"`
	IsAdmin    bool   `json:"isAdmin"`
}

// Set stores the user context on the request.
func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return uc
	}
	return UserContext{}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or "" if anonymous
func GetUserID(c *fiber.Ctx) string {
	return GetUserContext(c).UserID
}

// GetRole returns the current user's role, or "" if anonymous
func GetRole(c *fiber.Ctx) string {
	return GetUserContext(c).Role
}
