package controllers

import "github.com/gofiber/fiber/v2"

type TransactionController struct {
	deps Deps
}

// HandleListTransactions returns the user's ledger, newest first.
func (tc *TransactionController) HandleListTransactions(c *fiber.Ctx) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	offset, limit := pagination(c)
	txs, err := tc.deps.Repos.Transaction.ListByUser(c.UserContext(), userID, offset, limit)
	if err != nil {
		return writeError(c, tc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"transactions": txs})
}
