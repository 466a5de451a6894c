package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/shortener"
)

const affiliateCodeLength = 8

type AffiliateController struct {
	deps Deps
}

type createAffiliateRequest struct {
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"code" validate:"omitempty,alphanum,min=3,max=40"`
}

type addCommissionRequest struct {
	Amount        float64 `json:"amount" validate:"gt=0"`
	TransactionID string  `json:"transactionId"`
}

func (ac *AffiliateController) HandleCreateAffiliate(c *fiber.Ctx) error {
	var req createAffiliateRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	if ok, err := ac.deps.Repos.User.Exists(c.UserContext(), req.UserID); err != nil {
		return writeError(c, ac.deps.Log, err)
	} else if !ok {
		return writeError(c, ac.deps.Log, apperror.NotFound("user %s not found", req.UserID))
	}

	code := strings.ToUpper(req.Code)
	if code == "" {
		generated, err := shortener.GenerateCode(affiliateCodeLength)
		if err != nil {
			return writeError(c, ac.deps.Log, err)
		}
		code = generated
	}
	aff := &models.Affiliate{UserID: req.UserID, Code: code}
	if err := ac.deps.Repos.Affiliate.Create(c.UserContext(), aff); err != nil {
		if errors.Is(err, apperror.ErrConstraintViolation) {
			err = apperror.Wrap(apperror.ErrConstraintViolation, err, "affiliate code or user already registered")
		}
		return writeError(c, ac.deps.Log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"affiliate": aff})
}

func (ac *AffiliateController) HandleListCommissions(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := ac.deps.Repos.Affiliate.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	items, err := ac.deps.Repos.Affiliate.ListCommissions(c.UserContext(), id)
	if err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	return c.JSON(fiber.Map{"commissions": items})
}

func (ac *AffiliateController) HandleAddCommission(c *fiber.Ctx) error {
	var req addCommissionRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	id := c.Params("id")
	if _, err := ac.deps.Repos.Affiliate.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	commission := &models.Commission{AffiliateID: id, Amount: req.Amount, TransactionID: req.TransactionID}
	if err := ac.deps.Repos.Affiliate.AddCommission(c.UserContext(), commission); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"commission": commission})
}

// HandleCommissionTotals answers {"paid": x, "unpaid": y}.
func (ac *AffiliateController) HandleCommissionTotals(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := ac.deps.Repos.Affiliate.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	totals, err := ac.deps.Repos.Affiliate.CommissionTotals(c.UserContext(), id)
	if err != nil {
		return writeError(c, ac.deps.Log, err)
	}
	return c.JSON(totals)
}
