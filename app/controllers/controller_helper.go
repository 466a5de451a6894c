package controllers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report payload field names the way clients send them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// writeError maps err to its HTTP status and writes {"error": msg}.
func writeError(c *fiber.Ctx, log *zap.SugaredLogger, err error) error {
	status := apperror.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperror.PublicMessage(err)})
}

// parseBody decodes a JSON body into dst and validates its struct tags.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.BadRequest("%s", describeFieldError(verrs[0]))
	}
	return apperror.BadRequest("invalid request")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// requiredQuery returns the trimmed query value or a BadRequest naming it.
// The value is copied out of the request buffer, so it stays valid after
// the handler returns.
func requiredQuery(c *fiber.Ctx, key string) (string, error) {
	v := utils.CopyString(strings.TrimSpace(c.Query(key)))
	if v == "" {
		return "", apperror.BadRequest("%s is required", key)
	}
	return v, nil
}

// pagination reads limit/offset with sane bounds.
func pagination(c *fiber.Ctx) (offset, limit int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return offset, limit
}

func success(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}
