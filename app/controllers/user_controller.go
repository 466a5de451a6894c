package controllers

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/analytics"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/objectstore"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/upload"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/utils"
)

type UserController struct {
	deps Deps
}

type createUserRequest struct {
	Email string `json:"email" validate:"required,email,max=200"`
	Name  string `json:"name" validate:"required,min=2,max=150"`
	Role  string `json:"role" validate:"omitempty,oneof=homeowner contractor admin"`
}

// HandleCreateUser registers a user. Duplicate emails answer 409.
func (uc *UserController) HandleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, uc.deps.Log, err)
	}
	user, err := models.NewUser(req.Name, req.Email, req.Role)
	if err != nil {
		return writeError(c, uc.deps.Log, apperror.BadRequest("invalid user"))
	}
	if err := uc.deps.Repos.User.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, apperror.ErrConstraintViolation) {
			err = apperror.Wrap(apperror.ErrConstraintViolation, err, "email already registered")
		}
		return writeError(c, uc.deps.Log, err)
	}
	uc.deps.Analytics.Track(analytics.EventUserCreated, user.ID, map[string]any{"role": user.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// HandleGetUser returns the profile; users without an uploaded avatar get
// their Gravatar.
func (uc *UserController) HandleGetUser(c *fiber.Ctx) error {
	user, err := uc.deps.Repos.User.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, uc.deps.Log, err)
	}
	if user.AvatarURL == "" {
		user.AvatarURL = utils.GetGravatarURL(user.Email, 0)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleUploadAvatar stores a profile picture and records its URL.
// POST /users/:id/avatar (multipart field "file")
func (uc *UserController) HandleUploadAvatar(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uc.deps.Repos.User.FindByID(c.UserContext(), id); err != nil {
		return writeError(c, uc.deps.Log, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, uc.deps.Log, apperror.BadRequest("file is required"))
	}
	if fh.Size > upload.MaxAvatarBytes {
		return writeError(c, uc.deps.Log, apperror.BadRequest("file exceeds 5 MiB"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, uc.deps.Log, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, upload.MaxAvatarBytes+1))
	if err != nil {
		return writeError(c, uc.deps.Log, err)
	}
	if len(data) > upload.MaxAvatarBytes {
		return writeError(c, uc.deps.Log, apperror.BadRequest("file exceeds 5 MiB"))
	}
	contentType, err := upload.ValidateImageBySniff(fh.Filename, data)
	if err != nil {
		return writeError(c, uc.deps.Log, err)
	}

	key := objectstore.AvatarKey(id, uuid.NewString(), filepath.Ext(fh.Filename))
	url, err := uc.deps.Uploader.Upload(c.UserContext(), key, contentType, data)
	if err != nil {
		return writeError(c, uc.deps.Log, err)
	}
	if err := uc.deps.Repos.User.UpdateAvatar(c.UserContext(), id, url); err != nil {
		return writeError(c, uc.deps.Log, err)
	}
	return c.JSON(fiber.Map{"avatarUrl": url})
}
