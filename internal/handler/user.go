package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/meladattef/task-manager/internal/cache"
	"github.com/meladattef/task-manager/internal/middleware"
	"github.com/meladattef/task-manager/internal/repository"
	"github.com/meladattef/task-manager/internal/utils"
)

// UserHandler serves the profile and avatar endpoints. All of them except
// GetAvatar run behind the auth middleware and operate on the identity it
// resolved; GetAvatar is the one public, unauthenticated read.
type UserHandler struct {
	Users   UserStore
	Mail    Mailer
	Avatars *cache.AvatarCache
}

func NewUserHandler(users UserStore, mail Mailer, avatars *cache.AvatarCache) *UserHandler {
	return &UserHandler{Users: users, Mail: mail, Avatars: avatars}
}

// Me returns the authenticated user's public view.
func (h *UserHandler) Me(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}
	return c.JSON(http.StatusOK, toPublicUser(u))
}

// UpdateMe applies a partial profile update. The body is decoded as a
// raw field map first so that a single unknown field rejects the whole
// request before anything is validated or written; the update is atomic
// or it does not happen.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	allowed := map[string]bool{"name": true, "email": true, "password": true, "age": true}
	for field := range body {
		if !allowed[field] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
	}

	var upd repository.UserUpdate
	if raw, ok := body["name"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
		name, err := utils.ValidateName(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		upd.Name = &name
	}
	if raw, ok := body["email"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
		email, err := utils.ValidateEmail(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		upd.Email = &email
	}
	if raw, ok := body["password"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
		password, err := utils.ValidatePassword(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		upd.Password = &password
	}
	if raw, ok := body["age"]; ok {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid updates"})
		}
		upd.Age = &n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	updated, err := h.Users.Update(ctx, u.ID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toPublicUser(updated))
}

// DeleteMe removes the account and every task it owns, then queues the
// cancellation email. The response echoes the deleted profile.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Delete(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Avatars.Invalidate(ctx, u.ID)
	_ = h.Mail.SendCancellation(ctx, u.Email, u.Name)
	return c.JSON(http.StatusOK, toPublicUser(u))
}

// UploadAvatar accepts a multipart upload under the "avatar" field,
// checks size and extension before any decoding, then stores the image
// normalized to a 250x250 PNG.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar file is required"})
	}
	if err := utils.ValidateAvatarUpload(fh.Filename, fh.Size); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read avatar"})
	}
	defer f.Close()
	// The declared size already passed the ceiling check; the extra byte
	// catches a part that lies about its length.
	raw, err := io.ReadAll(io.LimitReader(f, utils.MaxAvatarBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read avatar"})
	}
	if len(raw) > utils.MaxAvatarBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": utils.ErrAvatarTooLarge.Error()})
	}
	normalized, err := utils.NormalizeAvatar(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.SetAvatar(ctx, u.ID, normalized); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save avatar failed"})
	}
	h.Avatars.Invalidate(ctx, u.ID)
	return c.NoContent(http.StatusOK)
}

// DeleteAvatar clears the stored avatar; 404 when none is set.
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.ClearAvatar(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrNoAvatar) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no avatar set"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete avatar failed"})
	}
	h.Avatars.Invalidate(ctx, u.ID)
	return c.NoContent(http.StatusOK)
}

// GetAvatar serves any user's avatar publicly as image/png, going through
// the Redis cache when one is configured. A missing user and a user
// without an avatar are indistinguishable: both are 404.
func (h *UserHandler) GetAvatar(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if b, hit := h.Avatars.Get(ctx, id); hit {
		return c.Blob(http.StatusOK, "image/png", b)
	}
	b, err := h.Users.GetAvatar(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoAvatar) || errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load avatar failed"})
	}
	h.Avatars.Set(ctx, id, b)
	return c.Blob(http.StatusOK, "image/png", b)
}
