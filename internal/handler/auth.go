package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meladattef/task-manager/internal/middleware"
	"github.com/meladattef/task-manager/internal/repository"
	"github.com/meladattef/task-manager/internal/utils"
)

// AuthHandler bundles dependencies for the session lifecycle endpoints:
// signup, login, logout and logout-all.
type AuthHandler struct {
	Secret string
	Users  UserStore
	Tokens TokenStore
	Mail   Mailer
}

func NewAuthHandler(secret string, users UserStore, tokens TokenStore, mail Mailer) *AuthHandler {
	return &AuthHandler{Secret: secret, Users: users, Tokens: tokens, Mail: mail}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type authResp struct {
	User  publicUser `json:"user"`
	Token string     `json:"token"`
}

// Signup: validate, create the account, queue the welcome email and log
// the new session in immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name, err := utils.ValidateName(req.Name)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	email, err := utils.ValidateEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	password, err := utils.ValidatePassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, name, email, password, req.Age)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// Fire-and-forget; a broker outage never fails a signup.
	_ = h.Mail.SendWelcome(ctx, u.Email, u.Name)

	token, err := h.issue(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, authResp{User: toPublicUser(u), Token: token})
}

// Login: verify credentials and append a new session token. A wrong
// email and a wrong password produce the exact same response so the
// endpoint cannot be used to probe which addresses are registered.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unable to login"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unable to login"})
	}

	token, err := h.issue(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: toPublicUser(u), Token: token})
}

// Logout removes exactly the token this request authenticated with;
// sessions on other devices stay valid.
func (h *AuthHandler) Logout(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tokens.Remove(ctx, u.ID, middleware.AuthedToken(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusOK)
}

// LogoutAll clears the user's whole token list, ending every session.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	u, ok := middleware.AuthedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tokens.RemoveAll(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusOK)
}

// issue signs a token for the user and appends it to the token list.
func (h *AuthHandler) issue(ctx context.Context, userID uint64) (string, error) {
	token, err := utils.NewAuthToken(h.Secret, userID)
	if err != nil {
		log.Printf("auth: signing token failed: %v", err)
		return "", err
	}
	if err := h.Tokens.Add(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}
