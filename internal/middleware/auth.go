package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context carries the request deadline into store lookups
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeout for the store lookups

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/meladattef/task-manager/internal/model"
    "github.com/meladattef/task-manager/internal/utils"
)

// UserSource loads the authenticated user record once per request so the
// handlers never have to query it again.
type UserSource interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenSource answers whether a presented token is still in the user's
// token list. This membership check is what makes logout effective: the
// signature of a revoked token keeps verifying, its row does not.
type TokenSource interface {
    Exists(ctx context.Context, userID uint64, token string) (bool, error)
}

// Auth returns an Echo middleware that resolves a Bearer token to an
// authenticated user and stores both under "user" and "token" in the
// request context. Every failure (missing header, bad signature, token
// revoked, user deleted) short-circuits with the same 401 body so a
// caller learns nothing about which check failed.
func Auth(secret string, users UserSource, tokens TokenSource) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header. A valid header starts with
            // "Bearer " followed by the signed token.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return unauthenticated(c)
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Verify the signature and recover the user id from the
            // subject claim.
            userID, err := utils.ParseAuthToken(secret, raw)
            if err != nil {
                return unauthenticated(c)
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            // A valid signature is not enough: the exact token string
            // must still be present in the user's token list.
            ok, err := tokens.Exists(ctx, userID, raw)
            if err != nil || !ok {
                return unauthenticated(c)
            }

            // Attach the full user record and the raw token so logout can
            // remove exactly this session.
            user, err := users.GetByID(ctx, userID)
            if err != nil {
                return unauthenticated(c)
            }
            c.Set("user", user)
            c.Set("token", raw)
            return next(c)
        }
    }
}

func unauthenticated(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please authenticate"})
}

// AuthedUser extracts the user record stored by Auth. The boolean is
// false when the middleware did not run, which on a protected route
// means a programming error in the router.
func AuthedUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get("user").(model.User)
    return u, ok
}

// AuthedToken returns the raw token the current request authenticated with.
func AuthedToken(c echo.Context) string {
    t, _ := c.Get("token").(string)
    return t
}
