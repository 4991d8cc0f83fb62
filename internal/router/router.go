package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/meladattef/task-manager/internal/handler" // import the handlers that implement business logic
)

// Register wires every route of the API onto the provided Echo instance.
// The paths are the public contract and have been stable since the first
// release, so they are all registered here in one place.
//
// Unauthenticated:
//   GET  /healthz            – liveness probe
//   POST /users/signup       – create an account
//   POST /users/login        – exchange credentials for a token
//   GET  /users/:id/avatar   – anyone may fetch any user's avatar PNG
//
// Everything else requires a Bearer token and runs behind the auth
// middleware, which resolves the token to a user before the handler runs.
func Register(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, t *handler.TaskHandler, auth echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	e.POST("/users/signup", a.Signup)
	e.POST("/users/login", a.Login)
	// Echo routes the static "me" segment ahead of ":id", so this public
	// route never shadows the authenticated avatar endpoints below.
	e.GET("/users/:id/avatar", u.GetAvatar)

	g := e.Group("", auth)
	g.POST("/users/logout", a.Logout)
	g.POST("/users/logoutall", a.LogoutAll)
	g.GET("/users/me", u.Me)
	g.PATCH("/users/me", u.UpdateMe)
	g.DELETE("/users/me", u.DeleteMe)
	g.POST("/users/me/avatar", u.UploadAvatar)
	g.DELETE("/users/me/avatar", u.DeleteAvatar)

	g.POST("/tasks", t.Create)
	g.GET("/tasks", t.List)
	g.GET("/tasks/:id", t.Get)
	g.PATCH("/tasks/:id", t.Update)
	g.DELETE("/tasks/:id", t.Delete)
}
