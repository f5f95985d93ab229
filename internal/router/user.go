package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vortrixs/user-api/internal/handler"
	"github.com/vortrixs/user-api/internal/middleware"
)

// registerUserRoutes mounts the user resource. PUT and PATCH are both
// partial updates. Clerk auth guards the group when a secret key is set.
func registerUserRoutes(r *echo.Echo, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	users := r.Group("/users")
	if auth.Enabled() {
		users.Use(auth.RequireAuth)
	}

	u := h.User
	update := handler.Handle(u.Handler, u.UpdateUser, http.StatusOK)

	users.GET("", handler.Handle(u.Handler, u.ListUsers, http.StatusOK))
	users.POST("", handler.Handle(u.Handler, u.CreateUser, http.StatusCreated))
	users.GET("/:id", handler.Handle(u.Handler, u.GetUser, http.StatusOK))
	users.PATCH("/:id", update)
	users.PUT("/:id", update)
	users.DELETE("/:id", handler.HandleNoContent(u.Handler, u.DeleteUser, http.StatusNoContent))
}
