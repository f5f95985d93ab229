package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vortrixs/user-api/internal/model"
	"github.com/vortrixs/user-api/internal/server"
	"github.com/vortrixs/user-api/internal/service"
)

type UserHandler struct {
	Handler
	userService *service.UserService
}

func NewUserHandler(s *server.Server, userService *service.UserService) *UserHandler {
	return &UserHandler{
		Handler:     NewHandler(s),
		userService: userService,
	}
}

func (h *UserHandler) ListUsers(c echo.Context, _ *model.ListUsersPayload) ([]model.User, error) {
	return h.userService.List(c.Request().Context())
}

func (h *UserHandler) CreateUser(c echo.Context, payload *model.CreateUserPayload) (*model.User, error) {
	return h.userService.Create(c.Request().Context(), payload)
}

func (h *UserHandler) GetUser(c echo.Context, payload *model.GetUserByIDPayload) (*model.User, error) {
	return h.userService.Get(c.Request().Context(), payload.UserID())
}

// UpdateUser serves both PATCH and PUT; only supplied fields change.
func (h *UserHandler) UpdateUser(c echo.Context, payload *model.UpdateUserPayload) (*model.User, error) {
	return h.userService.Update(c.Request().Context(), payload.UserID(), payload.Fields())
}

func (h *UserHandler) DeleteUser(c echo.Context, payload *model.DeleteUserPayload) error {
	return h.userService.Delete(c.Request().Context(), payload.UserID())
}
