// Package router builds the Echo instance: the global middleware chain,
// the error handler and every route group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vortrixs/user-api/internal/handler"
	"github.com/vortrixs/user-api/internal/middleware"
	"github.com/vortrixs/user-api/internal/server"
	"github.com/vortrixs/user-api/internal/validation"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.JSONSerializer = validation.JSONSerializer{}

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerUserRoutes(router, h, middlewares.Auth)

	return router
}
