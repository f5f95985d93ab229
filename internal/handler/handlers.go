// Package handler is the HTTP layer. Handlers receive bound and validated
// payloads, call the service layer and return what gets rendered.
package handler

import (
	"github.com/vortrixs/user-api/internal/server"
	"github.com/vortrixs/user-api/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	User    *UserHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services.User),
	}
}
