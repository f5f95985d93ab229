// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated payloads, enforces the rules that need the store (email
// uniqueness, existence) and calls the repositories.
package service

import (
	"github.com/vortrixs/user-api/internal/repository"
	"github.com/vortrixs/user-api/internal/server"
)

type Services struct {
	Auth *AuthService
	User *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var jobs TaskEnqueuer
	if s.Job != nil {
		jobs = s.Job.Client
	}

	return &Services{
		Auth: NewAuthService(s),
		User: NewUserService(s, repos.Users, jobs),
	}
}
