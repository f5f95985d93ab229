package repository

import (
	"github.com/vortrixs/user-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users UserRepository
}

// NewRepositories builds every repository on the server's ORM session.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users: NewPostgresUserRepository(s.DB.ORM),
	}
}
