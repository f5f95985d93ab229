package service

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/vortrixs/user-api/internal/errs"
	"github.com/vortrixs/user-api/internal/lib/job"
	"github.com/vortrixs/user-api/internal/model"
	"github.com/vortrixs/user-api/internal/repository"
	"github.com/vortrixs/user-api/internal/server"
)

// TaskEnqueuer is the part of *asynq.Client the service needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UserService struct {
	server *server.Server
	users  repository.UserRepository
	// jobs is nil when background jobs are disabled.
	jobs TaskEnqueuer
}

func NewUserService(s *server.Server, users repository.UserRepository, jobs TaskEnqueuer) *UserService {
	return &UserService{
		server: s,
		users:  users,
		jobs:   jobs,
	}
}

func errEmailTaken() error {
	code := "USER_ALREADY_EXISTS"
	return errs.NewConflictError("A User with this Email already exists", true, &code)
}

// List returns every user ordered by id. An empty store is a 404.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errs.NewNotFoundError("No users found", true, nil)
	}
	return users, nil
}

// Create stores a new user. The payload must already be validated.
func (s *UserService) Create(ctx context.Context, payload *model.CreateUserPayload) (*model.User, error) {
	logger := zerolog.Ctx(ctx)

	taken, err := s.users.ExistsByEmail(ctx, payload.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errEmailTaken()
	}

	user := &model.User{
		Firstname: payload.Firstname,
		Lastname:  payload.Lastname,
		Email:     payload.Email,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("user_id", user.ID).Msg("user created")

	s.enqueueWelcomeEmail(ctx, user)

	return user, nil
}

// enqueueWelcomeEmail is best effort: the user exists either way.
func (s *UserService) enqueueWelcomeEmail(ctx context.Context, user *model.User) {
	if s.jobs == nil {
		return
	}

	logger := zerolog.Ctx(ctx)

	task, err := job.NewWelcomeEmailTask(user.Email, user.Firstname)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to build welcome email task")
		return
	}

	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to enqueue welcome email")
	}
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies the supplied fields to user id.
//
// Uniqueness is checked before existence, so a taken email on a missing
// id is a 409 rather than a 404. Existence is left to UpdateFields, which
// reports a missing row from the write itself.
func (s *UserService) Update(ctx context.Context, id int64, fields model.UserFields) (*model.User, error) {
	if email, ok := fields.Email(); ok {
		taken, err := s.users.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errEmailTaken()
		}
	}

	user, err := s.users.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", id).
		Int("fields", len(fields)).
		Msg("user updated")

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewNotFoundError("User not found", true, nil)
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
