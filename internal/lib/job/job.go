// Package job provides background job processing using Asynq.
//
// Tasks are enqueued with Client and executed by an asynq.Server
// pulling from the same Redis instance.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/vortrixs/user-api/internal/config"
	"github.com/vortrixs/user-api/internal/lib/email"
)

// WelcomeSender delivers the welcome email. *email.Client implements it.
type WelcomeSender interface {
	SendWelcomeEmail(to, firstName string) error
}

// JobService wraps both sides of Asynq:
//
//   - Client enqueues tasks. The user service holds it to queue welcome
//     emails after a create.
//   - server runs the workers that pull those tasks from Redis and hand
//     them to the handlers registered in Mux.
//
// email is what the welcome task handler sends through. It is an
// interface so handlers can run without reaching Resend.
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger
	email  WelcomeSender
}

// NewJobService creates a JobService configured to use Redis from cfg.
// It must only be called when cfg.Redis is enabled.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
		email:  email.NewClient(cfg, logger),
	}
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	return mux
}

// Start runs the workers in the background; it does not block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(j.Mux())
}

// Stop waits for in-flight tasks and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
