// Package database establishes the connection to PostgreSQL.
//
// It handles:
//   - creating a pgx connection pool (pgxpool) from config
//   - wiring query tracing/logging (pgx tracelog + zerolog)
//   - optional New Relic instrumentation (nrpgx5)
//   - opening the gorm ORM on top of the same pool
package database

import (
	"context"
	"fmt"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vortrixs/user-api/internal/config"
	loggerConfig "github.com/vortrixs/user-api/internal/logger"
)

// DatabasePingTimeout is how long New waits for the first ping.
const DatabasePingTimeout = 10 * time.Second

// Now is the clock used for created_at and updated_at. TIMESTAMPTZ keeps
// microseconds, so the value is truncated to what a later read returns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Database wraps the pgx connection pool, the ORM session opened on it
// and a logger. It is the one object the rest of the app passes around
// to reach PostgreSQL.
//
// Pool is the shared connection pool. Health checks ping it directly.
// ORM is a gorm session whose connections come from Pool, so both see
// the same limits and tracing. Repositories only use ORM.
// log is used for lifecycle logs (connect/close, etc.).
type Database struct {
	Pool *pgxpool.Pool
	ORM  *gorm.DB
	log  *zerolog.Logger
}

// multiTracer fans pgx query tracing out to several tracers.
//
// pgx supports a single Tracer in ConnConfig. This adapter runs both:
//   - the New Relic tracer, when an application is configured
//   - tracelog.TraceLog, for SQL logging in the "local" env
//
// Each tracer is checked at runtime for the hook it implements.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// New creates the pgx pool, pings it and opens gorm over it.
//
// In the "local" environment every statement is logged through tracelog;
// when New Relic is running, queries are also reported as datastore segments.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	applyPoolSettings(pgxPoolConfig, cfg.Database)

	var tracers []any
	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}
	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0].(pgx.QueryTracer)
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	orm, err := OpenORM(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}), logger, cfg.Observability)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Msg("connected to the database")

	return &Database{
		Pool: pool,
		ORM:  orm,
		log:  logger,
	}, nil
}

// OpenORM opens gorm with the project defaults on an already-built dialector.
//
// Writes are single statements, so gorm's implicit per-write transaction is
// skipped. Slow queries and ORM errors go to zerolog; missing rows are not
// logged because they are an expected outcome (404).
func OpenORM(dialector gorm.Dialector, logger *zerolog.Logger, obs *config.ObservabilityConfig) (*gorm.DB, error) {
	slowThreshold := 200 * time.Millisecond
	if obs != nil && obs.Logging.SlowQueryThreshold > 0 {
		slowThreshold = obs.Logging.SlowQueryThreshold
	}

	ormLogger := logger.With().Str("component", "orm").Logger()

	orm, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                Now,
		Logger: gormlogger.New(&ormLogger, gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open orm: %w", err)
	}

	return orm, nil
}

func applyPoolSettings(pc *pgxpool.Config, db config.DatabaseConfig) {
	if db.MaxOpenConns > 0 {
		pc.MaxConns = int32(db.MaxOpenConns)
	}
	if db.MaxIdleConns > 0 && db.MaxIdleConns <= db.MaxOpenConns {
		pc.MinConns = int32(db.MaxIdleConns)
	}
	if db.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(db.ConnMaxLifetime) * time.Second
	}
	if db.ConnMaxIdleTime > 0 {
		pc.MaxConnIdleTime = time.Duration(db.ConnMaxIdleTime) * time.Second
	}
}

// Close closes the ORM handle and the pool underneath it.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")

	if db.ORM != nil {
		if sqlDB, err := db.ORM.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	db.Pool.Close()
	return nil
}
