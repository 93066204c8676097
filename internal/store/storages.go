package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
)

// Storages bundles the identity store and the session registry selected by
// configuration.
type Storages struct {
	Users    UserRepository
	Sessions SessionRepository

	// Durable is true when both stores outlive the process, in which case
	// flat-file snapshots are unnecessary.
	Durable bool

	volatileUsers    UserRepository
	volatileSessions SessionRepository

	closers []func() error
}

// NewStorages opens the configured backends. SQL databases are migrated on
// connect.
func NewStorages(ctx context.Context, cfg config.Storage, sessionTTL time.Duration, log *logger.Logger) (*Storages, error) {
	s := &Storages{}

	var db *DB
	switch cfg.Driver {
	case config.DriverMemory:
		s.Users = NewMemoryUserRepository(utils.NewUUIDGenerator(), log)
		s.volatileUsers = s.Users
	case config.DriverPostgres, config.DriverSQLite:
		var err error
		if cfg.Driver == config.DriverPostgres {
			db, err = NewConnectPostgres(ctx, cfg.DB, log)
		} else {
			db, err = NewConnectSQLite(ctx, cfg.DB, log)
		}
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)

		if err := db.Migrate(); err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Users = NewSQLUserRepository(db, utils.NewUUIDGenerator(), log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	switch cfg.Sessions.Backend {
	case config.SessionsMemory:
		s.Sessions = NewMemorySessionRepository(sessionTTL, log)
		s.volatileSessions = s.Sessions
	case config.SessionsSQL:
		if db == nil {
			_ = s.Close()
			return nil, errors.New("sql session backend requires a sql storage driver")
		}
		s.Sessions = NewSQLSessionRepository(db, sessionTTL, log)
	case config.SessionsRedis:
		client, err := NewRedisClient(ctx, cfg.Sessions.RedisAddress)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		s.Sessions = NewRedisSessionRepository(client, sessionTTL, log)
	default:
		_ = s.Close()
		return nil, fmt.Errorf("unknown session backend %q", cfg.Sessions.Backend)
	}

	s.Durable = s.volatileUsers == nil && s.volatileSessions == nil

	return s, nil
}

// Volatile returns the stores that live only in process memory, nil for
// each store kept by a database or redis. Only these belong in a snapshot.
func (s *Storages) Volatile() (UserRepository, SessionRepository) {
	return s.volatileUsers, s.volatileSessions
}

// Close releases every connection opened by NewStorages, last opened first.
func (s *Storages) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
