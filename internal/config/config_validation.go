// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid* sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	switch cfg.App.HashAlgorithm {
	case HashBcrypt:
		if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("%w: bcrypt cost %d out of [%d, %d]", ErrInvalidAppConfigs, cfg.App.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case HashArgon2id:
	default:
		return fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalidAppConfigs, cfg.App.HashAlgorithm)
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: %s driver requires a DSN", ErrInvalidStorageConfigs, cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	switch cfg.Storage.Sessions.Backend {
	case SessionsMemory:
	case SessionsSQL:
		if cfg.Storage.Driver == DriverMemory {
			return fmt.Errorf("%w: sql session backend requires a sql driver", ErrInvalidStorageConfigs)
		}
	case SessionsRedis:
		if cfg.Storage.Sessions.RedisAddress == "" {
			return fmt.Errorf("%w: redis session backend requires an address", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidStorageConfigs, cfg.Storage.Sessions.Backend)
	}

	switch cfg.Workers.CascadeQueue {
	case CascadeLog:
	case CascadeAsynq:
		if cfg.Workers.RedisAddress == "" {
			return fmt.Errorf("%w: asynq cascade queue requires a redis address", ErrInvalidWorkerConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown cascade queue %q", ErrInvalidWorkerConfigs, cfg.Workers.CascadeQueue)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: empty http address", ErrInvalidServerConfigs)
	}

	return nil
}
