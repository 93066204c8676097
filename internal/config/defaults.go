// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Default values applied by [StructuredConfig.applyDefaults].
const (
	DefaultLogLevel         = "debug"
	DefaultHashAlgorithm    = HashBcrypt
	DefaultBcryptCost       = 12
	DefaultSessionTTL       = 7 * 24 * time.Hour
	DefaultCookieName       = "session"
	DefaultRootAdminID      = "admin-1"
	DefaultDriver           = DriverMemory
	DefaultHTTPAddress      = "localhost:8080"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultSnapshotInterval = time.Minute
	DefaultCascadeQueue     = CascadeLog
)

// Recognised enumerated values.
const (
	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionsMemory = "memory"
	SessionsSQL    = "sql"
	SessionsRedis  = "redis"

	CascadeLog   = "log"
	CascadeAsynq = "asynq"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = DefaultLogLevel
	}
	if cfg.App.HashAlgorithm == "" {
		cfg.App.HashAlgorithm = DefaultHashAlgorithm
	}
	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = DefaultBcryptCost
	}
	if cfg.App.SessionTTL == 0 {
		cfg.App.SessionTTL = DefaultSessionTTL
	}
	if cfg.App.CookieName == "" {
		cfg.App.CookieName = DefaultCookieName
	}
	if cfg.App.RootAdminID == "" {
		cfg.App.RootAdminID = DefaultRootAdminID
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultDriver
	}
	if cfg.Storage.Sessions.Backend == "" {
		if cfg.Storage.Driver == DriverMemory {
			cfg.Storage.Sessions.Backend = SessionsMemory
		} else {
			cfg.Storage.Sessions.Backend = SessionsSQL
		}
	}
	if cfg.Storage.Snapshot.Interval == 0 {
		cfg.Storage.Snapshot.Interval = DefaultSnapshotInterval
	}

	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Workers.CascadeQueue == "" {
		cfg.Workers.CascadeQueue = DefaultCascadeQueue
	}
}
