package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
)

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), config.Storage{
		Driver:   config.DriverMemory,
		Sessions: config.Sessions{Backend: config.SessionsMemory},
	}, time.Hour, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &memoryUserRepository{}, s.Users)
	assert.IsType(t, &memorySessionRepository{}, s.Sessions)
	assert.False(t, s.Durable)

	users, sessions := s.Volatile()
	assert.Same(t, s.Users, users)
	assert.Same(t, s.Sessions, sessions)
}

func TestNewStorages_SQLiteWithSQLSessions(t *testing.T) {
	s, err := NewStorages(context.Background(), config.Storage{
		Driver:   config.DriverSQLite,
		DB:       config.DB{DSN: filepath.Join(t.TempDir(), "blog.db")},
		Sessions: config.Sessions{Backend: config.SessionsSQL},
	}, time.Hour, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &sqlUserRepository{}, s.Users)
	assert.IsType(t, &sqlSessionRepository{}, s.Sessions)
	assert.True(t, s.Durable)

	users, sessions := s.Volatile()
	assert.Nil(t, users)
	assert.Nil(t, sessions)

	ctx := context.Background()
	u, err := s.Users.Create(ctx, alice())
	require.NoError(t, err)
	sess, err := s.Sessions.Issue(ctx, u.ID)
	require.NoError(t, err)

	got, ok, err := s.Sessions.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, got.UserID)
}

func TestNewStorages_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewStorages(context.Background(), config.Storage{
		Driver:   config.DriverMemory,
		Sessions: config.Sessions{Backend: config.SessionsRedis, RedisAddress: mr.Addr()},
	}, time.Hour, logger.Nop())
	require.NoError(t, err)

	assert.IsType(t, &redisSessionRepository{}, s.Sessions)
	assert.False(t, s.Durable)

	users, sessions := s.Volatile()
	assert.Same(t, s.Users, users)
	assert.Nil(t, sessions)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestNewStorages_SnapshotSparesTheDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{
		Driver:   config.DriverSQLite,
		DB:       config.DB{DSN: filepath.Join(t.TempDir(), "blog.db")},
		Sessions: config.Sessions{Backend: config.SessionsMemory},
	}
	path := filepath.Join(t.TempDir(), "blog.json")

	first, err := NewStorages(ctx, cfg, time.Hour, logger.Nop())
	require.NoError(t, err)
	require.False(t, first.Durable)

	users, sessions := first.Volatile()
	require.Nil(t, users)
	require.NoError(t, SaveSnapshot(ctx, path, users, sessions))

	late, err := first.Users.Create(ctx, alice())
	require.NoError(t, err)
	issued, err := first.Sessions.Issue(ctx, late.ID)
	require.NoError(t, err)
	require.NoError(t, SaveSnapshot(ctx, path, users, sessions))
	require.NoError(t, first.Close())

	second, err := NewStorages(ctx, cfg, time.Hour, logger.Nop())
	require.NoError(t, err)
	defer second.Close()

	users, sessions = second.Volatile()
	ok, err := RestoreSnapshot(ctx, path, users, sessions)
	require.NoError(t, err)
	require.True(t, ok)

	_, found, err := second.Users.FindByID(ctx, late.ID)
	require.NoError(t, err)
	assert.True(t, found, "users committed to the database survive a restore")

	got, found, err := second.Sessions.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, late.ID, got.UserID)
}

func TestNewStorages_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Storage
	}{
		{
			name: "unknown driver",
			cfg:  config.Storage{Driver: "oracle"},
		},
		{
			name: "sql sessions without sql driver",
			cfg:  config.Storage{Driver: config.DriverMemory, Sessions: config.Sessions{Backend: config.SessionsSQL}},
		},
		{
			name: "unknown session backend",
			cfg:  config.Storage{Driver: config.DriverMemory, Sessions: config.Sessions{Backend: "memcached"}},
		},
		{
			name: "unreachable redis",
			cfg:  config.Storage{Driver: config.DriverMemory, Sessions: config.Sessions{Backend: config.SessionsRedis, RedisAddress: "127.0.0.1:1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStorages(context.Background(), tt.cfg, time.Hour, logger.Nop())
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}
