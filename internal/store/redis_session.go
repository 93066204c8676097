package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

const (
	redisSessionPrefix     = "session:"
	redisUserSessionPrefix = "user_sessions:"
	redisScanBatch         = 100
)

// redisSessionRepository keeps each session as a JSON value under
// session:<token hash> with a Redis TTL, and indexes them per user in the set
// user_sessions:<user id>. Set members may outlive the sessions they name;
// they are pruned by RevokeAllForUser.
type redisSessionRepository struct {
	client *redis.Client
	tokens TokenGenerator
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}

// NewRedisSessionRepository constructs a [SessionRepository] on client.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, log *logger.Logger) SessionRepository {
	log.Debug().Str("addr", client.Options().Addr).Dur("ttl", ttl).Msg("creating redis session repository")
	return newRedisSessionRepository(client, utils.GenerateToken, ttl, time.Now, log)
}

func newRedisSessionRepository(client *redis.Client, tokens TokenGenerator, ttl time.Duration, now func() time.Time, log *logger.Logger) *redisSessionRepository {
	return &redisSessionRepository{
		client: client,
		tokens: tokens,
		ttl:    ttl,
		now:    now,
		logger: log,
	}
}

func sessionKey(tokenHash string) string {
	return redisSessionPrefix + tokenHash
}

func userSessionsKey(userID string) string {
	return redisUserSessionPrefix + userID
}

func (r *redisSessionRepository) Issue(ctx context.Context, userID string) (models.Session, error) {
	for range maxTokenAttempts {
		token, err := r.tokens()
		if err != nil {
			return models.Session{}, err
		}

		stored := newStoredSession(utils.HashToken(token), userID, r.now(), r.ttl)
		payload, err := json.Marshal(stored)
		if err != nil {
			return models.Session{}, err
		}

		created, err := r.client.SetNX(ctx, sessionKey(stored.TokenHash), payload, r.expiry()).Result()
		if err != nil {
			return models.Session{}, fmt.Errorf("redis setnx: %w", err)
		}
		if !created {
			continue
		}

		if err := r.client.SAdd(ctx, userSessionsKey(userID), stored.TokenHash).Err(); err != nil {
			return models.Session{}, fmt.Errorf("redis sadd: %w", err)
		}

		return stored.WithToken(token), nil
	}

	return models.Session{}, ErrTokenExhausted
}

func (r *redisSessionRepository) Resolve(ctx context.Context, token string) (models.Session, bool, error) {
	hash := utils.HashToken(token)

	stored, ok, err := r.get(ctx, hash)
	if err != nil || !ok {
		return models.Session{}, false, err
	}

	if stored.IsExpiredAt(r.now()) {
		if err := r.client.Del(ctx, sessionKey(hash)).Err(); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("failed to drop expired session")
		}
		return models.Session{}, false, nil
	}

	return stored.WithToken(token), true, nil
}

func (r *redisSessionRepository) Revoke(ctx context.Context, token string) (bool, error) {
	hash := utils.HashToken(token)

	stored, ok, err := r.get(ctx, hash)
	if err != nil || !ok {
		return false, err
	}

	removed, err := r.client.Del(ctx, sessionKey(hash)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	if err := r.client.SRem(ctx, userSessionsKey(stored.UserID), hash).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to update user session index")
	}

	return removed > 0, nil
}

func (r *redisSessionRepository) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	hashes, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis smembers: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, sessionKey(h))
	}

	var removed int64
	if len(keys) > 0 {
		removed, err = r.client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("redis del: %w", err)
		}
	}
	if err := r.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return int(removed), fmt.Errorf("redis del: %w", err)
	}

	return int(removed), nil
}

func (r *redisSessionRepository) List(ctx context.Context) ([]models.StoredSession, error) {
	keys, err := r.scan(ctx, redisSessionPrefix+"*")
	if err != nil {
		return nil, err
	}

	now := r.now()
	sessions := make([]models.StoredSession, 0, len(keys))
	for _, key := range keys {
		stored, ok, err := r.get(ctx, key[len(redisSessionPrefix):])
		if err != nil {
			return nil, err
		}
		if ok && !stored.IsExpiredAt(now) {
			sessions = append(sessions, stored)
		}
	}
	sortSessions(sessions)

	return sessions, nil
}

func (r *redisSessionRepository) Load(ctx context.Context, sessions []models.StoredSession) error {
	stale, err := r.scan(ctx, redisSessionPrefix+"*")
	if err != nil {
		return err
	}
	indexes, err := r.scan(ctx, redisUserSessionPrefix+"*")
	if err != nil {
		return err
	}

	now := r.now()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if keys := append(stale, indexes...); len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		for _, s := range sessions {
			if s.TokenHash == "" || s.UserID == "" {
				return fmt.Errorf("loading sessions: incomplete record")
			}
			if s.IsExpiredAt(now) {
				continue
			}
			payload, err := json.Marshal(s)
			if err != nil {
				return err
			}
			var ttl time.Duration
			if !s.ExpiresAt.IsZero() {
				ttl = s.ExpiresAt.Sub(now)
			}
			pipe.Set(ctx, sessionKey(s.TokenHash), payload, ttl)
			pipe.SAdd(ctx, userSessionsKey(s.UserID), s.TokenHash)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis load: %w", err)
	}

	return nil
}

func (r *redisSessionRepository) get(ctx context.Context, hash string) (models.StoredSession, bool, error) {
	payload, err := r.client.Get(ctx, sessionKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.StoredSession{}, false, nil
	}
	if err != nil {
		return models.StoredSession{}, false, fmt.Errorf("redis get: %w", err)
	}

	var stored models.StoredSession
	if err := json.Unmarshal(payload, &stored); err != nil {
		return models.StoredSession{}, false, fmt.Errorf("decoding session: %w", err)
	}

	return stored, true, nil
}

func (r *redisSessionRepository) scan(ctx context.Context, match string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, match, redisScanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}

func (r *redisSessionRepository) expiry() time.Duration {
	if r.ttl > 0 {
		return r.ttl
	}
	return 0
}
