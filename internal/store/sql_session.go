package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

// sqlSessionRepository keeps sessions in the sessions table, keyed by token
// hash. The primary key on token_hash guarantees a token is never issued
// twice.
type sqlSessionRepository struct {
	db     *DB
	tokens TokenGenerator
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewSQLSessionRepository constructs a [SessionRepository] backed by db.
func NewSQLSessionRepository(db *DB, ttl time.Duration, log *logger.Logger) SessionRepository {
	log.Debug().Str("dialect", db.Dialect()).Dur("ttl", ttl).Msg("creating sql session repository")
	return newSQLSessionRepository(db, utils.GenerateToken, ttl, time.Now, log)
}

func newSQLSessionRepository(db *DB, tokens TokenGenerator, ttl time.Duration, now func() time.Time, log *logger.Logger) *sqlSessionRepository {
	return &sqlSessionRepository{
		db:     db,
		tokens: tokens,
		ttl:    ttl,
		now:    now,
		logger: log,
	}
}

func (r *sqlSessionRepository) Issue(ctx context.Context, userID string) (models.Session, error) {
	for range maxTokenAttempts {
		token, err := r.tokens()
		if err != nil {
			return models.Session{}, err
		}

		stored := newStoredSession(utils.HashToken(token), userID, r.now(), r.ttl)
		query, args, err := r.db.insertSessionQuery(stored)
		if err != nil {
			return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		err = r.db.withRetry(ctx, func() error {
			_, execErr := r.db.ExecContext(ctx, query, args...)
			return execErr
		})
		if err == nil {
			return stored.WithToken(token), nil
		}
		if _, dup := r.db.uniqueField(err); dup {
			continue
		}

		logger.FromContext(ctx).Err(err).Str("func", "*sqlSessionRepository.Issue").Msg("error inserting session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return models.Session{}, ErrTokenExhausted
}

func (r *sqlSessionRepository) Resolve(ctx context.Context, token string) (models.Session, bool, error) {
	hash := utils.HashToken(token)

	query, args, err := r.db.selectSessionQuery(hash)
	if err != nil {
		return models.Session{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	stored, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if stored.IsExpiredAt(r.now()) {
		if _, err := r.Revoke(ctx, token); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("failed to drop expired session")
		}
		return models.Session{}, false, nil
	}

	return stored.WithToken(token), true, nil
}

func (r *sqlSessionRepository) Revoke(ctx context.Context, token string) (bool, error) {
	query, args, err := r.db.deleteSessionQuery(utils.HashToken(token))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := r.execCount(ctx, query, args)
	return n > 0, err
}

func (r *sqlSessionRepository) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	query, args, err := r.db.deleteUserSessionsQuery(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := r.execCount(ctx, query, args)
	return int(n), err
}

func (r *sqlSessionRepository) List(ctx context.Context) ([]models.StoredSession, error) {
	query, args, err := r.db.listSessionsQuery(r.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.StoredSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return sessions, nil
}

func (r *sqlSessionRepository) Load(ctx context.Context, sessions []models.StoredSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+models.Session{}.TableName()); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, s := range sessions {
		if s.TokenHash == "" || s.UserID == "" {
			return fmt.Errorf("loading sessions: incomplete record")
		}
		query, args, err := r.db.insertSessionQuery(s)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *sqlSessionRepository) execCount(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := r.db.withRetry(ctx, func() error {
		res, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
