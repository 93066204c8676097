// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/models"
)

// sqlUserRepository is the SQL implementation of [UserRepository] for both
// PostgreSQL and SQLite. Uniqueness is checked with a collision query under
// the repository mutex; the unique indexes created by the migrations are the
// last line of defence and their violations are mapped to the same
// *UniquenessError.
type sqlUserRepository struct {
	mu     sync.Mutex
	db     *DB
	ids    IDGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewSQLUserRepository constructs a [UserRepository] backed by db.
func NewSQLUserRepository(db *DB, ids IDGenerator, log *logger.Logger) UserRepository {
	log.Debug().Str("dialect", db.Dialect()).Msg("creating sql user repository")
	return &sqlUserRepository{
		db:     db,
		ids:    ids,
		now:    time.Now,
		logger: log,
	}
}

func (r *sqlUserRepository) Create(ctx context.Context, candidate models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := checkShape(candidate); err != nil {
		return models.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if candidate.ID == "" {
		candidate.ID = r.ids.Generate()
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = r.now().UTC()
	}

	if err := r.checkCollision(ctx, candidate, ""); err != nil {
		return models.User{}, err
	}

	query, args, err := r.db.insertUserQuery(candidate)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.withRetry(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		if field, ok := r.db.uniqueField(err); ok {
			return models.User{}, &UniquenessError{Field: field}
		}
		log.Err(err).Str("func", "*sqlUserRepository.Create").Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return candidate, nil
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id string) (models.User, bool, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	return r.findOne(ctx, sq.Eq{"username_key": foldKey(username)})
}

func (r *sqlUserRepository) FindByEmail(ctx context.Context, email string) (models.User, bool, error) {
	return r.findOne(ctx, sq.Eq{"email_key": foldKey(email)})
}

func (r *sqlUserRepository) FindByPhone(ctx context.Context, phone string) (models.User, bool, error) {
	return r.findOne(ctx, sq.Eq{"phone_number": phone})
}

func (r *sqlUserRepository) findOne(ctx context.Context, where sq.Sqlizer) (models.User, bool, error) {
	query, args, err := r.db.selectUserQuery(where)
	if err != nil {
		return models.User{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sqlUserRepository.findOne").Msg("error selecting user")
		return models.User{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, true, nil
}

func (r *sqlUserRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok, err := r.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	updated := upd.Apply(current)
	if err := checkShape(updated); err != nil {
		return models.User{}, err
	}
	if err := r.checkCollision(ctx, updated, id); err != nil {
		return models.User{}, err
	}

	query, args, err := r.db.updateUserQuery(updated)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.withRetry(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		if field, ok := r.db.uniqueField(err); ok {
			return models.User{}, &UniquenessError{Field: field}
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return updated, nil
}

func (r *sqlUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := r.db.deleteUserQuery(id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execAffecting(ctx, query, args)
}

func (r *sqlUserRepository) SetAdminFlag(ctx context.Context, id string, value bool) (bool, error) {
	query, args, err := r.db.setAdminFlagQuery(id, value)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execAffecting(ctx, query, args)
}

func (r *sqlUserRepository) List(ctx context.Context) ([]models.User, error) {
	query, args, err := r.db.listUsersQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return users, nil
}

func (r *sqlUserRepository) Load(ctx context.Context, users []models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+models.User{}.TableName()); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, u := range users {
		query, args, err := r.db.insertUserQuery(u)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if field, ok := r.db.uniqueField(err); ok {
				return fmt.Errorf("loading user %s: %w", u.ID, &UniquenessError{Field: field})
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// checkCollision returns a *UniquenessError when another user already holds a
// unique field of u.
func (r *sqlUserRepository) checkCollision(ctx context.Context, u models.User, exceptID string) error {
	query, args, err := r.db.userCollisionQuery(u, exceptID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var other models.User
		if err := rows.Scan(&other.ID, &other.Username, &other.Email, &other.PhoneNumber); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if exceptID == "" && other.ID == u.ID {
			return &UniquenessError{Field: FieldID}
		}
		if field := collision(u, other); field != "" {
			return &UniquenessError{Field: field}
		}
	}

	return rows.Err()
}

func (r *sqlUserRepository) execAffecting(ctx context.Context, query string, args []any) (bool, error) {
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
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}
