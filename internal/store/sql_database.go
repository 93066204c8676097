package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/migrations"
)

// SQL dialect names, matching the goose dialects used for migrations.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const (
	retryAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps a *sql.DB with the dialect-specific pieces the repositories need:
// a squirrel statement builder with the right placeholder format, an error
// classifier and the unique-violation detector.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	uniqueConstraint   func(err error) (string, bool)
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect string, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		logger:  log,
	}

	switch dialect {
	case DialectPostgres:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.errorClassificator = NewPostgresErrorClassifier()
		db.uniqueConstraint = postgresUniqueConstraint
	default:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.errorClassificator = NewSQLiteErrorClassifier()
		db.uniqueConstraint = sqliteUniqueConstraint
	}

	return db
}

// Dialect returns the goose dialect of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// withRetry runs op, repeating it while the classifier reports the failure
// as transient.
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = op()
		if err == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContext(ctx).Warn().Err(err).Int("attempt", attempt).Msg("retrying database operation")

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", retryAttempts, err)
}

// uniqueField maps a unique-constraint violation to the user field it
// guards. ok is false for any other error.
func (db *DB) uniqueField(err error) (string, bool) {
	constraint, ok := db.uniqueConstraint(err)
	if !ok {
		return "", false
	}

	switch {
	case containsFold(constraint, "username"):
		return FieldUsername, true
	case containsFold(constraint, "email"):
		return FieldEmail, true
	case containsFold(constraint, "phone"):
		return FieldPhoneNumber, true
	default:
		return FieldID, true
	}
}
