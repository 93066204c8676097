package store

import (
	"database/sql"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-blog-auth/models"
)

var userColumns = []string{
	"id",
	"username",
	"email",
	"phone_number",
	"gender",
	"password_hash",
	"is_admin",
	"created_at",
}

// userKeyColumns hold the folded forms of the case-insensitive unique
// fields. They are written on every insert and update and never selected.
var userKeyColumns = []string{
	"username_key",
	"email_key",
}

var sessionColumns = []string{
	"token_hash",
	"user_id",
	"created_at",
	"expires_at",
}

func (db *DB) insertUserQuery(u models.User) (string, []any, error) {
	return db.builder.
		Insert(models.User{}.TableName()).
		Columns(slices.Concat(userColumns, userKeyColumns)...).
		Values(u.ID, u.Username, u.Email, u.PhoneNumber, string(u.Gender), u.PasswordHash, u.IsAdmin, u.CreatedAt.UTC(),
			foldKey(u.Username), foldKey(u.Email)).
		ToSql()
}

// selectUserQuery selects at most one user matching where.
func (db *DB) selectUserQuery(where sq.Sqlizer) (string, []any, error) {
	return db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		Limit(1).
		ToSql()
}

// userCollisionQuery selects users holding any unique field of u. When
// exceptID is set that record is excluded; otherwise an id collision also
// matches.
func (db *DB) userCollisionQuery(u models.User, exceptID string) (string, []any, error) {
	clash := sq.Or{
		sq.Eq{"username_key": foldKey(u.Username)},
		sq.Eq{"email_key": foldKey(u.Email)},
		sq.Eq{"phone_number": u.PhoneNumber},
	}

	var where sq.Sqlizer = append(clash, sq.Eq{"id": u.ID})
	if exceptID != "" {
		where = sq.And{clash, sq.NotEq{"id": exceptID}}
	}

	return db.builder.
		Select("id", "username", "email", "phone_number").
		From(models.User{}.TableName()).
		Where(where).
		ToSql()
}

func (db *DB) updateUserQuery(u models.User) (string, []any, error) {
	return db.builder.
		Update(models.User{}.TableName()).
		Set("username", u.Username).
		Set("username_key", foldKey(u.Username)).
		Set("email", u.Email).
		Set("email_key", foldKey(u.Email)).
		Set("phone_number", u.PhoneNumber).
		Set("gender", string(u.Gender)).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
}

func (db *DB) setAdminFlagQuery(id string, value bool) (string, []any, error) {
	return db.builder.
		Update(models.User{}.TableName()).
		Set("is_admin", value).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (db *DB) deleteUserQuery(id string) (string, []any, error) {
	return db.builder.
		Delete(models.User{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (db *DB) listUsersQuery() (string, []any, error) {
	return db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		OrderBy("created_at", "id").
		ToSql()
}

func (db *DB) insertSessionQuery(s models.StoredSession) (string, []any, error) {
	return db.builder.
		Insert(models.Session{}.TableName()).
		Columns(sessionColumns...).
		Values(s.TokenHash, s.UserID, s.CreatedAt.UTC(), nullTime(s.ExpiresAt)).
		ToSql()
}

func (db *DB) selectSessionQuery(tokenHash string) (string, []any, error) {
	return db.builder.
		Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
}

func (db *DB) deleteSessionQuery(tokenHash string) (string, []any, error) {
	return db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
}

func (db *DB) deleteUserSessionsQuery(userID string) (string, []any, error) {
	return db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// listSessionsQuery selects the sessions still live at now.
func (db *DB) listSessionsQuery(now time.Time) (string, []any, error) {
	return db.builder.
		Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Or{sq.Eq{"expires_at": nil}, sq.Gt{"expires_at": now.UTC()}}).
		OrderBy("created_at", "token_hash").
		ToSql()
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var gender string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &gender, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return models.User{}, err
	}
	u.Gender = models.Gender(gender)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func scanSession(row rowScanner) (models.StoredSession, error) {
	var s models.StoredSession
	var expiresAt sql.NullTime
	if err := row.Scan(&s.TokenHash, &s.UserID, &s.CreatedAt, &expiresAt); err != nil {
		return models.StoredSession{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	if expiresAt.Valid {
		s.ExpiresAt = expiresAt.Time.UTC()
	}
	return s, nil
}
