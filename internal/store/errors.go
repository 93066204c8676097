package store

import (
	"errors"
	"fmt"
)

// Unique field names reported by *UniquenessError.
const (
	FieldID          = "id"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPhoneNumber = "phoneNumber"
)

var (
	// ErrUniqueness is the kind sentinel matched by every *UniquenessError.
	ErrUniqueness = errors.New("uniqueness violation")

	// ErrUserNotFound is returned by Update when the target does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProtectedAccount is returned when deleting or demoting the root
	// admin.
	ErrProtectedAccount = errors.New("protected account")

	// ErrTokenExhausted is returned when the token generator keeps producing
	// tokens that were already issued.
	ErrTokenExhausted = errors.New("could not generate a unique session token")

	// ErrSnapshotVersion is returned when a snapshot file has an unknown
	// format version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)

// UniquenessError reports which unique field collided with an existing user.
type UniquenessError struct {
	Field string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s already taken", e.Field)
}

// Is lets errors.Is(err, ErrUniqueness) match any *UniquenessError.
func (e *UniquenessError) Is(target error) bool {
	return target == ErrUniqueness
}

// Low-level database operation errors. These wrap the driver error when a
// SQL-level operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when a transaction cannot start.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
