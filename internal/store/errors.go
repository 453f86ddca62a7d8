package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountExists is returned when an attempt to register a new account
	// fails because an account with the same email or wallet address already
	// exists in the database.
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is returned when a query expected to match at least
	// one account record produces an empty result set.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrSessionNotFound is returned when a session lookup or rotation by
	// refresh-token hash matches no live row. After a successful rotation
	// the superseded refresh token always produces this error.
	ErrSessionNotFound = errors.New("session was not found")

	// ErrSessionNotSaved is returned when a session INSERT or UPDATE
	// completes without a driver error but affects zero rows.
	ErrSessionNotSaved = errors.New("session was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
