package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createAccount = `INSERT INTO accounts (email, password_hash, first_name, last_name, wallet_address, wrapped_content_key, mfa_enabled)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING account_id, email, password_hash, first_name, last_name, wallet_address, wrapped_content_key, mfa_enabled, created_at, last_login_at;`

	updateLastLogin = `UPDATE accounts
    SET last_login_at = NOW()
    WHERE account_id = $1;`

	createSession = `INSERT INTO sessions (account_id, access_token_hash, refresh_token_hash, ip_address, user_agent, expires_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING session_id, account_id, access_token_hash, refresh_token_hash, ip_address, user_agent, expires_at, created_at, updated_at;`

	// Rotation matches by the old refresh-token hash and overwrites both
	// hashes in a single statement. After it commits, the superseded
	// refresh token matches no row.
	rotateSession = `UPDATE sessions
    SET access_token_hash = $1, refresh_token_hash = $2, expires_at = $3, updated_at = NOW()
    WHERE refresh_token_hash = $4 AND expires_at > NOW()
    RETURNING session_id, account_id, access_token_hash, refresh_token_hash, ip_address, user_agent, expires_at, created_at, updated_at;`

	findSessionByRefreshHash = `SELECT session_id, account_id, access_token_hash, refresh_token_hash, ip_address, user_agent, expires_at, created_at, updated_at
    FROM sessions
    WHERE refresh_token_hash = $1 AND expires_at > NOW();`

	deleteSessionsByAccount = `DELETE FROM sessions
    WHERE account_id = $1;`

	deleteExpiredSessions = `DELETE FROM sessions
    WHERE expires_at <= NOW();`

	countActiveSessions = `SELECT COUNT(*) FROM sessions
    WHERE expires_at > NOW();`
)

var accountColumns = []string{
	"account_id",
	"email",
	"password_hash",
	"first_name",
	"last_name",
	"wallet_address",
	"wrapped_content_key",
	"mfa_enabled",
	"created_at",
	"last_login_at",
}

// psql is the statement builder configured for PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildSelectAccountQuery builds a SELECT over the accounts table filtered
// by the given column/value predicates.
func buildSelectAccountQuery(predicates map[string]any) (string, []any, error) {
	builder := psql.Select(accountColumns...).From("accounts")
	for column, value := range predicates {
		builder = builder.Where(sq.Eq{column: value})
	}

	return builder.ToSql()
}
