package models

import "time"

// Session is one row per issued credential pair. A refresh rotates both
// token hashes in place; logout or the expiry sweep deletes the row.
// Only keyed hashes of the tokens are stored, never the tokens themselves.
type Session struct {
	// SessionID is the internal unique identifier of the session row.
	SessionID int64 `json:"-"`

	// AccountID is the owning account.
	AccountID int64 `json:"-"`

	// AccessTokenHash and RefreshTokenHash are hex-encoded HMAC-SHA256
	// digests of the issued tokens. Both are overwritten atomically on
	// every refresh so the superseded refresh token stops matching any row.
	AccessTokenHash  string `json:"-"`
	RefreshTokenHash string `json:"-"`

	// IPAddress and UserAgent record the origin of the login or refresh
	// that produced the current pair.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`

	// ExpiresAt bounds the refresh chain. Rows past this instant are
	// ignored by lookups and removed by the session sweep worker.
	ExpiresAt time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
