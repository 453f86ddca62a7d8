package models

import "time"

// Account represents a registered identity used for authentication and
// content-key custody. Sensitive fields must never be exposed outside
// trusted boundaries.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	// It is not exposed via JSON and is used only at the persistence layer.
	AccountID int64 `json:"-"`

	// Email is the unique account identifier used during authentication.
	// Stored lowercased.
	Email string `json:"email"`

	// PasswordHash is the argon2id encoded hash of the account password.
	// Never plaintext, never serialized.
	PasswordHash string `json:"-"`

	// FirstName and LastName are non-sensitive profile fields.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// WalletAddress is the optional lowercased wallet address bound to the
	// account for signature-based login. Empty for password-only accounts.
	WalletAddress string `json:"wallet_address,omitempty"`

	// WrappedContentKey is the base64 form of the envelope-protected
	// content key: nonce(12) || tag(16) || ciphertext. The plaintext key
	// never appears here.
	WrappedContentKey string `json:"-"`

	// MFAEnabled records whether the account opted into multi-factor
	// authentication. Enrollment itself is out of scope.
	MFAEnabled bool `json:"mfa_enabled"`

	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// LastLoginAt is the timestamp of the most recent successful login.
	// Zero until the first login.
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
