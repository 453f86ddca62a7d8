package service

import (
	"context"

	"github.com/cryptguard/cryptguard/internal/attest"
	"github.com/cryptguard/cryptguard/internal/session"
	"github.com/cryptguard/cryptguard/internal/store"
	"github.com/cryptguard/cryptguard/models"
)

// ClientCryptoService holds the in-memory content key for the client process
// and performs all key derivation and payload encryption around it. The key
// only ever lives in process memory; Clear must be called on logout so no
// secret material outlives the session.
type ClientCryptoService interface {
	// DeriveFromPassword deterministically derives the 32-byte content key
	// from the account password, salted with the normalized email.
	DeriveFromPassword(password, email string) ([]byte, error)

	// DeriveFromWalletSignature derives the content key from a wallet
	// signature over the fixed challenge message, salted with the
	// normalized wallet address. The signature stands in for a password,
	// so no key material is ever persisted anywhere.
	DeriveFromWalletSignature(signature, address string) ([]byte, error)

	// PrepareRegistration derives the content key from password and email
	// and envelope-protects it under a second key derived with a distinct
	// salt, so the registration payload only ever carries an opaque blob.
	PrepareRegistration(password, email string) (contentKey []byte, wrapped string, err error)

	// WrapContentKey envelope-protects plainKey under wrappingKey and
	// returns the base64 form suitable for the registration payload.
	WrapContentKey(plainKey, wrappingKey []byte) (string, error)

	// UnwrapContentKey reverses WrapContentKey. Tampering or a wrong
	// wrapping key fails with an error wrapping [crypto.ErrIntegrity].
	UnwrapContentKey(encoded string, wrappingKey []byte) ([]byte, error)

	// SetContentKey installs the session content key for subsequent
	// EncryptFile/DecryptFile calls.
	SetContentKey(key []byte)

	// HasContentKey reports whether a content key is currently installed.
	HasContentKey() bool

	// Clear zeroes and drops the installed content key.
	Clear()

	// EncryptFile encrypts plain under the installed content key with a
	// fresh random IV. Returns [ErrNoContentKey] when no key is installed.
	EncryptFile(plain []byte) (ciphertext, iv []byte, err error)

	// DecryptFile reverses EncryptFile. Cipher-level failures surface as
	// errors wrapping [crypto.ErrDecryption].
	DecryptFile(ciphertext, iv []byte) ([]byte, error)

	// VerifyDownload checks payload against the ledger-attested hash for
	// ref. Verification is best-effort: only [attest.Mismatch] should
	// block the download.
	VerifyDownload(ctx context.Context, ref string, payload []byte) attest.Result
}

// ClientAuthService drives the client session lifecycle: establishing a
// session against the server, deriving the content key from the login
// secret, and running the inactivity timer. A failed refresh storm or timer
// expiry tears the whole session down exactly once.
type ClientAuthService interface {
	// Register creates an account, installs the derived content key, and
	// starts the session timer.
	Register(ctx context.Context, email, password, firstName, lastName string) (models.Account, error)

	// LoginWithPassword authenticates with email and password.
	LoginWithPassword(ctx context.Context, email, password string) (models.Account, error)

	// LoginWithWallet authenticates with a wallet signature over the fixed
	// challenge message.
	LoginWithWallet(ctx context.Context, address, signature string) (models.Account, error)

	// Resume restores the persisted inactivity window from a previous run.
	// Tokens and keys are never persisted, so a resumed session still needs
	// a login before authenticated calls succeed.
	Resume(ctx context.Context) (store.LocalSessionState, bool, error)

	// Logout revokes the server session, clears the content key, and stops
	// the timer. Local teardown happens even when the server call fails.
	Logout(ctx context.Context) error

	// Timer exposes the session timer for activity recording and the
	// tick loop.
	Timer() *session.Timer
}
