package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It handles account creation and lookup against the
// "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with server-assigned fields (AccountID,
// CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrAccountExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount,
		account.Email, account.PasswordHash, account.FirstName, account.LastName,
		account.WalletAddress, account.WrappedContentKey, account.MFAEnabled)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Account{}, ErrAccountExists
		default:
			return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanAccount(row)
	if err != nil {
		if code := postgresError(err); code == pgerrcode.UniqueViolation {
			return models.Account{}, ErrAccountExists
		}
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning error")
		return models.Account{}, err
	}

	return created, nil
}

// FindAccountByEmail retrieves the account whose email matches. Emails are
// stored lowercased, so the caller must normalize before lookup.
func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findAccount(ctx, "*accountRepository.FindAccountByEmail", map[string]any{"email": email})
}

// FindAccountByWallet retrieves the account bound to the given lowercased
// wallet address.
func (r *accountRepository) FindAccountByWallet(ctx context.Context, walletAddress string) (models.Account, error) {
	return r.findAccount(ctx, "*accountRepository.FindAccountByWallet", map[string]any{"wallet_address": walletAddress})
}

// GetAccountByID retrieves the account by its internal identifier.
func (r *accountRepository) GetAccountByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findAccount(ctx, "*accountRepository.GetAccountByID", map[string]any{"account_id": accountID})
}

// UpdateLastLogin stamps the account's last_login_at with the database
// clock. A missing account is reported as [ErrAccountNotFound].
func (r *accountRepository) UpdateLastLogin(ctx context.Context, accountID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, updateLastLogin, accountID)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateLastLogin").Msg("error: executing update")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) findAccount(ctx context.Context, funcName string, predicates map[string]any) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAccountQuery(predicates)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error: building query")
		return models.Account{}, fmt.Errorf("%w: %s", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error: row is nil")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.Account{}, err
	}

	return account, nil
}

func scanAccount(row *sql.Row) (models.Account, error) {
	var account models.Account
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&account.AccountID, &account.Email, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.WalletAddress,
		&account.WrappedContentKey, &account.MFAEnabled,
		&account.CreatedAt, &lastLoginAt)
	if err != nil {
		return models.Account{}, err
	}

	if lastLoginAt.Valid {
		account.LastLoginAt = lastLoginAt.Time
	}

	return account, nil
}
