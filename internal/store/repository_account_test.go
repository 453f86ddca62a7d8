package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/models"
)

func newTestAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &accountRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var accountRows = []string{
	"account_id", "email", "password_hash", "first_name", "last_name",
	"wallet_address", "wrapped_content_key", "mfa_enabled", "created_at", "last_login_at",
}

func TestCreateAccount_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{
		Email:             "john@example.com",
		PasswordHash:      "$argon2id$...",
		FirstName:         "John",
		LastName:          "Smith",
		WrappedContentKey: "bm9uY2V0YWdjaXBoZXJ0ZXh0",
	}

	now := time.Now()

	rows := sqlmock.
		NewRows(accountRows).
		AddRow(1, account.Email, account.PasswordHash, account.FirstName, account.LastName, "", account.WrappedContentKey, false, now, nil)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(account.Email, account.PasswordHash, account.FirstName, account.LastName, "", account.WrappedContentKey, false).
		WillReturnRows(rows)

	created, err := repo.CreateAccount(ctx, account)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.AccountID != 1 {
		t.Errorf("expected AccountID=1, got %d", created.AccountID)
	}
	if created.Email != account.Email {
		t.Errorf("expected email %s, got %s", account.Email, created.Email)
	}
	if !created.LastLoginAt.IsZero() {
		t.Errorf("expected zero LastLoginAt for fresh account, got %v", created.LastLoginAt)
	}
}

func TestCreateAccount_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateAccount(ctx, account)
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestCreateAccount_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateAccount(ctx, account)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindAccountByEmail_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows(accountRows).
		AddRow(7, "john@example.com", "hash", "John", "Smith", "", "wrapped", false, now, now)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email").
		WithArgs("john@example.com").
		WillReturnRows(rows)

	found, err := repo.FindAccountByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.AccountID != 7 {
		t.Errorf("expected AccountID=7, got %d", found.AccountID)
	}
}

func TestFindAccountByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindAccountByEmail(ctx, "missing@example.com")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestFindAccountByWallet_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	wallet := "ab5801a7d398351b8be11c439e05c5b3259aec9b"
	now := time.Now()

	rows := sqlmock.
		NewRows(accountRows).
		AddRow(3, "", "", "", "", wallet, "wrapped", false, now, nil)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE wallet_address").
		WithArgs(wallet).
		WillReturnRows(rows)

	found, err := repo.FindAccountByWallet(ctx, wallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.WalletAddress != wallet {
		t.Errorf("expected wallet %s, got %s", wallet, found.WalletAddress)
	}
}

func TestUpdateLastLogin(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE accounts").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLastLogin(ctx, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateLastLogin_MissingAccount(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE accounts").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateLastLogin(ctx, 99); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
