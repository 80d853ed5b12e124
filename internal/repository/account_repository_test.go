package repository

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankledger/internal/domain"
	"bankledger/internal/errors"
)

func newMockRepo(t *testing.T) (SQLExecutor, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, func() { db.Close() }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateAccount_Success(t *testing.T) {
	db, mock, closeFn := newMockRepo(t)
	defer closeFn()

	account := &domain.Account{
		UserID:        uuid.New(),
		AccountNumber: "1345BR123111222",
		BankCode:      "1345",
		BranchCode:    "BR123",
		BankName:      "Bank Ledger",
		Balance:       decimal.Zero,
	}

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(account.UserID, account.AccountNumber, "1345", "BR123", "Bank Ledger", "0", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	repo := NewAccountRepository(db, discardLogger())
	err := repo.CreateAccount(account)

	require.NoError(t, err)
	assert.Equal(t, int64(42), account.ID)
	assert.WithinDuration(t, time.Now(), account.CreatedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_UniqueViolation(t *testing.T) {
	db, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("INSERT INTO accounts").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_accounts_user_id"})

	repo := NewAccountRepository(db, discardLogger())
	err := repo.CreateAccount(&domain.Account{UserID: uuid.New(), Balance: decimal.Zero})

	assert.Equal(t, errors.ErrDuplicateAccount, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByUserID_NotFound(t *testing.T) {
	db, mock, closeFn := newMockRepo(t)
	defer closeFn()

	userID := uuid.New()

	mock.ExpectQuery("SELECT id, user_id, account_number").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "account_number", "bank_code", "branch_code", "bank_name", "balance", "created_at", "updated_at"}))

	repo := NewAccountRepository(db, discardLogger())
	account, err := repo.GetAccountByUserID(userID)

	assert.Nil(t, account)
	assert.Equal(t, errors.ErrAccountNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByUserID_ParsesBalance(t *testing.T) {
	db, mock, closeFn := newMockRepo(t)
	defer closeFn()

	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, user_id, account_number").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "account_number", "bank_code", "branch_code", "bank_name", "balance", "created_at", "updated_at"}).
			AddRow(1, userID, "1345BR123111222", "1345", "BR123", "Bank Ledger", "1234.5600", now, now))

	repo := NewAccountRepository(db, discardLogger())
	account, err := repo.GetAccountByUserID(userID)

	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "1345BR123111222", account.AccountNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAccountBalance_NoRows(t *testing.T) {
	db, mock, closeFn := newMockRepo(t)
	defer closeFn()

	userID := uuid.New()

	mock.ExpectExec("UPDATE accounts").
		WithArgs("100", sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAccountRepository(db, discardLogger())
	err := repo.UpdateAccountBalance(userID, decimal.NewFromInt(100))

	assert.Equal(t, errors.ErrAccountNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountNumberExists(t *testing.T) {
	db, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("1345BR123111222").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewAccountRepository(db, discardLogger())
	exists, err := repo.AccountNumberExists("1345BR123111222")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
