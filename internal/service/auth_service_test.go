package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bankledger/internal/config"
	"bankledger/internal/errors"
	"bankledger/internal/repository"
)

func newAuthService(store *repository.Store) *AuthService {
	cfg := &config.Config{
		BankCode:   "1345",
		BranchCode: "BR123",
		BankName:   "Bank Ledger",
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accountService := NewAccountService(store, cfg, logger)
	return NewAuthService(store, accountService, cfg, logger)
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "created_at"}
}

func TestRegister_Success(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	email := gofakeit.Email()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), email, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	svc := newAuthService(store)
	result, err := svc.Register(RegisterRequest{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "securePass123",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.User.ID)
	assert.True(t, result.Account.Balance.IsZero())
	assert.NotEmpty(t, result.Account.AccountNumber)
	// The stored hash must verify against the original password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("securePass123")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	email := gofakeit.Email()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(uuid.New(), "Existing", email, "hash", time.Now()))

	svc := newAuthService(store)
	_, err := svc.Register(RegisterRequest{Name: "New", Email: email, Password: "password1"})

	assert.Equal(t, errors.ErrDuplicateEmail, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_AccountInsertFailureRollsBack(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	email := gofakeit.Email()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO accounts").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	svc := newAuthService(store)
	_, err := svc.Register(RegisterRequest{Name: "New", Email: email, Password: "password1"})

	require.Error(t, err)
	// The user insert was rolled back together with the account insert.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	email := gofakeit.Email()
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("securePass123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(userID, "Jo", email, string(hash), time.Now()))
	mock.ExpectQuery("SELECT id, user_id, account_number").
		WithArgs(userID).
		WillReturnRows(accountRow(userID, "0"))

	svc := newAuthService(store)
	result, err := svc.Login(email, "securePass123")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "1345BR123654321", result.AccountNumber)

	// The issued token round-trips through verification to the same owner.
	verifiedID, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, verifiedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	email := gofakeit.Email()
	hash, err := bcrypt.GenerateFromPassword([]byte("rightPassword"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(uuid.New(), "Jo", email, string(hash), time.Now()))

	svc := newAuthService(store)
	_, err = svc.Login(email, "wrongPassword")

	assert.Equal(t, errors.ErrInvalidCredentials, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	email := gofakeit.Email()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	svc := newAuthService(store)
	_, err := svc.Login(email, "whatever")

	// Unknown email fails the same way as a wrong password.
	assert.Equal(t, errors.ErrInvalidCredentials, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyToken_Invalid(t *testing.T) {
	store, _, closeFn := newMockStore(t)
	defer closeFn()

	svc := newAuthService(store)

	_, err := svc.VerifyToken("not-a-token")
	assert.Equal(t, errors.ErrUnauthorized, err)
}
