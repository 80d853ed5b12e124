package service

import (
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/config"
	"bankledger/internal/domain"
	"bankledger/internal/errors"
	"bankledger/internal/repository"
)

// maxNumberAttempts bounds the account number collision retry loop.
const maxNumberAttempts = 10

type AccountService struct {
	store      *repository.Store
	bankCode   string
	branchCode string
	bankName   string
	logger     *slog.Logger
}

func NewAccountService(store *repository.Store, cfg *config.Config, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:      store,
		bankCode:   cfg.BankCode,
		branchCode: cfg.BranchCode,
		bankName:   cfg.BankName,
		logger:     logger,
	}
}

// GenerateAccountNumber produces a bank-formatted account number that is not
// yet present in the given store: bank code + branch code + random 6-digit
// suffix. Callers inside a transaction pass their transactional store so the
// uniqueness check sees uncommitted inserts from the same scope.
func (s *AccountService) GenerateAccountNumber(store *repository.Store) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		suffix := rand.IntN(900000) + 100000
		candidate := s.bankCode + s.branchCode + formatSuffix(suffix)

		exists, err := store.Account().AccountNumberExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		s.logger.Warn("Account number collision, retrying",
			"attempt", attempt+1, "account_number", candidate)
	}

	s.logger.Error("Account number generation exhausted", "attempts", maxNumberAttempts)
	return "", errors.ErrGenerationExhausted
}

func formatSuffix(n int) string {
	// n is always six digits (100000-999999)
	buf := [6]byte{}
	for i := 5; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[:])
}

// CreateAccountForUser creates the user's single account with a zero balance
// and a freshly generated account number. It writes through the store it is
// given, which is the registration flow's transactional scope.
func (s *AccountService) CreateAccountForUser(store *repository.Store, userID uuid.UUID) (*domain.Account, error) {
	accountNumber, err := s.GenerateAccountNumber(store)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		UserID:        userID,
		AccountNumber: accountNumber,
		BankCode:      s.bankCode,
		BranchCode:    s.branchCode,
		BankName:      s.bankName,
		Balance:       decimal.Zero,
	}

	if err := store.Account().CreateAccount(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created for user",
		"user_id", userID, "account_number", account.AccountNumber)
	return account, nil
}

// GetAccount returns the account owned by the given user.
func (s *AccountService) GetAccount(userID uuid.UUID) (*domain.Account, error) {
	return s.store.Account().GetAccountByUserID(userID)
}
