package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (user_id, account_number, bank_code, branch_code, bank_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now().UTC()
	err := r.db.QueryRow(
		query,
		account.UserID,
		account.AccountNumber,
		account.BankCode,
		account.BranchCode,
		account.BankName,
		account.Balance.String(),
		now,
		now,
	).Scan(&account.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate account creation attempt",
					"user_id", account.UserID, "constraint", pqErr.Constraint)
				return errors.ErrDuplicateAccount
			}
		}
		r.logger.Error("Failed to create account", "user_id", account.UserID, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	r.logger.Info("Account created successfully",
		"user_id", account.UserID, "account_number", account.AccountNumber)
	return nil
}

func (r *accountRepository) GetAccountByUserID(userID uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, account_number, bank_code, branch_code, bank_name, balance, created_at, updated_at
		FROM accounts WHERE user_id = $1
	`

	return r.scanAccount(query, userID)
}

func (r *accountRepository) GetAccountByUserIDForUpdate(userID uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, account_number, bank_code, branch_code, bank_name, balance, created_at, updated_at
		FROM accounts WHERE user_id = $1 FOR UPDATE
	`

	return r.scanAccount(query, userID)
}

func (r *accountRepository) scanAccount(query string, userID uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	err := r.db.QueryRow(query, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.BankCode,
		&account.BranchCode,
		&account.BankName,
		&balanceStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "user_id", userID)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "user_id", userID, "balance_str", balanceStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
	}

	account.Balance = balance
	return &account, nil
}

func (r *accountRepository) UpdateAccountBalance(userID uuid.UUID, newBalance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := r.db.Exec(query, newBalance.String(), time.Now().UTC(), userID)
	if err != nil {
		r.logger.Error("Failed to update account balance", "user_id", userID, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update account balance").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "user_id", userID)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Account balance updated", "user_id", userID, "new_balance", newBalance)
	return nil
}

func (r *accountRepository) AccountNumberExists(accountNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.db.QueryRow(query, accountNumber).Scan(&exists); err != nil {
		r.logger.Error("Failed to check account number", "account_number", accountNumber, "error", err)
		return false, errors.NewAppError(errors.InternalError, "failed to check account number").WithDetails(err.Error())
	}

	return exists, nil
}
