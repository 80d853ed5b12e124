package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID            int64           `json:"-"`
	UserID        uuid.UUID       `json:"user_id"`
	AccountNumber string          `json:"account_number"`
	BankCode      string          `json:"bank_code"`
	BranchCode    string          `json:"branch_code"`
	BankName      string          `json:"bank_name"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccountByUserID(userID uuid.UUID) (*Account, error)
	// GetAccountByUserIDForUpdate locks the account row for the duration of the
	// enclosing transaction. Must only be called through a transactional Store.
	GetAccountByUserIDForUpdate(userID uuid.UUID) (*Account, error)
	UpdateAccountBalance(userID uuid.UUID, newBalance decimal.Decimal) error
	AccountNumberExists(accountNumber string) (bool, error)
}
