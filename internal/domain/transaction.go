package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "Credit"
	TransactionTypeDebit  TransactionType = "Debit"
)

// Transaction is an immutable ledger entry recording one completed credit or
// debit. BalanceAfter is the account balance after this entry was applied.
type Transaction struct {
	ID            int64           `json:"-"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HistoryFilter bounds a transaction history query. Date bounds are inclusive;
// a zero time means no bound. Type is nil for both credit and debit entries.
type HistoryFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Type      *TransactionType
}

type HistoryPage struct {
	Transactions      []*Transaction `json:"transactions"`
	CurrentPage       int            `json:"current_page"`
	TotalPages        int            `json:"total_pages"`
	TotalTransactions int64          `json:"total_transactions"`
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	ListTransactions(userID uuid.UUID, filter HistoryFilter, page, limit int) (*HistoryPage, error)
}
