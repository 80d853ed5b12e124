package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/errors"
	"bankledger/internal/repository"
)

const (
	defaultHistoryPage  = 1
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type TransactionService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewTransactionService(store *repository.Store, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

// Credit adds amount to the owner's balance and appends the matching ledger
// entry in one atomic scope. The returned entry's BalanceAfter is the balance
// after the credit was applied.
func (s *TransactionService) Credit(userID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.process(userID, amount, domain.TransactionTypeCredit)
}

// Debit subtracts amount from the owner's balance, failing with
// insufficient_balance when the amount exceeds the current balance. The
// balance write and the ledger append share one atomic scope.
func (s *TransactionService) Debit(userID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.process(userID, amount, domain.TransactionTypeDebit)
}

func (s *TransactionService) process(userID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType) (*domain.Transaction, error) {
	s.logger.Info("Processing transaction", "user_id", userID, "type", txType, "amount", amount)

	// Validation happens before any write is attempted.
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	entry := &domain.Transaction{
		TransactionID: uuid.New(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
	}

	err := s.store.WithTransaction(func(tx *repository.Store) error {
		// The locked read serializes concurrent mutations of one account:
		// a second credit or debit for the same owner blocks here until
		// this scope commits or rolls back.
		account, err := tx.Account().GetAccountByUserIDForUpdate(userID)
		if err != nil {
			return err
		}

		var newBalance decimal.Decimal
		switch txType {
		case domain.TransactionTypeCredit:
			newBalance = account.Balance.Add(amount)
		case domain.TransactionTypeDebit:
			if amount.GreaterThan(account.Balance) {
				return errors.ErrInsufficientBalance
			}
			newBalance = account.Balance.Sub(amount)
		default:
			return errors.NewAppErrorf(errors.InternalError, "unknown transaction type %q", txType)
		}

		if err := tx.Account().UpdateAccountBalance(userID, newBalance); err != nil {
			return err
		}

		// Recorded after the mutation: the ledger snapshot must equal the
		// balance the account holds once this entry is committed.
		entry.BalanceAfter = newBalance
		return tx.Transaction().CreateTransaction(entry)
	})

	if err != nil {
		s.logger.Warn("Transaction aborted", "user_id", userID, "type", txType, "error", err)
		return nil, err
	}

	s.logger.Info("Transaction committed",
		"transaction_id", entry.TransactionID,
		"user_id", userID,
		"type", txType,
		"balance_after", entry.BalanceAfter)
	return entry, nil
}

// HistoryRequest carries raw history query parameters as received at the
// boundary. Dates are YYYY-MM-DD (RFC 3339 also accepted); zero values take
// the documented defaults.
type HistoryRequest struct {
	StartDate string
	EndDate   string
	Type      string
	Page      int
	Limit     int
}

// History returns a page of the owner's ledger entries, most recent first.
func (s *TransactionService) History(userID uuid.UUID, req HistoryRequest) (*domain.HistoryPage, error) {
	filter, err := buildHistoryFilter(req)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = defaultHistoryPage
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return s.store.Transaction().ListTransactions(userID, filter, page, limit)
}

func buildHistoryFilter(req HistoryRequest) (domain.HistoryFilter, error) {
	var filter domain.HistoryFilter

	if req.StartDate != "" {
		start, _, err := parseHistoryDate(req.StartDate)
		if err != nil {
			return filter, errors.NewAppErrorf(errors.InvalidInput, "invalid startDate %q", req.StartDate)
		}
		filter.StartDate = start
	}

	if req.EndDate != "" {
		end, dateOnly, err := parseHistoryDate(req.EndDate)
		if err != nil {
			return filter, errors.NewAppErrorf(errors.InvalidInput, "invalid endDate %q", req.EndDate)
		}
		if dateOnly {
			// Inclusive through the end of the given day.
			end = end.Add(24*time.Hour - time.Millisecond)
		}
		filter.EndDate = end
	}

	switch req.Type {
	case "":
	case string(domain.TransactionTypeCredit):
		t := domain.TransactionTypeCredit
		filter.Type = &t
	case string(domain.TransactionTypeDebit):
		t := domain.TransactionTypeDebit
		filter.Type = &t
	default:
		return filter, errors.NewAppErrorf(errors.InvalidInput, "invalid type %q", req.Type)
	}

	return filter, nil
}

func parseHistoryDate(value string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), true, nil
	}
	if t, err = time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, err
}
