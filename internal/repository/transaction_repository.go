package repository

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, user_id, type, amount, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now().UTC()
	err := r.db.QueryRow(
		query,
		tx.TransactionID,
		tx.UserID,
		string(tx.Type),
		tx.Amount.String(),
		tx.BalanceAfter.String(),
		now,
	).Scan(&tx.ID)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"transaction_id", tx.TransactionID,
			"user_id", tx.UserID,
			"type", tx.Type,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction created successfully", "transaction_id", tx.TransactionID)
	return nil
}

func (r *transactionRepository) ListTransactions(userID uuid.UUID, filter domain.HistoryFilter, page, limit int) (*domain.HistoryPage, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}

	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM transactions " + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count transactions", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to count transactions").WithDetails(err.Error())
	}

	offset := (page - 1) * limit
	listArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT id, transaction_id, user_id, type, amount, balance_after, created_at
		FROM transactions %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(listQuery, listArgs...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		var tx domain.Transaction
		var typeStr, amountStr, balanceStr string

		if err := rows.Scan(
			&tx.ID,
			&tx.TransactionID,
			&tx.UserID,
			&typeStr,
			&amountStr,
			&balanceStr,
			&tx.CreatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		tx.Type = domain.TransactionType(typeStr)

		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
		}
		if tx.BalanceAfter, err = decimal.NewFromString(balanceStr); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
		}

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to read transactions").WithDetails(err.Error())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &domain.HistoryPage{
		Transactions:      transactions,
		CurrentPage:       page,
		TotalPages:        totalPages,
		TotalTransactions: total,
	}, nil
}
