package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/errors"
	"bankledger/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

type MoneyMovementRequest struct {
	Amount json.Number `json:"amount"`
}

type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
	Timestamp     string `json:"timestamp"`
}

func newTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: tx.TransactionID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount.String(),
		BalanceAfter:  tx.BalanceAfter.String(),
		Timestamp:     tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (h *TransactionHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.transactionService.Credit)
}

func (h *TransactionHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.transactionService.Debit)
}

func (h *TransactionHandler) movement(w http.ResponseWriter, r *http.Request, op func(userID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error)) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthorized)
		return
	}

	var req MoneyMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		writeError(w, errors.ErrInvalidAmount)
		return
	}

	transaction, err := op(userID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(transaction))
}

type HistoryResponse struct {
	Transactions      []TransactionResponse `json:"transactions"`
	CurrentPage       int                   `json:"current_page"`
	TotalPages        int                   `json:"total_pages"`
	TotalTransactions int64                 `json:"total_transactions"`
}

func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthorized)
		return
	}

	query := r.URL.Query()
	req := service.HistoryRequest{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Type:      query.Get("type"),
	}

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidInput, "invalid page parameter"))
			return
		}
		req.Page = page
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidInput, "invalid limit parameter"))
			return
		}
		req.Limit = limit
	}

	page, err := h.transactionService.History(userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := HistoryResponse{
		Transactions:      make([]TransactionResponse, 0, len(page.Transactions)),
		CurrentPage:       page.CurrentPage,
		TotalPages:        page.TotalPages,
		TotalTransactions: page.TotalTransactions,
	}
	for _, tx := range page.Transactions {
		response.Transactions = append(response.Transactions, newTransactionResponse(tx))
	}

	writeJSON(w, http.StatusOK, response)
}
