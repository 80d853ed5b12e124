package handler

import (
	"net/http"

	"bankledger/internal/errors"
	"bankledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type BalanceResponse struct {
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthorized)
		return
	}

	account, err := h.accountService.GetAccount(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := BalanceResponse{
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance.String(),
	}

	writeJSON(w, http.StatusOK, response)
}
