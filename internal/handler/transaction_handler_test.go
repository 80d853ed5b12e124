package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankledger/internal/repository"
	"bankledger/internal/service"
)

func newTransactionHandler(t *testing.T) (*TransactionHandler, func()) {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewStore(db, logger)
	svc := service.NewTransactionService(store, logger)
	return NewTransactionHandler(svc), func() { db.Close() }
}

func TestCredit_MissingIdentity(t *testing.T) {
	h, closeFn := newTransactionHandler(t)
	defer closeFn()

	req := httptest.NewRequest("POST", "/transactions/credit", strings.NewReader(`{"amount": 100}`))
	rec := httptest.NewRecorder()

	h.Credit(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCredit_MalformedBody(t *testing.T) {
	h, closeFn := newTransactionHandler(t)
	defer closeFn()

	req := httptest.NewRequest("POST", "/transactions/credit", strings.NewReader(`{`))
	req = req.WithContext(ContextWithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	h.Credit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")
}

func TestHistory_InvalidPageParam(t *testing.T) {
	h, closeFn := newTransactionHandler(t)
	defer closeFn()

	req := httptest.NewRequest("GET", "/transactions/history?page=abc", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	h.History(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")
}
