package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

type accountService interface {
	Open(ctx context.Context, accountType domain.AccountType, balance decimal.Decimal) (*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Transactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
	LinkCustomer(ctx context.Context, accountID, customerID string) error
	Delete(ctx context.Context, id string) error
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type openAccountRequest struct {
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

func (r openAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountType == "" {
		errs = append(errs, FieldError{Field: "account_type", Message: "required"})
	} else if !domain.AccountType(r.AccountType).IsValid() {
		errs = append(errs, FieldError{Field: "account_type", Message: "must be Savings, Checking, or Loan"})
	}
	if !r.Balance.IsPositive() {
		errs = append(errs, FieldError{Field: "balance", Message: "must be greater than 0"})
	}
	return errs
}

type linkCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

type accountDTO struct {
	ID          string          `json:"id"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	CustomerID  *string         `json:"customer_id"`
	CreatedOn   time.Time       `json:"created_on"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:          a.ID,
		AccountType: string(a.AccountType),
		Balance:     a.Balance,
		CustomerID:  a.CustomerID,
		CreatedOn:   a.CreatedOn,
	}
}

type transactionDTO struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	PostedOn      time.Time       `json:"posted_on"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:            t.ID,
		AccountID:     t.AccountID,
		Type:          string(t.TransactionType),
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		PostedOn:      t.PostedOn,
	}
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.Open(r.Context(), domain.AccountType(req.AccountType), req.Balance)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to open account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.accounts.Transactions(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(transactions))
	for i := range transactions {
		dtos[i] = toTransactionDTO(&transactions[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) LinkCustomer(w http.ResponseWriter, r *http.Request) {
	var req linkCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.CustomerID == "" {
		RespondValidationError(w, []FieldError{{Field: "customer_id", Message: "required"}})
		return
	}

	if err := h.accounts.LinkCustomer(r.Context(), r.PathValue("id"), req.CustomerID); err != nil {
		logging.FromContext(r.Context()).Warn("failed to link account", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}
