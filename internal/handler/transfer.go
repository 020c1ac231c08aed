package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

type transferService interface {
	Transfer(ctx context.Context, details domain.TransferDetails) error
}

type TransferHandler struct {
	transfers transferService
}

func NewTransferHandler(transfers transferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type transferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FromAccountID == "" {
		errs = append(errs, FieldError{Field: "from_account_id", Message: "required"})
	}
	if r.ToAccountID == "" {
		errs = append(errs, FieldError{Field: "to_account_id", Message: "required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	return errs
}

// Create posts a transfer. A committed transfer has no response payload; the
// two postings are visible through the account transaction listings.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	err := h.transfers.Transfer(r.Context(), domain.TransferDetails{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		log.Warn("transfer failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}
