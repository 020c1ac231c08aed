package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

type customerService interface {
	Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Search(ctx context.Context, name, email string) ([]domain.Customer, error)
	Update(ctx context.Context, id string, updates domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type CustomerHandler struct {
	customers customerService
}

func NewCustomerHandler(customers customerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type customerPayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	SSN         string `json:"ssn"`
}

func (p customerPayload) toDomain() domain.Customer {
	return domain.Customer{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Address:     p.Address,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth,
		SSN:         p.SSN,
	}
}

type customerDTO struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
}

func toCustomerDTO(c *domain.Customer) customerDTO {
	return customerDTO{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Address:     c.Address,
		Email:       c.Email,
		Phone:       c.Phone,
		DateOfBirth: c.DateOfBirth,
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	if req.FirstName == "" {
		fields = append(fields, FieldError{Field: "first_name", Message: "required"})
	}
	if req.LastName == "" {
		fields = append(fields, FieldError{Field: "last_name", Message: "required"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	customer, err := h.customers.Create(r.Context(), req.toDomain())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create customer", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toCustomerDTO(customer))
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(customer))
}

func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	email := r.URL.Query().Get("email")

	customers, err := h.customers.Search(r.Context(), name, email)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to search customers", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]customerDTO, len(customers))
	for i := range customers {
		dtos[i] = toCustomerDTO(&customers[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	customer, err := h.customers.Update(r.Context(), r.PathValue("id"), req.toDomain())
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to update customer", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(customer))
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), r.PathValue("id")); err != nil {
		logging.FromContext(r.Context()).Warn("failed to delete customer", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}
