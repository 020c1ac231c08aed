package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/seyio/bankledger/internal/domain"
	"github.com/seyio/bankledger/internal/logging"
)

type employeeService interface {
	Create(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	Search(ctx context.Context, name, email string) ([]domain.Employee, error)
	Delete(ctx context.Context, id int64) error
}

type EmployeeHandler struct {
	employees employeeService
}

func NewEmployeeHandler(employees employeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

type employeePayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type employeeDTO struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Designation   string    `json:"designation"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	DateOfJoining time.Time `json:"date_of_joining"`
}

func toEmployeeDTO(e *domain.Employee) employeeDTO {
	return employeeDTO{
		ID:            e.ID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Designation:   e.Designation,
		Phone:         e.Phone,
		Email:         e.Email,
		DateOfJoining: e.DateOfJoining,
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeePayload
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
	if req.Email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "required"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	employee, err := h.employees.Create(r.Context(), domain.Employee{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Designation: req.Designation,
		Phone:       req.Phone,
		Email:       req.Email,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create employee", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toEmployeeDTO(employee))
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	employee, err := h.employees.Get(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toEmployeeDTO(employee))
}

func (h *EmployeeHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	email := r.URL.Query().Get("email")

	employees, err := h.employees.Search(r.Context(), name, email)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to search employees", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]employeeDTO, len(employees))
	for i := range employees {
		dtos[i] = toEmployeeDTO(&employees[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.employees.Delete(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Warn("failed to delete employee", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}
