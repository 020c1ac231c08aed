package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seyio/bankledger/internal/domain"
)

type employeeRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	FindByName(ctx context.Context, name string) ([]domain.Employee, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

type EmployeeService struct {
	employees employeeRepo
}

func NewEmployeeService(employees employeeRepo) *EmployeeService {
	return &EmployeeService{employees: employees}
}

func (s *EmployeeService) Create(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	if employee.DateOfJoining.IsZero() {
		employee.DateOfJoining = time.Now().UTC()
	}
	if err := s.employees.Create(ctx, &employee); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return &employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) Search(ctx context.Context, name, email string) ([]domain.Employee, error) {
	var (
		employees []domain.Employee
		err       error
	)
	switch {
	case email != "":
		employees, err = s.employees.FindByEmail(ctx, email)
	case name != "":
		employees, err = s.employees.FindByName(ctx, name)
	default:
		employees, err = s.employees.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return employees, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.employees.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("Delete: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("Delete: %w", err)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
