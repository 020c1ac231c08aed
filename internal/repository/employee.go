package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seyio/bankledger/internal/domain"
)

const employeeColumns = `id, first_name, last_name, designation, phone, email, date_of_joining`

type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id,
	)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *EmployeeRepository) FindByName(ctx context.Context, name string) ([]domain.Employee, error) {
	pattern := "%" + name + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees
		WHERE first_name LIKE $1 OR last_name LIKE $1 ORDER BY id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByName: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) ([]domain.Employee, error) {
	pattern := "%" + email + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email LIKE $1 ORDER BY id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByEmail: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// Create inserts the employee and fills in the generated id.
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO employees (first_name, last_name, designation, phone, email, date_of_joining)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.FirstName, e.LastName, e.Designation, e.Phone, e.Email, e.DateOfJoining,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", mapInsertError(err))
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func collectEmployees(rows *sql.Rows) ([]domain.Employee, error) {
	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("collectEmployees: scan: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collectEmployees: rows: %w", err)
	}
	return employees, nil
}

func scanEmployee(s scanner) (*domain.Employee, error) {
	var e domain.Employee
	err := s.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Designation,
		&e.Phone, &e.Email, &e.DateOfJoining,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
