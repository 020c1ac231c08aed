package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seyio/bankledger/internal/domain"
)

const customerColumns = `id, first_name, last_name, address, email, phone, date_of_birth, ssn`

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id,
	)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// FindByName matches the pattern against first or last name, substring style.
func (r *CustomerRepository) FindByName(ctx context.Context, name string) ([]domain.Customer, error) {
	pattern := "%" + name + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers
		WHERE first_name LIKE $1 OR last_name LIKE $1 ORDER BY id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByName: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) ([]domain.Customer, error) {
	pattern := "%" + email + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email LIKE $1 ORDER BY id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByEmail: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, first_name, last_name, address, email, phone, date_of_birth, ssn)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.FirstName, c.LastName, c.Address, c.Email, c.Phone, c.DateOfBirth, c.SSN,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", mapInsertError(err))
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET first_name = $1, last_name = $2, address = $3,
		email = $4, phone = $5, ssn = $6 WHERE id = $7`,
		c.FirstName, c.LastName, c.Address, c.Email, c.Phone, c.SSN, c.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
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

func collectCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("collectCustomers: scan: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collectCustomers: rows: %w", err)
	}
	return customers, nil
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var c domain.Customer
	err := s.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Address,
		&c.Email, &c.Phone, &c.DateOfBirth, &c.SSN,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
