package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrAccountNotFound     = errors.New("account not found")
	ErrIneligibleSource    = errors.New("loan account cannot fund a transfer")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrInvalidBalance      = errors.New("opening balance must be greater than zero")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerHasAccounts = errors.New("customer has linked accounts")
	ErrImmutableField      = errors.New("field cannot be changed")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrVersionConflict     = errors.New("optimistic lock conflict")
	ErrStorage             = errors.New("storage failure")
)
