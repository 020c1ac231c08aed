package domain

// Customer owns zero or more accounts. The link lives on the account side as
// a lookup key; deleting a customer with linked accounts is refused.
type Customer struct {
	ID          string
	FirstName   string
	LastName    string
	Address     string
	Email       string
	Phone       string
	DateOfBirth string
	SSN         string
}
