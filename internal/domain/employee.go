package domain

import "time"

type Employee struct {
	ID            int64
	FirstName     string
	LastName      string
	Designation   string
	Phone         string
	Email         string
	DateOfJoining time.Time
}
