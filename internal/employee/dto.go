package employee

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeRequest is the create and update payload. The person fields travel
// with the employment record.
type EmployeeRequest struct {
	FirstName      string          `json:"firstName" validate:"required,max=150"`
	MiddleName     *string         `json:"middleName" validate:"omitempty,max=150"`
	LastName       string          `json:"lastName" validate:"required,max=150"`
	Email          string          `json:"email" validate:"omitempty,email,max=100"`
	PassportNumber string          `json:"passportNumber" validate:"max=100"`
	PhoneNumber    string          `json:"phoneNumber" validate:"max=100"`
	Salary         decimal.Decimal `json:"salary" validate:"min=0" swaggertype:"number"`
	PositionID     uint            `json:"positionId" validate:"gt=0"`
	HireDate       time.Time       `json:"hireDate" validate:"required"`
}

type EmployeeSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}

type PersonResponse struct {
	FirstName      string  `json:"firstName"`
	MiddleName     *string `json:"middleName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phoneNumber"`
	PassportNumber string  `json:"passportNumber"`
}

type PositionResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type EmployeeDetailResponse struct {
	Person   PersonResponse   `json:"person"`
	Salary   json.Number      `json:"salary" swaggertype:"number"`
	Position PositionResponse `json:"position"`
	HireDate time.Time        `json:"hireDate"`
}
