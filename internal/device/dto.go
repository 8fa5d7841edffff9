package device

import (
	"encoding/json"
	"time"
)

// DeviceRequest is the create and update payload.
type DeviceRequest struct {
	Name                 string          `json:"name" validate:"required,max=150"`
	IsEnabled            *bool           `json:"isEnabled" validate:"required"`
	DeviceTypeName       string          `json:"deviceTypeName" validate:"required,max=100"`
	AdditionalProperties json.RawMessage `json:"additionalProperties" validate:"required,jsonvalue" swaggertype:"object"`
}

type DeviceSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Holder is the employee currently holding a device.
type Holder struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DeviceDetailResponse struct {
	Name                 string          `json:"name"`
	DeviceTypeName       *string         `json:"deviceTypeName"`
	IsEnabled            bool            `json:"isEnabled"`
	AdditionalProperties json.RawMessage `json:"additionalProperties" swaggertype:"object"`
	Employee             *Holder         `json:"employee"`
}

// AssignRequest issues a device to an employee. IssueDate defaults to now.
type AssignRequest struct {
	EmployeeID uint       `json:"employeeId" validate:"gt=0"`
	IssueDate  *time.Time `json:"issueDate"`
}

// ReturnRequest closes the open assignment. ReturnDate defaults to now.
type ReturnRequest struct {
	ReturnDate *time.Time `json:"returnDate"`
}
