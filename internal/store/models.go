package store

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Person is the natural-person identity behind one or more employments.
type Person struct {
	ID             uint    `gorm:"primaryKey"`
	PassportNumber string  `gorm:"size:100;not null"`
	FirstName      string  `gorm:"size:150;not null"`
	MiddleName     *string `gorm:"size:150"`
	LastName       string  `gorm:"size:150;not null"`
	PhoneNumber    string  `gorm:"size:100;not null"`
	Email          string  `gorm:"size:100;not null"`
}

func (Person) TableName() string { return "people" }

// FullName is "First Last"; the middle name is not part of the display name.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Position struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null"`
	MinExpYears int    `gorm:"not null;default:0"`
}

type Employee struct {
	ID         uint            `gorm:"primaryKey"`
	PersonID   uint            `gorm:"not null;index"`
	Person     Person          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	PositionID uint            `gorm:"not null;index"`
	Position   Position        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Salary     decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_employees_salary,salary >= 0"`
	HireDate   time.Time       `gorm:"not null"`
}

type DeviceType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

// Device keeps AdditionalProperties as the serialized JSON document sent by the client.
type Device struct {
	ID                   uint        `gorm:"primaryKey"`
	Name                 string      `gorm:"size:150;not null"`
	IsEnabled            bool        `gorm:"not null"`
	AdditionalProperties string      `gorm:"type:text;not null"`
	DeviceTypeID         *uint       `gorm:"index"`
	DeviceType           *DeviceType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// DeviceEmployee is an assignment. A nil ReturnDate marks it open; the partial
// unique index keeps at most one open assignment per device.
type DeviceEmployee struct {
	ID         uint       `gorm:"primaryKey"`
	DeviceID   uint       `gorm:"not null;uniqueIndex:idx_device_employees_open,where:return_date IS NULL"`
	Device     Device     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	EmployeeID uint       `gorm:"not null;index"`
	Employee   Employee   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	IssueDate  time.Time  `gorm:"not null;check:chk_device_employees_return_date,return_date IS NULL OR issue_date <= return_date"`
	ReturnDate *time.Time ``
}

func (d DeviceEmployee) IsOpen() bool {
	return d.ReturnDate == nil
}

type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null;uniqueIndex"`
}

type Account struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string   `gorm:"not null"`
	EmployeeID   uint     `gorm:"not null;index"`
	Employee     Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	RoleID       uint     `gorm:"not null;index"`
	Role         Role     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Models lists every table in dependency order for AutoMigrate.
func Models() []any {
	return []any{
		&Person{},
		&Position{},
		&Employee{},
		&DeviceType{},
		&Device{},
		&DeviceEmployee{},
		&Role{},
		&Account{},
	}
}

// DeviceDetail is the eager read behind the device detail projection.
type DeviceDetail struct {
	Device     Device
	DeviceType *DeviceType
	// Latest is the most recent assignment by issue date.
	Latest *DeviceEmployee
	// Current is the open assignment, if any. Employee and Person are loaded on both.
	Current *DeviceEmployee
}

// CurrentHolder returns the employee holding the device, or nil when it is not issued.
func (d DeviceDetail) CurrentHolder() *Employee {
	if d.Current == nil {
		return nil
	}
	return &d.Current.Employee
}
