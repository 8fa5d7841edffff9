// Package storetest provides a migrated in-memory sqlite store for tests.
package storetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
)

// New opens a private in-memory database, migrates it and seeds the roles.
func New(t *testing.T) *store.Store {
	t.Helper()
	s, _ := Open(t)
	return s
}

// Open is New that also hands back the gorm handle, for tests that hook
// callbacks.
func Open(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), utils.GormConfig())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql handle: %v", err)
	}
	// a single connection keeps the in-memory database alive and serialises access
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.New(db)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := s.SeedRoles(context.Background()); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
	return s, db
}

// TrackReads counts queries issued inside and outside a transaction.
func TrackReads(t *testing.T, db *gorm.DB) (inTx, bare *atomic.Int64) {
	t.Helper()
	inTx, bare = new(atomic.Int64), new(atomic.Int64)
	err := db.Callback().Query().Before("gorm:query").Register("storetest:track_reads", func(tx *gorm.DB) {
		if _, ok := tx.Statement.ConnPool.(gorm.TxCommitter); ok {
			inTx.Add(1)
			return
		}
		bare.Add(1)
	})
	if err != nil {
		t.Fatalf("failed to register query callback: %v", err)
	}
	return inTx, bare
}

func DeviceType(t *testing.T, s *store.Store, name string) *store.DeviceType {
	t.Helper()
	dt := &store.DeviceType{Name: name}
	if err := s.Reference().CreateDeviceType(context.Background(), dt); err != nil {
		t.Fatalf("failed to seed device type %q: %v", name, err)
	}
	return dt
}

func Position(t *testing.T, s *store.Store, name string) *store.Position {
	t.Helper()
	p := &store.Position{Name: name, MinExpYears: 1}
	if err := s.Reference().CreatePosition(context.Background(), p); err != nil {
		t.Fatalf("failed to seed position %q: %v", name, err)
	}
	return p
}

// Employee seeds a person and an employee holding the given position.
func Employee(t *testing.T, s *store.Store, positionID uint, first, last string) *store.Employee {
	t.Helper()
	e := &store.Employee{
		PositionID: positionID,
		Salary:     decimal.NewFromInt(5000),
		HireDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Person: store.Person{
			FirstName:      first,
			LastName:       last,
			PassportNumber: "P-" + first,
			PhoneNumber:    "+48 600 000 000",
			Email:          first + "@example.com",
		},
	}
	if err := s.Employees().Create(context.Background(), e); err != nil {
		t.Fatalf("failed to seed employee %s %s: %v", first, last, err)
	}
	return e
}

func Device(t *testing.T, s *store.Store, name string, deviceTypeID *uint) *store.Device {
	t.Helper()
	d := &store.Device{
		Name:                 name,
		IsEnabled:            true,
		AdditionalProperties: "{}",
		DeviceTypeID:         deviceTypeID,
	}
	if err := s.Devices().Create(context.Background(), d); err != nil {
		t.Fatalf("failed to seed device %q: %v", name, err)
	}
	return d
}

// Account seeds an account with an already computed password hash.
func Account(t *testing.T, s *store.Store, employeeID uint, username, passwordHash, roleName string) *store.Account {
	t.Helper()
	role, err := s.Reference().RoleByName(context.Background(), roleName)
	if err != nil {
		t.Fatalf("failed to load role %q: %v", roleName, err)
	}
	a := &store.Account{
		Username:     username,
		PasswordHash: passwordHash,
		EmployeeID:   employeeID,
		RoleID:       role.ID,
	}
	if err := s.Accounts().Create(context.Background(), a); err != nil {
		t.Fatalf("failed to seed account %q: %v", username, err)
	}
	return a
}
