package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store is the persistence gateway. A Store returned to a WithTransaction
// callback is bound to that transaction; every repository obtained from it
// shares the same unit of work.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return s.db
	}
	return s.db.WithContext(ctx)
}

// WithTransaction runs fn in a transaction that commits when fn returns nil and
// rolls back on error, panic or context cancellation.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	return translate(err)
}

// Migrate creates or updates the schema, including the partial unique index on
// open assignments and the assignment date check.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.conn(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	return nil
}

// SeedRoles inserts Admin and User when the roles table is empty.
func (s *Store) SeedRoles(ctx context.Context) error {
	return s.WithTransaction(ctx, func(tx *Store) error {
		var count int64
		if err := tx.db.Model(&Role{}).Count(&count).Error; err != nil {
			return translate(err)
		}
		if count > 0 {
			return nil
		}
		roles := []Role{{Name: RoleAdmin}, {Name: RoleUser}}
		return translate(tx.db.Create(&roles).Error)
	})
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return translate(err)
	}
	return nil
}

func (s *Store) Devices() *DeviceRepository {
	return &DeviceRepository{store: s}
}

func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{store: s}
}

func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

func (s *Store) Assignments() *AssignmentRepository {
	return &AssignmentRepository{store: s}
}

func (s *Store) Reference() *ReferenceRepository {
	return &ReferenceRepository{store: s}
}

// first loads a single row and maps "no rows" to ErrNotFound.
func first(db *gorm.DB, dest any, conds ...any) error {
	err := db.First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return translate(err)
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched.
func deleteByID(db *gorm.DB, model any, id uint) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
