package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"
)

type AssignmentRepository struct {
	store *Store
}

// Open returns the device's open assignment or ErrNotFound.
func (r *AssignmentRepository) Open(ctx context.Context, deviceID uint) (*DeviceEmployee, error) {
	var assignment DeviceEmployee
	err := first(r.store.conn(ctx).Where("device_id = ? AND return_date IS NULL", deviceID), &assignment)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// History lists the device's assignments, most recent issue first.
func (r *AssignmentRepository) History(ctx context.Context, deviceID uint) ([]DeviceEmployee, error) {
	var assignments []DeviceEmployee
	err := r.store.conn(ctx).
		Where("device_id = ?", deviceID).
		Order("issue_date DESC").
		Order("id DESC").
		Find(&assignments).
		Error
	if err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

// Create inserts an assignment. A second open assignment for the same device
// fails with ErrConflict; a return date before the issue date with ErrInvariant.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *DeviceEmployee) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(assignment).Error)
}

// Close sets the return date of an assignment.
func (r *AssignmentRepository) Close(ctx context.Context, id uint, returnDate time.Time) error {
	res := r.store.conn(ctx).
		Model(&DeviceEmployee{ID: id}).
		Update("return_date", returnDate)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
