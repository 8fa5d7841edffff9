package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	store *Store
}

// List returns id and name of every device ordered by id.
func (r *DeviceRepository) List(ctx context.Context) ([]Device, error) {
	var devices []Device
	err := r.store.conn(ctx).
		Select("id", "name").
		Order("id").
		Find(&devices).
		Error
	if err != nil {
		return nil, translate(err)
	}
	return devices, nil
}

func (r *DeviceRepository) Get(ctx context.Context, id uint) (*Device, error) {
	var device Device
	if err := first(r.store.conn(ctx), &device, id); err != nil {
		return nil, err
	}
	return &device, nil
}

// Detail loads the device with its type, its most recent assignment and its
// open assignment. Assignments come with their employee and person.
func (r *DeviceRepository) Detail(ctx context.Context, id uint) (*DeviceDetail, error) {
	db := r.store.conn(ctx)

	var device Device
	if err := first(db.Preload("DeviceType"), &device, id); err != nil {
		return nil, err
	}
	detail := &DeviceDetail{Device: device, DeviceType: device.DeviceType}

	latest, err := loadAssignment(db.Where("device_id = ?", id).Order("issue_date DESC").Order("id DESC"))
	if err != nil {
		return nil, err
	}
	detail.Latest = latest

	if latest != nil && latest.IsOpen() {
		detail.Current = latest
		return detail, nil
	}
	current, err := loadAssignment(db.Where("device_id = ? AND return_date IS NULL", id))
	if err != nil {
		return nil, err
	}
	detail.Current = current
	return detail, nil
}

func loadAssignment(db *gorm.DB) (*DeviceEmployee, error) {
	var assignment DeviceEmployee
	err := first(db.Preload("Employee.Person"), &assignment)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *DeviceRepository) Create(ctx context.Context, device *Device) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(device).Error)
}

func (r *DeviceRepository) Update(ctx context.Context, device *Device) error {
	res := r.store.conn(ctx).
		Model(&Device{ID: device.ID}).
		Select("name", "is_enabled", "additional_properties", "device_type_id").
		Updates(map[string]any{
			"name":                  device.Name,
			"is_enabled":            device.IsEnabled,
			"additional_properties": device.AdditionalProperties,
			"device_type_id":        device.DeviceTypeID,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the device; its assignments go with it.
func (r *DeviceRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.store.conn(ctx), &Device{}, id)
}
