package store

import (
	"context"
)

// ReferenceRepository covers rows administered out-of-band: roles, positions and device types.
type ReferenceRepository struct {
	store *Store
}

func (r *ReferenceRepository) RoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	if err := first(r.store.conn(ctx).Where("name = ?", name), &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *ReferenceRepository) DeviceTypeByName(ctx context.Context, name string) (*DeviceType, error) {
	var deviceType DeviceType
	if err := first(r.store.conn(ctx).Where("name = ?", name), &deviceType); err != nil {
		return nil, err
	}
	return &deviceType, nil
}

func (r *ReferenceRepository) PositionByID(ctx context.Context, id uint) (*Position, error) {
	var position Position
	if err := first(r.store.conn(ctx), &position, id); err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *ReferenceRepository) CreateDeviceType(ctx context.Context, deviceType *DeviceType) error {
	return translate(r.store.conn(ctx).Create(deviceType).Error)
}

func (r *ReferenceRepository) CreatePosition(ctx context.Context, position *Position) error {
	return translate(r.store.conn(ctx).Create(position).Error)
}
