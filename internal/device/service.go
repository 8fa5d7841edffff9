package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

var ErrAlreadyAssigned = errors.New("device already has an open assignment")

type DeviceService interface {
	List(ctx context.Context) ([]DeviceSummary, error)
	Get(ctx context.Context, id uint) (*DeviceDetailResponse, error)
	Create(ctx context.Context, req DeviceRequest) (uint, error)
	Update(ctx context.Context, id uint, req DeviceRequest) (uint, error)
	Delete(ctx context.Context, id uint) error
	Assign(ctx context.Context, deviceID uint, req AssignRequest) (uint, error)
	Return(ctx context.Context, deviceID uint, req ReturnRequest) (uint, error)
}

type deviceService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewDeviceService(s *store.Store, logger *zap.Logger) DeviceService {
	return &deviceService{store: s, logger: logger, now: time.Now}
}

func (d *deviceService) List(ctx context.Context) ([]DeviceSummary, error) {
	devices, err := d.store.Devices().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DeviceSummary, 0, len(devices))
	for _, device := range devices {
		out = append(out, DeviceSummary{ID: device.ID, Name: device.Name})
	}
	return out, nil
}

func (d *deviceService) Get(ctx context.Context, id uint) (*DeviceDetailResponse, error) {
	// device, type and holder are read as one snapshot
	var detail *store.DeviceDetail
	err := d.store.WithTransaction(ctx, func(tx *store.Store) error {
		var err error
		detail, err = tx.Devices().Detail(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &DeviceDetailResponse{
		Name:                 detail.Device.Name,
		IsEnabled:            detail.Device.IsEnabled,
		AdditionalProperties: storedJSON(detail.Device.AdditionalProperties),
	}
	if detail.DeviceType != nil {
		out.DeviceTypeName = &detail.DeviceType.Name
	}
	if holder := detail.CurrentHolder(); holder != nil {
		out.Employee = &Holder{ID: holder.ID, Name: holder.Person.FullName()}
	}
	return out, nil
}

func (d *deviceService) Create(ctx context.Context, req DeviceRequest) (uint, error) {
	var id uint
	err := d.store.WithTransaction(ctx, func(tx *store.Store) error {
		device, err := toDevice(ctx, tx, req)
		if err != nil {
			return err
		}
		if err := tx.Devices().Create(ctx, device); err != nil {
			return err
		}
		id = device.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.logger.Info("device created", zap.Uint("deviceID", id))
	return id, nil
}

func (d *deviceService) Update(ctx context.Context, id uint, req DeviceRequest) (uint, error) {
	err := d.store.WithTransaction(ctx, func(tx *store.Store) error {
		if _, err := tx.Devices().Get(ctx, id); err != nil {
			return err
		}
		device, err := toDevice(ctx, tx, req)
		if err != nil {
			return err
		}
		device.ID = id
		return tx.Devices().Update(ctx, device)
	})
	if err != nil {
		return 0, err
	}
	d.logger.Info("device updated", zap.Uint("deviceID", id))
	return id, nil
}

func (d *deviceService) Delete(ctx context.Context, id uint) error {
	if err := d.store.Devices().Delete(ctx, id); err != nil {
		return err
	}
	d.logger.Info("device deleted", zap.Uint("deviceID", id))
	return nil
}

// Assign opens an assignment. The partial unique index on open assignments
// turns a concurrent second issue into ErrAlreadyAssigned.
func (d *deviceService) Assign(ctx context.Context, deviceID uint, req AssignRequest) (uint, error) {
	issueDate := d.now().UTC()
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}

	var id uint
	err := d.store.WithTransaction(ctx, func(tx *store.Store) error {
		if _, err := tx.Devices().Get(ctx, deviceID); err != nil {
			return err
		}
		exists, err := tx.Employees().Exists(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return validation.Single("employeeId", fmt.Sprintf("Employee '%d' not found.", req.EmployeeID))
		}

		_, err = tx.Assignments().Open(ctx, deviceID)
		switch {
		case err == nil:
			return ErrAlreadyAssigned
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		assignment := &store.DeviceEmployee{DeviceID: deviceID, EmployeeID: req.EmployeeID, IssueDate: issueDate}
		if err := tx.Assignments().Create(ctx, assignment); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadyAssigned
			}
			return err
		}
		id = assignment.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.logger.Info("device issued",
		zap.Uint("deviceID", deviceID),
		zap.Uint("employeeID", req.EmployeeID),
		zap.Uint("assignmentID", id),
	)
	return id, nil
}

// Return closes the open assignment of the device. A device with no open
// assignment reports store.ErrNotFound.
func (d *deviceService) Return(ctx context.Context, deviceID uint, req ReturnRequest) (uint, error) {
	returnDate := d.now().UTC()
	if req.ReturnDate != nil {
		returnDate = req.ReturnDate.UTC()
	}

	var id uint
	err := d.store.WithTransaction(ctx, func(tx *store.Store) error {
		open, err := tx.Assignments().Open(ctx, deviceID)
		if err != nil {
			return err
		}
		if returnDate.Before(open.IssueDate) {
			return validation.Single("returnDate", "'returnDate' must not be before the issue date.")
		}
		if err := tx.Assignments().Close(ctx, open.ID, returnDate); err != nil {
			return err
		}
		id = open.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.logger.Info("device returned", zap.Uint("deviceID", deviceID), zap.Uint("assignmentID", id))
	return id, nil
}

func toDevice(ctx context.Context, tx *store.Store, req DeviceRequest) (*store.Device, error) {
	deviceType, err := tx.Reference().DeviceTypeByName(ctx, req.DeviceTypeName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, validation.Single("deviceTypeName", fmt.Sprintf("Device type '%s' not found.", req.DeviceTypeName))
	}
	if err != nil {
		return nil, err
	}

	var properties bytes.Buffer
	if err := json.Compact(&properties, req.AdditionalProperties); err != nil {
		return nil, validation.Single("additionalProperties", "'additionalProperties' must be a JSON value.")
	}

	return &store.Device{
		Name:                 req.Name,
		IsEnabled:            *req.IsEnabled,
		AdditionalProperties: properties.String(),
		DeviceTypeID:         &deviceType.ID,
	}, nil
}

// storedJSON hands back the stored document, or null when the column does not
// hold valid JSON.
func storedJSON(raw string) json.RawMessage {
	if !json.Valid([]byte(raw)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(raw)
}
