package employee

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/validation"
)

type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeSummary, error)
	Get(ctx context.Context, id uint) (*EmployeeDetailResponse, error)
	Create(ctx context.Context, req EmployeeRequest) (uint, error)
	Update(ctx context.Context, id uint, req EmployeeRequest) (uint, error)
	Delete(ctx context.Context, id uint) error
}

type employeeService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewEmployeeService(s *store.Store, logger *zap.Logger) EmployeeService {
	return &employeeService{store: s, logger: logger}
}

func (e *employeeService) List(ctx context.Context) ([]EmployeeSummary, error) {
	var employees []store.Employee
	err := e.store.WithTransaction(ctx, func(tx *store.Store) error {
		var err error
		employees, err = tx.Employees().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeSummary, 0, len(employees))
	for _, employee := range employees {
		out = append(out, EmployeeSummary{ID: employee.ID, FullName: employee.Person.FullName()})
	}
	return out, nil
}

func (e *employeeService) Get(ctx context.Context, id uint) (*EmployeeDetailResponse, error) {
	var employee *store.Employee
	err := e.store.WithTransaction(ctx, func(tx *store.Store) error {
		var err error
		employee, err = tx.Employees().Detail(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &EmployeeDetailResponse{
		Person: PersonResponse{
			FirstName:      employee.Person.FirstName,
			MiddleName:     employee.Person.MiddleName,
			LastName:       employee.Person.LastName,
			Email:          employee.Person.Email,
			PhoneNumber:    employee.Person.PhoneNumber,
			PassportNumber: employee.Person.PassportNumber,
		},
		Salary:   json.Number(employee.Salary.StringFixed(2)),
		Position: PositionResponse{ID: employee.Position.ID, Name: employee.Position.Name},
		HireDate: employee.HireDate.UTC(),
	}, nil
}

func (e *employeeService) Create(ctx context.Context, req EmployeeRequest) (uint, error) {
	var id uint
	err := e.store.WithTransaction(ctx, func(tx *store.Store) error {
		if err := checkPosition(ctx, tx, req.PositionID); err != nil {
			return err
		}
		employee := &store.Employee{}
		apply(employee, req)
		if err := tx.Employees().Create(ctx, employee); err != nil {
			return err
		}
		id = employee.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.logger.Info("employee created", zap.Uint("employeeID", id))
	return id, nil
}

func (e *employeeService) Update(ctx context.Context, id uint, req EmployeeRequest) (uint, error) {
	err := e.store.WithTransaction(ctx, func(tx *store.Store) error {
		employee, err := tx.Employees().Detail(ctx, id)
		if err != nil {
			return err
		}
		if err := checkPosition(ctx, tx, req.PositionID); err != nil {
			return err
		}
		apply(employee, req)
		return tx.Employees().Update(ctx, employee)
	})
	if err != nil {
		return 0, err
	}
	e.logger.Info("employee updated", zap.Uint("employeeID", id))
	return id, nil
}

// Delete removes the employee, its accounts and assignments, and its person
// when no other employment references it.
func (e *employeeService) Delete(ctx context.Context, id uint) error {
	if err := e.store.Employees().Delete(ctx, id); err != nil {
		return err
	}
	e.logger.Info("employee deleted", zap.Uint("employeeID", id))
	return nil
}

func checkPosition(ctx context.Context, tx *store.Store, positionID uint) error {
	_, err := tx.Reference().PositionByID(ctx, positionID)
	if errors.Is(err, store.ErrNotFound) {
		return validation.Single("positionId", "Invalid position ID.")
	}
	return err
}

func apply(employee *store.Employee, req EmployeeRequest) {
	employee.Person.FirstName = req.FirstName
	employee.Person.MiddleName = req.MiddleName
	employee.Person.LastName = req.LastName
	employee.Person.Email = req.Email
	employee.Person.PassportNumber = req.PassportNumber
	employee.Person.PhoneNumber = req.PhoneNumber
	employee.PositionID = req.PositionID
	employee.Position = store.Position{}
	employee.Salary = req.Salary
	employee.HireDate = req.HireDate.UTC()
}
