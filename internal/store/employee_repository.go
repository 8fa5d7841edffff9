package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeRepository struct {
	store *Store
}

// List returns all employees with their person, ordered by id.
func (r *EmployeeRepository) List(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.store.conn(ctx).
		Preload("Person").
		Order("id").
		Find(&employees).
		Error
	if err != nil {
		return nil, translate(err)
	}
	return employees, nil
}

// Detail loads the employee with its person and position.
func (r *EmployeeRepository) Detail(ctx context.Context, id uint) (*Employee, error) {
	var employee Employee
	if err := first(r.store.conn(ctx).Preload("Person").Preload("Position"), &employee, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.store.conn(ctx).Model(&Employee{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// Create inserts employee.Person and then the employee pointing at it.
func (r *EmployeeRepository) Create(ctx context.Context, employee *Employee) error {
	err := r.store.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&employee.Person).Error; err != nil {
			return err
		}
		employee.PersonID = employee.Person.ID
		return tx.Omit(clause.Associations).Create(employee).Error
	})
	return translate(err)
}

// CreateForPerson adds another employment for an existing person.
func (r *EmployeeRepository) CreateForPerson(ctx context.Context, employee *Employee) error {
	return translate(r.store.conn(ctx).Omit(clause.Associations).Create(employee).Error)
}

// Update writes both the employee row and its person row.
func (r *EmployeeRepository) Update(ctx context.Context, employee *Employee) error {
	err := r.store.conn(ctx).Transaction(func(tx *gorm.DB) error {
		employee.Person.ID = employee.PersonID
		if err := tx.Save(&employee.Person).Error; err != nil {
			return err
		}
		res := tx.Model(&Employee{ID: employee.ID}).
			Select("position_id", "salary", "hire_date").
			Updates(map[string]any{
				"position_id": employee.PositionID,
				"salary":      employee.Salary,
				"hire_date":   employee.HireDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

// Delete removes the employee and then its person, unless another employment
// still references that person.
func (r *EmployeeRepository) Delete(ctx context.Context, id uint) error {
	err := r.store.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var employee Employee
		if err := first(tx, &employee, id); err != nil {
			return err
		}
		if err := deleteByID(tx, &Employee{}, employee.ID); err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&Employee{}).Where("person_id = ?", employee.PersonID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		return tx.Delete(&Person{}, employee.PersonID).Error
	})
	return translate(err)
}
