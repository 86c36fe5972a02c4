package db

import (
	"context"
	"errors"

	e "github.com/gartstein/ems/internal/ems/errors"
	"github.com/gartstein/ems/internal/ems/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) CreateDepartment(ctx context.Context, department *models.Department) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(department)
	return result.Error
}

// GetDepartment loads a department with its company and employees.
func (r *Repository) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var department models.Department
	result := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Employees").
		First(&department, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &department, nil
}

// ListDepartments returns departments whose name contains search, or all
// departments when search is empty.
func (r *Repository) ListDepartments(ctx context.Context, search string) ([]models.Department, error) {
	q := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Employees")
	if search != "" {
		q = q.Where("department_name LIKE ?", "%"+search+"%")
	}
	var departments []models.Department
	if result := q.Find(&departments); result.Error != nil {
		return nil, result.Error
	}
	return departments, nil
}

func (r *Repository) ListDepartmentsByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Department, error) {
	var departments []models.Department
	result := r.db.WithContext(ctx).
		Preload("Employees").
		Where("company_id = ?", companyID).
		Find(&departments)
	if result.Error != nil {
		return nil, result.Error
	}
	return departments, nil
}

func (r *Repository) UpdateDepartment(ctx context.Context, update *models.DepartmentUpdate) error {
	values := map[string]interface{}{}
	if update.DepartmentName != nil {
		values["department_name"] = *update.DepartmentName
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if len(values) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Department{}).
		Where("id = ?", update.ID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// SaveDepartmentCount persists the refreshed employee counter.
func (r *Repository) SaveDepartmentCount(ctx context.Context, id uuid.UUID, employees int) error {
	result := r.db.WithContext(ctx).Model(&models.Department{}).
		Where("id = ?", id).
		Update("number_of_employees", employees)
	return result.Error
}

// DeleteDepartment removes the department and clears the department
// reference on its employees; the employees themselves survive.
func (r *Repository) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if result := tx.db.Model(&models.Employee{}).
			Where("department_id = ?", id).
			Update("department_id", nil); result.Error != nil {
			return result.Error
		}
		result := tx.db.Delete(&models.Department{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}
