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

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

// GetEmployee loads an employee with its company and department relations.
func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Department").
		First(&employee, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &employee, nil
}

func (r *Repository) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &employee, nil
}

// ListEmployees filters by substring match over name, email, designation
// and mobile number, or returns all employees when search is empty.
func (r *Repository) ListEmployees(ctx context.Context, search string) ([]models.Employee, error) {
	q := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Department")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"employee_name LIKE ? OR email LIKE ? OR designation LIKE ? OR mobile_number LIKE ?",
			like, like, like, like,
		)
	}
	var employees []models.Employee
	if result := q.Find(&employees); result.Error != nil {
		return nil, result.Error
	}
	return employees, nil
}

// SaveEmployee persists the full employee row after a merge. Associations
// are never written through this path.
func (r *Repository) SaveEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

// SaveEmployeeDays persists the refreshed derived field after a read.
func (r *Repository) SaveEmployeeDays(ctx context.Context, id uuid.UUID, days int) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Update("days_employed", days)
	return result.Error
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) EmployeeExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}
