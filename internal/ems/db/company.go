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

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

// GetCompany loads a company with its departments and employees so counter
// refresh can run over the live relations.
func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).
		Preload("Departments").
		Preload("Employees").
		First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "company_name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// ListCompanies returns companies whose name contains search, or all
// companies when search is empty, with relations loaded.
func (r *Repository) ListCompanies(ctx context.Context, search string) ([]models.Company, error) {
	q := r.db.WithContext(ctx).
		Preload("Departments").
		Preload("Employees")
	if search != "" {
		q = q.Where("company_name LIKE ?", "%"+search+"%")
	}
	var companies []models.Company
	if result := q.Find(&companies); result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	values := map[string]interface{}{}
	if update.CompanyName != nil {
		values["company_name"] = *update.CompanyName
	}
	if len(values) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", update.ID).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// SaveCompanyCounts persists refreshed counters. This is the opportunistic
// cache write triggered by reads; it is intentionally independent of the
// mutation that changed the underlying relations.
func (r *Repository) SaveCompanyCounts(ctx context.Context, id uuid.UUID, departments, employees int) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"number_of_departments": departments,
			"number_of_employees":   employees,
		})
	return result.Error
}

// DeleteCompany removes the company together with its departments and
// employees. The cascade runs inside one transaction so a partial delete
// can never be observed.
func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if result := tx.db.Where("company_id = ?", id).Delete(&models.Employee{}); result.Error != nil {
			return result.Error
		}
		if result := tx.db.Where("company_id = ?", id).Delete(&models.Department{}); result.Error != nil {
			return result.Error
		}
		result := tx.db.Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("company_name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}
