package controller

import (
	"fmt"

	e "github.com/gartstein/ems/internal/ems/errors"
	"github.com/gartstein/ems/internal/ems/models"
	"github.com/google/uuid"
)

// validateDepartmentCompany checks the cross-reference invariant between an
// employee's company and its department's company. It operates on already
// loaded entities and performs no storage access.
func validateDepartmentCompany(department *models.Department, companyID uuid.UUID) error {
	if department.CompanyID != companyID {
		return fmt.Errorf("%w: department %s does not belong to company %s",
			e.ErrInvalidInput, department.ID, companyID)
	}
	return nil
}
