package models

import (
	"time"

	"github.com/google/uuid"
)

// Department belongs to exactly one Company; the company binding is
// immutable after creation. Deleting a department clears the department
// reference on its employees instead of deleting them.
type Department struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID  `gorm:"type:uuid;index" json:"companyId"`
	Company           *Company   `json:"company,omitempty"`
	DepartmentName    string     `gorm:"size:100" json:"departmentName"`
	Description       string     `gorm:"size:500" json:"description,omitempty"`
	NumberOfEmployees int        `gorm:"check:number_of_employees >= 0" json:"numberOfEmployees"`
	Employees         []Employee `gorm:"constraint:OnDelete:SET NULL" json:"employees,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// RefreshCounts recomputes the employee counter from the loaded relation.
func (d *Department) RefreshCounts() {
	d.NumberOfEmployees = len(d.Employees)
}

// DepartmentUpdate represents the fields that can be updated for a
// Department. CompanyID is carried only so the service can reject attempts
// to reassign a department to another company.
type DepartmentUpdate struct {
	ID             uuid.UUID
	CompanyID      *uuid.UUID
	DepartmentName *string
	Description    *string
}
