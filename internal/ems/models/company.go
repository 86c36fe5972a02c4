// Package models defines the domain entities for the employee management
// service: Company, Department, Employee and the authentication User.
// The structs double as GORM models. Aggregate counters and the derived
// days-employed field are caches recomputed by the Refresh helpers from the
// loaded relations, never trusted as stored state.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company owns zero or more Departments and zero or more Employees.
// NumberOfDepartments and NumberOfEmployees are denormalized counters
// refreshed opportunistically whenever the company is fetched.
type Company struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName         string       `gorm:"size:100;uniqueIndex" json:"companyName"`
	NumberOfDepartments int          `gorm:"check:number_of_departments >= 0" json:"numberOfDepartments"`
	NumberOfEmployees   int          `gorm:"check:number_of_employees >= 0" json:"numberOfEmployees"`
	Departments         []Department `gorm:"constraint:OnDelete:CASCADE" json:"departments,omitempty"`
	Employees           []Employee   `gorm:"constraint:OnDelete:CASCADE" json:"employees,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// RefreshCounts recomputes both counters from the loaded relations.
// Callers must have preloaded Departments and Employees.
func (c *Company) RefreshCounts() {
	c.NumberOfDepartments = len(c.Departments)
	c.NumberOfEmployees = len(c.Employees)
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID          uuid.UUID
	CompanyName *string
}
