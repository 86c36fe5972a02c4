package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the employment status of an Employee.
type Status string

const (
	StatusPending    Status = "pending"
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
	StatusResigned   Status = "resigned"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusOnLeave, StatusTerminated, StatusResigned:
		return true
	}
	return false
}

// Employee belongs to exactly one Company and at most one Department.
// The department, when set, must belong to the same company as the
// employee. DaysEmployed is derived from HiredOn on every read and write.
type Employee struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID    uuid.UUID   `gorm:"type:uuid;index" json:"companyId"`
	Company      *Company    `json:"company,omitempty"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"departmentId"`
	Department   *Department `json:"department,omitempty"`
	Status       Status      `gorm:"size:20;default:pending" json:"status"`
	EmployeeName string      `gorm:"size:100" json:"employeeName"`
	Email        string      `gorm:"size:100;uniqueIndex" json:"email"`
	MobileNumber string      `gorm:"size:20" json:"mobileNumber"`
	Address      string      `gorm:"size:500" json:"address"`
	Designation  string      `gorm:"size:100" json:"designation"`
	Salary       float64     `json:"salary,omitempty"`
	HiredOn      *time.Time  `json:"hiredOn"`
	DaysEmployed int         `json:"daysEmployed"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// RefreshDaysEmployed recomputes the derived DaysEmployed field as of now.
func (e *Employee) RefreshDaysEmployed(now time.Time) {
	e.DaysEmployed = DaysEmployedAt(e.HiredOn, now)
}

// DaysEmployedAt returns ceil(|now - hiredOn|) in days, or 0 when hiredOn
// is unset. A zero elapsed duration yields 0.
func DaysEmployedAt(hiredOn *time.Time, now time.Time) int {
	if hiredOn == nil {
		return 0
	}
	diff := now.Sub(*hiredOn)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// EmployeeUpdate represents the fields that can be updated for an Employee.
// Pointer types are used to allow partial updates; a nil field leaves the
// current value untouched.
type EmployeeUpdate struct {
	ID           uuid.UUID
	DepartmentID *uuid.UUID
	Status       *Status
	EmployeeName *string
	Email        *string
	MobileNumber *string
	Address      *string
	Designation  *string
	Salary       *float64
	HiredOn      *time.Time
}

// Apply merges the provided fields into the employee. Identity, company
// binding and creation timestamp are never touched here; department
// reassignment is validated by the service before the merge.
func (e *Employee) Apply(u *EmployeeUpdate) {
	if u.DepartmentID != nil {
		e.DepartmentID = u.DepartmentID
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.EmployeeName != nil {
		e.EmployeeName = *u.EmployeeName
	}
	if u.Email != nil {
		e.Email = *u.Email
	}
	if u.MobileNumber != nil {
		e.MobileNumber = *u.MobileNumber
	}
	if u.Address != nil {
		e.Address = *u.Address
	}
	if u.Designation != nil {
		e.Designation = *u.Designation
	}
	if u.Salary != nil {
		e.Salary = *u.Salary
	}
	if u.HiredOn != nil {
		e.HiredOn = u.HiredOn
	}
}
