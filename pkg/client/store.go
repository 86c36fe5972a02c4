package client

import (
	"context"
	"strings"
	"sync"
)

// Store holds in-memory snapshots of the three collections. Reads serve
// from the snapshot; mutations go to the API and then trigger a refresh,
// so the snapshot is only ever replaced wholesale under the lock.
type Store struct {
	client *Client

	mu          sync.RWMutex
	companies   []Company
	departments []Department
	employees   []Employee
}

// NewStore constructs a Store over the given client. Call Refresh before
// reading.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Refresh reloads all three collections from the API.
func (s *Store) Refresh(ctx context.Context) error {
	companies, err := s.client.ListCompanies(ctx, "")
	if err != nil {
		return err
	}
	departments, err := s.client.ListDepartments(ctx, "")
	if err != nil {
		return err
	}
	employees, err := s.client.ListEmployees(ctx, "")
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.companies = companies
	s.departments = departments
	s.employees = employees
	s.mu.Unlock()
	return nil
}

// Companies returns a copy of the company snapshot.
func (s *Store) Companies() []Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Company(nil), s.companies...)
}

// Departments returns a copy of the department snapshot.
func (s *Store) Departments() []Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Department(nil), s.departments...)
}

// Employees returns a copy of the employee snapshot.
func (s *Store) Employees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Employee(nil), s.employees...)
}

// Company looks up a company by id in the snapshot.
func (s *Store) Company(id string) (Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.ID == id {
			return c, true
		}
	}
	return Company{}, false
}

// Department looks up a department by id in the snapshot.
func (s *Store) Department(id string) (Department, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if d.ID == id {
			return d, true
		}
	}
	return Department{}, false
}

// Employee looks up an employee by id in the snapshot.
func (s *Store) Employee(id string) (Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// DepartmentsByCompany filters the department snapshot by company.
func (s *Store) DepartmentsByCompany(companyID string) []Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Department
	for _, d := range s.departments {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out
}

// EmployeesByCompany filters the employee snapshot by company.
func (s *Store) EmployeesByCompany(companyID string) []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Employee
	for _, e := range s.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out
}

// EmployeesByDepartment filters the employee snapshot by department.
func (s *Store) EmployeesByDepartment(departmentID string) []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Employee
	for _, e := range s.employees {
		if e.DepartmentID != nil && *e.DepartmentID == departmentID {
			out = append(out, e)
		}
	}
	return out
}

// SearchEmployees filters the employee snapshot by a case-insensitive
// substring over name, email, designation and mobile number.
func (s *Store) SearchEmployees(term string) []Employee {
	term = strings.ToLower(term)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Employee
	for _, e := range s.employees {
		if strings.Contains(strings.ToLower(e.EmployeeName), term) ||
			strings.Contains(strings.ToLower(e.Email), term) ||
			strings.Contains(strings.ToLower(e.Designation), term) ||
			strings.Contains(strings.ToLower(e.MobileNumber), term) {
			out = append(out, e)
		}
	}
	return out
}

// CreateCompany creates through the API and refreshes the snapshot.
func (s *Store) CreateCompany(ctx context.Context, in *CompanyInput) (*Company, error) {
	created, err := s.client.CreateCompany(ctx, in)
	if err != nil {
		return nil, err
	}
	return created, s.Refresh(ctx)
}

// UpdateCompany updates through the API and refreshes the snapshot.
func (s *Store) UpdateCompany(ctx context.Context, id string, in *CompanyInput) (*Company, error) {
	updated, err := s.client.UpdateCompany(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return updated, s.Refresh(ctx)
}

// DeleteCompany deletes through the API and refreshes the snapshot.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	if err := s.client.DeleteCompany(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// CreateDepartment creates through the API and refreshes the snapshot.
func (s *Store) CreateDepartment(ctx context.Context, in *DepartmentInput) (*Department, error) {
	created, err := s.client.CreateDepartment(ctx, in)
	if err != nil {
		return nil, err
	}
	return created, s.Refresh(ctx)
}

// UpdateDepartment updates through the API and refreshes the snapshot.
func (s *Store) UpdateDepartment(ctx context.Context, id string, in *DepartmentInput) (*Department, error) {
	updated, err := s.client.UpdateDepartment(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return updated, s.Refresh(ctx)
}

// DeleteDepartment deletes through the API and refreshes the snapshot.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.client.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// CreateEmployee creates through the API and refreshes the snapshot.
func (s *Store) CreateEmployee(ctx context.Context, in *EmployeeInput) (*Employee, error) {
	created, err := s.client.CreateEmployee(ctx, in)
	if err != nil {
		return nil, err
	}
	return created, s.Refresh(ctx)
}

// UpdateEmployee updates through the API and refreshes the snapshot.
func (s *Store) UpdateEmployee(ctx context.Context, id string, in *EmployeeInput) (*Employee, error) {
	updated, err := s.client.UpdateEmployee(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return updated, s.Refresh(ctx)
}

// UpdateEmployeeStatus updates through the API and refreshes the snapshot.
func (s *Store) UpdateEmployeeStatus(ctx context.Context, id, status string) (*Employee, error) {
	updated, err := s.client.UpdateEmployeeStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return updated, s.Refresh(ctx)
}

// DeleteEmployee deletes through the API and refreshes the snapshot.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.client.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
