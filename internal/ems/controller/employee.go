package controller

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	e "github.com/gartstein/ems/internal/ems/errors"
	"github.com/gartstein/ems/internal/ems/events"
	"github.com/gartstein/ems/internal/ems/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeRepository defines the storage interface for Employee objects.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	ListEmployees(ctx context.Context, search string) ([]models.Employee, error)
	SaveEmployee(ctx context.Context, employee *models.Employee) error
	SaveEmployeeDays(ctx context.Context, id uuid.UUID, days int) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	EmployeeExistsByEmail(ctx context.Context, email string) (bool, error)
}

// EmployeeService manages employees: email uniqueness, company/department
// resolution, the cross-company invariant and the derived days-employed
// field. Parent lookups go through the entity services so they carry the
// usual read-through counter refresh.
type EmployeeService struct {
	repo        EmployeeRepository
	companies   *CompanyService
	departments *DepartmentService
	producer    EventProducer
	logger      *zap.Logger
	now         func() time.Time
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo EmployeeRepository, companies *CompanyService, departments *DepartmentService, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:        repo,
		companies:   companies,
		departments: departments,
		producer:    producer,
		logger:      logger.Named("employee_service"),
		now:         time.Now,
	}
}

// CreateEmployee adds a new Employee after checking email uniqueness, that
// the company resolves, and that the department (when given) belongs to
// that company. Status defaults to pending.
func (s *EmployeeService) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if employee.EmployeeName == "" || utf8.RuneCountInString(employee.EmployeeName) > maxNameLength {
		return nil, fmt.Errorf("%w: invalid employee name", e.ErrInvalidInput)
	}
	if employee.Email == "" {
		return nil, fmt.Errorf("%w: email required", e.ErrInvalidInput)
	}
	if employee.Status == "" {
		employee.Status = models.StatusPending
	}
	if !employee.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, employee.Status)
	}

	exists, err := s.repo.EmployeeExistsByEmail(ctx, employee.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateEmail
	}

	if _, err := s.companies.GetCompany(ctx, employee.CompanyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	if employee.DepartmentID != nil {
		department, err := s.departments.GetDepartment(ctx, *employee.DepartmentID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to resolve department: %w", err)
		}
		if err := validateDepartmentCompany(department, employee.CompanyID); err != nil {
			return nil, err
		}
	}

	employee.ID = uuid.New()
	employee.RefreshDaysEmployed(s.now())
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	go func() {
		s.producer.Produce(events.EmployeeCreated, employee.ID, employee)
	}()
	return employee, nil
}

// GetEmployee retrieves an Employee by ID with company and department
// relations loaded; the derived days-employed field is recomputed and the
// refreshed value written back.
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	employee.RefreshDaysEmployed(s.now())
	if err := s.repo.SaveEmployeeDays(ctx, employee.ID, employee.DaysEmployed); err != nil {
		s.logger.Warn("Failed to persist refreshed days employed",
			zap.Error(err),
			zap.String("employee_id", employee.ID.String()),
		)
	}
	return employee, nil
}

// ListEmployees returns employees whose name, email, designation or mobile
// number contains the search term, or all employees when it is empty. The
// derived field is recomputed per result but not written back on list.
func (s *EmployeeService) ListEmployees(ctx context.Context, search string) ([]models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	now := s.now()
	for i := range employees {
		employees[i].RefreshDaysEmployed(now)
	}
	return employees, nil
}

// UpdateEmployee merges the provided fields. An email change must not
// collide with a different employee; a department change must resolve and
// stay within the employee's current company.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrInvalidInput)
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, *update.Status)
	}

	employee, err := s.repo.GetEmployee(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	if update.Email != nil && *update.Email != employee.Email {
		if _, err := s.repo.GetEmployeeByEmail(ctx, *update.Email); err == nil {
			return nil, e.ErrDuplicateEmail
		} else if !errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
	}

	if update.DepartmentID != nil &&
		(employee.DepartmentID == nil || *update.DepartmentID != *employee.DepartmentID) {
		department, err := s.departments.GetDepartment(ctx, *update.DepartmentID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to resolve department: %w", err)
		}
		if err := validateDepartmentCompany(department, employee.CompanyID); err != nil {
			return nil, err
		}
	}

	employee.Apply(update)
	employee.RefreshDaysEmployed(s.now())
	if err := s.repo.SaveEmployee(ctx, employee); err != nil {
		if errors.Is(err, e.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	go func() {
		s.producer.Produce(events.EmployeeUpdated, employee.ID, employee)
	}()
	return employee, nil
}

// UpdateStatus sets the employment status. A transition to active on an
// employee with no hire date stamps the hire date with the current moment
// before the derived field is recomputed.
func (s *EmployeeService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Employee, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, status)
	}

	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	employee.Status = status
	now := s.now()
	if status == models.StatusActive && employee.HiredOn == nil {
		employee.HiredOn = &now
	}
	employee.RefreshDaysEmployed(now)
	if err := s.repo.SaveEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee status: %w", err)
	}
	go func() {
		s.producer.Produce(events.EmployeeStatusChanged, employee.ID, employee)
	}()
	return employee, nil
}

// DeleteEmployee removes an Employee by ID and fires a deletion event.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee for deletion: %w", err)
	}

	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	go func() {
		s.producer.Produce(events.EmployeeDeleted, employee.ID, employee)
	}()

	return nil
}
