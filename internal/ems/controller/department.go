package controller

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	e "github.com/gartstein/ems/internal/ems/errors"
	"github.com/gartstein/ems/internal/ems/events"
	"github.com/gartstein/ems/internal/ems/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DepartmentRepository defines the storage interface for Department objects.
type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error)
	ListDepartments(ctx context.Context, search string) ([]models.Department, error)
	ListDepartmentsByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Department, error)
	UpdateDepartment(ctx context.Context, update *models.DepartmentUpdate) error
	SaveDepartmentCount(ctx context.Context, id uuid.UUID, employees int) error
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
}

// DepartmentService manages departments. Company resolution goes through
// the CompanyService so that resolving a parent refreshes its counters,
// the same read-through side effect a direct fetch has.
type DepartmentService struct {
	repo      DepartmentRepository
	companies *CompanyService
	producer  EventProducer
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo DepartmentRepository, companies *CompanyService, producer EventProducer, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		repo:      repo,
		companies: companies,
		producer:  producer,
		logger:    logger.Named("department_service"),
	}
}

// CreateDepartment adds a new Department bound to an existing company.
func (s *DepartmentService) CreateDepartment(ctx context.Context, department *models.Department) (*models.Department, error) {
	if department.DepartmentName == "" || utf8.RuneCountInString(department.DepartmentName) > maxNameLength {
		return nil, fmt.Errorf("%w: invalid department name", e.ErrInvalidInput)
	}

	if _, err := s.companies.GetCompany(ctx, department.CompanyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	department.ID = uuid.New()
	department.NumberOfEmployees = 0
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	go func() {
		s.producer.Produce(events.DepartmentCreated, department.ID, department)
	}()
	return department, nil
}

// GetDepartment retrieves a Department by ID with its company relation
// loaded and its employee counter refreshed.
func (s *DepartmentService) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	department, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	s.refreshCounts(ctx, department)
	return department, nil
}

// ListDepartments returns departments matching the optional search term,
// each with a refreshed employee counter.
func (s *DepartmentService) ListDepartments(ctx context.Context, search string) ([]models.Department, error) {
	departments, err := s.repo.ListDepartments(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	for i := range departments {
		s.refreshCounts(ctx, &departments[i])
	}
	return departments, nil
}

// ListByCompany returns the departments of one company. The company must
// resolve; resolving it refreshes the company's counters as a side effect.
func (s *DepartmentService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Department, error) {
	if _, err := s.companies.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}
	departments, err := s.repo.ListDepartmentsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	for i := range departments {
		s.refreshCounts(ctx, &departments[i])
	}
	return departments, nil
}

// UpdateDepartment merges the provided fields. The company binding is
// immutable: an update naming a different company is rejected.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, update *models.DepartmentUpdate) (*models.Department, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid department ID", e.ErrInvalidInput)
	}
	if update.DepartmentName != nil &&
		(*update.DepartmentName == "" || utf8.RuneCountInString(*update.DepartmentName) > maxNameLength) {
		return nil, fmt.Errorf("%w: invalid department name", e.ErrInvalidInput)
	}

	current, err := s.repo.GetDepartment(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if update.CompanyID != nil && *update.CompanyID != current.CompanyID {
		return nil, fmt.Errorf("%w: department company cannot be changed", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateDepartment(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	updated, err := s.repo.GetDepartment(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get department for event",
			zap.Error(err),
			zap.String("department_id", update.ID.String()),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.DepartmentUpdated, updated.ID, updated)
	}()
	return updated, nil
}

// DeleteDepartment removes a Department by ID. Member employees survive
// with their department reference cleared.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	department, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get department for deletion: %w", err)
	}

	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	go func() {
		s.producer.Produce(events.DepartmentDeleted, department.ID, department)
	}()

	return nil
}

func (s *DepartmentService) refreshCounts(ctx context.Context, department *models.Department) {
	department.RefreshCounts()
	if err := s.repo.SaveDepartmentCount(ctx, department.ID, department.NumberOfEmployees); err != nil {
		s.logger.Warn("Failed to persist refreshed counters",
			zap.Error(err),
			zap.String("department_id", department.ID.String()),
		)
	}
}
