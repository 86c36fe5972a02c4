// Package controller implements the core business logic (service layer)
// for companies, departments and employees: uniqueness and referential
// checks, lazy refresh of denormalized counters, derived-field maintenance,
// and event production.
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

const maxNameLength = 100

type EventProducer interface {
	Produce(eventType events.EventType, key uuid.UUID, entity interface{})
}

// CompanyRepository defines the storage interface for Company objects.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ListCompanies(ctx context.Context, search string) ([]models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	SaveCompanyCounts(ctx context.Context, id uuid.UUID, departments, employees int) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	CompanyExistsByName(ctx context.Context, name string) (bool, error)
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     CompanyRepository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo CompanyRepository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany adds a new Company after validating input data,
// ensures name uniqueness, and triggers an event.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if company.CompanyName == "" || utf8.RuneCountInString(company.CompanyName) > maxNameLength {
		return nil, fmt.Errorf("%w: invalid company name", e.ErrInvalidInput)
	}

	exists, err := s.repo.CompanyExistsByName(ctx, company.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	company.ID = uuid.New()
	company.NumberOfDepartments = 0
	company.NumberOfEmployees = 0
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyCreated, company.ID, company)
	}()
	return company, nil
}

// GetCompany retrieves a Company by ID and refreshes its counters from the
// live relations, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	s.refreshCounts(ctx, company)
	return company, nil
}

// ListCompanies returns companies matching the optional search term, each
// with refreshed counters.
func (s *CompanyService) ListCompanies(ctx context.Context, search string) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	for i := range companies {
		s.refreshCounts(ctx, &companies[i])
	}
	return companies, nil
}

// UpdateCompany modifies the specified Company fields after checking the
// new name does not collide with a different company, then fetches the
// updated version for returning and event production.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if update.CompanyName != nil {
		if *update.CompanyName == "" || utf8.RuneCountInString(*update.CompanyName) > maxNameLength {
			return nil, fmt.Errorf("%w: invalid company name", e.ErrInvalidInput)
		}
		existing, err := s.repo.GetCompanyByName(ctx, *update.CompanyName)
		if err != nil && !errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("failed to check name existence: %w", err)
		}
		if err == nil && existing.ID != update.ID {
			return nil, e.ErrDuplicateName
		}
	}

	if err := s.repo.UpdateCompany(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get company for event",
			zap.Error(err),
			zap.String("company_id", update.ID.String()),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, updated.ID, updated)
	}()
	return updated, nil
}

// DeleteCompany removes a Company by ID, cascading to its departments and
// employees, and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyDeleted, company.ID, company)
	}()

	return nil
}

// refreshCounts recomputes the denormalized counters from the loaded
// relations and writes them back. The write is an opportunistic cache
// refresh; a failure does not fail the read.
func (s *CompanyService) refreshCounts(ctx context.Context, company *models.Company) {
	company.RefreshCounts()
	if err := s.repo.SaveCompanyCounts(ctx, company.ID, company.NumberOfDepartments, company.NumberOfEmployees); err != nil {
		s.logger.Warn("Failed to persist refreshed counters",
			zap.Error(err),
			zap.String("company_id", company.ID.String()),
		)
	}
}
