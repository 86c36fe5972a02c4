package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	e "github.com/gartstein/ems/internal/ems/errors"
	"github.com/gartstein/ems/internal/ems/events"
	"github.com/gartstein/ems/internal/ems/models"
	"github.com/gartstein/ems/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

// MockEmployeeRepo implements EmployeeRepository for testing.
type MockEmployeeRepo struct {
	createEmployee        func(context.Context, *models.Employee) error
	getEmployee           func(context.Context, uuid.UUID) (*models.Employee, error)
	getEmployeeByEmail    func(context.Context, string) (*models.Employee, error)
	listEmployees         func(context.Context, string) ([]models.Employee, error)
	saveEmployee          func(context.Context, *models.Employee) error
	saveEmployeeDays      func(context.Context, uuid.UUID, int) error
	deleteEmployee        func(context.Context, uuid.UUID) error
	employeeExistsByEmail func(context.Context, string) (bool, error)
}

func (m *MockEmployeeRepo) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	return m.createEmployee(ctx, emp)
}

func (m *MockEmployeeRepo) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return m.getEmployee(ctx, id)
}

func (m *MockEmployeeRepo) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	if m.getEmployeeByEmail == nil {
		return nil, e.ErrNotFound
	}
	return m.getEmployeeByEmail(ctx, email)
}

func (m *MockEmployeeRepo) ListEmployees(ctx context.Context, search string) ([]models.Employee, error) {
	return m.listEmployees(ctx, search)
}

func (m *MockEmployeeRepo) SaveEmployee(ctx context.Context, emp *models.Employee) error {
	return m.saveEmployee(ctx, emp)
}

func (m *MockEmployeeRepo) SaveEmployeeDays(ctx context.Context, id uuid.UUID, days int) error {
	if m.saveEmployeeDays == nil {
		return nil
	}
	return m.saveEmployeeDays(ctx, id, days)
}

func (m *MockEmployeeRepo) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return m.deleteEmployee(ctx, id)
}

func (m *MockEmployeeRepo) EmployeeExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.employeeExistsByEmail(ctx, email)
}

// departmentServiceWith returns a DepartmentService whose repository
// resolves the given departments by ID.
func departmentServiceWith(t *testing.T, departments ...*models.Department) *DepartmentService {
	t.Helper()
	repo := &MockDepartmentRepo{
		getDepartment: func(_ context.Context, id uuid.UUID) (*models.Department, error) {
			for _, d := range departments {
				if d.ID == id {
					return d, nil
				}
			}
			return nil, e.ErrNotFound
		},
	}
	return NewDepartmentService(repo, companyServiceWith(t), &MockProducer{}, zaptest.NewLogger(t))
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	companyID := uuid.New()
	departmentID := uuid.New()
	otherCompanyDeptID := uuid.New()

	company := &models.Company{ID: companyID, CompanyName: "Main Co"}
	department := &models.Department{ID: departmentID, CompanyID: companyID}
	foreignDepartment := &models.Department{ID: otherCompanyDeptID, CompanyID: uuid.New()}

	tests := []struct {
		name          string
		input         *models.Employee
		mockSetup     func(*MockEmployeeRepo)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful creation with department",
			input: &models.Employee{
				CompanyID:    companyID,
				DepartmentID: &departmentID,
				EmployeeName: "Jane Doe",
				Email:        "jane@example.com",
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.employeeExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.createEmployee = func(_ context.Context, _ *models.Employee) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "successful creation without department",
			input: &models.Employee{
				CompanyID:    companyID,
				EmployeeName: "John Doe",
				Email:        "john@example.com",
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.employeeExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.createEmployee = func(_ context.Context, _ *models.Employee) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "duplicate email",
			input: &models.Employee{
				CompanyID:    companyID,
				EmployeeName: "Copy Cat",
				Email:        "taken@example.com",
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.employeeExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return true, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrDuplicateEmail,
		},
		{
			name: "unknown company",
			input: &models.Employee{
				CompanyID:    uuid.New(),
				EmployeeName: "Orphan",
				Email:        "orphan@example.com",
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.employeeExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
		{
			name: "department of another company",
			input: &models.Employee{
				CompanyID:    companyID,
				DepartmentID: &otherCompanyDeptID,
				EmployeeName: "Wanderer",
				Email:        "wanderer@example.com",
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.employeeExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "missing email",
			input: &models.Employee{
				CompanyID:    companyID,
				EmployeeName: "No Mail",
			},
			mockSetup:     func(_ *MockEmployeeRepo) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "unknown status",
			input: &models.Employee{
				CompanyID:    companyID,
				EmployeeName: "Odd Status",
				Email:        "odd@example.com",
				Status:       models.Status("fired"),
			},
			mockSetup:     func(_ *MockEmployeeRepo) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockEmployeeRepo{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(mockRepo)

			service := NewEmployeeService(
				mockRepo,
				companyServiceWith(t, company),
				departmentServiceWith(t, department, foreignDepartment),
				mockProducer,
				logger,
			)

			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			result, err := service.CreateEmployee(context.Background(), tt.input)

			if !tt.expectError {
				mockProducer.wg.Wait()
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.ID == uuid.Nil {
					t.Error("expected employee ID to be set")
				}
				if result.Status != models.StatusPending {
					t.Errorf("expected status to default to pending, got %q", result.Status)
				}
				if len(mockProducer.producedEvents) != 1 || mockProducer.producedEvents[0] != events.EmployeeCreated {
					t.Error("expected creation event to be produced")
				}
			}
		})
	}
}

// TestEmployeeService_GetEmployeeRefreshesDays verifies the derived field is
// recomputed against the current clock and written back on read.
func TestEmployeeService_GetEmployeeRefreshesDays(t *testing.T) {
	testID := uuid.New()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	hiredOn := now.AddDate(0, 0, -10)
	logger := zaptest.NewLogger(t)

	var savedDays int
	mockRepo := &MockEmployeeRepo{
		getEmployee: func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
			return &models.Employee{
				ID:           testID,
				HiredOn:      &hiredOn,
				DaysEmployed: 3,
			}, nil
		},
		saveEmployeeDays: func(_ context.Context, _ uuid.UUID, days int) error {
			savedDays = days
			return nil
		},
	}

	service := NewEmployeeService(mockRepo, companyServiceWith(t), departmentServiceWith(t), &MockProducer{}, logger)
	service.now = func() time.Time { return now }

	result, err := service.GetEmployee(context.Background(), testID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DaysEmployed != 10 {
		t.Errorf("expected refreshed days 10, got %d", result.DaysEmployed)
	}
	if savedDays != 10 {
		t.Errorf("expected persisted days 10, got %d", savedDays)
	}
}

// TestEmployeeService_ListEmployeesRecomputesWithoutPersist checks the list
// path refreshes the derived field in the results but does not write back.
func TestEmployeeService_ListEmployeesRecomputesWithoutPersist(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	hiredOn := now.AddDate(0, 0, -5)
	logger := zaptest.NewLogger(t)

	mockRepo := &MockEmployeeRepo{
		listEmployees: func(_ context.Context, _ string) ([]models.Employee, error) {
			return []models.Employee{
				{ID: uuid.New(), HiredOn: &hiredOn, DaysEmployed: 1},
				{ID: uuid.New()},
			}, nil
		},
		saveEmployeeDays: func(_ context.Context, _ uuid.UUID, _ int) error {
			t.Error("list must not persist the derived field")
			return nil
		},
	}

	service := NewEmployeeService(mockRepo, companyServiceWith(t), departmentServiceWith(t), &MockProducer{}, logger)
	service.now = func() time.Time { return now }

	result, err := service.ListEmployees(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result[0].DaysEmployed != 5 {
		t.Errorf("expected refreshed days 5, got %d", result[0].DaysEmployed)
	}
	if result[1].DaysEmployed != 0 {
		t.Errorf("expected 0 days without hire date, got %d", result[1].DaysEmployed)
	}
}

func TestEmployeeService_UpdateEmployee(t *testing.T) {
	testID := uuid.New()
	companyID := uuid.New()
	sameCompanyDeptID := uuid.New()
	otherCompanyDeptID := uuid.New()

	sameCompanyDept := &models.Department{ID: sameCompanyDeptID, CompanyID: companyID}
	foreignDept := &models.Department{ID: otherCompanyDeptID, CompanyID: uuid.New()}

	current := func() *models.Employee {
		return &models.Employee{
			ID:           testID,
			CompanyID:    companyID,
			EmployeeName: "Current",
			Email:        "current@example.com",
			Status:       models.StatusActive,
		}
	}

	tests := []struct {
		name          string
		input         *models.EmployeeUpdate
		mockSetup     func(*MockEmployeeRepo)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful update",
			input: &models.EmployeeUpdate{
				ID:           testID,
				EmployeeName: utils.Ptr("Renamed"),
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return current(), nil
				}
				mr.saveEmployee = func(_ context.Context, _ *models.Employee) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "own email is not a conflict",
			input: &models.EmployeeUpdate{
				ID:    testID,
				Email: utils.Ptr("current@example.com"),
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return current(), nil
				}
				mr.getEmployeeByEmail = func(_ context.Context, _ string) (*models.Employee, error) {
					t.Error("unchanged email must not be checked for conflicts")
					return nil, e.ErrNotFound
				}
				mr.saveEmployee = func(_ context.Context, _ *models.Employee) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "email taken by another employee",
			input: &models.EmployeeUpdate{
				ID:    testID,
				Email: utils.Ptr("taken@example.com"),
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return current(), nil
				}
				mr.getEmployeeByEmail = func(_ context.Context, _ string) (*models.Employee, error) {
					return &models.Employee{ID: uuid.New(), Email: "taken@example.com"}, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrDuplicateEmail,
		},
		{
			name: "move to department of same company",
			input: &models.EmployeeUpdate{
				ID:           testID,
				DepartmentID: &sameCompanyDeptID,
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return current(), nil
				}
				mr.saveEmployee = func(_ context.Context, _ *models.Employee) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "move to department of another company",
			input: &models.EmployeeUpdate{
				ID:           testID,
				DepartmentID: &otherCompanyDeptID,
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return current(), nil
				}
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "invalid ID",
			input: &models.EmployeeUpdate{
				ID: uuid.Nil,
			},
			mockSetup:     func(_ *MockEmployeeRepo) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "not found",
			input: &models.EmployeeUpdate{
				ID:           uuid.New(),
				EmployeeName: utils.Ptr("Ghost"),
			},
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return nil, e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockEmployeeRepo{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(mockRepo)

			service := NewEmployeeService(
				mockRepo,
				companyServiceWith(t),
				departmentServiceWith(t, sameCompanyDept, foreignDept),
				mockProducer,
				logger,
			)

			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			_, err := service.UpdateEmployee(context.Background(), tt.input)

			if !tt.expectError {
				mockProducer.wg.Wait()
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(mockProducer.producedEvents) != 1 || mockProducer.producedEvents[0] != events.EmployeeUpdated {
					t.Error("expected update event to be produced")
				}
			}
		})
	}
}

// TestEmployeeService_UpdateStatusActivationStampsHireDate verifies that
// activating an employee who has no hire date stamps it with the current
// moment and that the derived field comes out as zero for that moment.
func TestEmployeeService_UpdateStatusActivationStampsHireDate(t *testing.T) {
	testID := uuid.New()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	logger := zaptest.NewLogger(t)

	var saved *models.Employee
	mockRepo := &MockEmployeeRepo{
		getEmployee: func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
			return &models.Employee{
				ID:     testID,
				Status: models.StatusPending,
			}, nil
		},
		saveEmployee: func(_ context.Context, emp *models.Employee) error {
			saved = emp
			return nil
		},
	}

	mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
	service := NewEmployeeService(mockRepo, companyServiceWith(t), departmentServiceWith(t), mockProducer, logger)
	service.now = func() time.Time { return now }

	mockProducer.wg.Add(1)
	result, err := service.UpdateStatus(context.Background(), testID, models.StatusActive)
	mockProducer.wg.Wait()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.StatusActive {
		t.Errorf("expected status active, got %q", result.Status)
	}
	if result.HiredOn == nil || !result.HiredOn.Equal(now) {
		t.Errorf("expected hire date stamped with current moment, got %v", result.HiredOn)
	}
	if result.DaysEmployed != 0 {
		t.Errorf("expected 0 days employed at activation, got %d", result.DaysEmployed)
	}
	if saved == nil || saved.HiredOn == nil {
		t.Fatal("expected stamped hire date to be persisted")
	}
	if len(mockProducer.producedEvents) != 1 || mockProducer.producedEvents[0] != events.EmployeeStatusChanged {
		t.Error("expected status change event to be produced")
	}
}

// TestEmployeeService_UpdateStatusKeepsExistingHireDate checks that
// activation does not overwrite an already set hire date.
func TestEmployeeService_UpdateStatusKeepsExistingHireDate(t *testing.T) {
	testID := uuid.New()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	hiredOn := now.AddDate(0, 0, -30)
	logger := zaptest.NewLogger(t)

	mockRepo := &MockEmployeeRepo{
		getEmployee: func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
			return &models.Employee{
				ID:      testID,
				Status:  models.StatusOnLeave,
				HiredOn: &hiredOn,
			}, nil
		},
		saveEmployee: func(_ context.Context, _ *models.Employee) error {
			return nil
		},
	}

	mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
	service := NewEmployeeService(mockRepo, companyServiceWith(t), departmentServiceWith(t), mockProducer, logger)
	service.now = func() time.Time { return now }

	mockProducer.wg.Add(1)
	result, err := service.UpdateStatus(context.Background(), testID, models.StatusActive)
	mockProducer.wg.Wait()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HiredOn.Equal(hiredOn) {
		t.Errorf("expected original hire date kept, got %v", result.HiredOn)
	}
	if result.DaysEmployed != 30 {
		t.Errorf("expected 30 days employed, got %d", result.DaysEmployed)
	}
}

func TestEmployeeService_UpdateStatusRejectsUnknown(t *testing.T) {
	logger := zaptest.NewLogger(t)
	service := NewEmployeeService(&MockEmployeeRepo{}, companyServiceWith(t), departmentServiceWith(t), &MockProducer{}, logger)

	_, err := service.UpdateStatus(context.Background(), uuid.New(), models.Status("fired"))
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	testID := uuid.New()

	tests := []struct {
		name          string
		mockSetup     func(*MockEmployeeRepo)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful deletion",
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return &models.Employee{ID: testID}, nil
				}
				mr.deleteEmployee = func(_ context.Context, _ uuid.UUID) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "not found",
			mockSetup: func(mr *MockEmployeeRepo) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return nil, e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockEmployeeRepo{}
			mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
			tt.mockSetup(mockRepo)

			service := NewEmployeeService(mockRepo, companyServiceWith(t), departmentServiceWith(t), mockProducer, logger)

			if !tt.expectError {
				mockProducer.wg.Add(1)
			}

			err := service.DeleteEmployee(context.Background(), testID)

			if !tt.expectError {
				mockProducer.wg.Wait()
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(mockProducer.producedEvents) != 1 || mockProducer.producedEvents[0] != events.EmployeeDeleted {
					t.Error("expected deletion event to be produced")
				}
			}
		})
	}
}
