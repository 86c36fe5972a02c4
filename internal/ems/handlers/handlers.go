// Package handlers exposes the REST surface of the employee management
// service: Gin handlers per entity, request binding, error-to-status
// mapping, and the HTTP server lifecycle.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gartstein/ems/internal/ems/auth"
	e "github.com/gartstein/ems/internal/ems/errors"
	"github.com/gartstein/ems/internal/ems/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface the company
// handlers invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context, search string) ([]models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// DepartmentController defines the business logic interface the department
// handlers invoke.
type DepartmentController interface {
	CreateDepartment(ctx context.Context, department *models.Department) (*models.Department, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error)
	ListDepartments(ctx context.Context, search string) ([]models.Department, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Department, error)
	UpdateDepartment(ctx context.Context, update *models.DepartmentUpdate) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
}

// EmployeeController defines the business logic interface the employee
// handlers invoke.
type EmployeeController interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context, search string) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

// NewRouter wires the REST routes with authentication and per-route role
// allow-lists.
func NewRouter(companies *CompanyHandler, departments *DepartmentHandler, employees *EmployeeHandler, jwtSecret string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1", auth.Middleware(jwtSecret))

	admin := auth.RequireRole(models.RoleAdmin)
	managers := auth.RequireRole(models.RoleAdmin, models.RoleManager)
	everyone := auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleEmployee)

	v1.POST("/companies", admin, companies.Create)
	v1.GET("/companies", managers, companies.List)
	v1.GET("/companies/:id", managers, companies.Get)
	v1.PATCH("/companies/:id", admin, companies.Update)
	v1.DELETE("/companies/:id", admin, companies.Delete)
	v1.GET("/companies/:id/departments", managers, departments.ListByCompany)

	v1.POST("/departments", admin, departments.Create)
	v1.GET("/departments", everyone, departments.List)
	v1.GET("/departments/:id", everyone, departments.Get)
	v1.PATCH("/departments/:id", admin, departments.Update)
	v1.DELETE("/departments/:id", admin, departments.Delete)

	v1.POST("/employees", managers, employees.Create)
	v1.GET("/employees", everyone, employees.List)
	v1.GET("/employees/:id", everyone, employees.Get)
	v1.PATCH("/employees/:id", managers, employees.Update)
	v1.DELETE("/employees/:id", admin, employees.Delete)
	v1.PATCH("/employees/:id/status", managers, employees.UpdateStatus)

	return router
}

// mapServiceError maps domain or repository errors to HTTP status codes.
func mapServiceError(err error) int {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrDuplicateName), errors.Is(err, e.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status. Internal failures are logged and
// masked; semantic rejections surface their message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := mapServiceError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseIDParam parses the :id path parameter as a UUID.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
