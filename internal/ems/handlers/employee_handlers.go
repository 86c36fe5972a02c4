package handlers

import (
	"net/http"
	"time"

	"github.com/gartstein/ems/internal/ems/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeHandler serves the /v1/employees resource.
type EmployeeHandler struct {
	service EmployeeController
	logger  *zap.Logger
}

// NewEmployeeHandler constructs an EmployeeHandler.
func NewEmployeeHandler(service EmployeeController, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.Named("employee_handler"),
	}
}

type createEmployeeRequest struct {
	CompanyID    string     `json:"companyId" binding:"required,uuid"`
	DepartmentID *string    `json:"departmentId" binding:"omitempty,uuid"`
	Status       *string    `json:"status" binding:"omitempty,oneof=pending active on_leave terminated resigned"`
	EmployeeName string     `json:"employeeName" binding:"required,min=2,max=100"`
	Email        string     `json:"email" binding:"required,email"`
	MobileNumber string     `json:"mobileNumber" binding:"required,min=7,max=20"`
	Address      string     `json:"address" binding:"required,min=5,max=500"`
	Designation  string     `json:"designation" binding:"required,min=2,max=100"`
	Salary       float64    `json:"salary" binding:"omitempty,gte=0"`
	HiredOn      *time.Time `json:"hiredOn"`
}

type updateEmployeeRequest struct {
	DepartmentID *string    `json:"departmentId" binding:"omitempty,uuid"`
	Status       *string    `json:"status" binding:"omitempty,oneof=pending active on_leave terminated resigned"`
	EmployeeName *string    `json:"employeeName" binding:"omitempty,min=2,max=100"`
	Email        *string    `json:"email" binding:"omitempty,email"`
	MobileNumber *string    `json:"mobileNumber" binding:"omitempty,min=7,max=20"`
	Address      *string    `json:"address" binding:"omitempty,min=5,max=500"`
	Designation  *string    `json:"designation" binding:"omitempty,min=2,max=100"`
	Salary       *float64   `json:"salary" binding:"omitempty,gte=0"`
	HiredOn      *time.Time `json:"hiredOn"`
}

type updateEmployeeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending active on_leave terminated resigned"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	employee := &models.Employee{
		CompanyID:    uuid.MustParse(req.CompanyID),
		EmployeeName: req.EmployeeName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Designation:  req.Designation,
		Salary:       req.Salary,
		HiredOn:      req.HiredOn,
	}
	if req.DepartmentID != nil {
		departmentID := uuid.MustParse(*req.DepartmentID)
		employee.DepartmentID = &departmentID
	}
	if req.Status != nil {
		employee.Status = models.Status(*req.Status)
	}

	created, err := h.service.CreateEmployee(c.Request.Context(), employee)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.service.ListEmployees(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	employee, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := &models.EmployeeUpdate{
		ID:           id,
		EmployeeName: req.EmployeeName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Designation:  req.Designation,
		Salary:       req.Salary,
		HiredOn:      req.HiredOn,
	}
	if req.DepartmentID != nil {
		departmentID := uuid.MustParse(*req.DepartmentID)
		update.DepartmentID = &departmentID
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		update.Status = &status
	}

	updated, err := h.service.UpdateEmployee(c.Request.Context(), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateStatus serves the narrow PATCH /v1/employees/:id/status operation.
func (h *EmployeeHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req updateEmployeeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, models.Status(req.Status))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
