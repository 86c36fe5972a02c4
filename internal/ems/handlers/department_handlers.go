package handlers

import (
	"net/http"

	"github.com/gartstein/ems/internal/ems/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DepartmentHandler serves the /v1/departments resource.
type DepartmentHandler struct {
	service DepartmentController
	logger  *zap.Logger
}

// NewDepartmentHandler constructs a DepartmentHandler.
func NewDepartmentHandler(service DepartmentController, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: service,
		logger:  logger.Named("department_handler"),
	}
}

type createDepartmentRequest struct {
	CompanyID      string `json:"companyId" binding:"required,uuid"`
	DepartmentName string `json:"departmentName" binding:"required,min=2,max=100"`
	Description    string `json:"description" binding:"omitempty,max=500"`
}

type updateDepartmentRequest struct {
	CompanyID      *string `json:"companyId" binding:"omitempty,uuid"`
	DepartmentName *string `json:"departmentName" binding:"omitempty,min=2,max=100"`
	Description    *string `json:"description" binding:"omitempty,max=500"`
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	var req createDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.service.CreateDepartment(c.Request.Context(), &models.Department{
		CompanyID:      uuid.MustParse(req.CompanyID),
		DepartmentName: req.DepartmentName,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// ListByCompany serves GET /v1/companies/:id/departments.
func (h *DepartmentHandler) ListByCompany(c *gin.Context) {
	companyID, ok := parseIDParam(c)
	if !ok {
		return
	}
	departments, err := h.service.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	department, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, department)
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req updateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := &models.DepartmentUpdate{
		ID:             id,
		DepartmentName: req.DepartmentName,
		Description:    req.Description,
	}
	if req.CompanyID != nil {
		companyID := uuid.MustParse(*req.CompanyID)
		update.CompanyID = &companyID
	}

	updated, err := h.service.UpdateDepartment(c.Request.Context(), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
