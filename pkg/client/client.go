// Package client is a typed client for the employee management API together
// with an in-memory state store. The store mirrors the collections held by
// the UI and refreshes them on explicit triggers: initial load and after
// every mutation issued through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Company mirrors the API's company resource.
type Company struct {
	ID                  string    `json:"id"`
	CompanyName         string    `json:"companyName"`
	NumberOfDepartments int       `json:"numberOfDepartments"`
	NumberOfEmployees   int       `json:"numberOfEmployees"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Department mirrors the API's department resource.
type Department struct {
	ID                string    `json:"id"`
	CompanyID         string    `json:"companyId"`
	DepartmentName    string    `json:"departmentName"`
	Description       string    `json:"description,omitempty"`
	NumberOfEmployees int       `json:"numberOfEmployees"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Employee mirrors the API's employee resource.
type Employee struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"companyId"`
	DepartmentID *string    `json:"departmentId"`
	Status       string     `json:"status"`
	EmployeeName string     `json:"employeeName"`
	Email        string     `json:"email"`
	MobileNumber string     `json:"mobileNumber"`
	Address      string     `json:"address"`
	Designation  string     `json:"designation"`
	Salary       float64    `json:"salary,omitempty"`
	HiredOn      *time.Time `json:"hiredOn"`
	DaysEmployed int        `json:"daysEmployed"`
}

// CompanyInput is the payload for company create/update calls. Nil fields
// are omitted from partial updates.
type CompanyInput struct {
	CompanyName *string `json:"companyName,omitempty"`
}

// DepartmentInput is the payload for department create/update calls.
type DepartmentInput struct {
	CompanyID      *string `json:"companyId,omitempty"`
	DepartmentName *string `json:"departmentName,omitempty"`
	Description    *string `json:"description,omitempty"`
}

// EmployeeInput is the payload for employee create/update calls.
type EmployeeInput struct {
	CompanyID    *string    `json:"companyId,omitempty"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	Status       *string    `json:"status,omitempty"`
	EmployeeName *string    `json:"employeeName,omitempty"`
	Email        *string    `json:"email,omitempty"`
	MobileNumber *string    `json:"mobileNumber,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Designation  *string    `json:"designation,omitempty"`
	Salary       *float64   `json:"salary,omitempty"`
	HiredOn      *time.Time `json:"hiredOn,omitempty"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client issues authenticated requests against the API and authentication
// services.
type Client struct {
	apiURL  string
	authURL string
	http    *http.Client
	token   string
}

// New constructs a Client for the given API and authentication endpoints.
func New(apiURL, authURL string) *Client {
	return &Client{
		apiURL:  apiURL,
		authURL: authURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs a bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates against the authentication service and installs the
// returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, c.authURL+"/v1/auth/login", body, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *Client) CreateCompany(ctx context.Context, in *CompanyInput) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodPost, c.apiURL+"/v1/companies", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCompanies(ctx context.Context, search string) ([]Company, error) {
	var out []Company
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/companies"+searchQuery(search), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/companies/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, in *CompanyInput) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodPatch, c.apiURL+"/v1/companies/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.apiURL+"/v1/companies/"+id, nil, nil)
}

func (c *Client) CreateDepartment(ctx context.Context, in *DepartmentInput) (*Department, error) {
	var out Department
	if err := c.do(ctx, http.MethodPost, c.apiURL+"/v1/departments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDepartments(ctx context.Context, search string) ([]Department, error) {
	var out []Department
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/departments"+searchQuery(search), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDepartment(ctx context.Context, id string) (*Department, error) {
	var out Department
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/departments/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDepartmentsByCompany(ctx context.Context, companyID string) ([]Department, error) {
	var out []Department
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/companies/"+companyID+"/departments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id string, in *DepartmentInput) (*Department, error) {
	var out Department
	if err := c.do(ctx, http.MethodPatch, c.apiURL+"/v1/departments/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.apiURL+"/v1/departments/"+id, nil, nil)
}

func (c *Client) CreateEmployee(ctx context.Context, in *EmployeeInput) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPost, c.apiURL+"/v1/employees", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEmployees(ctx context.Context, search string) ([]Employee, error) {
	var out []Employee
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/employees"+searchQuery(search), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/employees/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, in *EmployeeInput) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPatch, c.apiURL+"/v1/employees/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployeeStatus(ctx context.Context, id, status string) (*Employee, error) {
	var out Employee
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, c.apiURL+"/v1/employees/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.apiURL+"/v1/employees/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func searchQuery(search string) string {
	if search == "" {
		return ""
	}
	return "?search=" + url.QueryEscape(search)
}
