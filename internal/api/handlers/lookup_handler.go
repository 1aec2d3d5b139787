package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sgsprojects/timesheet-api/internal/service"
	"github.com/sgsprojects/timesheet-api/pkg/utils/response"
)

// LookupHandler is the handler for the lookup API
type LookupHandler struct {
	service *service.LookupService
}

// NewLookupHandler creates a new handler for the lookup API
func NewLookupHandler(service *service.LookupService) *LookupHandler {
	return &LookupHandler{service: service}
}

// GetCustomers returns all active customers
func (h *LookupHandler) GetCustomers(c echo.Context) error {
	customers, err := h.service.GetCustomers(c.Request().Context())
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, customers)
}

// GetContactsByCustomer returns the contact persons of one customer
func (h *LookupHandler) GetContactsByCustomer(c echo.Context) error {
	cardCode := c.Param("cardCode")
	if cardCode == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`cardCode` is required")
	}

	contacts, err := h.service.GetContactsByCustomer(c.Request().Context(), cardCode)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, contacts)
}

// GetProjects returns all active projects
func (h *LookupHandler) GetProjects(c echo.Context) error {
	projects, err := h.service.GetProjects(c.Request().Context())
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, projects)
}

// GetProjectsByCustomer returns the projects of one customer
func (h *LookupHandler) GetProjectsByCustomer(c echo.Context) error {
	cardCode := c.Param("cardCode")
	if cardCode == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`cardCode` is required")
	}

	projects, err := h.service.GetProjectsByCustomer(c.Request().Context(), cardCode)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, projects)
}

// GetActivitiesByProject returns the activities configured for one project
func (h *LookupHandler) GetActivitiesByProject(c echo.Context) error {
	projectCode := c.Param("projectCode")
	if projectCode == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`projectCode` is required")
	}

	activities, err := h.service.GetActivitiesByProject(c.Request().Context(), projectCode)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, activities)
}

// GetResources returns all active employee resources
func (h *LookupHandler) GetResources(c echo.Context) error {
	resources, err := h.service.GetResources(c.Request().Context())
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, resources)
}

// GetMyResources returns the resources linked to the calling user
func (h *LookupHandler) GetMyResources(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "No username in token")
	}

	resources, err := h.service.GetResourcesForUser(c.Request().Context(), username)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, resources)
}
