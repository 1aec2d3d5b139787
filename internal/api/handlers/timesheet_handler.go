package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sgsprojects/timesheet-api/internal/models"
	"github.com/sgsprojects/timesheet-api/internal/service"
	"github.com/sgsprojects/timesheet-api/pkg/utils/response"
)

// TimesheetHandler is the handler for the timesheet API
type TimesheetHandler struct {
	service *service.TimesheetService
}

// NewTimesheetHandler creates a new handler for the timesheet API
func NewTimesheetHandler(service *service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{service: service}
}

// GetTimesheets returns all timesheets
func (h *TimesheetHandler) GetTimesheets(c echo.Context) error {
	timesheets, err := h.service.GetTimesheets(c.Request().Context())
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheets)
}

// GetTimesheetByDocEntry returns one timesheet by its DocEntry
func (h *TimesheetHandler) GetTimesheetByDocEntry(c echo.Context) error {
	docEntry, err := strconv.Atoi(c.Param("docEntry"))
	if err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`docEntry` must be an integer")
	}

	timesheet, err := h.service.GetTimesheetByDocEntry(c.Request().Context(), docEntry)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheet)
}

// GetTimesheetsByResource returns the timesheets of one resource
func (h *TimesheetHandler) GetTimesheetsByResource(c echo.Context) error {
	resId := c.Param("resId")
	if resId == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`resId` is required")
	}

	timesheets, err := h.service.GetTimesheetsByResource(c.Request().Context(), resId)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheets)
}

// GetTimesheetsByProject returns the timesheets of one project
func (h *TimesheetHandler) GetTimesheetsByProject(c echo.Context) error {
	project := c.Param("projectId")
	if project == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`projectId` is required")
	}

	timesheets, err := h.service.GetTimesheetsByProject(c.Request().Context(), project)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheets)
}

// GetTimesheetsByDateRange returns timesheets inside the date range
func (h *TimesheetHandler) GetTimesheetsByDateRange(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" || end == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`start` and `end` are required")
	}

	timesheets, err := h.service.GetTimesheetsByDateRange(c.Request().Context(), start, end)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheets)
}

// GetTimesheetsByResourceAndDateRange combines both filters
func (h *TimesheetHandler) GetTimesheetsByResourceAndDateRange(c echo.Context) error {
	resId := c.Param("resId")
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if resId == "" || start == "" || end == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`resId`, `start` and `end` are required")
	}

	timesheets, err := h.service.GetTimesheetsByResourceAndDateRange(c.Request().Context(), resId, start, end)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheets)
}

// GetActivityTimeTotal returns the net hours booked on a project/activity pair
func (h *TimesheetHandler) GetActivityTimeTotal(c echo.Context) error {
	project := c.QueryParam("project")
	activityId := c.QueryParam("activityId")
	if project == "" || activityId == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`project` and `activityId` are required")
	}

	total, err := h.service.GetActivityTimeTotal(c.Request().Context(), project, activityId)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, total)
}

// CreateTimesheet creates a new timesheet through the ERP
func (h *TimesheetHandler) CreateTimesheet(c echo.Context) error {
	var req models.TimesheetCreateRequest
	if err := c.Bind(&req); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}
	if req.Date == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`date` is required")
	}
	if req.ResId == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`resId` is required")
	}
	if req.Project == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`project` is required")
	}
	if req.ActivityId == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`activityId` is required")
	}

	timesheet, err := h.service.CreateTimesheet(c.Request().Context(), callerKey(c), req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.CreatedResponse(c, timesheet)
}

// UpdateTimesheet applies a partial update to one timesheet
func (h *TimesheetHandler) UpdateTimesheet(c echo.Context) error {
	docEntry, err := strconv.Atoi(c.Param("docEntry"))
	if err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`docEntry` must be an integer")
	}

	var req models.TimesheetUpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}
	req.DocEntry = docEntry

	timesheet, err := h.service.UpdateTimesheet(c.Request().Context(), callerKey(c), req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, timesheet)
}

// DeleteTimesheet removes one timesheet by its record code
func (h *TimesheetHandler) DeleteTimesheet(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`code` is required")
	}

	deleted, err := h.service.DeleteTimesheet(c.Request().Context(), callerKey(c), code)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	if !deleted {
		return response.ErrorResponse(c, http.StatusNotFound, "NotFoundException", "Record not found")
	}
	return response.SuccessResponse(c, map[string]string{"code": code})
}
