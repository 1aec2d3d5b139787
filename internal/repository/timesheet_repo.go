package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sgsprojects/timesheet-api/internal/models"
)

// timesheetColumns selects the ERP custom-table columns field-for-field
// into models.Timesheet.
const timesheetColumns = `
	"DocEntry",
	"Code",
	"U_ResId" AS "ResId",
	"U_CardCode" AS "CardCode",
	"U_CardName" AS "CardName",
	"U_RefId" AS "RefId",
	"U_RefData" AS "RefData",
	"U_Project" AS "Project",
	"U_ProjectName" AS "ProjectName",
	"U_SubProject" AS "SubProject",
	"U_Activity" AS "Activity",
	"U_ActivityId" AS "ActivityId",
	"U_SubActivity" AS "SubActivity",
	"U_ActivityName" AS "ActivityName",
	"U_Date" AS "Date",
	"U_TimeStart" AS "TimeStart",
	"U_TimeEnd" AS "TimeEnd",
	"U_TimePa" AS "TimePa",
	"U_TimeNF" AS "TimeNF",
	"U_TimeNrPa" AS "TimeNrPa",
	"U_TimeNrNF" AS "TimeNrNF",
	"U_TimeNrTot" AS "TimeNrTot",
	"U_TimeNrNet" AS "TimeNrNet",
	"U_Price" AS "Price",
	"U_LineTotal" AS "LineTotal",
	"U_DescExt" AS "DescExt",
	"U_DescInt" AS "DescInt",
	"U_Status" AS "Status"`

type TimesheetRepository struct {
	DB *gorm.DB
}

// NewTimesheetRepository creates a new repository for the timesheet API
func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{DB: db}
}

// GetTimesheets returns all timesheets, newest activity date first.
func (r *TimesheetRepository) GetTimesheets(ctx context.Context) ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.DB.WithContext(ctx).Raw(`
		SELECT ` + timesheetColumns + `
		FROM "@SGS_PRJ_OTMS"
		ORDER BY "U_Date" DESC`).Scan(&timesheets).Error
	return timesheets, err
}

// GetTimesheetByDocEntry returns a single timesheet, or nil when absent.
func (r *TimesheetRepository) GetTimesheetByDocEntry(ctx context.Context, docEntry int) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	res := r.DB.WithContext(ctx).Raw(`
		SELECT `+timesheetColumns+`
		FROM "@SGS_PRJ_OTMS"
		WHERE "DocEntry" = ?`, docEntry).Scan(&timesheet)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &timesheet, nil
}

// GetTimesheetsByResource returns the timesheets of one resource.
func (r *TimesheetRepository) GetTimesheetsByResource(ctx context.Context, resId string) ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.DB.WithContext(ctx).Raw(`
		SELECT `+timesheetColumns+`
		FROM "@SGS_PRJ_OTMS"
		WHERE "U_ResId" = ?
		ORDER BY "U_Date" DESC`, resId).Scan(&timesheets).Error
	return timesheets, err
}

// GetTimesheetsByProject returns the timesheets of one project.
func (r *TimesheetRepository) GetTimesheetsByProject(ctx context.Context, project string) ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.DB.WithContext(ctx).Raw(`
		SELECT `+timesheetColumns+`
		FROM "@SGS_PRJ_OTMS"
		WHERE "U_Project" = ?
		ORDER BY "U_Date" DESC`, project).Scan(&timesheets).Error
	return timesheets, err
}

// GetTimesheetsByDateRange returns timesheets with activity dates inside
// the inclusive range.
func (r *TimesheetRepository) GetTimesheetsByDateRange(ctx context.Context, start, end time.Time) ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.DB.WithContext(ctx).Raw(`
		SELECT `+timesheetColumns+`
		FROM "@SGS_PRJ_OTMS"
		WHERE "U_Date" BETWEEN ? AND ?
		ORDER BY "U_Date" DESC`, start, end).Scan(&timesheets).Error
	return timesheets, err
}

// GetTimesheetsByResourceAndDateRange combines the resource and date
// range filters.
func (r *TimesheetRepository) GetTimesheetsByResourceAndDateRange(ctx context.Context, resId string, start, end time.Time) ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.DB.WithContext(ctx).Raw(`
		SELECT `+timesheetColumns+`
		FROM "@SGS_PRJ_OTMS"
		WHERE "U_ResId" = ? AND "U_Date" BETWEEN ? AND ?
		ORDER BY "U_Date" DESC`, resId, start, end).Scan(&timesheets).Error
	return timesheets, err
}

// GetActivityTimeTotal sums the net hours booked on a project/activity
// pair. Returns nil when nothing is booked.
func (r *TimesheetRepository) GetActivityTimeTotal(ctx context.Context, project, activityId string) (*models.ActivityTimeTotal, error) {
	var total models.ActivityTimeTotal
	res := r.DB.WithContext(ctx).Raw(`
		SELECT
			"U_Project" AS "Project",
			"U_ActivityId" AS "ActivityId",
			COALESCE(SUM("U_TimeNrNet"), 0) AS "TimeTot"
		FROM "@SGS_PRJ_OTMS"
		WHERE "U_Project" = ? AND "U_ActivityId" = ?
		GROUP BY "U_Project", "U_ActivityId"`, project, activityId).Scan(&total)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &total, nil
}
