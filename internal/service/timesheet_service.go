package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sgsprojects/timesheet-api/internal/models"
	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
	"github.com/sgsprojects/timesheet-api/pkg/utils/hhmm"
)

const dateLayout = "2006-01-02"

const statusDraft = "Draft"

// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD form")

// TimesheetService is the gateway over the two ERP channels: reads go
// through the relational store, writes through the Service Layer under a
// brokered per-caller session.
type TimesheetService struct {
	repo      *repository.TimesheetRepository
	sequences *repository.SequenceRepository
	broker    *SessionBroker
	client    *servicelayer.Client
}

// NewTimesheetService creates a new service for the timesheet API
func NewTimesheetService(db *gorm.DB, broker *SessionBroker, client *servicelayer.Client) *TimesheetService {
	return &TimesheetService{
		repo:      repository.NewTimesheetRepository(db),
		sequences: repository.NewSequenceRepository(db),
		broker:    broker,
		client:    client,
	}
}

// GetTimesheets returns all timesheets from the relational read path.
func (s *TimesheetService) GetTimesheets(ctx context.Context) ([]models.Timesheet, error) {
	return s.repo.GetTimesheets(ctx)
}

// GetTimesheetByDocEntry returns one timesheet, or ErrNotFound.
func (s *TimesheetService) GetTimesheetByDocEntry(ctx context.Context, docEntry int) (*models.Timesheet, error) {
	timesheet, err := s.repo.GetTimesheetByDocEntry(ctx, docEntry)
	if err != nil {
		return nil, err
	}
	if timesheet == nil {
		return nil, servicelayer.ErrNotFound
	}
	return timesheet, nil
}

// GetTimesheetsByResource returns the timesheets of one resource.
func (s *TimesheetService) GetTimesheetsByResource(ctx context.Context, resId string) ([]models.Timesheet, error) {
	return s.repo.GetTimesheetsByResource(ctx, resId)
}

// GetTimesheetsByProject returns the timesheets of one project.
func (s *TimesheetService) GetTimesheetsByProject(ctx context.Context, project string) ([]models.Timesheet, error) {
	return s.repo.GetTimesheetsByProject(ctx, project)
}

// GetTimesheetsByDateRange returns timesheets inside the date range.
func (s *TimesheetService) GetTimesheetsByDateRange(ctx context.Context, start, end string) ([]models.Timesheet, error) {
	startDate, endDate, err := parseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTimesheetsByDateRange(ctx, startDate, endDate)
}

// GetTimesheetsByResourceAndDateRange combines both filters.
func (s *TimesheetService) GetTimesheetsByResourceAndDateRange(ctx context.Context, resId, start, end string) ([]models.Timesheet, error) {
	startDate, endDate, err := parseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTimesheetsByResourceAndDateRange(ctx, resId, startDate, endDate)
}

// GetActivityTimeTotal sums the net hours on a project/activity pair.
func (s *TimesheetService) GetActivityTimeTotal(ctx context.Context, project, activityId string) (*models.ActivityTimeTotal, error) {
	total, err := s.repo.GetActivityTimeTotal(ctx, project, activityId)
	if err != nil {
		return nil, err
	}
	if total == nil {
		return nil, servicelayer.ErrNotFound
	}
	return total, nil
}

// CreateTimesheet allocates the next record code, creates the document
// through the Service Layer and returns the server's authoritative copy.
func (s *TimesheetService) CreateTimesheet(ctx context.Context, callerKey string, req models.TimesheetCreateRequest) (*models.Timesheet, error) {
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, ErrInvalidDate
	}

	code, err := s.sequences.NextTimesheetCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating timesheet code: %w", err)
	}

	doc := buildCreateDocument(code, req)

	var created *servicelayer.TimesheetDocument
	err = s.broker.Execute(ctx, callerKey, func(ctx context.Context, session *servicelayer.Session) error {
		result, err := s.client.Create(ctx, session, doc)
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapDocument(created), nil
}

// UpdateTimesheet applies a sparse update. The Service Layer write
// endpoint addresses records by code, so the DocEntry is resolved first;
// the record is re-read after the patch so the response reflects the
// server's copy, not the client's input.
func (s *TimesheetService) UpdateTimesheet(ctx context.Context, callerKey string, req models.TimesheetUpdateRequest) (*models.Timesheet, error) {
	fields, err := buildUpdateFields(req)
	if err != nil {
		return nil, err
	}

	var updated *servicelayer.TimesheetDocument
	err = s.broker.Execute(ctx, callerKey, func(ctx context.Context, session *servicelayer.Session) error {
		doc, err := s.client.FindByDocEntry(ctx, session, req.DocEntry)
		if err != nil {
			return err
		}
		if doc.Code == nil || *doc.Code == "" {
			return servicelayer.ErrNotFound
		}
		code := *doc.Code

		if len(fields) > 0 {
			if err := s.client.Update(ctx, session, code, fields); err != nil {
				return err
			}
		}

		updated, err = s.client.GetByCode(ctx, session, code)
		return err
	})
	if err != nil {
		return nil, err
	}

	return mapDocument(updated), nil
}

// DeleteTimesheet removes the record addressed by code. Returns false
// when the record does not exist.
func (s *TimesheetService) DeleteTimesheet(ctx context.Context, callerKey, code string) (bool, error) {
	err := s.broker.Execute(ctx, callerKey, func(ctx context.Context, session *servicelayer.Session) error {
		return s.client.Delete(ctx, session, code)
	})
	if err != nil {
		if errors.Is(err, servicelayer.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return startDate, endDate, nil
}

// buildCreateDocument maps a create request to the outbound wire form.
func buildCreateDocument(code string, req models.TimesheetCreateRequest) *servicelayer.TimesheetDocument {
	status := statusDraft
	doc := &servicelayer.TimesheetDocument{
		Code:        &code,
		Date:        &req.Date,
		ResID:       &req.ResId,
		Project:     &req.Project,
		ActivityID:  &req.ActivityId,
		TimeNrNet:   &req.Hours,
		DescExt:     req.Description,
		Status:      &status,
		CardCode:    req.CardCode,
		CardName:    req.CardName,
		RefID:       req.RefId,
		RefData:     req.RefData,
		ProjectName: req.ProjectName,
		SubProject:  req.SubProject,
		Activity:    req.Activity,
		SubActivity: req.SubActivity,
		TimeNrPa:    req.TimeNrPa,
		TimeNrNF:    req.TimeNrNF,
		TimeNrTot:   req.TimeNrTot,
		Price:       req.Price,
		LineTotal:   req.LineTotal,
		DescInt:     req.DescInt,
		TimeStart:   formatClock(req.TimeStart),
		TimeEnd:     formatClock(req.TimeEnd),
		TimePa:      formatClock(req.TimePa),
		TimeNF:      formatClock(req.TimeNF),
	}
	return doc
}

// buildUpdateFields maps only the set fields of an update request to the
// outbound sparse payload; nil fields never appear in it.
func buildUpdateFields(req models.TimesheetUpdateRequest) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if req.Date != nil {
		if _, err := time.Parse(dateLayout, *req.Date); err != nil {
			return nil, ErrInvalidDate
		}
		fields["U_Date"] = *req.Date
	}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			fields[key] = *v
		}
	}
	setClock := func(key string, v *int) {
		if v != nil {
			fields[key] = hhmm.Format(*v)
		}
	}

	setString("U_ResId", req.ResId)
	setString("U_Project", req.Project)
	setString("U_ActivityId", req.ActivityId)
	setFloat("U_TimeNrNet", req.Hours)
	setString("U_DescExt", req.Description)
	setString("U_CardCode", req.CardCode)
	setString("U_CardName", req.CardName)
	setString("U_RefId", req.RefId)
	setString("U_RefData", req.RefData)
	setString("U_ProjectName", req.ProjectName)
	setString("U_SubProject", req.SubProject)
	setString("U_Activity", req.Activity)
	setString("U_SubActivity", req.SubActivity)
	setClock("U_TimeStart", req.TimeStart)
	setClock("U_TimeEnd", req.TimeEnd)
	setClock("U_TimePa", req.TimePa)
	setClock("U_TimeNF", req.TimeNF)
	setFloat("U_TimeNrPa", req.TimeNrPa)
	setFloat("U_TimeNrNF", req.TimeNrNF)
	setFloat("U_TimeNrTot", req.TimeNrTot)
	setFloat("U_Price", req.Price)
	setFloat("U_LineTotal", req.LineTotal)
	setString("U_DescInt", req.DescInt)
	setString("U_Status", req.Status)

	return fields, nil
}

// mapDocument maps a wire document to the domain record. Time-of-day
// strings are normalized to HHMM integers; unparseable values become
// nil rather than failing the record.
func mapDocument(doc *servicelayer.TimesheetDocument) *models.Timesheet {
	timesheet := &models.Timesheet{
		DocEntry:     doc.DocEntry,
		Code:         doc.Code,
		ResId:        doc.ResID,
		CardCode:     doc.CardCode,
		CardName:     doc.CardName,
		RefId:        doc.RefID,
		RefData:      doc.RefData,
		Project:      doc.Project,
		ProjectName:  doc.ProjectName,
		SubProject:   doc.SubProject,
		Activity:     doc.Activity,
		ActivityId:   doc.ActivityID,
		SubActivity:  doc.SubActivity,
		ActivityName: doc.ActivityName,
		TimeNrPa:     doc.TimeNrPa,
		TimeNrNF:     doc.TimeNrNF,
		TimeNrTot:    doc.TimeNrTot,
		TimeNrNet:    doc.TimeNrNet,
		Price:        doc.Price,
		LineTotal:    doc.LineTotal,
		DescExt:      doc.DescExt,
		DescInt:      doc.DescInt,
		Status:       doc.Status,
	}

	if doc.Date != nil && len(*doc.Date) >= len(dateLayout) {
		if parsed, err := time.Parse(dateLayout, (*doc.Date)[:len(dateLayout)]); err == nil {
			timesheet.Date = parsed
		}
	}

	timesheet.TimeStart = parseClock(doc.TimeStart)
	timesheet.TimeEnd = parseClock(doc.TimeEnd)
	timesheet.TimePa = parseClock(doc.TimePa)
	timesheet.TimeNF = parseClock(doc.TimeNF)

	return timesheet
}

func parseClock(v *string) *int {
	if v == nil {
		return nil
	}
	return hhmm.Parse(*v)
}

func formatClock(v *int) *string {
	if v == nil {
		return nil
	}
	formatted := hhmm.Format(*v)
	return &formatted
}
