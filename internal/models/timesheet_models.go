// Package models contains the data models for the Projects API
package models

import "time"

// Timesheet represents one row of the ERP timesheet custom table.
// Time-of-day fields use the H*100+M integer encoding (830 = 08:30).
type Timesheet struct {
	DocEntry     *int      `json:"docEntry"`
	Code         *string   `json:"code"`
	ResId        *string   `json:"resId"`
	CardCode     *string   `json:"cardCode"`
	CardName     *string   `json:"cardName"`
	RefId        *string   `json:"refId"`
	RefData      *string   `json:"refData"`
	Project      *string   `json:"project"`
	ProjectName  *string   `json:"projectName"`
	SubProject   *string   `json:"subProject"`
	Activity     *string   `json:"activity"`
	ActivityId   *string   `json:"activityId"`
	SubActivity  *string   `json:"subActivity"`
	ActivityName *string   `json:"activityName"`
	Date         time.Time `json:"date"`
	TimeStart    *int      `json:"timeStart"`
	TimeEnd      *int      `json:"timeEnd"`
	TimePa       *int      `json:"timePa"`
	TimeNF       *int      `json:"timeNF"`
	TimeNrPa     *float64  `json:"timeNrPa"`
	TimeNrNF     *float64  `json:"timeNrNF"`
	TimeNrTot    *float64  `json:"timeNrTot"`
	TimeNrNet    *float64  `json:"timeNrNet"`
	Price        *float64  `json:"price"`
	LineTotal    *float64  `json:"lineTotal"`
	DescExt      *string   `json:"descExt"`
	DescInt      *string   `json:"descInt"`
	Status       *string   `json:"status"`
}

// TimesheetCreateRequest is the payload for creating a timesheet.
// Date uses the "YYYY-MM-DD" form.
type TimesheetCreateRequest struct {
	Date        string   `json:"date"`
	ResId       string   `json:"resId"`
	Project     string   `json:"project"`
	ActivityId  string   `json:"activityId"`
	Hours       float64  `json:"hours"`
	Description *string  `json:"description"`
	CardCode    *string  `json:"cardCode"`
	CardName    *string  `json:"cardName"`
	RefId       *string  `json:"refId"`
	RefData     *string  `json:"refData"`
	ProjectName *string  `json:"projectName"`
	SubProject  *string  `json:"subProject"`
	Activity    *string  `json:"activity"`
	SubActivity *string  `json:"subActivity"`
	TimeStart   *int     `json:"timeStart"`
	TimeEnd     *int     `json:"timeEnd"`
	TimePa      *int     `json:"timePa"`
	TimeNF      *int     `json:"timeNF"`
	TimeNrPa    *float64 `json:"timeNrPa"`
	TimeNrNF    *float64 `json:"timeNrNF"`
	TimeNrTot   *float64 `json:"timeNrTot"`
	Price       *float64 `json:"price"`
	LineTotal   *float64 `json:"lineTotal"`
	DescInt     *string  `json:"descInt"`
}

// TimesheetUpdateRequest is the payload for a partial update. Only fields
// that are set end up in the outbound ERP payload; nil fields are left
// untouched on the ERP side.
type TimesheetUpdateRequest struct {
	DocEntry    int      `json:"docEntry"`
	Date        *string  `json:"date"`
	ResId       *string  `json:"resId"`
	Project     *string  `json:"project"`
	ActivityId  *string  `json:"activityId"`
	Hours       *float64 `json:"hours"`
	Description *string  `json:"description"`
	CardCode    *string  `json:"cardCode"`
	CardName    *string  `json:"cardName"`
	RefId       *string  `json:"refId"`
	RefData     *string  `json:"refData"`
	ProjectName *string  `json:"projectName"`
	SubProject  *string  `json:"subProject"`
	Activity    *string  `json:"activity"`
	SubActivity *string  `json:"subActivity"`
	TimeStart   *int     `json:"timeStart"`
	TimeEnd     *int     `json:"timeEnd"`
	TimePa      *int     `json:"timePa"`
	TimeNF      *int     `json:"timeNF"`
	TimeNrPa    *float64 `json:"timeNrPa"`
	TimeNrNF    *float64 `json:"timeNrNF"`
	TimeNrTot   *float64 `json:"timeNrTot"`
	Price       *float64 `json:"price"`
	LineTotal   *float64 `json:"lineTotal"`
	DescInt     *string  `json:"descInt"`
	Status      *string  `json:"status"`
}
