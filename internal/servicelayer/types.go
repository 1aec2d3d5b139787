package servicelayer

// Session identifies an authenticated Service Layer session. RouteID is
// the sticky-routing cookie handed out by a clustered Service Layer; it
// must be replayed with every call so the session lands on the node that
// owns it.
type Session struct {
	ID      string
	RouteID string
}

type loginRequest struct {
	CompanyDB string `json:"CompanyDB"`
	UserName  string `json:"UserName"`
	Password  string `json:"Password"`
}

type loginResponse struct {
	SessionId      string `json:"SessionId"`
	Version        string `json:"Version"`
	SessionTimeout int    `json:"SessionTimeout"`
}

// TimesheetDocument is the wire form of one timesheet UDO record. All
// user-defined fields are optional; time-of-day fields travel as strings
// because the ERP round-trips them in free form.
type TimesheetDocument struct {
	DocEntry     *int     `json:"DocEntry,omitempty"`
	Code         *string  `json:"Code,omitempty"`
	ResID        *string  `json:"U_ResId,omitempty"`
	CardCode     *string  `json:"U_CardCode,omitempty"`
	CardName     *string  `json:"U_CardName,omitempty"`
	RefID        *string  `json:"U_RefId,omitempty"`
	RefData      *string  `json:"U_RefData,omitempty"`
	Project      *string  `json:"U_Project,omitempty"`
	ProjectName  *string  `json:"U_ProjectName,omitempty"`
	SubProject   *string  `json:"U_SubProject,omitempty"`
	Activity     *string  `json:"U_Activity,omitempty"`
	ActivityID   *string  `json:"U_ActivityId,omitempty"`
	SubActivity  *string  `json:"U_SubActivity,omitempty"`
	ActivityName *string  `json:"U_ActivityName,omitempty"`
	Date         *string  `json:"U_Date,omitempty"`
	TimeStart    *string  `json:"U_TimeStart,omitempty"`
	TimeEnd      *string  `json:"U_TimeEnd,omitempty"`
	TimePa       *string  `json:"U_TimePa,omitempty"`
	TimeNF       *string  `json:"U_TimeNF,omitempty"`
	TimeNrPa     *float64 `json:"U_TimeNrPa,omitempty"`
	TimeNrNF     *float64 `json:"U_TimeNrNF,omitempty"`
	TimeNrTot    *float64 `json:"U_TimeNrTot,omitempty"`
	TimeNrNet    *float64 `json:"U_TimeNrNet,omitempty"`
	Price        *float64 `json:"U_Price,omitempty"`
	LineTotal    *float64 `json:"U_LineTotal,omitempty"`
	DescExt      *string  `json:"U_DescExt,omitempty"`
	DescInt      *string  `json:"U_DescInt,omitempty"`
	Status       *string  `json:"U_Status,omitempty"`
}

// timesheetCollection is the `{ "value": [...] }` envelope returned for
// collection queries.
type timesheetCollection struct {
	Value []TimesheetDocument `json:"value"`
}
