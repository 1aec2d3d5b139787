package models

// CustomerSummary is a business partner code/name pair.
type CustomerSummary struct {
	CardCode string `json:"cardCode"`
	CardName string `json:"cardName"`
}

// ContactSummary is a contact person of a business partner.
type ContactSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ProjectSummary is a project code/description pair.
type ProjectSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ActivitySummary is a billable activity of a project. UoMPrice is the
// hourly rate derived from the unit of measure ("GG" prices a full 8 hour
// day, "HH" prices a single hour).
type ActivitySummary struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	UoM      string  `json:"uom"`
	Price    float64 `json:"price"`
	UoMPrice float64 `json:"uomPrice"`
}

// HourlyPrice derives the per-hour rate from the unit of measure.
func (a ActivitySummary) HourlyPrice() float64 {
	switch a.UoM {
	case "GG":
		return a.Price / 8
	case "HH":
		return a.Price
	default:
		return 0
	}
}

// ResourceSummary is an active employee resource.
type ResourceSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ActivityTimeTotal is the summed net hours for a project/activity pair.
type ActivityTimeTotal struct {
	Project    string  `json:"project"`
	ActivityId string  `json:"activityId"`
	TimeTot    float64 `json:"timeTot"`
}
