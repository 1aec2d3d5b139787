package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sgsprojects/timesheet-api/internal/models"
)

type LookupRepository struct {
	DB *gorm.DB
}

// NewLookupRepository creates a new repository for the lookup API
func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{DB: db}
}

// GetCustomers returns all active customer business partners.
func (r *LookupRepository) GetCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	var customers []models.CustomerSummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT "CardCode", "CardName"
		FROM "OCRD"
		WHERE "CardType" = 'C' AND "frozenFor" = 'N'
		ORDER BY "CardName"`).Scan(&customers).Error
	return customers, err
}

// GetContactsByCustomer returns the contact persons of one customer.
func (r *LookupRepository) GetContactsByCustomer(ctx context.Context, cardCode string) ([]models.ContactSummary, error) {
	var contacts []models.ContactSummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT CAST("CntctCode" AS VARCHAR) AS "Code", "Name"
		FROM "OCPR"
		WHERE "CardCode" = ?
		ORDER BY "Name"`, cardCode).Scan(&contacts).Error
	return contacts, err
}

// GetProjects returns all projects.
func (r *LookupRepository) GetProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	var projects []models.ProjectSummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT "PrjCode" AS "Code", "PrjName" AS "Name"
		FROM "OPRJ"
		WHERE "Active" = 'Y'
		ORDER BY "PrjName"`).Scan(&projects).Error
	return projects, err
}

// GetProjectsByCustomer returns the projects of one customer.
func (r *LookupRepository) GetProjectsByCustomer(ctx context.Context, cardCode string) ([]models.ProjectSummary, error) {
	var projects []models.ProjectSummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT p."PrjCode" AS "Code", p."PrjName" AS "Name"
		FROM "OPRJ" p
		JOIN "@SGS_PRJ_CUS" pc ON pc."U_Project" = p."PrjCode"
		WHERE pc."U_CardCode" = ? AND p."Active" = 'Y'
		ORDER BY p."PrjName"`, cardCode).Scan(&projects).Error
	return projects, err
}

// GetActivitiesByProject returns the billable activities configured for
// one project, with their unit of measure and price.
func (r *LookupRepository) GetActivitiesByProject(ctx context.Context, projectCode string) ([]models.ActivitySummary, error) {
	var activities []models.ActivitySummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT
			"U_ActivityId" AS "Code",
			"U_ActivityName" AS "Name",
			"U_UoM" AS "UoM",
			COALESCE("U_Price", 0) AS "Price"
		FROM "@SGS_PRJ_ACT"
		WHERE "U_Project" = ?
		ORDER BY "U_ActivityName"`, projectCode).Scan(&activities).Error
	if err != nil {
		return nil, err
	}

	for i := range activities {
		activities[i].UoMPrice = activities[i].HourlyPrice()
	}
	return activities, nil
}

// GetResources returns all active employee resources.
func (r *LookupRepository) GetResources(ctx context.Context) ([]models.ResourceSummary, error) {
	var resources []models.ResourceSummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT CAST("empID" AS VARCHAR) AS "Code", "lastName" || ' ' || "firstName" AS "Name"
		FROM "OHEM"
		WHERE "Active" = 'Y'
		ORDER BY "lastName", "firstName"`).Scan(&resources).Error
	return resources, err
}

// GetResourcesForUser returns the resources linked to one ERP user
// account, so a caller can book time only as themselves.
func (r *LookupRepository) GetResourcesForUser(ctx context.Context, username string) ([]models.ResourceSummary, error) {
	var resources []models.ResourceSummary
	err := r.DB.WithContext(ctx).Raw(`
		SELECT CAST(e."empID" AS VARCHAR) AS "Code", e."lastName" || ' ' || e."firstName" AS "Name"
		FROM "OHEM" e
		JOIN "OUSR" u ON u."USERID" = e."userId"
		WHERE e."Active" = 'Y' AND u."USER_CODE" = ?
		ORDER BY e."lastName", e."firstName"`, username).Scan(&resources).Error
	return resources, err
}
