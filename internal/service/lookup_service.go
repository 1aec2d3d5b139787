package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/sgsprojects/timesheet-api/internal/models"
	"github.com/sgsprojects/timesheet-api/internal/repository"
)

// LookupService serves the reference data the timesheet UI needs when
// booking time. All of it is read straight from the ERP company schema.
type LookupService struct {
	repo *repository.LookupRepository
}

// NewLookupService creates a new service for the lookup API
func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{repo: repository.NewLookupRepository(db)}
}

func (s *LookupService) GetCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	return s.repo.GetCustomers(ctx)
}

func (s *LookupService) GetContactsByCustomer(ctx context.Context, cardCode string) ([]models.ContactSummary, error) {
	return s.repo.GetContactsByCustomer(ctx, cardCode)
}

func (s *LookupService) GetProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	return s.repo.GetProjects(ctx)
}

func (s *LookupService) GetProjectsByCustomer(ctx context.Context, cardCode string) ([]models.ProjectSummary, error) {
	return s.repo.GetProjectsByCustomer(ctx, cardCode)
}

func (s *LookupService) GetActivitiesByProject(ctx context.Context, projectCode string) ([]models.ActivitySummary, error) {
	return s.repo.GetActivitiesByProject(ctx, projectCode)
}

func (s *LookupService) GetResources(ctx context.Context) ([]models.ResourceSummary, error) {
	return s.repo.GetResources(ctx)
}

func (s *LookupService) GetResourcesForUser(ctx context.Context, username string) ([]models.ResourceSummary, error) {
	return s.repo.GetResourcesForUser(ctx, username)
}
