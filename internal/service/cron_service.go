package service

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/pkg/utils/zaplogger"
)

// CronService is the service for the scheduled jobs
type CronService struct {
	c           *cron.Cron
	credentials *repository.CredentialStore
}

// NewCronService creates a new CronService
func NewCronService(credentials *repository.CredentialStore) *CronService {
	return &CronService{
		c:           cron.New(),
		credentials: credentials,
	}
}

// Start starts the cron service
func (cs *CronService) Start() {
	zaplogger.Info("Initializing CronService")

	cs.addScheduledJob("Credential SWEEP Job", cs.credentialSweepJob, "@every 10m")

	cs.c.Start()
}

// Stop stops the cron service
func (cs *CronService) Stop() {
	cs.c.Stop()
}

// addScheduledJob adds a scheduled job to the cron service
func (cs *CronService) addScheduledJob(name string, job func(), spec string) {
	_, err := cs.c.AddFunc(spec, func() {
		zaplogger.Info("STARTED SCHEDULED job", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED SCHEDULED job", zaplogger.Fields{
			"job": name,
		})
	})
	if err != nil {
		zaplogger.Error("FAILED to add SCHEDULED job", zaplogger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info("Added SCHEDULED job", zaplogger.Fields{
		"job":  name,
		"spec": spec,
	})
}

// credentialSweepJob drops credentials whose tokens have expired, so
// passwords never outlive the tokens they were bound to.
func (cs *CronService) credentialSweepJob() {
	removed := cs.credentials.SweepExpired(time.Now())
	if removed > 0 {
		zaplogger.Info("swept expired credentials", zaplogger.Fields{
			"removed": removed,
		})
	}
}
