package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yamlrg-backend/internal/config"
	"yamlrg-backend/internal/jobs"
	"yamlrg-backend/internal/repository/document"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/service"
	"yamlrg-backend/internal/storage"
)

func newRunner(schedule config.SchedulerConfig) *jobs.JobRunner {
	store := document.NewStore(storage.NewMemoryStore())
	email := service.NewLogEmailService(service.EmailLinks{})
	policy := security.NewPolicy([]string{"admin@yamlrg.com"})
	return jobs.NewJobRunner(store.JoinRequestRepository, store.UserAccountRepository, email, policy,
		&config.Config{Scheduler: schedule})
}

func TestNewScheduler(t *testing.T) {
	t.Run("Registers both jobs", func(t *testing.T) {
		s := NewScheduler(newRunner(config.SchedulerConfig{
			PendingRequestDigest: "0 0 8 * * *",
			ProfileReminder:      "0 0 9 * * MON",
		}))
		assert.Equal(t, 2, s.JobCount())
	})

	t.Run("Invalid schedule is skipped", func(t *testing.T) {
		s := NewScheduler(newRunner(config.SchedulerConfig{
			PendingRequestDigest: "every morning",
			ProfileReminder:      "0 0 9 * * MON",
		}))
		assert.Equal(t, 1, s.JobCount())
	})

	t.Run("Start and stop", func(t *testing.T) {
		s := NewScheduler(newRunner(config.SchedulerConfig{
			PendingRequestDigest: "0 0 8 * * *",
			ProfileReminder:      "0 0 9 * * MON",
		}))
		s.Start()
		s.Stop()
	})
}
