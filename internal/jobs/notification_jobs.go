package jobs

import (
	"context"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
)

// SendPendingRequestDigest emails every admin the join requests awaiting a decision.
// Nothing is sent when the queue is empty.
func (jr *JobRunner) SendPendingRequestDigest() {
	jr.runWithRecovery("SendPendingRequestDigest", func(ctx context.Context) {
		sent, err := jr.sendPendingRequestDigest(ctx)
		if err != nil {
			logger.Error("Failed to send pending request digest", "error", err)
			return
		}
		logger.Info("Pending request digest sent", "admins_notified", sent)
	})
}

func (jr *JobRunner) sendPendingRequestDigest(ctx context.Context) (int, error) {
	pending, err := jr.requests.ListByStatus(ctx, domain.JoinRequestStatusPending)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		logger.Debug("No pending join requests")
		return 0, nil
	}

	sent := 0
	for _, admin := range jr.policy.AdminEmails() {
		if err := jr.email.SendPendingRequestDigest(ctx, admin, pending); err != nil {
			logger.Error("Failed to send pending request digest",
				"admin", admin,
				"pending", len(pending),
				"error", err)
			continue
		}
		sent++
		logger.Debug("Sent pending request digest", "admin", admin, "pending", len(pending))
	}
	return sent, nil
}

// SendProfileReminders nudges approved members whose profile is not yet complete
func (jr *JobRunner) SendProfileReminders() {
	jr.runWithRecovery("SendProfileReminders", func(ctx context.Context) {
		sent, err := jr.sendProfileReminders(ctx)
		if err != nil {
			logger.Error("Failed to send profile reminders", "error", err)
			return
		}
		logger.Info("Profile reminders sent", "count", sent)
	})
}

func (jr *JobRunner) sendProfileReminders(ctx context.Context) (int, error) {
	accounts, err := jr.users.List(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, a := range accounts {
		if !a.IsApproved || a.ProfileCompleted || a.Email == "" {
			continue
		}
		if err := jr.email.SendProfileReminder(ctx, a.Email, a.DisplayName); err != nil {
			logger.Error("Failed to send profile reminder",
				"uid", a.UID,
				"email", a.Email,
				"error", err)
			continue
		}
		sent++
		logger.Debug("Sent profile reminder", "uid", a.UID, "email", a.Email)
	}
	return sent, nil
}
