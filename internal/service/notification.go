package service

import (
	"context"

	"yamlrg-backend/internal/domain"
)

type emailNotifier struct {
	email EmailService
}

// NewEmailNotifier sends the welcome email when a join request is approved
func NewEmailNotifier(email EmailService) Notifier {
	return &emailNotifier{email: email}
}

func (n *emailNotifier) NotifyApproved(ctx context.Context, req domain.JoinRequest) error {
	return n.email.SendApprovalEmail(ctx, req.Email)
}
