package service

import (
	"context"
	"fmt"
	"time"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/utils"
)

type adminService struct {
	reqRepo  repository.JoinRequestRepository
	userRepo repository.UserAccountRepository
	policy   *security.Policy
	notifier Notifier
	now      func() time.Time
}

func NewAdminService(
	reqRepo repository.JoinRequestRepository,
	userRepo repository.UserAccountRepository,
	policy *security.Policy,
	notifier Notifier,
) AdminService {
	return &adminService{
		reqRepo:  reqRepo,
		userRepo: userRepo,
		policy:   policy,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *adminService) ListJoinRequests(ctx context.Context, actorEmail string) ([]domain.JoinRequest, error) {
	if !s.policy.CanMutateJoinRequest(actorEmail) {
		return nil, domain.ErrUnauthorized
	}
	reqs, err := s.reqRepo.List(ctx)
	if err != nil {
		err = domain.Downstream("list join requests", err)
		logger.OperationFailed(ctx, "ListJoinRequests", actorEmail, "", err)
		return nil, err
	}
	return reqs, nil
}

func (s *adminService) DecideJoinRequest(ctx context.Context, actorEmail, requestID string, outcome domain.JoinRequestStatus) (*DecisionResult, error) {
	if outcome != domain.JoinRequestStatusApproved && outcome != domain.JoinRequestStatusRejected {
		return nil, domain.NewValidationError("status", "must be approved or rejected")
	}
	if !s.policy.CanMutateJoinRequest(actorEmail) {
		return nil, domain.ErrUnauthorized
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		err = domain.Downstream("get join request", err)
		logger.OperationFailed(ctx, "DecideJoinRequest", actorEmail, requestID, err)
		return nil, err
	}
	if req.Status != domain.JoinRequestStatusPending {
		return nil, fmt.Errorf("join request %s is %s: %w", requestID, req.Status, domain.ErrInvalidTransition)
	}

	stamp := domain.Timestamp(s.now())
	actor := actorEmail
	if err := s.reqRepo.UpdateDecision(ctx, requestID, outcome, &stamp, &actor); err != nil {
		err = domain.Downstream("update join request", err)
		logger.OperationFailed(ctx, "DecideJoinRequest", actorEmail, requestID, err)
		return nil, err
	}
	req.Status = outcome
	req.ApprovedAt = &stamp
	req.ApprovedBy = &actor
	logger.InfoContext(ctx, "Join request decided", "request_id", requestID, "status", outcome, "actor", actorEmail)

	result := &DecisionResult{Request: req}
	if outcome == domain.JoinRequestStatusApproved && s.notifier != nil {
		// The decision is committed; a failed welcome email is only reported back.
		if err := s.notifier.NotifyApproved(ctx, *req); err != nil {
			logger.WarnContext(ctx, "Welcome email failed after approval",
				"request_id", requestID, "email", req.Email, "error", err)
			result.NotificationErr = err
		}
	}
	return result, nil
}

func (s *adminService) RevertJoinRequest(ctx context.Context, actorEmail, requestID string) (*domain.JoinRequest, error) {
	if !s.policy.CanMutateJoinRequest(actorEmail) {
		return nil, domain.ErrUnauthorized
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		err = domain.Downstream("get join request", err)
		logger.OperationFailed(ctx, "RevertJoinRequest", actorEmail, requestID, err)
		return nil, err
	}

	stamp := domain.Timestamp(s.now())
	actor := actorEmail
	if err := s.reqRepo.UpdateDecision(ctx, requestID, domain.JoinRequestStatusPending, &stamp, &actor); err != nil {
		err = domain.Downstream("update join request", err)
		logger.OperationFailed(ctx, "RevertJoinRequest", actorEmail, requestID, err)
		return nil, err
	}
	req.Status = domain.JoinRequestStatusPending
	req.ApprovedAt = &stamp
	req.ApprovedBy = &actor
	logger.InfoContext(ctx, "Join request reverted to pending", "request_id", requestID, "actor", actorEmail)
	return req, nil
}

func (s *adminService) ListUsers(ctx context.Context, actorEmail string, sortBy utils.UserSort) ([]domain.UserAccount, error) {
	if !s.policy.IsAdmin(actorEmail) {
		return nil, domain.ErrUnauthorized
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		err = domain.Downstream("list user accounts", err)
		logger.OperationFailed(ctx, "ListUsers", actorEmail, "", err)
		return nil, err
	}
	return utils.SortUsers(users, s.policy.IsAdmin, sortBy), nil
}

func (s *adminService) ApproveUser(ctx context.Context, actorEmail, uid string) error {
	if !s.policy.CanWriteApprovalFields(actorEmail) {
		return domain.ErrUnauthorized
	}
	return s.updateUser(ctx, "ApproveUser", actorEmail, uid, map[string]any{
		"isApproved": true,
		"approvedAt": domain.Timestamp(s.now()),
		"approvedBy": actorEmail,
	})
}

func (s *adminService) RemoveApproval(ctx context.Context, actorEmail, uid string) error {
	if !s.policy.CanWriteApprovalFields(actorEmail) {
		return domain.ErrUnauthorized
	}
	return s.updateUser(ctx, "RemoveApproval", actorEmail, uid, map[string]any{
		"isApproved": false,
		"approvedAt": nil,
		"approvedBy": nil,
	})
}

func (s *adminService) SetMemberVisibility(ctx context.Context, actorEmail, uid string, show bool) error {
	if !s.policy.IsAdmin(actorEmail) {
		return domain.ErrUnauthorized
	}
	return s.updateUser(ctx, "SetMemberVisibility", actorEmail, uid, map[string]any{"showInMembers": show})
}

func (s *adminService) SetProfileCompleted(ctx context.Context, actorEmail, uid string, completed bool) error {
	if !s.policy.IsAdmin(actorEmail) {
		return domain.ErrUnauthorized
	}
	return s.updateUser(ctx, "SetProfileCompleted", actorEmail, uid, map[string]any{"profileCompleted": completed})
}

func (s *adminService) updateUser(ctx context.Context, op, actorEmail, uid string, fields map[string]any) error {
	if err := s.userRepo.Update(ctx, uid, fields); err != nil {
		err = domain.Downstream("update user account", err)
		logger.OperationFailed(ctx, op, actorEmail, uid, err)
		return err
	}
	logger.InfoContext(ctx, "User account updated", "operation", op, "uid", uid, "actor", actorEmail)
	return nil
}
