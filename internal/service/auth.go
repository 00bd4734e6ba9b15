package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/identity"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/security"
)

type authService struct {
	reqRepo    repository.JoinRequestRepository
	userRepo   repository.UserAccountRepository
	identities identity.Provider
	policy     *security.Policy
	now        func() time.Time
}

func NewAuthService(
	reqRepo repository.JoinRequestRepository,
	userRepo repository.UserAccountRepository,
	identities identity.Provider,
	policy *security.Policy,
) AuthService {
	return &authService{
		reqRepo:    reqRepo,
		userRepo:   userRepo,
		identities: identities,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *authService) SubmitJoinRequest(ctx context.Context, email, name, interests, linkedinURL string) (*domain.JoinRequest, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	linkedinURL = strings.TrimSpace(linkedinURL)

	if err := validateEmail("email", email); err != nil {
		return nil, err
	}
	if err := validateRequired("name", name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(interests) > domain.MaxInterestsLength {
		return nil, domain.NewValidationError("interests", fmt.Sprintf("must be at most %d characters", domain.MaxInterestsLength))
	}
	if err := validateURL("linkedinUrl", linkedinURL); err != nil {
		return nil, err
	}

	existing, err := s.reqRepo.ListByEmail(ctx, email)
	if err != nil {
		err = domain.Downstream("list join requests", err)
		logger.OperationFailed(ctx, "SubmitJoinRequest", email, "", err)
		return nil, err
	}
	for _, req := range existing {
		if req.Status == domain.JoinRequestStatusPending || req.Status == domain.JoinRequestStatusApproved {
			return nil, fmt.Errorf("join request for %s is already %s: %w", email, req.Status, domain.ErrConflict)
		}
	}

	req := &domain.JoinRequest{
		Email:       email,
		Name:        name,
		Interests:   interests,
		LinkedinURL: linkedinURL,
		Status:      domain.JoinRequestStatusPending,
		CreatedAt:   domain.Timestamp(s.now()),
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		err = domain.Downstream("create join request", err)
		logger.OperationFailed(ctx, "SubmitJoinRequest", email, "", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Join request submitted", "request_id", req.ID, "email", email)
	return req, nil
}

func (s *authService) ReconcileOnFirstLogin(ctx context.Context, subject domain.Identity) (domain.ReconcileResult, *domain.UserAccount, error) {
	if subject.UID == "" {
		return "", nil, domain.NewValidationError("uid", "is required")
	}

	account, err := s.userRepo.GetByUID(ctx, subject.UID)
	if err == nil {
		return domain.ReconcileExists, account, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		err = domain.Downstream("get user account", err)
		logger.OperationFailed(ctx, "ReconcileOnFirstLogin", subject.Email, subject.UID, err)
		return "", nil, err
	}

	if subject.Email == "" {
		// tokens from some sign-in methods omit the email claim
		stored, err := s.identities.GetIdentity(ctx, subject.UID)
		switch {
		case err == nil:
			subject = mergeIdentity(subject, *stored)
		case !errors.Is(err, domain.ErrNotFound):
			err = domain.Downstream("get identity", err)
			logger.OperationFailed(ctx, "ReconcileOnFirstLogin", "", subject.UID, err)
			return "", nil, err
		}
	}
	if subject.Email == "" {
		return domain.ReconcileNoRequestNotice, nil, nil
	}

	reqs, err := s.reqRepo.ListByEmail(ctx, subject.Email)
	if err != nil {
		err = domain.Downstream("list join requests", err)
		logger.OperationFailed(ctx, "ReconcileOnFirstLogin", subject.Email, subject.UID, err)
		return "", nil, err
	}
	if len(reqs) == 0 {
		return domain.ReconcileNoRequestNotice, nil, nil
	}

	approved := earliestApproved(reqs)
	if approved == nil {
		return domain.ReconcilePendingNotice, nil, nil
	}

	account = accountFromRequest(subject, *approved, s.policy.IsAdmin(subject.Email), s.now())
	if err := s.userRepo.Create(ctx, account); err != nil {
		err = domain.Downstream("create user account", err)
		logger.OperationFailed(ctx, "ReconcileOnFirstLogin", subject.Email, subject.UID, err)
		return "", nil, err
	}

	logger.InfoContext(ctx, "User account created from join request",
		"uid", subject.UID, "request_id", approved.ID)
	return domain.ReconcileCreated, account, nil
}

// mergeIdentity fills the claims missing from a verified token with the provider record
func mergeIdentity(claims, stored domain.Identity) domain.Identity {
	if claims.Email == "" {
		claims.Email = stored.Email
	}
	if claims.DisplayName == "" {
		claims.DisplayName = stored.DisplayName
	}
	if claims.PhotoURL == "" {
		claims.PhotoURL = stored.PhotoURL
	}
	return claims
}

// earliestApproved picks the oldest approved request, or nil if none is approved
func earliestApproved(reqs []domain.JoinRequest) *domain.JoinRequest {
	var found *domain.JoinRequest
	for i := range reqs {
		req := &reqs[i]
		if req.Status != domain.JoinRequestStatusApproved {
			continue
		}
		if found == nil || req.CreatedAt < found.CreatedAt {
			found = req
		}
	}
	return found
}

func accountFromRequest(identity domain.Identity, req domain.JoinRequest, isAdmin bool, now time.Time) *domain.UserAccount {
	displayName := req.Name
	if displayName == "" {
		displayName = identity.DisplayName
	}
	joinedAt := req.CreatedAt
	if joinedAt == "" {
		joinedAt = domain.Timestamp(now)
	}
	return &domain.UserAccount{
		UID:         identity.UID,
		Email:       identity.Email,
		DisplayName: displayName,
		PhotoURL:    identity.PhotoURL,
		IsApproved:  true,
		IsAdmin:     isAdmin,
		LinkedinURL: req.LinkedinURL,
		JoinedAt:    joinedAt,
		ApprovedAt:  req.ApprovedAt,
		ApprovedBy:  req.ApprovedBy,
		JobListings: []domain.JobListing{},
	}
}
