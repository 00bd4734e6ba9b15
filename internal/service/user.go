package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/identity"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/utils"
)

type userService struct {
	userRepo   repository.UserAccountRepository
	identities identity.Provider
	policy     *security.Policy
	now        func() time.Time
}

func NewUserService(
	userRepo repository.UserAccountRepository,
	identities identity.Provider,
	policy *security.Policy,
) UserService {
	return &userService{
		userRepo:   userRepo,
		identities: identities,
		policy:     policy,
		now:        time.Now,
	}
}

// canActOn reports whether actor may modify the account uid: their own, or any as admin
func (s *userService) canActOn(actor domain.Identity, uid string) bool {
	return (actor.UID != "" && actor.UID == uid) || s.policy.IsAdmin(actor.Email)
}

func (s *userService) GetProfile(ctx context.Context, actor domain.Identity, uid string) (*domain.UserAccount, error) {
	if !s.canActOn(actor, uid) {
		return nil, domain.ErrUnauthorized
	}
	account, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		err = domain.Downstream("get user account", err)
		logger.OperationFailed(ctx, "GetProfile", actor.Email, uid, err)
		return nil, err
	}
	return account, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor domain.Identity, uid string, update domain.ProfileUpdate) (*domain.UserAccount, error) {
	if !s.canActOn(actor, uid) {
		return nil, domain.ErrUnauthorized
	}
	update = s.policy.StripApprovalFields(actor.Email, update)

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return nil, domain.NewValidationError("displayName", "must not be empty")
		}
		update.DisplayName = &name
	}
	if update.LinkedinURL != nil {
		normalized := utils.NormalizeLinkedInURL(*update.LinkedinURL)
		update.LinkedinURL = &normalized
		if actor.UID == uid && update.ProfileCompleted == nil {
			completed := normalized != ""
			update.ProfileCompleted = &completed
		}
	}
	if update.JobListings != nil {
		listings := make([]domain.JobListing, len(*update.JobListings))
		for i, l := range *update.JobListings {
			l = trimJobListing(l)
			if err := validateJobListing(l); err != nil {
				return nil, fmt.Errorf("job listing %d: %w", i, err)
			}
			listings[i] = l
		}
		update.JobListings = &listings
	}

	current, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		err = domain.Downstream("get user account", err)
		logger.OperationFailed(ctx, "UpdateProfile", actor.Email, uid, err)
		return nil, err
	}
	if update.JobListings != nil {
		canPost := current.IsApproved || s.policy.IsAdmin(actor.Email)
		listings, err := s.mergeJobListings(current.JobListings, *update.JobListings, canPost)
		if err != nil {
			return nil, err
		}
		update.JobListings = &listings
	}

	fields := update.Fields()
	fields["lastUpdate"] = domain.Timestamp(s.now())
	if err := s.userRepo.Update(ctx, uid, fields); err != nil {
		err = domain.Downstream("update user account", err)
		logger.OperationFailed(ctx, "UpdateProfile", actor.Email, uid, err)
		return nil, err
	}

	return s.GetProfile(ctx, actor, uid)
}

// mergeJobListings keeps the stored postedAt of listings already on the account
// and stamps the rest. Without canPost the result may only drop listings.
func (s *userService) mergeJobListings(current, requested []domain.JobListing, canPost bool) ([]domain.JobListing, error) {
	used := make([]bool, len(current))
	now := domain.Timestamp(s.now())
	merged := make([]domain.JobListing, 0, len(requested))
	for _, l := range requested {
		found := false
		for i, c := range current {
			if used[i] || c.Title != l.Title || c.Company != l.Company || c.Link != l.Link {
				continue
			}
			used[i] = true
			l.PostedAt = c.PostedAt
			found = true
			break
		}
		if !found {
			if !canPost {
				return nil, fmt.Errorf("posting jobs requires an approved account: %w", domain.ErrUnauthorized)
			}
			l.PostedAt = now
		}
		merged = append(merged, l)
	}
	return merged, nil
}

func trimJobListing(l domain.JobListing) domain.JobListing {
	l.Title = strings.TrimSpace(l.Title)
	l.Company = strings.TrimSpace(l.Company)
	l.Link = strings.TrimSpace(l.Link)
	return l
}

func validateJobListing(l domain.JobListing) error {
	if err := validateRequired("title", l.Title); err != nil {
		return err
	}
	if err := validateRequired("company", l.Company); err != nil {
		return err
	}
	if l.Link != "" {
		return validateURL("link", l.Link)
	}
	return nil
}

func (s *userService) AddJobListing(ctx context.Context, actor domain.Identity, uid string, listing domain.JobListing) (*domain.UserAccount, error) {
	if !s.canActOn(actor, uid) {
		return nil, domain.ErrUnauthorized
	}
	listing = trimJobListing(listing)
	if err := validateJobListing(listing); err != nil {
		return nil, err
	}

	account, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		err = domain.Downstream("get user account", err)
		logger.OperationFailed(ctx, "AddJobListing", actor.Email, uid, err)
		return nil, err
	}
	if !account.IsApproved && !s.policy.IsAdmin(actor.Email) {
		return nil, fmt.Errorf("posting jobs requires an approved account: %w", domain.ErrUnauthorized)
	}

	listing.PostedAt = domain.Timestamp(s.now())
	listings := append(append([]domain.JobListing{}, account.JobListings...), listing)
	if err := s.userRepo.Update(ctx, uid, map[string]any{"jobListings": domain.JobListingFields(listings)}); err != nil {
		err = domain.Downstream("update user account", err)
		logger.OperationFailed(ctx, "AddJobListing", actor.Email, uid, err)
		return nil, err
	}
	account.JobListings = listings
	logger.InfoContext(ctx, "Job listing added", "uid", uid, "title", listing.Title)
	return account, nil
}

func (s *userService) RemoveJobListing(ctx context.Context, actor domain.Identity, uid string, index int) (*domain.UserAccount, error) {
	if !s.canActOn(actor, uid) {
		return nil, domain.ErrUnauthorized
	}

	account, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		err = domain.Downstream("get user account", err)
		logger.OperationFailed(ctx, "RemoveJobListing", actor.Email, uid, err)
		return nil, err
	}
	if index < 0 || index >= len(account.JobListings) {
		return nil, domain.NewValidationError("index", fmt.Sprintf("must be between 0 and %d", len(account.JobListings)-1))
	}

	listings := make([]domain.JobListing, 0, len(account.JobListings)-1)
	listings = append(listings, account.JobListings[:index]...)
	listings = append(listings, account.JobListings[index+1:]...)
	if err := s.userRepo.Update(ctx, uid, map[string]any{"jobListings": domain.JobListingFields(listings)}); err != nil {
		err = domain.Downstream("update user account", err)
		logger.OperationFailed(ctx, "RemoveJobListing", actor.Email, uid, err)
		return nil, err
	}
	account.JobListings = listings
	return account, nil
}

// DeleteAccount removes the stored account, then the identity credential.
// A failed credential delete is not rolled back; the caller gets a DownstreamError.
func (s *userService) DeleteAccount(ctx context.Context, actor domain.Identity, uid string) error {
	if actor.UID == "" || actor.UID != uid {
		return domain.ErrUnauthorized
	}

	if err := s.userRepo.Delete(ctx, uid); err != nil {
		err = domain.Downstream("delete user account", err)
		logger.OperationFailed(ctx, "DeleteAccount", actor.Email, uid, err)
		return err
	}

	if err := s.identities.DeleteIdentity(ctx, uid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		logger.WarnContext(ctx, "Identity credential left without an account", "uid", uid, "error", err)
		return &domain.DownstreamError{Op: "delete identity", Err: err}
	}

	logger.InfoContext(ctx, "Account deleted", "uid", uid)
	return nil
}

// ListDirectory returns the accounts viewer may see. Viewers who are neither
// admin nor approved see admins only; others see every account that opted in
// plus admins.
func (s *userService) ListDirectory(ctx context.Context, viewer domain.Identity) ([]domain.UserAccount, error) {
	admins, err := s.userRepo.ListByEmails(ctx, s.policy.AdminEmails())
	if err != nil {
		err = domain.Downstream("list admin accounts", err)
		logger.OperationFailed(ctx, "ListDirectory", viewer.Email, "", err)
		return nil, err
	}

	privileged := s.policy.IsAdmin(viewer.Email)
	if !privileged {
		account, err := s.userRepo.GetByUID(ctx, viewer.UID)
		switch {
		case err == nil:
			privileged = account.IsApproved
		case !errors.Is(err, domain.ErrNotFound):
			err = domain.Downstream("get user account", err)
			logger.OperationFailed(ctx, "ListDirectory", viewer.Email, viewer.UID, err)
			return nil, err
		}
	}
	if !privileged {
		return sortByName(admins), nil
	}

	visible, err := s.userRepo.ListVisible(ctx)
	if err != nil {
		err = domain.Downstream("list visible accounts", err)
		logger.OperationFailed(ctx, "ListDirectory", viewer.Email, "", err)
		return nil, err
	}

	seen := make(map[string]bool, len(visible)+len(admins))
	members := make([]domain.UserAccount, 0, len(visible)+len(admins))
	for _, a := range admins {
		seen[a.UID] = true
		members = append(members, a)
	}
	for _, m := range visible {
		if seen[m.UID] {
			continue
		}
		seen[m.UID] = true
		members = append(members, m)
	}
	return sortByName(members), nil
}

func sortByName(accounts []domain.UserAccount) []domain.UserAccount {
	sort.SliceStable(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i].DisplayName) < strings.ToLower(accounts[j].DisplayName)
	})
	return accounts
}

func (s *userService) MemberGrowth(ctx context.Context, viewer domain.Identity) ([]utils.GrowthPoint, error) {
	members, err := s.ListDirectory(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return utils.GrowthSeries(members), nil
}

func (s *userService) ListJobs(ctx context.Context, viewer domain.Identity) ([]utils.JobPost, error) {
	accounts, err := s.userRepo.List(ctx)
	if err != nil {
		err = domain.Downstream("list user accounts", err)
		logger.OperationFailed(ctx, "ListJobs", viewer.Email, "", err)
		return nil, err
	}
	return utils.FlattenJobs(accounts), nil
}
