package service

import (
	"context"
	"strings"
	"time"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/security"
)

type workshopService struct {
	workshopRepo     repository.WorkshopRepository
	presentationRepo repository.PresentationRequestRepository
	policy           *security.Policy
	now              func() time.Time
}

func NewWorkshopService(
	workshopRepo repository.WorkshopRepository,
	presentationRepo repository.PresentationRequestRepository,
	policy *security.Policy,
) WorkshopService {
	return &workshopService{
		workshopRepo:     workshopRepo,
		presentationRepo: presentationRepo,
		policy:           policy,
		now:              time.Now,
	}
}

func (s *workshopService) ListWorkshops(ctx context.Context) ([]domain.Workshop, error) {
	workshops, err := s.workshopRepo.List(ctx)
	if err != nil {
		err = domain.Downstream("list workshops", err)
		logger.OperationFailed(ctx, "ListWorkshops", "", "", err)
		return nil, err
	}
	return workshops, nil
}

func (s *workshopService) GetWorkshop(ctx context.Context, id string) (*domain.Workshop, error) {
	w, err := s.workshopRepo.GetByID(ctx, id)
	if err != nil {
		err = domain.Downstream("get workshop", err)
		logger.OperationFailed(ctx, "GetWorkshop", "", id, err)
		return nil, err
	}
	return w, nil
}

func normalizeWorkshop(w *domain.Workshop) error {
	w.Title = strings.TrimSpace(w.Title)
	w.PresenterName = strings.TrimSpace(w.PresenterName)
	w.PresenterLinkedIn = strings.TrimSpace(w.PresenterLinkedIn)
	w.YoutubeURL = strings.TrimSpace(w.YoutubeURL)
	w.Date = strings.TrimSpace(w.Date)

	if err := validateRequired("title", w.Title); err != nil {
		return err
	}
	if err := validateRequired("presenterName", w.PresenterName); err != nil {
		return err
	}
	if err := validateDate("date", w.Date); err != nil {
		return err
	}
	switch w.Type {
	case domain.WorkshopTypePaper, domain.WorkshopTypeStartup, domain.WorkshopTypeOther:
	case "":
		w.Type = domain.WorkshopTypeOther
	default:
		return domain.NewValidationError("type", "must be paper, startup or other")
	}
	if w.PresenterLinkedIn != "" {
		if err := validateURL("presenterLinkedIn", w.PresenterLinkedIn); err != nil {
			return err
		}
	}
	if w.YoutubeURL != "" {
		if err := validateURL("youtubeUrl", w.YoutubeURL); err != nil {
			return err
		}
	}

	resources := make([]string, 0, len(w.Resources))
	for _, r := range w.Resources {
		if r = strings.TrimSpace(r); r != "" {
			resources = append(resources, r)
		}
	}
	w.Resources = resources
	return nil
}

func (s *workshopService) CreateWorkshop(ctx context.Context, actorEmail string, w *domain.Workshop) error {
	if !s.policy.CanManageWorkshopOrPresentation(actorEmail) {
		return domain.ErrUnauthorized
	}
	if err := normalizeWorkshop(w); err != nil {
		return err
	}
	if err := s.workshopRepo.Create(ctx, w); err != nil {
		err = domain.Downstream("create workshop", err)
		logger.OperationFailed(ctx, "CreateWorkshop", actorEmail, "", err)
		return err
	}
	logger.InfoContext(ctx, "Workshop created", "workshop_id", w.ID, "actor", actorEmail)
	return nil
}

func (s *workshopService) UpdateWorkshop(ctx context.Context, actorEmail string, w *domain.Workshop) error {
	if !s.policy.CanManageWorkshopOrPresentation(actorEmail) {
		return domain.ErrUnauthorized
	}
	if w.ID == "" {
		return domain.NewValidationError("id", "is required")
	}
	if err := normalizeWorkshop(w); err != nil {
		return err
	}
	if err := s.workshopRepo.Update(ctx, w); err != nil {
		err = domain.Downstream("update workshop", err)
		logger.OperationFailed(ctx, "UpdateWorkshop", actorEmail, w.ID, err)
		return err
	}
	return nil
}

func (s *workshopService) DeleteWorkshop(ctx context.Context, actorEmail, id string) error {
	if !s.policy.CanManageWorkshopOrPresentation(actorEmail) {
		return domain.ErrUnauthorized
	}
	if err := s.workshopRepo.Delete(ctx, id); err != nil {
		err = domain.Downstream("delete workshop", err)
		logger.OperationFailed(ctx, "DeleteWorkshop", actorEmail, id, err)
		return err
	}
	logger.InfoContext(ctx, "Workshop deleted", "workshop_id", id, "actor", actorEmail)
	return nil
}

func (s *workshopService) SubmitPresentationRequest(ctx context.Context, actor domain.Identity, req *domain.PresentationRequest) error {
	if actor.UID == "" {
		return domain.ErrUnauthorized
	}
	req.Title = strings.TrimSpace(req.Title)
	req.ProposedDate = strings.TrimSpace(req.ProposedDate)
	if err := validateRequired("title", req.Title); err != nil {
		return err
	}
	switch req.Type {
	case domain.PresentationTypePaper, domain.PresentationTypeStartup, domain.PresentationTypeOther, domain.PresentationTypeRequest:
	default:
		return domain.NewValidationError("type", "must be paper, startup, other or request")
	}
	if req.ProposedDate != "" {
		if err := validateDate("proposedDate", req.ProposedDate); err != nil {
			return err
		}
	}

	req.UserID = actor.UID
	req.UserEmail = actor.Email
	if strings.TrimSpace(req.UserName) == "" {
		req.UserName = actor.DisplayName
	}
	if req.UserName == "" {
		req.UserName = actor.Email
	}
	req.Status = domain.PresentationStatusPending
	req.CreatedAt = domain.Timestamp(s.now())
	req.CompletedAt = nil
	req.CompletedBy = nil

	if err := s.presentationRepo.Create(ctx, req); err != nil {
		err = domain.Downstream("create presentation request", err)
		logger.OperationFailed(ctx, "SubmitPresentationRequest", actor.Email, "", err)
		return err
	}
	logger.InfoContext(ctx, "Presentation request submitted", "request_id", req.ID, "uid", actor.UID)
	return nil
}

func (s *workshopService) ListPresentationRequests(ctx context.Context, actorEmail string) ([]domain.PresentationRequest, error) {
	if !s.policy.CanManageWorkshopOrPresentation(actorEmail) {
		return nil, domain.ErrUnauthorized
	}
	reqs, err := s.presentationRepo.List(ctx)
	if err != nil {
		err = domain.Downstream("list presentation requests", err)
		logger.OperationFailed(ctx, "ListPresentationRequests", actorEmail, "", err)
		return nil, err
	}
	return reqs, nil
}

func (s *workshopService) SetPresentationRequestStatus(ctx context.Context, actorEmail, id string, status domain.PresentationStatus) (*domain.PresentationRequest, error) {
	if status != domain.PresentationStatusPending && status != domain.PresentationStatusDone {
		return nil, domain.NewValidationError("status", "must be pending or done")
	}
	if !s.policy.CanManageWorkshopOrPresentation(actorEmail) {
		return nil, domain.ErrUnauthorized
	}

	var completedAt, completedBy *string
	if status == domain.PresentationStatusDone {
		stamp := domain.Timestamp(s.now())
		actor := actorEmail
		completedAt, completedBy = &stamp, &actor
	}
	if err := s.presentationRepo.UpdateStatus(ctx, id, status, completedAt, completedBy); err != nil {
		err = domain.Downstream("update presentation request", err)
		logger.OperationFailed(ctx, "SetPresentationRequestStatus", actorEmail, id, err)
		return nil, err
	}

	req, err := s.presentationRepo.GetByID(ctx, id)
	if err != nil {
		err = domain.Downstream("get presentation request", err)
		logger.OperationFailed(ctx, "SetPresentationRequestStatus", actorEmail, id, err)
		return nil, err
	}
	return req, nil
}
