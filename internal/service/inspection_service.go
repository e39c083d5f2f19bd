package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"facilityaudit/internal/cache"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/metrics"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
)

// ConductInput is the body of a conduct request.
type ConductInput struct {
	Comments string                 `json:"inspection_comments"`
	Status   model.InspectionStatus `json:"status"`
}

// ApproveInput is the body of an approve request.
type ApproveInput struct {
	Comments string                 `json:"approval_comments"`
	Status   model.InspectionStatus `json:"approval_status"`
}

// SearchInput holds the base inspection search parameters.
type SearchInput struct {
	Type       model.InspectionType
	Status     model.InspectionStatus
	ClientName string
	Location   string
	From       *time.Time
	To         *time.Time
}

// InspectionService drives the conduct and approve workflow of base inspections.
type InspectionService interface {
	Conduct(ctx context.Context, actor *model.User, id uint, in ConductInput) (*model.BaseInspection, error)
	Approve(ctx context.Context, actor *model.User, id uint, in ApproveInput) (*model.BaseInspection, error)
	Get(ctx context.Context, actor *model.User, id uint) (*model.BaseInspection, error)
	Search(ctx context.Context, actor *model.User, in SearchInput) ([]model.BaseInspection, error)
	History(ctx context.Context, actor *model.User, id uint) ([]model.InspectionEvent, error)
}

type inspectionService struct {
	repo    repository.InspectionRepository
	cache   *cache.Client
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewInspectionService builds an InspectionService. m may be nil.
func NewInspectionService(repo repository.InspectionRepository, cache *cache.Client, m *metrics.Metrics) InspectionService {
	return &inspectionService{repo: repo, cache: cache, metrics: m, now: time.Now}
}

// Conduct records that actor carried out the inspection. It succeeds at most
// once per inspection.
func (s *inspectionService) Conduct(ctx context.Context, actor *model.User, id uint, in ConductInput) (inspection *model.BaseInspection, err error) {
	defer func() { s.metrics.ObserveTransition(string(model.EventConducted), err) }()

	if err := requireRole(actor, model.RoleAdmin, model.RoleInspector); err != nil {
		return nil, err
	}
	switch in.Status {
	case "":
		in.Status = model.StatusCompleted
	case model.StatusCompleted, model.StatusRejected:
	default:
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", in.Status))
	}

	applied, err := s.repo.MarkConducted(ctx, id, repository.Transition{
		ActorID:  actor.ID,
		Comments: strings.TrimSpace(in.Comments),
		Status:   in.Status,
		At:       s.now(),
	})
	if err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperrors.ErrAlreadyConducted
	}
	s.invalidateStats(ctx)
	logger.FromContext(ctx).Info("inspection conducted", "inspection_id", id, "status", in.Status)
	return current, nil
}

// Approve records the admin decision on a conducted inspection. It succeeds at
// most once per inspection.
func (s *inspectionService) Approve(ctx context.Context, actor *model.User, id uint, in ApproveInput) (inspection *model.BaseInspection, err error) {
	defer func() { s.metrics.ObserveTransition(string(model.EventApproved), err) }()

	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	switch in.Status {
	case "":
		in.Status = model.StatusApproved
	case model.StatusApproved, model.StatusRejected:
	default:
		return nil, apperrors.NewValidationError("approval_status", fmt.Sprintf("%q is not a valid choice.", in.Status))
	}

	applied, err := s.repo.MarkApproved(ctx, id, repository.Transition{
		ActorID:  actor.ID,
		Comments: strings.TrimSpace(in.Comments),
		Status:   in.Status,
		At:       s.now(),
	})
	if err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		if current.Approved() {
			return nil, apperrors.ErrAlreadyApproved
		}
		return nil, apperrors.ErrNotConducted
	}
	s.invalidateStats(ctx)
	logger.FromContext(ctx).Info("inspection approved", "inspection_id", id, "status", in.Status)
	return current, nil
}

func (s *inspectionService) Get(ctx context.Context, actor *model.User, id uint) (*model.BaseInspection, error) {
	return s.repo.FindByID(ctx, id, ownerScope(actor))
}

// Search returns the visible inspections matching in, newest first.
func (s *inspectionService) Search(ctx context.Context, actor *model.User, in SearchInput) ([]model.BaseInspection, error) {
	rows, err := s.repo.Search(ctx, repository.InspectionFilter{
		OwnerID:    ownerScope(actor),
		Type:       in.Type,
		Status:     in.Status,
		ClientName: in.ClientName,
		Location:   in.Location,
		From:       in.From,
		To:         in.To,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNoInspectionsFound
	}
	return rows, nil
}

// History returns the event trail of a visible inspection.
func (s *inspectionService) History(ctx context.Context, actor *model.User, id uint) ([]model.InspectionEvent, error) {
	if _, err := s.repo.FindByID(ctx, id, ownerScope(actor)); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, id)
}

func (s *inspectionService) invalidateStats(ctx context.Context) {
	_ = s.cache.Delete(ctx, statsCacheKey)
}
