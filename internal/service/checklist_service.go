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
	"facilityaudit/internal/report"
	"facilityaudit/internal/repository"
)

const reportDateLayout = "2006-01-02"

// InspectionHeader carries the base inspection fields submitted with a checklist.
type InspectionHeader struct {
	Location       *string    `json:"location"`
	ClientName     *string    `json:"client_name"`
	InspectionDate *time.Time `json:"inspection_date"`
}

func (h InspectionHeader) validate(create bool) *apperrors.ValidationError {
	v := &apperrors.ValidationError{}
	check := func(field string, value *string, max int) {
		switch {
		case value == nil:
			if create {
				v.Add(field, "This field is required.")
			}
		case strings.TrimSpace(*value) == "":
			v.Add(field, "This field may not be blank.")
		case len([]rune(*value)) > max:
			v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", max))
		}
	}
	check("location", h.Location, 255)
	check("client_name", h.ClientName, 100)
	if v.Empty() {
		return nil
	}
	return v
}

func (h InspectionHeader) apply(base *model.BaseInspection) {
	if h.Location != nil {
		base.Location = strings.TrimSpace(*h.Location)
	}
	if h.ClientName != nil {
		base.ClientName = strings.TrimSpace(*h.ClientName)
	}
	if h.InspectionDate != nil {
		base.InspectionDate = h.InspectionDate
	}
}

// ReportInput holds the raw report query parameters.
type ReportInput struct {
	Format   string
	Status   string
	DateFrom string
	DateTo   string
}

// QuickReportKind names a preset export.
type QuickReportKind string

const (
	QuickSummary   QuickReportKind = "summary"
	QuickDetailed  QuickReportKind = "detailed"
	QuickAnalytics QuickReportKind = "analytics"
)

// ChecklistService manages one checklist variant and its exports.
type ChecklistService[P model.Checklist] interface {
	Create(ctx context.Context, actor *model.User, header InspectionHeader, checklist P) (P, error)
	List(ctx context.Context, actor *model.User) ([]P, error)
	Get(ctx context.Context, actor *model.User, id uint) (P, error)
	Update(ctx context.Context, actor *model.User, id uint, header InspectionHeader, apply func(P) error) (P, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
	Report(ctx context.Context, actor *model.User, in ReportInput) (*report.File, error)
	QuickReport(ctx context.Context, actor *model.User, kind QuickReportKind) (*report.File, error)
}

type checklistService[P model.Checklist] struct {
	slug    string
	repo    repository.ChecklistRepository[P]
	cache   *cache.Client
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewChecklistService builds the service for one variant. slug names export
// files, for example "fire-alarm" gives "fire-alarm-inspection-report.pdf".
func NewChecklistService[P model.Checklist](slug string, repo repository.ChecklistRepository[P], cache *cache.Client, m *metrics.Metrics) ChecklistService[P] {
	return &checklistService[P]{slug: slug, repo: repo, cache: cache, metrics: m, now: time.Now}
}

// Create stores a new checklist with a pending base inspection owned by actor.
func (s *checklistService[P]) Create(ctx context.Context, actor *model.User, header InspectionHeader, checklist P) (P, error) {
	var zero P
	if err := requireRole(actor, model.Roles...); err != nil {
		return zero, err
	}
	if verr := header.validate(true); verr != nil {
		return zero, verr
	}

	base := &model.BaseInspection{
		Status:          model.StatusPending,
		CreatedByID:     actor.ID,
		SubmittedByRole: actor.Role,
	}
	header.apply(base)

	meta := checklist.Meta()
	meta.ID = 0
	meta.CreatedAt, meta.UpdatedAt = time.Time{}, time.Time{}
	if r, ok := any(checklist).(model.ChildResetter); ok {
		r.ResetChildren()
	}
	if err := s.repo.Create(ctx, base, checklist); err != nil {
		return zero, err
	}
	_ = s.cache.Delete(ctx, statsCacheKey)
	logger.FromContext(ctx).Info("checklist created",
		"type", checklist.InspectionType(), "checklist_id", meta.ID, "inspection_id", base.ID)
	return s.repo.FindByID(ctx, meta.ID, nil)
}

func (s *checklistService[P]) List(ctx context.Context, actor *model.User) ([]P, error) {
	return s.repo.List(ctx, repository.ChecklistFilter{OwnerID: ownerScope(actor)})
}

func (s *checklistService[P]) Get(ctx context.Context, actor *model.User, id uint) (P, error) {
	return s.repo.FindByID(ctx, id, ownerScope(actor))
}

// Update applies changes to a visible checklist. apply mutates the loaded row;
// keys, the active flag and the workflow columns are restored afterwards.
func (s *checklistService[P]) Update(ctx context.Context, actor *model.User, id uint, header InspectionHeader, apply func(P) error) (P, error) {
	var zero P
	if verr := header.validate(false); verr != nil {
		return zero, verr
	}
	checklist, err := s.repo.FindByID(ctx, id, ownerScope(actor))
	if err != nil {
		return zero, err
	}

	base := *checklist.Base()
	meta := *checklist.Meta()
	if apply != nil {
		if err := apply(checklist); err != nil {
			return zero, err
		}
	}
	restored := checklist.Meta()
	restored.ID, restored.IsActive, restored.CreatedAt = meta.ID, meta.IsActive, meta.CreatedAt
	header.apply(&base)
	checklist.Attach(&base)

	if err := s.repo.Update(ctx, checklist, actor.ID); err != nil {
		return zero, err
	}
	return s.repo.FindByID(ctx, id, nil)
}

// Delete soft deletes a checklist. Admin only.
func (s *checklistService[P]) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return err
	}
	checklist, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, checklist, actor.ID); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, statsCacheKey)
	logger.FromContext(ctx).Info("checklist deactivated", "type", checklist.InspectionType(), "checklist_id", id)
	return nil
}

// Report exports the visible checklists matching in.
func (s *checklistService[P]) Report(ctx context.Context, actor *model.User, in ReportInput) (*report.File, error) {
	format, err := report.ParseFormat(in.Format)
	if err != nil {
		return nil, err
	}
	filter := repository.ChecklistFilter{OwnerID: ownerScope(actor)}
	if status := strings.ToLower(strings.TrimSpace(in.Status)); status != "" && status != "all" {
		filter.Status = model.InspectionStatus(status)
		if !filter.Status.Valid() {
			return nil, apperrors.NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", in.Status))
		}
	}
	if filter.From, err = parseReportDate(in.DateFrom); err != nil {
		return nil, err
	}
	if filter.To, err = parseReportDate(in.DateTo); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.render(format, s.slug+"-inspection-report", report.FromChecklists(s.title("Inspection Report"), rows), rows)
}

// QuickReport renders one of the preset exports over the visible checklists.
func (s *checklistService[P]) QuickReport(ctx context.Context, actor *model.User, kind QuickReportKind) (*report.File, error) {
	filter := repository.ChecklistFilter{OwnerID: ownerScope(actor)}
	switch kind {
	case QuickSummary:
		from := s.now().AddDate(0, 0, -30)
		filter.From = &from
	case QuickDetailed, QuickAnalytics:
	default:
		return nil, apperrors.NewValidationError("report_type", fmt.Sprintf("Unknown quick report %q.", kind))
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s-%s-report", s.slug, kind)
	switch kind {
	case QuickSummary:
		return s.render(report.FormatPDF, name, report.FromChecklists(s.title("Summary (Last 30 Days)"), rows), rows)
	case QuickDetailed:
		return s.render(report.FormatExcel, name, report.FromChecklists(s.title("Detailed Report"), rows), rows)
	default:
		counts := make(map[model.InspectionStatus]int64, len(model.Statuses))
		for _, row := range rows {
			if base := row.Base(); base != nil {
				counts[base.Status]++
			}
		}
		return s.render(report.FormatPDF, name, report.StatusSummary(s.title("Analytics"), counts), counts)
	}
}

func (s *checklistService[P]) render(format report.Format, name string, t report.Table, records any) (*report.File, error) {
	file, err := report.Render(format, name, t, records)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}
	var zero P
	s.metrics.ObserveReport(string(zero.InspectionType()), string(format))
	return file, nil
}

func (s *checklistService[P]) title(suffix string) string {
	var zero P
	return zero.InspectionType().DisplayName() + " " + suffix
}

func parseReportDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(reportDateLayout, value)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	return &t, nil
}
