package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"facilityaudit/internal/cache"
	"facilityaudit/internal/model"
	"facilityaudit/internal/report"
	"facilityaudit/internal/repository"
)

// TypeCount is the number of inspections of one type.
type TypeCount struct {
	Type        model.InspectionType `json:"inspection_type"`
	DisplayName string               `json:"display_name"`
	Count       int64                `json:"count"`
}

// MonthCount is the number of inspections created in one calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalInspections int64                            `json:"total_inspections"`
	StatusCounts     map[model.InspectionStatus]int64 `json:"status_counts"`
	TypeCounts       map[model.InspectionType]int64   `json:"type_counts"`
	TypeBreakdown    []TypeCount                      `json:"type_breakdown"`
	UsersByRole      map[model.Role]int64             `json:"users_by_role"`
	MonthlyTrend     []MonthCount                     `json:"monthly_trend"`
	Pending          int64                            `json:"pending_inspections"`
	Approved         int64                            `json:"approved_inspections"`
	Rejected         int64                            `json:"rejected_inspections"`
	Completed        int64                            `json:"completed_inspections"`
}

// TypeStats is the status breakdown of one inspection type.
type TypeStats struct {
	Type           model.InspectionType             `json:"inspection_type"`
	DisplayName    string                           `json:"display_name"`
	Total          int64                            `json:"total"`
	StatusCounts   map[model.InspectionStatus]int64 `json:"status_breakdown"`
	CompletionRate decimal.Decimal                  `json:"completion_rate"`
}

// DashboardService computes aggregate counts.
type DashboardService interface {
	Stats(ctx context.Context, actor *model.User) (*DashboardStats, error)
	InspectionTypeStats(ctx context.Context, actor *model.User) ([]TypeStats, error)
}

type dashboardService struct {
	inspections repository.InspectionRepository
	users       repository.UserRepository
	cache       *cache.Client
	now         func() time.Time
}

// NewDashboardService builds a DashboardService.
func NewDashboardService(inspections repository.InspectionRepository, users repository.UserRepository, cache *cache.Client) DashboardService {
	return &dashboardService{inspections: inspections, users: users, cache: cache, now: time.Now}
}

// Stats returns the admin overview. Results are cached briefly.
func (s *dashboardService) Stats(ctx context.Context, actor *model.User) (*DashboardStats, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	var cached DashboardStats
	if s.cache.GetJSON(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}

	total, err := s.inspections.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count inspections: %w", err)
	}
	byStatus, err := s.inspections.CountByStatus(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byType, err := s.inspections.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	byRole, err := s.users.CountActiveByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	trend, err := s.monthlyTrend(ctx, 6)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalInspections: total,
		StatusCounts:     byStatus,
		TypeCounts:       byType,
		UsersByRole:      byRole,
		MonthlyTrend:     trend,
		Pending:          byStatus[model.StatusPending],
		Approved:         byStatus[model.StatusApproved],
		Rejected:         byStatus[model.StatusRejected],
		Completed:        byStatus[model.StatusCompleted],
	}
	for _, t := range model.InspectionTypes {
		stats.TypeBreakdown = append(stats.TypeBreakdown, TypeCount{Type: t, DisplayName: t.DisplayName(), Count: byType[t]})
	}
	s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

// monthlyTrend counts inspections created in each of the last n calendar
// months, oldest first, the current month included.
func (s *dashboardService) monthlyTrend(ctx context.Context, n int) ([]MonthCount, error) {
	now := s.now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		count, err := s.inspections.CountCreatedBetween(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", start.Format("2006-01"), err)
		}
		out = append(out, MonthCount{Month: start.Format("2006-01"), Count: count})
	}
	return out, nil
}

// InspectionTypeStats returns a status breakdown for every inspection type.
func (s *dashboardService) InspectionTypeStats(ctx context.Context, actor *model.User) ([]TypeStats, error) {
	if err := requireRole(actor, model.RoleAdmin, model.RoleInspector); err != nil {
		return nil, err
	}
	out := make([]TypeStats, 0, len(model.InspectionTypes))
	for _, t := range model.InspectionTypes {
		counts, err := s.inspections.CountByStatus(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		var total int64
		for _, n := range counts {
			total += n
		}
		done := counts[model.StatusCompleted] + counts[model.StatusApproved]
		out = append(out, TypeStats{
			Type:           t,
			DisplayName:    t.DisplayName(),
			Total:          total,
			StatusCounts:   counts,
			CompletionRate: report.Percent(done, total),
		})
	}
	return out, nil
}
