package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

// InspectionFilter narrows base inspection queries. Zero fields are ignored.
type InspectionFilter struct {
	OwnerID    *uint
	Type       model.InspectionType
	Status     model.InspectionStatus
	ClientName string
	Location   string
	From       *time.Time
	To         *time.Time
}

// Transition describes one workflow step applied to a base inspection.
type Transition struct {
	ActorID  uint
	Comments string
	Status   model.InspectionStatus
	At       time.Time
}

// InspectionRepository persists base inspections, their workflow and history.
type InspectionRepository interface {
	FindByID(ctx context.Context, id uint, ownerID *uint) (*model.BaseInspection, error)
	Search(ctx context.Context, filter InspectionFilter) ([]model.BaseInspection, error)
	MarkConducted(ctx context.Context, id uint, t Transition) (bool, error)
	MarkApproved(ctx context.Context, id uint, t Transition) (bool, error)
	ListEvents(ctx context.Context, inspectionID uint) ([]model.InspectionEvent, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, inspectionType model.InspectionType) (map[model.InspectionStatus]int64, error)
	CountByType(ctx context.Context) (map[model.InspectionType]int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type inspectionRepository struct {
	db *gorm.DB
}

// NewInspectionRepository builds a GORM-backed repository.
func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) FindByID(ctx context.Context, id uint, ownerID *uint) (*model.BaseInspection, error) {
	q := r.db.WithContext(ctx).Preload("CreatedBy")
	if ownerID != nil {
		q = q.Where("created_by_id = ?", *ownerID)
	}
	var inspection model.BaseInspection
	if err := q.First(&inspection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInspectionNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

func (r *inspectionRepository) Search(ctx context.Context, f InspectionFilter) ([]model.BaseInspection, error) {
	q := r.db.WithContext(ctx).Model(&model.BaseInspection{}).Preload("CreatedBy")
	if f.OwnerID != nil {
		q = q.Where("created_by_id = ?", *f.OwnerID)
	}
	if f.Type != "" {
		q = q.Where("LOWER(inspection_type) = ?", strings.ToLower(string(f.Type)))
	}
	if f.Status != "" {
		q = q.Where("LOWER(status) = ?", strings.ToLower(string(f.Status)))
	}
	if f.ClientName != "" {
		q = q.Where("LOWER(client_name) LIKE ?", containsPattern(f.ClientName))
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", containsPattern(f.Location))
	}
	q = applyCreatedRange(q, "created_at", f.From, f.To)

	var inspections []model.BaseInspection
	if err := q.Order("created_at DESC").Order("id DESC").Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}

// MarkConducted records the conduct step unless one is already recorded.
// The guard and the write are a single statement.
func (r *inspectionRepository) MarkConducted(ctx context.Context, id uint, t Transition) (bool, error) {
	updates := map[string]any{
		"conducted_by_id":     t.ActorID,
		"inspection_comments": t.Comments,
		"inspection_date":     t.At,
		"status":              t.Status,
	}
	event := newEvent(id, t.ActorID, model.EventConducted, map[string]any{
		"status":   t.Status,
		"comments": t.Comments,
	})
	return r.transition(ctx, id, "conducted_by_id IS NULL", updates, event)
}

// MarkApproved records the approval step for a conducted, unapproved inspection.
func (r *inspectionRepository) MarkApproved(ctx context.Context, id uint, t Transition) (bool, error) {
	updates := map[string]any{
		"approved_by_id":    t.ActorID,
		"approval_comments": t.Comments,
		"approval_date":     t.At,
		"status":            t.Status,
	}
	event := newEvent(id, t.ActorID, model.EventApproved, map[string]any{
		"status":   t.Status,
		"comments": t.Comments,
	})
	return r.transition(ctx, id, "approved_by_id IS NULL AND conducted_by_id IS NOT NULL", updates, event)
}

func (r *inspectionRepository) transition(ctx context.Context, id uint, guard string, updates map[string]any, event *model.InspectionEvent) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.BaseInspection{}).Where("id = ?", id).Where(guard).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update inspection %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("record %s event: %w", event.Action, err)
		}
		applied = true
		return nil
	})
	return applied, err
}

func (r *inspectionRepository) ListEvents(ctx context.Context, inspectionID uint) ([]model.InspectionEvent, error) {
	var events []model.InspectionEvent
	err := r.db.WithContext(ctx).
		Where("inspection_id = ?", inspectionID).
		Order("created_at").Order("id").
		Find(&events).Error
	return events, err
}

func (r *inspectionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.BaseInspection{}).Count(&total).Error
	return total, err
}

// CountByStatus counts inspections per status, optionally for one type only.
// Every known status is present in the result.
func (r *inspectionRepository) CountByStatus(ctx context.Context, inspectionType model.InspectionType) (map[model.InspectionStatus]int64, error) {
	q := r.db.WithContext(ctx).Model(&model.BaseInspection{}).Select("status AS label, COUNT(*) AS total")
	if inspectionType != "" {
		q = q.Where("inspection_type = ?", inspectionType)
	}
	var rows []countRow
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[model.InspectionStatus]int64, len(model.Statuses))
	for _, s := range model.Statuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[model.InspectionStatus(row.Label)] = row.Total
	}
	return out, nil
}

func (r *inspectionRepository) CountByType(ctx context.Context) (map[model.InspectionType]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&model.BaseInspection{}).
		Select("inspection_type AS label, COUNT(*) AS total").
		Group("inspection_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[model.InspectionType]int64, len(model.InspectionTypes))
	for _, t := range model.InspectionTypes {
		out[t] = 0
	}
	for _, row := range rows {
		out[model.InspectionType(row.Label)] = row.Total
	}
	return out, nil
}

func (r *inspectionRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.BaseInspection{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&total).Error
	return total, err
}

func newEvent(inspectionID, actorID uint, action model.EventAction, details map[string]any) *model.InspectionEvent {
	return &model.InspectionEvent{
		InspectionID: inspectionID,
		ActorID:      actorID,
		Action:       action,
		Details:      encodeDetails(details),
	}
}

func encodeDetails(details map[string]any) datatypes.JSON {
	b, err := json.Marshal(details)
	if err != nil || len(details) == 0 {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// applyCreatedRange limits column to [from, to] where to is an inclusive day.
func applyCreatedRange(q *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where(clause.Gte{Column: column, Value: *from})
	}
	if to != nil {
		q = q.Where(clause.Lt{Column: column, Value: to.AddDate(0, 0, 1)})
	}
	return q
}
