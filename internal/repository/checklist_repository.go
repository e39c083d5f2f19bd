package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

// ChecklistPtr constrains P to a pointer to a checklist struct.
type ChecklistPtr[T any] interface {
	*T
	model.Checklist
}

// ChecklistFilter narrows checklist queries. Filters other than OwnerID
// apply to the owning base inspection.
type ChecklistFilter struct {
	OwnerID *uint
	Status  model.InspectionStatus
	From    *time.Time
	To      *time.Time
}

// ChecklistRepository persists one checklist variant together with its base inspection.
type ChecklistRepository[P model.Checklist] interface {
	Create(ctx context.Context, base *model.BaseInspection, checklist P) error
	FindByID(ctx context.Context, id uint, ownerID *uint) (P, error)
	List(ctx context.Context, filter ChecklistFilter) ([]P, error)
	Update(ctx context.Context, checklist P, actorID uint) error
	Deactivate(ctx context.Context, checklist P, actorID uint) error
}

type itemSyncer interface {
	SyncItems(tx *gorm.DB) error
}

type checklistRepository[T any, P ChecklistPtr[T]] struct {
	db *gorm.DB
}

// NewChecklistRepository builds a GORM-backed repository for one checklist variant.
func NewChecklistRepository[T any, P ChecklistPtr[T]](db *gorm.DB) ChecklistRepository[P] {
	return &checklistRepository[T, P]{db: db}
}

func (r *checklistRepository[T, P]) table() string {
	return P(new(T)).TableName()
}

func (r *checklistRepository[T, P]) preload(tx *gorm.DB) *gorm.DB {
	tx = tx.Preload("Inspection").Preload("Inspection.CreatedBy")
	if p, ok := any(P(new(T))).(model.Preloader); ok {
		for _, name := range p.Preloads() {
			tx = tx.Preload(name)
		}
	}
	return tx
}

// scoped limits tx to active rows whose base inspection matches f.
func (r *checklistRepository[T, P]) scoped(tx *gorm.DB, f ChecklistFilter) *gorm.DB {
	q := tx.Where(clause.Eq{Column: clause.Column{Table: r.table(), Name: "is_active"}, Value: true})
	if f.OwnerID == nil && f.Status == "" && f.From == nil && f.To == nil {
		return q
	}
	bases := tx.Session(&gorm.Session{NewDB: true}).Model(&model.BaseInspection{}).Select("id")
	if f.OwnerID != nil {
		bases = bases.Where("created_by_id = ?", *f.OwnerID)
	}
	if f.Status != "" {
		bases = bases.Where("status = ?", f.Status)
	}
	bases = applyCreatedRange(bases, "created_at", f.From, f.To)
	return q.Where("inspection_id IN (?)", bases)
}

// Create inserts the base inspection, the checklist and a created event in one transaction.
func (r *checklistRepository[T, P]) Create(ctx context.Context, base *model.BaseInspection, checklist P) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base.InspectionType = checklist.InspectionType()
		if err := tx.Omit(clause.Associations).Create(base).Error; err != nil {
			return fmt.Errorf("create base inspection: %w", err)
		}
		checklist.Attach(base)
		checklist.Meta().IsActive = true
		if err := tx.Omit("Inspection").Create(checklist).Error; err != nil {
			return fmt.Errorf("create %s: %w", r.table(), err)
		}
		event := newEvent(base.ID, base.CreatedByID, model.EventCreated, map[string]any{
			"checklist_id": checklist.Meta().ID,
			"type":         base.InspectionType,
		})
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("record created event: %w", err)
		}
		return nil
	})
}

func (r *checklistRepository[T, P]) FindByID(ctx context.Context, id uint, ownerID *uint) (P, error) {
	tx := r.db.WithContext(ctx)
	checklist := P(new(T))
	err := r.preload(r.scoped(tx, ChecklistFilter{OwnerID: ownerID})).
		Where(clause.Eq{Column: clause.Column{Table: r.table(), Name: "id"}, Value: id}).
		Take(checklist).Error
	if err != nil {
		var zero P
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, apperrors.ErrChecklistNotFound
		}
		return zero, err
	}
	return checklist, nil
}

func (r *checklistRepository[T, P]) List(ctx context.Context, f ChecklistFilter) ([]P, error) {
	tx := r.db.WithContext(ctx)
	var rows []T
	err := r.preload(r.scoped(tx, f)).
		Order(clause.OrderByColumn{Column: clause.Column{Table: r.table(), Name: "id"}, Desc: true}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]P, len(rows))
	for i := range rows {
		out[i] = P(&rows[i])
	}
	return out, nil
}

// Update saves the checklist and the editable base fields. Workflow columns
// of the base inspection are never written here.
func (r *checklistRepository[T, P]) Update(ctx context.Context, checklist P, actorID uint) error {
	base := checklist.Base()
	if base == nil {
		return fmt.Errorf("%s %d has no base inspection loaded", r.table(), checklist.Meta().ID)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.BaseInspection{}).Where("id = ?", base.ID).Updates(map[string]any{
			"location":        base.Location,
			"client_name":     base.ClientName,
			"inspection_date": base.InspectionDate,
		}).Error
		if err != nil {
			return fmt.Errorf("update base inspection: %w", err)
		}
		if err := saveAll(tx, checklist, "created_at").Error; err != nil {
			return fmt.Errorf("update %s: %w", r.table(), err)
		}
		if s, ok := any(checklist).(itemSyncer); ok {
			if err := s.SyncItems(tx); err != nil {
				return err
			}
		}
		event := newEvent(base.ID, actorID, model.EventUpdated, map[string]any{"checklist_id": checklist.Meta().ID})
		return tx.Create(event).Error
	})
}

// Deactivate hides the checklist from every query while keeping the row.
func (r *checklistRepository[T, P]) Deactivate(ctx context.Context, checklist P, actorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(P(new(T))).
			Where("id = ? AND is_active = ?", checklist.Meta().ID, true).
			Update("is_active", false)
		if res.Error != nil {
			return fmt.Errorf("deactivate %s: %w", r.table(), res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrChecklistNotFound
		}
		checklist.Meta().IsActive = false
		event := newEvent(checklist.Base().ID, actorID, model.EventDeleted, map[string]any{"checklist_id": checklist.Meta().ID})
		return tx.Create(event).Error
	})
}
