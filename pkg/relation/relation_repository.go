package relation

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row is implemented by the pointer type of every (subject, target) relation
// table: favorites, shopping cart items and subscriptions.
type Row[T any] interface {
	*T
	Link(subjectID, targetID uuid.UUID)
	Ends() (subjectColumn, targetColumn string)
}

type (
	Repository interface {
		Add(ctx context.Context, subjectID, targetID uuid.UUID) error
		Remove(ctx context.Context, subjectID, targetID uuid.UUID) error
		Exists(ctx context.Context, subjectID, targetID uuid.UUID) (bool, error)
		LinkedTargets(ctx context.Context, subjectID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	repository[T any, P Row[T]] struct {
		db            *gorm.DB
		subjectColumn string
		targetColumn  string
	}
)

func NewRepository[T any, P Row[T]](db *gorm.DB) Repository {
	subject, target := P(new(T)).Ends()
	return &repository[T, P]{
		db:            db,
		subjectColumn: subject,
		targetColumn:  target,
	}
}

// Add inserts the pair. Uniqueness is left to the table's unique index so
// concurrent identical requests cannot both succeed. A missing subject or
// target row surfaces as domain.ErrNotFound.
func (r *repository[T, P]) Add(ctx context.Context, subjectID, targetID uuid.UUID) error {
	row := P(new(T))
	row.Link(subjectID, targetID)

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRelation
		}
		if utils.IsForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *repository[T, P]) Remove(ctx context.Context, subjectID, targetID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where(r.subjectColumn+" = ? AND "+r.targetColumn+" = ?", subjectID, targetID).
		Delete(P(new(T)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository[T, P]) Exists(ctx context.Context, subjectID, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(P(new(T))).
		Where(r.subjectColumn+" = ? AND "+r.targetColumn+" = ?", subjectID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LinkedTargets reports which of targetIDs are linked to subjectID.
func (r *repository[T, P]) LinkedTargets(ctx context.Context, subjectID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	linked := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return linked, nil
	}

	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(P(new(T))).
		Where(r.subjectColumn+" = ? AND "+r.targetColumn+" IN ?", subjectID, targetIDs).
		Pluck(r.targetColumn, &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		linked[id] = true
	}
	return linked, nil
}
