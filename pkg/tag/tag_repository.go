package tag

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagRepository interface {
		CreateTag(ctx context.Context, tag *entities.Tag) error
		GetTagByID(ctx context.Context, id uuid.UUID) (*entities.Tag, error)
		GetTags(ctx context.Context) ([]*entities.Tag, error)
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *entities.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return domain.ErrTagAlreadyExists
		}
		return err
	}
	return nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, id uuid.UUID) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
