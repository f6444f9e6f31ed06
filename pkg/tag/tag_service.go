package tag

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"strings"

	"github.com/google/uuid"
)

type (
	TagService interface {
		AddTag(ctx context.Context, req domain.AddTagRequest) (domain.TagResponse, error)
		GetTagByID(ctx context.Context, id string) (domain.TagResponse, error)
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) AddTag(ctx context.Context, req domain.AddTagRequest) (domain.TagResponse, error) {
	tag := &entities.Tag{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return domain.TagResponse{}, err
	}
	return ToTagResponse(tag), nil
}

func (s *tagService) GetTagByID(ctx context.Context, id string) (domain.TagResponse, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.TagResponse{}, domain.ErrTagNotFound
	}
	tag, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return ToTagResponse(tag), nil
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		res = append(res, ToTagResponse(tag))
	}
	return res, nil
}

func ToTagResponse(tag *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}
