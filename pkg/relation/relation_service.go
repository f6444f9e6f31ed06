package relation

import (
	"Foodgram-Backend/domain"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// TargetLookup reports whether the relation target exists.
type TargetLookup func(ctx context.Context, id uuid.UUID) (bool, error)

// Kind describes one relation table and the errors it surfaces.
type Kind struct {
	Name              string
	ForbidSelf        bool
	ErrDuplicate      error
	ErrMissing        error
	ErrTargetNotFound error
}

var (
	Favorite = Kind{
		Name:              "favorite",
		ErrDuplicate:      domain.ErrAlreadyFavorited,
		ErrMissing:        domain.ErrFavoriteNotFound,
		ErrTargetNotFound: domain.ErrRecipeNotFound,
	}
	ShoppingCart = Kind{
		Name:              "shopping_cart",
		ErrDuplicate:      domain.ErrAlreadyInShoppingCart,
		ErrMissing:        domain.ErrShoppingCartNotFound,
		ErrTargetNotFound: domain.ErrRecipeNotFound,
	}
	Subscription = Kind{
		Name:              "subscription",
		ForbidSelf:        true,
		ErrDuplicate:      domain.ErrAlreadySubscribed,
		ErrMissing:        domain.ErrSubscriptionNotFound,
		ErrTargetNotFound: domain.ErrUserNotFound,
	}
)

type (
	ToggleService interface {
		Add(ctx context.Context, subjectID, targetID string) error
		Remove(ctx context.Context, subjectID, targetID string) error
		IsLinked(ctx context.Context, subjectID, targetID string) (bool, error)
		LinkedTargets(ctx context.Context, subjectID string, targetIDs []string) (map[string]bool, error)
	}

	toggleService struct {
		kind         Kind
		repository   Repository
		targetExists TargetLookup
	}
)

func NewToggleService(repository Repository, kind Kind, targetExists TargetLookup) ToggleService {
	return &toggleService{
		kind:         kind,
		repository:   repository,
		targetExists: targetExists,
	}
}

func (s *toggleService) parse(subjectID, targetID string) (uuid.UUID, uuid.UUID, error) {
	subject, err := uuid.Parse(subjectID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	target, err := uuid.Parse(targetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, s.kind.ErrTargetNotFound
	}
	return subject, target, nil
}

func (s *toggleService) requireTarget(ctx context.Context, target uuid.UUID) error {
	ok, err := s.targetExists(ctx, target)
	if err != nil {
		return err
	}
	if !ok {
		return s.kind.ErrTargetNotFound
	}
	return nil
}

// missingEnd resolves which side of a rejected insert is gone. The target is
// checked again; otherwise the subject user was deleted.
func (s *toggleService) missingEnd(ctx context.Context, target uuid.UUID) error {
	if err := s.requireTarget(ctx, target); err != nil {
		return err
	}
	return domain.ErrUserNotFound
}

// Add creates the relation. Self-reference is rejected before the target
// lookup and the insert.
func (s *toggleService) Add(ctx context.Context, subjectID, targetID string) error {
	subject, target, err := s.parse(subjectID, targetID)
	if err != nil {
		return err
	}

	if s.kind.ForbidSelf && subject == target {
		return domain.ErrSelfSubscription
	}

	if err := s.requireTarget(ctx, target); err != nil {
		return err
	}

	if err := s.repository.Add(ctx, subject, target); err != nil {
		if errors.Is(err, domain.ErrDuplicateRelation) {
			return s.kind.ErrDuplicate
		}
		if errors.Is(err, domain.ErrNotFound) {
			return s.missingEnd(ctx, target)
		}
		log.Errorw("relation add failed", "kind", s.kind.Name, "subject", subject, "target", target, "error", err)
		return err
	}

	log.Infow("relation added", "kind", s.kind.Name, "subject", subject, "target", target)
	return nil
}

func (s *toggleService) Remove(ctx context.Context, subjectID, targetID string) error {
	subject, target, err := s.parse(subjectID, targetID)
	if err != nil {
		return err
	}

	if err := s.requireTarget(ctx, target); err != nil {
		return err
	}

	if err := s.repository.Remove(ctx, subject, target); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.kind.ErrMissing
		}
		log.Errorw("relation remove failed", "kind", s.kind.Name, "subject", subject, "target", target, "error", err)
		return err
	}

	log.Infow("relation removed", "kind", s.kind.Name, "subject", subject, "target", target)
	return nil
}

// IsLinked is false for an anonymous (empty) subject.
func (s *toggleService) IsLinked(ctx context.Context, subjectID, targetID string) (bool, error) {
	if subjectID == "" {
		return false, nil
	}
	subject, target, err := s.parse(subjectID, targetID)
	if err != nil {
		return false, err
	}
	return s.repository.Exists(ctx, subject, target)
}

func (s *toggleService) LinkedTargets(ctx context.Context, subjectID string, targetIDs []string) (map[string]bool, error) {
	linked := make(map[string]bool, len(targetIDs))
	if subjectID == "" || len(targetIDs) == 0 {
		return linked, nil
	}

	subject, err := uuid.Parse(subjectID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	targets := make([]uuid.UUID, 0, len(targetIDs))
	for _, id := range targetIDs {
		if target, err := uuid.Parse(id); err == nil {
			targets = append(targets, target)
		}
	}

	found, err := s.repository.LinkedTargets(ctx, subject, targets)
	if err != nil {
		return nil, err
	}
	for id := range found {
		linked[id.String()] = true
	}
	return linked, nil
}
