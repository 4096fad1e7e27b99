package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/CelDarley/membro-api/internal/repository"
)

// ============================================
// Relationship Service
// ============================================

// AllowedDegrees is the closed kinship vocabulary.
var AllowedDegrees = map[string]bool{
	"spouse":  true,
	"parent":  true,
	"child":   true,
	"sibling": true,
}

// RelationshipView is one kinship edge as seen from a member, with the
// direction it was stored in.
type RelationshipView struct {
	ID        int64  `json:"id"`
	Degree    string `json:"degree"`
	Direction string `json:"direction"`
	OtherID   int64  `json:"other_id"`
	OtherName string `json:"other_name"`
}

type RelationshipService interface {
	ListForMember(ctx context.Context, membroID int64) ([]RelationshipView, error)
	ListAll(ctx context.Context, degree string) ([]*repository.Relationship, error)
	Add(ctx context.Context, sourceID, targetID int64, degree string) (*repository.Relationship, error)
	Delete(ctx context.Context, id int64) error
}

type relationshipService struct {
	relRepo    repository.RelationshipRepository
	memberRepo repository.MemberRepository
}

func NewRelationshipService(relRepo repository.RelationshipRepository, memberRepo repository.MemberRepository) RelationshipService {
	return &relationshipService{relRepo: relRepo, memberRepo: memberRepo}
}

// ListForMember returns outgoing and incoming edges so callers see the
// relation from both sides of the directed store.
func (s *relationshipService) ListForMember(ctx context.Context, membroID int64) ([]RelationshipView, error) {
	outgoing, err := s.relRepo.FindBySource(ctx, membroID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.relRepo.FindByTarget(ctx, membroID)
	if err != nil {
		return nil, err
	}

	views := make([]RelationshipView, 0, len(outgoing)+len(incoming))
	for _, rel := range outgoing {
		views = append(views, s.view(ctx, rel, "out", rel.TargetID))
	}
	for _, rel := range incoming {
		views = append(views, s.view(ctx, rel, "in", rel.SourceID))
	}
	return views, nil
}

func (s *relationshipService) view(ctx context.Context, rel *repository.Relationship, direction string, otherID int64) RelationshipView {
	name := "#" + strconv.FormatInt(otherID, 10)
	if other, err := s.memberRepo.FindByID(ctx, otherID); err == nil && other != nil && other.Nome != nil {
		name = *other.Nome
	}
	return RelationshipView{
		ID:        rel.ID,
		Degree:    rel.Degree,
		Direction: direction,
		OtherID:   otherID,
		OtherName: name,
	}
}

func (s *relationshipService) ListAll(ctx context.Context, degree string) ([]*repository.Relationship, error) {
	degree = strings.ToLower(strings.TrimSpace(degree))
	if degree != "" && !AllowedDegrees[degree] {
		degree = ""
	}
	return s.relRepo.FindAll(ctx, degree, 50000)
}

func (s *relationshipService) Add(ctx context.Context, sourceID, targetID int64, degree string) (*repository.Relationship, error) {
	degree = strings.ToLower(strings.TrimSpace(degree))
	if targetID <= 0 || !AllowedDegrees[degree] {
		return nil, ErrInvalidInput
	}
	if targetID == sourceID {
		return nil, ErrSelfRelationship
	}
	source, err := s.memberRepo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrNotFound
	}
	target, err := s.memberRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	rel := &repository.Relationship{SourceID: sourceID, TargetID: targetID, Degree: degree}
	if err := s.relRepo.Create(ctx, rel); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return rel, nil
}

func (s *relationshipService) Delete(ctx context.Context, id int64) error {
	rel, err := s.relRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rel == nil {
		return ErrNotFound
	}
	return s.relRepo.Delete(ctx, id)
}
