package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMemberRepo serves FindByID from a map; other methods panic if
// reached.
type stubMemberRepo struct {
	repository.MemberRepository
	members map[int64]*repository.Membro
}

func (s *stubMemberRepo) FindByID(_ context.Context, id int64) (*repository.Membro, error) {
	return s.members[id], nil
}

type stubRelRepo struct {
	repository.RelationshipRepository
	created  []*repository.Relationship
	existing map[string]bool
	bySource map[int64][]*repository.Relationship
	byTarget map[int64][]*repository.Relationship
}

func relKey(rel *repository.Relationship) string {
	return fmt.Sprintf("%d/%d/%s", rel.SourceID, rel.TargetID, rel.Degree)
}

func (s *stubRelRepo) Create(_ context.Context, rel *repository.Relationship) error {
	if s.existing[relKey(rel)] {
		return repository.ErrDuplicate
	}
	rel.ID = int64(len(s.created) + 1)
	s.created = append(s.created, rel)
	return nil
}

func (s *stubRelRepo) FindBySource(_ context.Context, sourceID int64) ([]*repository.Relationship, error) {
	return s.bySource[sourceID], nil
}

func (s *stubRelRepo) FindByTarget(_ context.Context, targetID int64) ([]*repository.Relationship, error) {
	return s.byTarget[targetID], nil
}

func namedMember(id int64, nome string) *repository.Membro {
	return &repository.Membro{ID: id, Nome: &nome}
}

func testRelationshipService(rels *stubRelRepo) RelationshipService {
	members := &stubMemberRepo{members: map[int64]*repository.Membro{
		1: namedMember(1, "Ana"),
		2: namedMember(2, "Bruno"),
	}}
	return NewRelationshipService(rels, members)
}

func TestAddRelationshipValidations(t *testing.T) {
	svc := testRelationshipService(&stubRelRepo{})
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 2, "cousin")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Add(ctx, 1, 0, "spouse")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Add(ctx, 1, 1, "spouse")
	assert.ErrorIs(t, err, ErrSelfRelationship)

	_, err = svc.Add(ctx, 1, 99, "spouse")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(ctx, 99, 2, "spouse")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRelationship(t *testing.T) {
	rels := &stubRelRepo{}
	svc := testRelationshipService(rels)

	rel, err := svc.Add(context.Background(), 1, 2, " Spouse ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rel.SourceID)
	assert.Equal(t, int64(2), rel.TargetID)
	assert.Equal(t, "spouse", rel.Degree)
	assert.NotZero(t, rel.ID)
}

func TestAddRelationshipDuplicate(t *testing.T) {
	rels := &stubRelRepo{existing: map[string]bool{
		relKey(&repository.Relationship{SourceID: 1, TargetID: 2, Degree: "spouse"}): true,
	}}
	svc := testRelationshipService(rels)

	_, err := svc.Add(context.Background(), 1, 2, "spouse")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestListForMemberBothDirections(t *testing.T) {
	rels := &stubRelRepo{
		bySource: map[int64][]*repository.Relationship{
			1: {{ID: 10, SourceID: 1, TargetID: 2, Degree: "parent"}},
		},
		byTarget: map[int64][]*repository.Relationship{
			1: {{ID: 11, SourceID: 2, TargetID: 1, Degree: "sibling"}},
		},
	}
	svc := testRelationshipService(rels)

	views, err := svc.ListForMember(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "out", views[0].Direction)
	assert.Equal(t, int64(2), views[0].OtherID)
	assert.Equal(t, "Bruno", views[0].OtherName)

	assert.Equal(t, "in", views[1].Direction)
	assert.Equal(t, "sibling", views[1].Degree)
	assert.Equal(t, "Bruno", views[1].OtherName)
}
