package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/CelDarley/membro-api/internal/repository"
)

// ============================================
// Lookup Service
// ============================================

// lookupTypes maps each allowed lookup type to the member column it
// suggests values for.
var lookupTypes = map[string]string{
	"concurso":                "concurso",
	"cargo_efetivo":           "cargo_efetivo",
	"titularidade":            "titularidade",
	"cargo_especial":          "cargo_especial",
	"unidade_lotacao":         "unidade_lotacao",
	"comarca_lotacao":         "comarca_lotacao",
	"time_extraprofissionais": "time_extraprofissionais",
	"estado_origem":           "estado_origem",
	"grupos_identitarios":     "grupos_identitarios",
}

// UFList is the hardcoded fallback for estado_origem suggestions.
var UFList = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// ValidLookupType reports whether a type belongs to the closed set.
func ValidLookupType(t string) bool {
	_, ok := lookupTypes[t]
	return ok
}

// FallbackUFs filters the hardcoded state list by a search term.
func FallbackUFs(q string) []*repository.Lookup {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []*repository.Lookup
	for _, uf := range UFList {
		if q == "" || strings.Contains(strings.ToLower(uf), q) {
			out = append(out, &repository.Lookup{Type: "estado_origem", Value: uf})
		}
	}
	return out
}

type LookupService interface {
	List(ctx context.Context, lookupType, q string, page, perPage int) ([]*repository.Lookup, int, error)
	Create(ctx context.Context, lookupType, value string) (*repository.Lookup, bool, error)
	UpdateValue(ctx context.Context, id int64, value string) error
	Delete(ctx context.Context, id int64) error
	PopulateFromMembers(ctx context.Context) (int, error)
}

type lookupService struct {
	lookupRepo repository.LookupRepository
	memberRepo repository.MemberRepository
}

func NewLookupService(lookupRepo repository.LookupRepository, memberRepo repository.MemberRepository) LookupService {
	return &lookupService{lookupRepo: lookupRepo, memberRepo: memberRepo}
}

func (s *lookupService) List(ctx context.Context, lookupType, q string, page, perPage int) ([]*repository.Lookup, int, error) {
	lookupType = strings.ToLower(strings.TrimSpace(lookupType))
	if !ValidLookupType(lookupType) {
		return nil, 0, nil
	}
	offset := (page - 1) * perPage
	lookups, total, err := s.lookupRepo.List(ctx, lookupType, strings.TrimSpace(q), perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	// Empty estado_origem suggestions fall back to the standard UF list.
	if lookupType == "estado_origem" && len(lookups) == 0 {
		fallback := FallbackUFs(q)
		return fallback, len(fallback), nil
	}
	return lookups, total, nil
}

// Create inserts a (type, value) pair; an existing pair is returned
// as-is rather than treated as a conflict. The bool reports whether a
// new row was inserted.
func (s *lookupService) Create(ctx context.Context, lookupType, value string) (*repository.Lookup, bool, error) {
	lookupType = strings.ToLower(strings.TrimSpace(lookupType))
	value = strings.TrimSpace(value)
	if !ValidLookupType(lookupType) || value == "" {
		return nil, false, ErrInvalidInput
	}
	existing, err := s.lookupRepo.FindByTypeValue(ctx, lookupType, value)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	lk := &repository.Lookup{Type: lookupType, Value: value}
	if err := s.lookupRepo.Create(ctx, lk); err != nil {
		return nil, false, err
	}
	return lk, true, nil
}

func (s *lookupService) UpdateValue(ctx context.Context, id int64, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrInvalidInput
	}
	lk, err := s.lookupRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lk == nil {
		return ErrNotFound
	}
	existing, err := s.lookupRepo.FindByTypeValue(ctx, lk.Type, value)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return ErrConflict
	}
	return s.lookupRepo.UpdateValue(ctx, id, value)
}

func (s *lookupService) Delete(ctx context.Context, id int64) error {
	lk, err := s.lookupRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lk == nil {
		return ErrNotFound
	}
	return s.lookupRepo.Delete(ctx, id)
}

// PopulateFromMembers seeds the standard UF list and every distinct
// member column value as lookups, skipping pairs that already exist.
// Returns the number of rows inserted.
func (s *lookupService) PopulateFromMembers(ctx context.Context) (int, error) {
	inserted := 0

	for _, uf := range UFList {
		n, err := s.insertMissing(ctx, "estado_origem", uf)
		if err != nil {
			return inserted, err
		}
		inserted += n
	}

	types := make([]string, 0, len(lookupTypes))
	for t := range lookupTypes {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		values, err := s.memberRepo.DistinctValues(ctx, lookupTypes[t])
		if err != nil {
			return inserted, err
		}
		for _, v := range values {
			n, err := s.insertMissing(ctx, t, v)
			if err != nil {
				return inserted, err
			}
			inserted += n
		}
	}
	return inserted, nil
}

func (s *lookupService) insertMissing(ctx context.Context, lookupType, value string) (int, error) {
	existing, err := s.lookupRepo.FindByTypeValue(ctx, lookupType, value)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, nil
	}
	err = s.lookupRepo.Create(ctx, &repository.Lookup{Type: lookupType, Value: value})
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return 1, nil
}
