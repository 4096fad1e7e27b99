package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/CelDarley/membro-api/internal/report"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/storage"
)

const (
	DefaultAggregateLimit = 50
	MaxAggregateLimit     = 500
)

// StatsResult is the response of the stats endpoint. FemalePct is
// rounded to one decimal and defined as 0.0 for an empty set.
type StatsResult struct {
	Total       int     `json:"total"`
	FemaleCount int     `json:"female_count"`
	FemalePct   float64 `json:"female_pct"`
}

type MemberService interface {
	Create(ctx context.Context, fields map[string]string) (*repository.Membro, error)
	GetByID(ctx context.Context, id int64) (*repository.Membro, error)
	List(ctx context.Context, filter *repository.MemberFilter, page, perPage int) ([]*repository.Membro, int, error)
	Update(ctx context.Context, id int64, fields map[string]string, amigosIDs []int64, syncAmigos bool) error
	Delete(ctx context.Context, id int64) error

	Aggregate(ctx context.Context, field string, filter *repository.MemberFilter, limit int) ([]repository.ValueCount, error)
	Stats(ctx context.Context, filter *repository.MemberFilter) (*StatsResult, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	Suggest(ctx context.Context, field, q string, limit int) ([]string, error)

	Friends(ctx context.Context, id int64) ([]*repository.Membro, error)

	ListHistory(ctx context.Context, membroID int64) ([]*repository.HistoryEntry, error)
	AddHistory(ctx context.Context, membroID int64, date, unidade, comarca string) (*repository.HistoryEntry, error)
	UpdateHistory(ctx context.Context, id int64, date, unidade, comarca string) error
	DeleteHistory(ctx context.Context, id int64) error

	SavePhoto(ctx context.Context, id int64, data []byte, ext string) (string, error)
	Report(ctx context.Context, id int64) ([]byte, error)
}

type memberService struct {
	memberRepo  repository.MemberRepository
	historyRepo repository.HistoryRepository
	relRepo     repository.RelationshipRepository
	photos      storage.Storage
}

func NewMemberService(memberRepo repository.MemberRepository, historyRepo repository.HistoryRepository,
	relRepo repository.RelationshipRepository, photos storage.Storage) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		historyRepo: historyRepo,
		relRepo:     relRepo,
		photos:      photos,
	}
}

// NormalizeUF trims, uppercases and truncates a state code to two
// letters. Empty input normalizes to nil rather than an empty string.
func NormalizeUF(s string) *string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	runes := []rune(s)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	uf := string(runes)
	return &uf
}

// buildSets translates wire field values into typed column assignments.
// Unknown keys are ignored; empty values are skipped so that a partial
// update never overwrites an existing attribute with nothing
// (falsy-keeps-old).
func buildSets(fields map[string]string) (map[string]interface{}, error) {
	sets := make(map[string]interface{})
	for key, raw := range fields {
		col, ok := repository.FieldColumn(key)
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		switch col {
		case "quantidade_filhos":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: quantidade_filhos %q", ErrInvalidInput, raw)
			}
			sets[col] = int(f)
		case "data_inclusao":
			t, err := time.Parse("2006-01-02", value)
			if err != nil {
				return nil, fmt.Errorf("%w: data_inclusao %q", ErrInvalidInput, raw)
			}
			sets[col] = t
		case "estado_origem":
			if uf := NormalizeUF(value); uf != nil {
				sets[col] = *uf
			}
		default:
			sets[col] = value
		}
	}
	return sets, nil
}

func (s *memberService) Create(ctx context.Context, fields map[string]string) (*repository.Membro, error) {
	sets, err := buildSets(fields)
	if err != nil {
		return nil, err
	}

	m := &repository.Membro{}
	for col, v := range sets {
		switch col {
		case "quantidade_filhos":
			n := v.(int)
			m.QuantidadeFilhos = &n
		case "data_inclusao":
			t := v.(time.Time)
			m.DataInclusao = &t
		default:
			str := v.(string)
			assignMemberColumn(m, col, &str)
		}
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func assignMemberColumn(m *repository.Membro, col string, v *string) {
	switch col {
	case "nome":
		m.Nome = v
	case "sexo":
		m.Sexo = v
	case "concurso":
		m.Concurso = v
	case "cargo_efetivo":
		m.CargoEfetivo = v
	case "titularidade":
		m.Titularidade = v
	case "email_pessoal":
		m.EmailPessoal = v
	case "cargo_especial":
		m.CargoEspecial = v
	case "telefone_unidade":
		m.TelefoneUnidade = v
	case "telefone_celular":
		m.TelefoneCelular = v
	case "unidade_lotacao":
		m.UnidadeLotacao = v
	case "comarca_lotacao":
		m.ComarcaLotacao = v
	case "time_extraprofissionais":
		m.TimeExtraprofissionais = v
	case "nomes_filhos":
		m.NomesFilhos = v
	case "estado_origem":
		m.EstadoOrigem = v
	case "academico":
		m.Academico = v
	case "pretensao_carreira":
		m.PretensaoCarreira = v
	case "carreira_anterior":
		m.CarreiraAnterior = v
	case "lideranca":
		m.Lideranca = v
	case "grupos_identitarios":
		m.GruposIdentitarios = v
	case "observacao":
		m.Observacao = v
	}
}

func (s *memberService) GetByID(ctx context.Context, id int64) (*repository.Membro, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *memberService) List(ctx context.Context, filter *repository.MemberFilter, page, perPage int) ([]*repository.Membro, int, error) {
	offset := (page - 1) * perPage
	return s.memberRepo.Find(ctx, filter, perPage, offset)
}

func (s *memberService) Update(ctx context.Context, id int64, fields map[string]string, amigosIDs []int64, syncAmigos bool) error {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}

	sets, err := buildSets(fields)
	if err != nil {
		return err
	}
	if len(sets) > 0 {
		if err := s.memberRepo.Update(ctx, id, sets); err != nil {
			return err
		}
	}

	if syncAmigos {
		return s.syncFriends(ctx, id, amigosIDs)
	}
	return nil
}

func (s *memberService) syncFriends(ctx context.Context, id int64, desired []int64) error {
	current, err := s.memberRepo.FriendIDs(ctx, id)
	if err != nil {
		return err
	}
	toAdd, toRemove := DiffFriendIDs(current, SanitizeFriendIDs(id, desired))
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}
	return s.memberRepo.SyncFriends(ctx, id, toAdd, toRemove)
}

// SanitizeFriendIDs deduplicates a desired friend set and drops the
// member's own id and non-positive ids. Output is sorted.
func SanitizeFriendIDs(selfID int64, ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || id == selfID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DiffFriendIDs computes the delta between the stored friend set and a
// desired one: toAdd = desired - current, toRemove = current - desired.
func DiffFriendIDs(current, desired []int64) (toAdd, toRemove []int64) {
	cur := make(map[int64]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	des := make(map[int64]bool, len(desired))
	for _, id := range desired {
		des[id] = true
		if !cur[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !des[id] {
			toRemove = append(toRemove, id)
		}
	}
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}

func (s *memberService) Delete(ctx context.Context, id int64) error {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	return s.memberRepo.Delete(ctx, id)
}

func (s *memberService) Aggregate(ctx context.Context, field string, filter *repository.MemberFilter, limit int) ([]repository.ValueCount, error) {
	col, ok := repository.FieldColumn(field)
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	if limit <= 0 {
		limit = DefaultAggregateLimit
	}
	if limit > MaxAggregateLimit {
		limit = MaxAggregateLimit
	}
	return s.memberRepo.Aggregate(ctx, col, filter, limit)
}

func (s *memberService) Stats(ctx context.Context, filter *repository.MemberFilter) (*StatsResult, error) {
	stats, err := s.memberRepo.Stats(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &StatsResult{
		Total:       stats.Total,
		FemaleCount: stats.FemaleCount,
		FemalePct:   FemalePct(stats.FemaleCount, stats.Total),
	}, nil
}

// FemalePct returns the percentage rounded to one decimal place, 0.0
// when total is zero.
func FemalePct(femaleCount, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(femaleCount)/float64(total)*1000) / 10
}

func (s *memberService) Distinct(ctx context.Context, field string) ([]string, error) {
	col, ok := repository.FieldColumn(field)
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	return s.memberRepo.DistinctValues(ctx, col)
}

func (s *memberService) Suggest(ctx context.Context, field, q string, limit int) ([]string, error) {
	col, ok := repository.FieldColumn(field)
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.memberRepo.Suggest(ctx, col, q, limit)
}

func (s *memberService) Friends(ctx context.Context, id int64) ([]*repository.Membro, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return s.memberRepo.FindFriends(ctx, id)
}

func (s *memberService) ListHistory(ctx context.Context, membroID int64) ([]*repository.HistoryEntry, error) {
	m, err := s.memberRepo.FindByID(ctx, membroID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return s.historyRepo.FindByMember(ctx, membroID)
}

func parseHistoryDate(date string) (*time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: data %q", ErrInvalidInput, date)
	}
	return &t, nil
}

func (s *memberService) AddHistory(ctx context.Context, membroID int64, date, unidade, comarca string) (*repository.HistoryEntry, error) {
	m, err := s.memberRepo.FindByID(ctx, membroID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	t, err := parseHistoryDate(date)
	if err != nil {
		return nil, err
	}
	h := &repository.HistoryEntry{
		MembroID:         membroID,
		DataMovimentacao: t,
		UnidadeLotacao:   optString(unidade),
		ComarcaLotacao:   optString(comarca),
	}
	if err := s.historyRepo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *memberService) UpdateHistory(ctx context.Context, id int64, date, unidade, comarca string) error {
	h, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if h == nil {
		return ErrNotFound
	}
	t, err := parseHistoryDate(date)
	if err != nil {
		return err
	}
	h.DataMovimentacao = t
	h.UnidadeLotacao = optString(unidade)
	h.ComarcaLotacao = optString(comarca)
	return s.historyRepo.Update(ctx, h)
}

func (s *memberService) DeleteHistory(ctx context.Context, id int64) error {
	h, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if h == nil {
		return ErrNotFound
	}
	return s.historyRepo.Delete(ctx, id)
}

func (s *memberService) SavePhoto(ctx context.Context, id int64, data []byte, ext string) (string, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", ErrNotFound
	}
	path, err := s.photos.Store(data, id, ext)
	if err != nil {
		return "", err
	}
	if err := s.memberRepo.SetFotoPath(ctx, id, path); err != nil {
		return "", err
	}
	return s.photos.Resolve(path), nil
}

func (s *memberService) Report(ctx context.Context, id int64) ([]byte, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.historyRepo.FindByMember(ctx, id)
	if err != nil {
		return nil, err
	}
	friends, err := s.memberRepo.FindFriends(ctx, id)
	if err != nil {
		return nil, err
	}

	outgoing, err := s.relRepo.FindBySource(ctx, id)
	if err != nil {
		return nil, err
	}
	incoming, err := s.relRepo.FindByTarget(ctx, id)
	if err != nil {
		return nil, err
	}
	var kin []report.Kinship
	for _, rel := range outgoing {
		kin = append(kin, report.Kinship{Degree: rel.Degree, OtherName: s.memberName(ctx, rel.TargetID)})
	}
	for _, rel := range incoming {
		kin = append(kin, report.Kinship{Degree: rel.Degree, OtherName: s.memberName(ctx, rel.SourceID)})
	}

	return report.Render(&report.MemberReport{
		Member:   m,
		History:  history,
		Friends:  friends,
		Kinships: kin,
	})
}

func (s *memberService) memberName(ctx context.Context, id int64) string {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil || m == nil || m.Nome == nil {
		return "#" + strconv.FormatInt(id, 10)
	}
	return *m.Nome
}

func optString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
