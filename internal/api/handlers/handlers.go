package handlers

import (
	"github.com/CelDarley/membro-api/internal/geo"
	"github.com/CelDarley/membro-api/internal/models"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/CelDarley/membro-api/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Member       *MemberHandler
	Lookup       *LookupHandler
	Relationship *RelationshipHandler
	Municipio    *MunicipioHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services, photos storage.Storage, geoClient *geo.Client) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth, userService: services.User},
		User:         &UserHandler{userService: services.User},
		Member:       &MemberHandler{memberService: services.Member, photos: photos},
		Lookup:       &LookupHandler{lookupService: services.Lookup},
		Relationship: &RelationshipHandler{relationshipService: services.Relationship},
		Municipio:    &MunicipioHandler{geoClient: geoClient},
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Phone:            u.Phone,
		Active:           u.Active,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
}

func toHistoryResponse(h *repository.HistoryEntry) models.HistoryResponse {
	resp := models.HistoryResponse{
		ID:             h.ID,
		MembroID:       h.MembroID,
		UnidadeLotacao: h.UnidadeLotacao,
		ComarcaLotacao: h.ComarcaLotacao,
	}
	if h.DataMovimentacao != nil {
		d := h.DataMovimentacao.Format("2006-01-02")
		resp.DataMovimentacao = &d
	}
	return resp
}

// memberResponse decorates the stored record with the formatted
// inclusion date and the resolved photo URL.
type memberResponse struct {
	*repository.Membro
	DataInclusao *string `json:"data_inclusao"`
	Foto         string  `json:"foto"`
}

func (h *MemberHandler) toMemberResponse(m *repository.Membro) memberResponse {
	resp := memberResponse{Membro: m}
	if m.DataInclusao != nil {
		d := m.DataInclusao.Format("2006-01-02")
		resp.DataInclusao = &d
	}
	if m.FotoPath != nil {
		resp.Foto = h.photos.Resolve(*m.FotoPath)
	}
	return resp
}

func (h *MemberHandler) toMemberResponses(membros []*repository.Membro) []memberResponse {
	out := make([]memberResponse, len(membros))
	for i, m := range membros {
		out[i] = h.toMemberResponse(m)
	}
	return out
}
