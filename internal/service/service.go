package service

import (
	"errors"

	"github.com/CelDarley/membro-api/internal/config"
	"github.com/CelDarley/membro-api/internal/email"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrSelfRelationship   = errors.New("cannot relate a member to itself")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	User         UserService
	Member       MemberService
	Lookup       LookupService
	Relationship RelationshipService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config   *config.Config
	Repos    *repository.Repositories
	EmailSvc *email.Service
	Photos   storage.Storage
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth:         NewAuthService(deps.Config, deps.Repos.UserRepo, deps.EmailSvc),
		User:         NewUserService(deps.Repos.UserRepo),
		Member:       NewMemberService(deps.Repos.MemberRepo, deps.Repos.HistoryRepo, deps.Repos.RelationshipRepo, deps.Photos),
		Lookup:       NewLookupService(deps.Repos.LookupRepo, deps.Repos.MemberRepo),
		Relationship: NewRelationshipService(deps.Repos.RelationshipRepo, deps.Repos.MemberRepo),
	}
}
