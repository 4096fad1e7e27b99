package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/CelDarley/membro-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ============================================
// User Service
// ============================================

// CreateUserInput carries the fields of a user-creation request.
type CreateUserInput struct {
	Name             string
	Email            string
	Password         string
	Confirm          string
	Role             string
	Phone            string
	TwoFactorEnabled bool
	Active           bool
}

// UpdateUserInput carries a partial user update; empty strings keep the
// stored value, matching the member-update policy.
type UpdateUserInput struct {
	Name             string
	Email            string
	Role             string
	Phone            string
	Password         string
	Confirm          string
	TwoFactorEnabled bool
	Active           *bool
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	Search(ctx context.Context, q string) ([]*repository.User, error)
	Create(ctx context.Context, input *CreateUserInput, actorIsAdmin bool) (*repository.User, error)
	Update(ctx context.Context, id int64, input *UpdateUserInput) error
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) Search(ctx context.Context, q string) ([]*repository.User, error) {
	return s.userRepo.Search(ctx, strings.TrimSpace(q), 200)
}

// ResolveRole forces the very first user to admin regardless of the
// requested role; later accounts keep what was asked for.
func ResolveRole(requested string, adminCount int) string {
	if adminCount == 0 {
		return "admin"
	}
	return requested
}

func (s *userService) Create(ctx context.Context, input *CreateUserInput, actorIsAdmin bool) (*repository.User, error) {
	adminCount, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	// Bootstrap: anyone may create the first account; afterwards only
	// admins create users.
	if adminCount > 0 && !actorIsAdmin {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	role := ResolveRole(strings.ToLower(strings.TrimSpace(input.Role)), adminCount)
	if role == "" {
		role = "user"
	}

	if name == "" || emailAddr == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}
	if input.Password != input.Confirm {
		return nil, ErrPasswordMismatch
	}
	if role != "user" && role != "admin" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &repository.User{
		Name:             name,
		Email:            emailAddr,
		PasswordHash:     string(hash),
		Role:             role,
		Phone:            optString(input.Phone),
		Active:           input.Active,
		TwoFactorEnabled: input.TwoFactorEnabled,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, input *UpdateUserInput) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if emailAddr := strings.ToLower(strings.TrimSpace(input.Email)); emailAddr != "" && emailAddr != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, emailAddr)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailTaken
		}
		user.Email = emailAddr
	}
	if role := strings.ToLower(strings.TrimSpace(input.Role)); role != "" {
		if role != "user" && role != "admin" {
			return ErrInvalidInput
		}
		user.Role = role
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}
	user.TwoFactorEnabled = input.TwoFactorEnabled
	if input.Active != nil {
		user.Active = *input.Active
	}

	if input.Password != "" {
		if input.Password != input.Confirm {
			return ErrPasswordMismatch
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	return s.userRepo.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) ToggleActive(ctx context.Context, id int64) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrNotFound
	}
	active := !user.Active
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return false, err
	}
	return active, nil
}
