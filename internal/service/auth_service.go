package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/CelDarley/membro-api/internal/config"
	"github.com/CelDarley/membro-api/internal/email"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ============================================
// Auth Service
// ============================================

// Claims is the request-scoped authorization context resolved from a
// validated token.
type Claims struct {
	UserID int64
	Role   string
}

func (c Claims) IsAdmin() bool {
	return c.Role == "admin"
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*repository.User, string, error)
	ValidateToken(token string) (*Claims, error)
	ChangePassword(ctx context.Context, userID int64, current, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, newPassword string) error
}

type authService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	emailSvc *email.Service
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, emailSvc *email.Service) AuthService {
	return &authService{cfg: cfg, userRepo: userRepo, emailSvc: emailSvc}
}

func (s *authService) Login(ctx context.Context, emailAddr, password string) (*repository.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err != nil || user == nil || !user.Active {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, _ := mapClaims["role"].(string)
	return &Claims{UserID: userID, Role: role}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 6 {
		return ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// ForgotPassword never reports whether the email exists; unknown
// addresses are a silent no-op.
func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user == nil || !user.Active {
		return nil
	}

	code := uuid.New().String()
	expiresAt := time.Now().Add(time.Duration(s.cfg.ResetCodeExpiryMinutes) * time.Minute)
	if err := s.userRepo.SetResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	if s.emailSvc != nil {
		resetURL := s.cfg.FrontendURL + "/reset-password?code=" + code
		if err := s.emailSvc.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
			log.Printf("[Auth] failed to send reset email to user %d: %v", user.ID, err)
		}
	} else {
		log.Printf("[Auth] email not configured; reset code for user %d: %s", user.ID, code)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if code == "" || len(newPassword) < 6 {
		return ErrInvalidInput
	}
	user, err := s.userRepo.FindByResetCode(ctx, code)
	if err != nil {
		return err
	}
	if user == nil || user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return s.userRepo.ClearResetCode(ctx, user.ID)
}

func (s *authService) generateToken(user *repository.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": user.Role,
		"name": user.Name,
		"exp":  time.Now().Add(time.Hour * time.Duration(s.cfg.JWTExpiry)).Unix(),
		"iat":  time.Now().Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
