// Package models contains request and response DTOs for the HTTP API.
package models

import "time"

// ============================================
// Auth
// ============================================

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ============================================
// Users
// ============================================

type CreateUserRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	ConfirmPassword  string `json:"confirm_password"`
	Role             string `json:"role"`
	Phone            string `json:"phone"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	Active           *bool  `json:"active"`
}

type UpdateUserRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	Active           *bool  `json:"active"`
}

type UserResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Phone            *string   `json:"phone"`
	Active           bool      `json:"active"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

// ============================================
// History
// ============================================

// HistoryRequest carries one assignment change. Data uses YYYY-MM-DD.
type HistoryRequest struct {
	Data           string `json:"data_movimentacao"`
	UnidadeLotacao string `json:"unidade_lotacao"`
	ComarcaLotacao string `json:"comarca_lotacao"`
}

type HistoryResponse struct {
	ID               int64   `json:"id"`
	MembroID         int64   `json:"membro_id"`
	DataMovimentacao *string `json:"data_movimentacao"`
	UnidadeLotacao   *string `json:"unidade_lotacao"`
	ComarcaLotacao   *string `json:"comarca_lotacao"`
}

// ============================================
// Lookups
// ============================================

type CreateLookupRequest struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type UpdateLookupRequest struct {
	Value string `json:"value" binding:"required"`
}

// ============================================
// Relationships
// ============================================

type CreateRelationshipRequest struct {
	TargetID int64  `json:"target_id" binding:"required"`
	Degree   string `json:"degree" binding:"required"`
}
