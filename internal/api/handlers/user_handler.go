package handlers

import (
	"net/http"

	"github.com/CelDarley/membro-api/internal/api/middleware"
	"github.com/CelDarley/membro-api/internal/models"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Nome, email e senha são obrigatórios."})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	input := &service.CreateUserInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		Confirm:          req.ConfirmPassword,
		Role:             req.Role,
		Phone:            req.Phone,
		TwoFactorEnabled: req.TwoFactorEnabled,
		Active:           active,
	}

	user, err := h.userService.Create(c.Request.Context(), input, middleware.Actor(c).IsAdmin())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Corpo da requisição inválido."})
		return
	}

	input := &service.UpdateUserInput{
		Name:             req.Name,
		Email:            req.Email,
		Role:             req.Role,
		Phone:            req.Phone,
		Password:         req.Password,
		Confirm:          req.ConfirmPassword,
		TwoFactorEnabled: req.TwoFactorEnabled,
		Active:           req.Active,
	}
	if err := h.userService.Update(c.Request.Context(), id, input); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário removido."})
}

func (h *UserHandler) ToggleActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	active, err := h.userService.ToggleActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}
