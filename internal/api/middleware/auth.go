package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates JWT tokens and sets user context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Printf("[Auth] Missing Authorization header - Path: %s", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token não fornecido."})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Printf("[Auth] Invalid header format - Path: %s", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("[Auth] Invalid token - Path: %s, Error: %v", c.Request.URL.Path, err)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido ou expirado."})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth sets user context when a valid token is present but
// lets anonymous requests through. Used for the first-user bootstrap.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin aborts requests whose token does not carry the admin
// role. It must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"message": "Apenas administradores."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs all incoming requests with details
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		log.Printf("[%s] %s %d - %v", method, path, status, duration)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Printf("[Error] %v", e.Err)
			}
		}
	}
}

// GetUserID extracts the authenticated user ID from gin context
func GetUserID(c *gin.Context) int64 {
	userID, exists := c.Get("userID")
	if !exists {
		return 0
	}
	return userID.(int64)
}

// GetRole extracts the authenticated role from gin context
func GetRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	return role.(string)
}

// Actor returns the request's authorization context.
func Actor(c *gin.Context) service.Claims {
	return service.Claims{UserID: GetUserID(c), Role: GetRole(c)}
}

// RequireUserID returns false and writes 401 if no user is authenticated
func RequireUserID(c *gin.Context) (int64, bool) {
	userID := GetUserID(c)
	if userID == 0 {
		log.Printf("[Auth] User not authenticated - Path: %s", c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado."})
		return 0, false
	}
	return userID, true
}
