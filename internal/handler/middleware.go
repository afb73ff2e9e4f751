package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-maker/internal/models"
)

// userIDKey — ключ gin-контекста, под которым middleware кладет id пользователя.
const userIDKey = "user_id"

// AuthMiddleware проверяет bearer-токен через Firebase и кладет uid в контекст.
// Клиенту всегда возвращается единообразный 401 без указания конкретной
// причины (истек, подделан, неверная подпись) — детали только в логах.
func (h *PromptHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing", zap.String("path", c.Request.URL.Path))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized: Missing or invalid token"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format", zap.String("path", c.Request.URL.Path))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized: Missing or invalid token"})
			return
		}
		tokenString := parts[1]

		if h.verifyToken == nil {
			zap.L().Warn("Identity provider is not configured, rejecting request")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized: Invalid token"})
			return
		}

		userID, err := h.verifyToken(c.Request.Context(), tokenString)
		if err != nil {
			// Логируем только начало токена
			tokenSnippet := tokenString
			if len(tokenSnippet) > 10 {
				tokenSnippet = tokenSnippet[:10] + "..."
			}
			zap.L().Warn("Token verification failed", zap.Error(err), zap.String("tokenSnippet", tokenSnippet))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized: Invalid token"})
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(userIDKey, userID)
		zap.L().Debug("Identity token verified", zap.String("userID", userID))
		c.Next()
	}
}
