package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-maker/internal/models"
)

// handleServiceError отображает ошибки сервисного слоя на HTTP статусы.
// Тип ошибки при маппинге сохраняется: нормализационные ошибки не доходят
// до релея, ошибки релея не понижаются до клиентских.
func handleServiceError(c *gin.Context, err error) {
	var missingFields *models.MissingFieldsError

	switch {
	case errors.As(err, &missingFields):
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrMissingGeneratedText):
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing required field: generatedText"})
	case errors.Is(err, models.ErrAPIKeyMissing):
		// Деталь деплоймента не раскрывается клиенту
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Prompt generation is not configured"})
	case errors.Is(err, models.ErrGenerationFailed):
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrStoreUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Prompt store is not available"})
	case errors.Is(err, models.ErrTokenInvalid):
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized: Invalid token"})
	default:
		zap.L().Error("Unhandled service error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
	}
}
