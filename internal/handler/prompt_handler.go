package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-maker/internal/models"
	"prompt-maker/internal/repository"
	"prompt-maker/internal/service"
)

// TokenVerifier проверяет строку identity-токена и возвращает id пользователя.
type TokenVerifier func(ctx context.Context, idToken string) (string, error)

// PromptHandler обрабатывает HTTP запросы сервиса.
// promptRepo и verifyToken могут быть nil, если соответствующие учетные данные
// не были предоставлены при старте: тогда зависимые эндпоинты отвечают
// 401/503 вместо падения процесса.
type PromptHandler struct {
	promptService service.PromptGenerator
	promptRepo    repository.PromptRepository
	verifyToken   TokenVerifier
}

func NewPromptHandler(promptService service.PromptGenerator, promptRepo repository.PromptRepository, verifyToken TokenVerifier) *PromptHandler {
	return &PromptHandler{
		promptService: promptService,
		promptRepo:    promptRepo,
		verifyToken:   verifyToken,
	}
}

// RegisterRoutes регистрирует маршруты сервиса.
// rateLimiter применяется только к /generate; nil отключает ограничение.
func (h *PromptHandler) RegisterRoutes(router *gin.Engine, rateLimiter gin.HandlerFunc) {
	router.GET("/", h.welcome)

	if rateLimiter != nil {
		router.POST("/generate", rateLimiter, h.generate)
	} else {
		router.POST("/generate", h.generate)
	}

	protected := router.Group("", h.AuthMiddleware())
	{
		protected.POST("/save-prompt", h.savePrompt)
		protected.GET("/get-prompts", h.getPrompts)
		protected.DELETE("/delete-prompt/:id", h.deletePrompt)
	}
}

func (h *PromptHandler) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Prompt Maker Backend!"})
}

// generate принимает запрос в канонической или любой исторической форме,
// нормализует его и выполняет один вызов вышестоящего сервиса генерации.
func (h *PromptHandler) generate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		// Нечитаемое тело деградирует до пустого: валидация обязательных
		// полей вернет клиенту осмысленную ошибку.
		zap.L().Warn("Failed to read request body", zap.Error(err))
		raw = nil
	}

	req, err := service.NormalizeGenerationRequest(raw)
	if err != nil {
		promptGenerationsTotal.WithLabelValues("rejected").Inc()
		handleServiceError(c, err)
		return
	}

	zap.L().Debug("Generation request normalized",
		zap.String("mode", req.Mode),
		zap.String("platform", req.Platform),
	)

	text, err := h.promptService.Generate(c.Request.Context(), req)
	if err != nil {
		promptGenerationsTotal.WithLabelValues("failure").Inc()
		handleServiceError(c, err)
		return
	}

	promptGenerationsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"prompt": text})
}

// savePrompt сохраняет результат генерации в коллекцию текущего пользователя.
func (h *PromptHandler) savePrompt(c *gin.Context) {
	if h.promptRepo == nil {
		handleServiceError(c, models.ErrStoreUnavailable)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		zap.L().Warn("Failed to read request body", zap.Error(err))
		raw = nil
	}

	userID := c.GetString(userIDKey)
	prompt := service.NormalizeSavedPrompt(raw)

	id, err := h.promptRepo.Create(c.Request.Context(), userID, prompt)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	promptSavesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Prompt saved successfully", "id": id})
}

// getPrompts возвращает сохраненные промпты пользователя, новые первыми.
func (h *PromptHandler) getPrompts(c *gin.Context) {
	if h.promptRepo == nil {
		handleServiceError(c, models.ErrStoreUnavailable)
		return
	}

	userID := c.GetString(userIDKey)
	prompts, err := h.promptRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

// deletePrompt удаляет промпт по id. Удаление несуществующего id — успех.
func (h *PromptHandler) deletePrompt(c *gin.Context) {
	if h.promptRepo == nil {
		handleServiceError(c, models.ErrStoreUnavailable)
		return
	}

	userID := c.GetString(userIDKey)
	promptID := c.Param("id")

	if err := h.promptRepo.Delete(c.Request.Context(), userID, promptID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prompt deleted successfully"})
}
