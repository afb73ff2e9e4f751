package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"prompt-maker/internal/models"
)

// TextGenerator описывает узкий интерфейс вышестоящего сервиса генерации текста.
// Конкретный провайдер подменяется без изменений в нормализаторе и HTTP-слое.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptGenerator определяет контракт генерации для HTTP-слоя.
type PromptGenerator interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (string, error)
}

// promptTemplate — шаблон инструкции для модели. Подстановка буквальная,
// распознаются только три именованных плейсхолдера.
const promptTemplate = `You are an expert prompt engineer. Your task is to craft a clearer, more specific and more effective prompt based on the user's input.

Input details:
- Keywords/Topic: {subject}
- Task Type: {mode}
- Target Platform: {platform}

Generate a single, high-quality prompt that can be copied and pasted to perform the task above. The prompt should be optimized for an LLM (Large Language Model). Return ONLY the generated prompt text, nothing else.`

// PromptService реализует генерацию промпта: один вызов вышестоящего API
// на запрос, без повторов и без кеширования.
type PromptService struct {
	generator TextGenerator
	logger    *zap.Logger
}

// NewPromptService создает новый PromptService.
// generator может быть nil, если при старте не был сконфигурирован API ключ —
// в этом случае Generate отвечает ошибкой конфигурации, не выполняя сетевых вызовов.
func NewPromptService(generator TextGenerator, logger *zap.Logger) *PromptService {
	return &PromptService{
		generator: generator,
		logger:    logger.Named("PromptService"),
	}
}

// Generate рендерит шаблон по каноническому запросу и выполняет ровно один
// вызов вышестоящего сервиса. Результат возвращается без начальных и конечных
// пробелов; пустая строка — валидный результат, а не ошибка.
func (s *PromptService) Generate(ctx context.Context, req *models.GenerationRequest) (string, error) {
	if s.generator == nil {
		s.logger.Error("Generation requested but GEMINI_API_KEY is not configured")
		return "", models.ErrAPIKeyMissing
	}

	prompt := renderTemplate(req)
	s.logger.Debug("Calling upstream text service",
		zap.String("mode", req.Mode),
		zap.String("platform", req.Platform),
	)

	text, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("Upstream generation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	return strings.TrimSpace(text), nil
}

func renderTemplate(req *models.GenerationRequest) string {
	return strings.NewReplacer(
		"{subject}", req.Subject,
		"{mode}", req.Mode,
		"{platform}", req.Platform,
	).Replace(promptTemplate)
}
