package repository

import (
	"context"

	"prompt-maker/internal/models"
)

// PromptRepository определяет хранилище сохраненных промптов.
// Каждая операция ограничена коллекцией одного пользователя: кросс-пользовательский
// доступ на уровне интерфейса не выражается.
type PromptRepository interface {
	// Create сохраняет промпт и возвращает идентификатор, назначенный хранилищем.
	Create(ctx context.Context, userID string, prompt *models.SavedPrompt) (string, error)
	// ListByUser возвращает промпты пользователя, новые первыми.
	// Для пользователя без сохранений возвращает пустой срез, а не ошибку.
	ListByUser(ctx context.Context, userID string) ([]models.SavedPrompt, error)
	// Delete удаляет промпт по идентификатору. Удаление несуществующего
	// идентификатора не считается ошибкой.
	Delete(ctx context.Context, userID, promptID string) error
}
