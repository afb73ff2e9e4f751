package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"prompt-maker/internal/models"
)

const (
	usersCollection   = "users"
	promptsCollection = "prompts"
)

// FirestorePromptRepository хранит промпты в подколлекции users/{uid}/prompts.
type FirestorePromptRepository struct {
	client *firestore.Client
}

func NewFirestorePromptRepository(client *firestore.Client) *FirestorePromptRepository {
	if client == nil {
		log.Fatal().Msg("Firestore client is nil for FirestorePromptRepository")
	}
	return &FirestorePromptRepository{client: client}
}

func (r *FirestorePromptRepository) userPrompts(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(promptsCollection)
}

// Create сохраняет промпт с серверной временной меткой и возвращает id документа.
func (r *FirestorePromptRepository) Create(ctx context.Context, userID string, prompt *models.SavedPrompt) (string, error) {
	if prompt.GeneratedText == "" {
		return "", models.ErrMissingGeneratedText
	}

	data := map[string]any{
		"subject":       prompt.Subject,
		"mode":          prompt.Mode,
		"platform":      prompt.Platform,
		"generatedText": prompt.GeneratedText,
		"createdAt":     firestore.ServerTimestamp,
	}

	docRef, _, err := r.userPrompts(userID).Add(ctx, data)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to save prompt")
		return "", fmt.Errorf("failed to save prompt: %w", err)
	}
	log.Info().Str("userID", userID).Str("id", docRef.ID).Msg("Prompt saved")
	return docRef.ID, nil
}

// ListByUser возвращает промпты пользователя, отсортированные по createdAt
// по убыванию. Старые документы могли быть записаны прежними версиями клиента
// под историческими именами полей, поэтому чтение принимает оба варианта.
func (r *FirestorePromptRepository) ListByUser(ctx context.Context, userID string) ([]models.SavedPrompt, error) {
	iter := r.userPrompts(userID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	prompts := make([]models.SavedPrompt, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Error().Err(err).Str("userID", userID).Msg("Failed to list prompts")
			return nil, fmt.Errorf("failed to list prompts: %w", err)
		}
		prompts = append(prompts, savedPromptFromDoc(doc.Ref.ID, doc.Data()))
	}
	return prompts, nil
}

// Delete удаляет промпт. Firestore не считает удаление несуществующего
// документа ошибкой, что дает требуемую идемпотентность.
func (r *FirestorePromptRepository) Delete(ctx context.Context, userID, promptID string) error {
	if _, err := r.userPrompts(userID).Doc(promptID).Delete(ctx); err != nil {
		log.Error().Err(err).Str("userID", userID).Str("id", promptID).Msg("Failed to delete prompt")
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	log.Info().Str("userID", userID).Str("id", promptID).Msg("Prompt deleted")
	return nil
}

// savedPromptFromDoc декодирует документ, принимая канонические и исторические
// имена полей.
func savedPromptFromDoc(id string, data map[string]any) models.SavedPrompt {
	prompt := models.SavedPrompt{
		ID:            id,
		Subject:       stringField(data, "subject", "keywords", "prompt"),
		Mode:          stringField(data, "mode", "taskType"),
		Platform:      stringField(data, "platform", "targetPlatform"),
		GeneratedText: stringField(data, "generatedText", "generatedPrompt"),
	}
	if createdAt, ok := data["createdAt"].(time.Time); ok {
		prompt.CreatedAt = createdAt
	}
	return prompt
}

func stringField(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := data[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
