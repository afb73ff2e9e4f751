package models

import (
	"errors"
	"strings"
)

// Ошибки уровня сервиса. Маппинг на HTTP статусы выполняется в handler.
var (
	// ErrAPIKeyMissing — ключ Gemini API не был сконфигурирован при старте.
	ErrAPIKeyMissing = errors.New("gemini api key is not configured")
	// ErrGenerationFailed — вышестоящий сервис генерации вернул ошибку.
	ErrGenerationFailed = errors.New("failed to generate prompt")
	// ErrStoreUnavailable — подключение к Firestore не было установлено при старте.
	ErrStoreUnavailable = errors.New("prompt store is not initialized")
	// ErrMissingGeneratedText — в запросе на сохранение отсутствует текст промпта.
	ErrMissingGeneratedText = errors.New("missing required field: generatedText")
	// ErrTokenInvalid — bearer-токен отсутствует или не прошел проверку.
	ErrTokenInvalid = errors.New("invalid identity token")
)

// MissingFieldsError возникает, когда после нормализации запроса отсутствуют
// обязательные поля. В сообщении используются исторические имена полей,
// потому что именно их отправлял клиент.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}
