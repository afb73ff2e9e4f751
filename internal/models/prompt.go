package models

import "time"

// GenerationRequest представляет каноническую форму запроса на генерацию промпта
// после разрешения всех исторических имен полей.
type GenerationRequest struct {
	Subject  string `json:"subject"`
	Mode     string `json:"mode"`
	Platform string `json:"platform"`
}

// SavedPrompt представляет сохраненный пользователем результат генерации.
// Новые документы пишутся с каноническими именами полей; при чтении
// репозиторий также принимает старые имена (keywords, taskType,
// targetPlatform, generatedPrompt), оставшиеся от прежних версий клиента.
type SavedPrompt struct {
	ID            string    `json:"id" firestore:"-"`
	Subject       string    `json:"subject" firestore:"subject"`
	Mode          string    `json:"mode" firestore:"mode"`
	Platform      string    `json:"platform" firestore:"platform"`
	GeneratedText string    `json:"generatedText" firestore:"generatedText"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// ErrorResponse стандартный формат ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}
