package service

import (
	"encoding/json"

	"prompt-maker/internal/models"
)

// defaultPlatform используется, когда клиент не указал целевую платформу
// (старые версии фронтенда поле не отправляли вовсе).
const defaultPlatform = "Gemini"

// fieldSources описывает одно каноническое поле запроса и упорядоченный список
// имен, под которыми его присылали разные поколения клиентов. Первый непустой
// источник выигрывает. Добавление нового синонима — одна строка в таблице.
type fieldSources struct {
	canonical string
	sources   []string
}

var generationRequestFields = []fieldSources{
	{canonical: "subject", sources: []string{"prompt", "keywords"}},
	{canonical: "mode", sources: []string{"mode", "taskType"}},
	{canonical: "platform", sources: []string{"platform", "targetPlatform"}},
}

// NormalizeGenerationRequest приводит входящий запрос любой исторической формы
// к канонической. Payload может быть уже разобранным объектом, сырыми байтами
// JSON либо JSON-строкой. Ошибки декодирования не прерывают обработку:
// испорченное тело деградирует до «отсутствующих полей» и отклоняется
// валидацией, а не роняет пайплайн запроса.
func NormalizeGenerationRequest(payload any) (*models.GenerationRequest, error) {
	body := decodeBody(payload)

	resolved := make(map[string]string, len(generationRequestFields))
	for _, field := range generationRequestFields {
		resolved[field.canonical] = firstNonEmpty(body, field.sources)
	}
	if resolved["platform"] == "" {
		resolved["platform"] = defaultPlatform
	}

	var missing []string
	if resolved["subject"] == "" {
		missing = append(missing, "prompt/keywords")
	}
	if resolved["mode"] == "" {
		missing = append(missing, "mode/taskType")
	}
	if len(missing) > 0 {
		return nil, &models.MissingFieldsError{Fields: missing}
	}

	return &models.GenerationRequest{
		Subject:  resolved["subject"],
		Mode:     resolved["mode"],
		Platform: resolved["platform"],
	}, nil
}

// NormalizeSavedPrompt приводит тело запроса на сохранение к канонической
// форме по той же таблице синонимов. Валидация обязательных полей здесь не
// выполняется: отсутствие generatedText обнаруживает хранилище при создании.
func NormalizeSavedPrompt(payload any) *models.SavedPrompt {
	body := decodeBody(payload)
	return &models.SavedPrompt{
		Subject:       firstNonEmpty(body, []string{"subject", "prompt", "keywords"}),
		Mode:          firstNonEmpty(body, []string{"mode", "taskType"}),
		Platform:      firstNonEmpty(body, []string{"platform", "targetPlatform"}),
		GeneratedText: firstNonEmpty(body, []string{"generatedText", "generatedPrompt"}),
	}
}

// decodeBody приводит payload к key/value представлению.
func decodeBody(payload any) map[string]any {
	switch v := payload.(type) {
	case nil:
		return map[string]any{}
	case []byte:
		return parseJSONObject(v)
	case json.RawMessage:
		return parseJSONObject(v)
	case string:
		return parseJSONObject([]byte(v))
	case map[string]any:
		// Node-овский сериализованный Buffer: {"type":"Buffer","data":[...]}
		if raw, ok := bufferObjectBytes(v); ok {
			return parseJSONObject(raw)
		}
		return v
	default:
		return map[string]any{}
	}
}

func parseJSONObject(raw []byte) map[string]any {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// bufferObjectBytes распознает объект вида {"type":"Buffer","data":[104,...]}
// и восстанавливает исходные байты.
func bufferObjectBytes(body map[string]any) ([]byte, bool) {
	typeName, _ := body["type"].(string)
	data, okData := body["data"].([]any)
	if typeName != "Buffer" || !okData {
		return nil, false
	}
	raw := make([]byte, 0, len(data))
	for _, item := range data {
		num, ok := item.(float64)
		if !ok {
			return nil, false
		}
		raw = append(raw, byte(int(num)))
	}
	return raw, true
}

func firstNonEmpty(body map[string]any, keys []string) string {
	for _, key := range keys {
		if value, ok := body[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
