package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-maker/internal/handler"
	"prompt-maker/internal/models"
	"prompt-maker/internal/repository"
	"prompt-maker/internal/service"
)

const (
	testUserID = "user-1"
	validToken = "valid-token"
)

// --- Стаб вышестоящего генератора текста --- //

type stubTextGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubTextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

// --- In-memory реализация PromptRepository --- //

type fakePromptRepo struct {
	prompts map[string][]models.SavedPrompt
	nextID  int
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: make(map[string][]models.SavedPrompt)}
}

func (r *fakePromptRepo) Create(ctx context.Context, userID string, prompt *models.SavedPrompt) (string, error) {
	if prompt.GeneratedText == "" {
		return "", models.ErrMissingGeneratedText
	}
	r.nextID++
	saved := *prompt
	saved.ID = fmt.Sprintf("doc-%d", r.nextID)
	saved.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	r.prompts[userID] = append(r.prompts[userID], saved)
	return saved.ID, nil
}

func (r *fakePromptRepo) ListByUser(ctx context.Context, userID string) ([]models.SavedPrompt, error) {
	stored := r.prompts[userID]
	// Новые первыми, как в Firestore-запросе с OrderBy createdAt desc
	result := make([]models.SavedPrompt, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		result = append(result, stored[i])
	}
	return result, nil
}

func (r *fakePromptRepo) Delete(ctx context.Context, userID, promptID string) error {
	stored := r.prompts[userID]
	for i, prompt := range stored {
		if prompt.ID == promptID {
			r.prompts[userID] = append(stored[:i], stored[i+1:]...)
			return nil
		}
	}
	// Несуществующий id — не ошибка
	return nil
}

// --- Хелперы --- //

func testVerifier(ctx context.Context, idToken string) (string, error) {
	if idToken == validToken {
		return testUserID, nil
	}
	return "", errors.New("token verification failed")
}

func newTestRouter(generator service.TextGenerator, repo repository.PromptRepository, verifier handler.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	promptService := service.NewPromptService(generator, zap.NewNop())
	h := handler.NewPromptHandler(promptService, repo, verifier)
	h.RegisterRoutes(router, nil)
	return router
}

func doRequest(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- Тесты --- //

func TestWelcome(t *testing.T) {
	router := newTestRouter(nil, nil, nil)
	rec := doRequest(router, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Prompt Maker Backend!", decodeBody(t, rec)["message"])
}

func TestGenerate_EndToEnd(t *testing.T) {
	generator := &stubTextGenerator{text: "\n  Generated prompt text  \n"}
	router := newTestRouter(generator, nil, nil)

	body := []byte(`{"prompt":"a landing page hero","mode":"coding","platform":"ChatGPT"}`)
	rec := doRequest(router, http.MethodPost, "/generate", "", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Generated prompt text", decodeBody(t, rec)["prompt"])
	assert.Equal(t, 1, generator.calls)
}

func TestGenerate_LegacyFieldNames(t *testing.T) {
	generator := &stubTextGenerator{text: "ok"}
	router := newTestRouter(generator, nil, nil)

	body := []byte(`{"keywords":"a landing page hero","taskType":"coding"}`)
	rec := doRequest(router, http.MethodPost, "/generate", "", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["prompt"])
}

func TestGenerate_MissingFields(t *testing.T) {
	generator := &stubTextGenerator{text: "ok"}
	router := newTestRouter(generator, nil, nil)

	rec := doRequest(router, http.MethodPost, "/generate", "", []byte(`{}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Missing required fields")

	rec = doRequest(router, http.MethodPost, "/generate", "", []byte(`{"prompt":"x"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "mode/taskType")

	// Нормализация терминальна: до вышестоящего сервиса запрос не дошел
	assert.Equal(t, 0, generator.calls)
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	// nil generator моделирует отсутствие GEMINI_API_KEY при старте
	router := newTestRouter(nil, nil, nil)

	body := []byte(`{"prompt":"x","mode":"y"}`)
	rec := doRequest(router, http.MethodPost, "/generate", "", body)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Prompt generation is not configured", decodeBody(t, rec)["error"])
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	generator := &stubTextGenerator{err: errors.New("upstream exploded")}
	router := newTestRouter(generator, nil, nil)

	rec := doRequest(router, http.MethodPost, "/generate", "", []byte(`{"prompt":"x","mode":"y"}`))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "upstream exploded")
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(nil, newFakePromptRepo(), testVerifier)

	// Без заголовка
	rec := doRequest(router, http.MethodGet, "/get-prompts", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Невалидный токен — единообразный 401 без деталей причины
	rec = doRequest(router, http.MethodGet, "/get-prompts", "bad-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: Invalid token", decodeBody(t, rec)["error"])

	// Некорректный формат заголовка
	req := httptest.NewRequest(http.MethodGet, "/get-prompts", nil)
	req.Header.Set("Authorization", "Basic something")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetPrompts_EmptyList(t *testing.T) {
	router := newTestRouter(nil, newFakePromptRepo(), testVerifier)

	rec := doRequest(router, http.MethodGet, "/get-prompts", validToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	// Пустой список, а не null и не ошибка
	assert.JSONEq(t, `{"prompts":[]}`, rec.Body.String())
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := newFakePromptRepo()
	router := newTestRouter(nil, repo, testVerifier)

	first := []byte(`{"subject":"s1","mode":"m1","platform":"p1","generatedText":"first prompt"}`)
	rec := doRequest(router, http.MethodPost, "/save-prompt", validToken, first)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Prompt saved successfully", body["message"])
	assert.NotEmpty(t, body["id"])

	// Сохранение под историческими именами полей
	second := []byte(`{"keywords":"s2","taskType":"m2","generatedPrompt":"second prompt"}`)
	rec = doRequest(router, http.MethodPost, "/save-prompt", validToken, second)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/get-prompts", validToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResponse struct {
		Prompts []models.SavedPrompt `json:"prompts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResponse))
	require.Len(t, listResponse.Prompts, 2)

	// Новые первыми
	assert.Equal(t, "second prompt", listResponse.Prompts[0].GeneratedText)
	assert.Equal(t, "s2", listResponse.Prompts[0].Subject)
	assert.Equal(t, "first prompt", listResponse.Prompts[1].GeneratedText)
}

func TestSavePrompt_MissingGeneratedText(t *testing.T) {
	router := newTestRouter(nil, newFakePromptRepo(), testVerifier)

	rec := doRequest(router, http.MethodPost, "/save-prompt", validToken, []byte(`{"subject":"s"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: generatedText", decodeBody(t, rec)["error"])
}

func TestDeletePrompt_Idempotent(t *testing.T) {
	repo := newFakePromptRepo()
	router := newTestRouter(nil, repo, testVerifier)

	// Удаление несуществующего id — успех
	rec := doRequest(router, http.MethodDelete, "/delete-prompt/no-such-id", validToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Prompt deleted successfully", decodeBody(t, rec)["message"])

	// Удаление существующего — тоже успех, и промпт исчезает из списка
	saveBody := []byte(`{"generatedText":"to be deleted"}`)
	rec = doRequest(router, http.MethodPost, "/save-prompt", validToken, saveBody)
	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, id)

	rec = doRequest(router, http.MethodDelete, "/delete-prompt/"+id, validToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/get-prompts", validToken, nil)
	assert.JSONEq(t, `{"prompts":[]}`, rec.Body.String())
}

func TestStoreUnavailable(t *testing.T) {
	// Репозиторий не инициализирован (не было учетных данных Firestore)
	router := newTestRouter(nil, nil, testVerifier)

	rec := doRequest(router, http.MethodPost, "/save-prompt", validToken, []byte(`{"generatedText":"g"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(router, http.MethodGet, "/get-prompts", validToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(router, http.MethodDelete, "/delete-prompt/some-id", validToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
