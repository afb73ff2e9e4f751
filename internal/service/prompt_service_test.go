package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-maker/internal/models"
)

type mockTextGenerator struct {
	mock.Mock
}

func (m *mockTextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func testRequest() *models.GenerationRequest {
	return &models.GenerationRequest{Subject: "code review", Mode: "coding", Platform: "github"}
}

func TestPromptService_Generate_MissingAPIKey(t *testing.T) {
	// Без сконфигурированного ключа релей отказывает сразу, без сетевых вызовов
	svc := NewPromptService(nil, zap.NewNop())

	text, err := svc.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrAPIKeyMissing))
	assert.Empty(t, text)
}

func TestPromptService_Generate_TrimsResult(t *testing.T) {
	generator := new(mockTextGenerator)
	generator.On("Complete", mock.Anything, mock.Anything).Return("  hello  ", nil)

	svc := NewPromptService(generator, zap.NewNop())
	text, err := svc.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	generator.AssertNumberOfCalls(t, "Complete", 1)
}

func TestPromptService_Generate_EmptyResultIsValid(t *testing.T) {
	generator := new(mockTextGenerator)
	generator.On("Complete", mock.Anything, mock.Anything).Return("   ", nil)

	svc := NewPromptService(generator, zap.NewNop())
	text, err := svc.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestPromptService_Generate_TemplateSubstitution(t *testing.T) {
	var sentPrompt string
	generator := new(mockTextGenerator)
	generator.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		sentPrompt = prompt
		return true
	})).Return("ok", nil)

	svc := NewPromptService(generator, zap.NewNop())
	_, err := svc.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	// Все три плейсхолдера подставлены буквально
	assert.Contains(t, sentPrompt, "code review")
	assert.Contains(t, sentPrompt, "coding")
	assert.Contains(t, sentPrompt, "github")
	assert.NotContains(t, sentPrompt, "{subject}")
	assert.NotContains(t, sentPrompt, "{mode}")
	assert.NotContains(t, sentPrompt, "{platform}")
	// Инструкция вернуть только текст промпта — часть контракта
	assert.True(t, strings.Contains(sentPrompt, "Return ONLY"))
}

func TestPromptService_Generate_UpstreamFailure(t *testing.T) {
	generator := new(mockTextGenerator)
	generator.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("upstream exploded"))

	svc := NewPromptService(generator, zap.NewNop())
	_, err := svc.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrGenerationFailed))
	assert.Contains(t, err.Error(), "upstream exploded")
	// Повторов нет: ровно один вызов на запрос
	generator.AssertNumberOfCalls(t, "Complete", 1)
}
