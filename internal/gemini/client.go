package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultTimeout = 120 * time.Second

// Client представляет клиент для Gemini API через его OpenAI-совместимый эндпоинт.
type Client struct {
	openaiClient *openai.Client
	modelName    string
}

// Config содержит конфигурацию клиента Gemini.
type Config struct {
	APIKey         string
	ModelName      string
	BaseURL        string
	TimeoutSeconds int
}

// NewClient создает новый экземпляр клиента.
// Возвращает ошибку, если API ключ не задан: зашитых ключей-фоллбэков нет.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.0-flash"
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	config.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &Client{
		openaiClient: openai.NewClientWithConfig(config),
		modelName:    cfg.ModelName,
	}, nil
}

// Complete отправляет один запрос на генерацию текста и возвращает ответ модели.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	resp, err := c.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.modelName,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("received empty response from API")
	}

	return resp.Choices[0].Message.Content, nil
}
