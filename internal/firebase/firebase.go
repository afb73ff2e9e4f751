package firebase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Clients объединяет клиенты Firebase, которые использует сервис.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// ResolveServiceAccount возвращает JSON сервис-аккаунта Firebase.
// Порядок источников: значение переменной окружения (JSON как есть или base64),
// затем локальный файл. Если ни один источник не доступен, возвращает (nil, nil) —
// сервис продолжает работу без Firebase, а зависимые эндпоинты отвечают 401/503.
func ResolveServiceAccount(envValue, filePath string) ([]byte, error) {
	raw := strings.TrimSpace(envValue)
	if raw != "" {
		// JSON начинается с '{'; всё остальное считаем base64
		if strings.HasPrefix(raw, "{") {
			if !json.Valid([]byte(raw)) {
				return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT contains invalid JSON")
			}
			return []byte(raw), nil
		}

		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT as base64: %w", err)
		}
		if !json.Valid(decoded) {
			return nil, fmt.Errorf("decoded FIREBASE_SERVICE_ACCOUNT is not valid JSON")
		}
		return decoded, nil
	}

	if filePath == "" {
		return nil, nil
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read service account file %s: %w", filePath, err)
	}
	if !json.Valid(content) {
		return nil, fmt.Errorf("service account file %s is not valid JSON", filePath)
	}
	return content, nil
}

// NewClients инициализирует Firebase App и возвращает клиенты Auth и Firestore.
func NewClients(ctx context.Context, credentialsJSON []byte, logger *zap.Logger) (*Clients, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase Auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	logger.Info("Firebase clients initialized")
	return &Clients{
		Auth:      authClient,
		Firestore: firestoreClient,
	}, nil
}
