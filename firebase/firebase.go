package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// InitializeFirebase cria o app Firebase a partir do arquivo de credenciais.
// O app é construído uma única vez na inicialização e injetado nos serviços.
func InitializeFirebase(ctx context.Context) (*firebase.App, error) {
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	return app, nil
}

// NewAuthClient retorna o cliente de autenticação do app
func NewAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente de Auth: %w", err)
	}
	return authClient, nil
}

// NewFirestoreClient retorna o cliente do Firestore do app
func NewFirestoreClient(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return firestoreClient, nil
}
