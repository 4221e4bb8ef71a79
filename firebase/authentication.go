package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// VerifyUserToken verifica um ID token e retorna as claims decodificadas
func VerifyUserToken(ctx context.Context, client *auth.Client, token string) (*auth.Token, error) {
	verifiedToken, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar token: %w", err)
	}

	return verifiedToken, nil
}

// GetUserByUID busca o registro de autenticação de um usuário
func GetUserByUID(ctx context.Context, client *auth.Client, uid string) (*auth.UserRecord, error) {
	user, err := client.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	return user, nil
}

// DeleteUser remove o usuário do provedor de autenticação
func DeleteUser(ctx context.Context, client *auth.Client, uid string) error {
	if err := client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("erro ao deletar usuário: %w", err)
	}

	return nil
}
