package database

import (
	"database/sql"
	"fmt"

	"planer-backend/models"
	"planer-backend/utilities"
)

// CheckOrCreateUser garante o registro do usuário no PostgreSQL a partir das
// claims do token verificado. Primeiro acesso cria o registro; acessos
// seguintes atualizam login e e-mail.
func CheckOrCreateUser(db *sql.DB, uid, login, email string) error {
	var dbUID string
	err := db.QueryRow("SELECT firebase_uid FROM usuarios WHERE firebase_uid = $1", uid).Scan(&dbUID)

	switch {
	case err == sql.ErrNoRows:
		utilities.LogInfo("Primeiro acesso para UID %s. Criando no PostgreSQL...", uid)
		_, insertErr := db.Exec(
			"INSERT INTO usuarios (firebase_uid, login, email) VALUES ($1, $2, $3)",
			uid, login, email,
		)
		if insertErr != nil {
			utilities.LogError(insertErr, "Erro ao inserir usuário no DB")
			return fmt.Errorf("erro ao inserir usuário no DB: %w", insertErr)
		}
		return nil

	case err != nil:
		utilities.LogError(err, "Erro ao buscar usuário no DB")
		return fmt.Errorf("erro ao buscar usuário no DB: %w", err)

	default:
		_, updateErr := db.Exec(
			"UPDATE usuarios SET login = $2, email = $3 WHERE firebase_uid = $1",
			uid, login, email,
		)
		if updateErr != nil {
			utilities.LogError(updateErr, "Erro ao atualizar usuário no DB")
			return fmt.Errorf("erro ao atualizar usuário no DB: %w", updateErr)
		}
		return nil
	}
}

// GetUser retorna o registro do usuário com os contadores do grafo de
// seguidores (apenas contagens; as arestas não são expostas)
func GetUser(db *sql.DB, uid string) (models.Usuario, error) {
	var user models.Usuario
	query := `
		SELECT u.firebase_uid, u.login, u.email,
		       (SELECT COUNT(*) FROM seguidores s WHERE s.seguido_uid = u.firebase_uid),
		       (SELECT COUNT(*) FROM seguidores s WHERE s.seguidor_uid = u.firebase_uid)
		FROM usuarios u
		WHERE u.firebase_uid = $1
	`
	err := db.QueryRow(query, uid).Scan(
		&user.FirebaseUID, &user.Login, &user.Email,
		&user.FollowerCount, &user.FollowingCount,
	)
	if err == sql.ErrNoRows {
		return models.Usuario{}, fmt.Errorf("usuário %s não encontrado", uid)
	}
	if err != nil {
		return models.Usuario{}, fmt.Errorf("erro ao buscar usuário no DB: %w", err)
	}
	return user, nil
}

// Follow cria a aresta seguidor→seguido; seguir de novo não é erro
func Follow(db *sql.DB, followerUID, followedUID string) error {
	if followerUID == followedUID {
		return fmt.Errorf("usuário não pode seguir a si mesmo")
	}
	_, err := db.Exec(
		"INSERT INTO seguidores (seguidor_uid, seguido_uid) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		followerUID, followedUID,
	)
	if err != nil {
		return fmt.Errorf("erro ao seguir usuário: %w", err)
	}
	return nil
}

// Unfollow remove a aresta; deixar de seguir quem não segue não é erro
func Unfollow(db *sql.DB, followerUID, followedUID string) error {
	_, err := db.Exec(
		"DELETE FROM seguidores WHERE seguidor_uid = $1 AND seguido_uid = $2",
		followerUID, followedUID,
	)
	if err != nil {
		return fmt.Errorf("erro ao deixar de seguir usuário: %w", err)
	}
	return nil
}

// DeleteUser remove o registro do usuário e suas arestas do grafo
func DeleteUser(db *sql.DB, uid string) error {
	if _, err := db.Exec("DELETE FROM seguidores WHERE seguidor_uid = $1 OR seguido_uid = $1", uid); err != nil {
		return fmt.Errorf("erro ao remover arestas de seguidores: %w", err)
	}
	if _, err := db.Exec("DELETE FROM usuarios WHERE firebase_uid = $1", uid); err != nil {
		return fmt.Errorf("erro ao remover usuário do DB: %w", err)
	}
	return nil
}
