package models

// Usuario é o registro de usuário mantido no PostgreSQL.
// Os contadores de seguidores vêm do grafo de seguidores, não do documento.
type Usuario struct {
	FirebaseUID    string `json:"firebase_uid"`
	Login          string `json:"login"`
	Email          string `json:"email"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
}
