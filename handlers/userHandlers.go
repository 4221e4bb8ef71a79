package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"planer-backend/database"
	"planer-backend/firebase"
	"planer-backend/utilities"
)

type SocialLoginInput struct {
	IDToken string `json:"id_token"`
}

// FinalizeLoginHandler verifica o ID Token do Firebase, garante o registro do
// usuário no PostgreSQL e abre a sessão de sincronização.
func FinalizeLoginHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogInfo("Recebida requisição para finalizar login com ID Token do Firebase.")

	var input SocialLoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo da requisição de login")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(input.IDToken) == "" {
		http.Error(w, "ID Token é obrigatório", http.StatusBadRequest)
		return
	}

	verifiedToken, err := firebase.VerifyUserToken(r.Context(), authClient, input.IDToken)
	if err != nil {
		utilities.LogError(err, "Falha ao verificar ID Token do Firebase")
		http.Error(w, "Token inválido ou falha na verificação", http.StatusUnauthorized)
		return
	}

	uid := verifiedToken.UID
	email, _ := verifiedToken.Claims["email"].(string)
	login, _ := verifiedToken.Claims["name"].(string)

	if err := database.CheckOrCreateUser(db, uid, login, email); err != nil {
		utilities.LogError(err, "Erro ao garantir usuário no PostgreSQL")
		http.Error(w, "Erro ao registrar usuário", http.StatusInternalServerError)
		return
	}

	// abre a sessão: escutas de tarefas, categorias e varredura de retenção
	if _, err := sessionFor(uid); err != nil {
		utilities.LogError(err, "Erro ao iniciar sessão de sincronização")
		http.Error(w, "Erro ao iniciar sessão", http.StatusInternalServerError)
		return
	}

	user, err := database.GetUser(db, uid)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar usuário após login")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Login finalizado para o usuário %s", uid)
	json.NewEncoder(w).Encode(user)
}

// LogoutHandler encerra a sessão do usuário e todas as suas escutas
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	closeSession(uid)
	w.WriteHeader(http.StatusNoContent)
}

// UserHandler retorna os dados do usuário autenticado com os contadores de
// seguidores e seguidos
func UserHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)

	user, err := database.GetUser(db, uid)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar dados do usuário")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(user)
}

// GetUserHandler retorna os dados públicos de outro usuário
func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	targetUID := vars["id"]

	user, err := database.GetUser(db, targetUID)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar dados do usuário "+targetUID)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(user)
}

// FollowHandler cria a aresta do usuário autenticado para o usuário alvo
func FollowHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	targetUID := mux.Vars(r)["id"]

	if err := database.Follow(db, uid, targetUID); err != nil {
		utilities.LogError(err, "Erro ao seguir usuário")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	utilities.LogInfo("Usuário %s passou a seguir %s", uid, targetUID)
	w.WriteHeader(http.StatusNoContent)
}

// UnfollowHandler remove a aresta do usuário autenticado para o usuário alvo
func UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	targetUID := mux.Vars(r)["id"]

	if err := database.Unfollow(db, uid, targetUID); err != nil {
		utilities.LogError(err, "Erro ao deixar de seguir usuário")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUserHandler apaga a conta: tarefas no Firestore, registro e arestas
// no PostgreSQL e o usuário no provedor de autenticação
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	utilities.LogDebug("Iniciando exclusão da conta do usuário %s", uid)

	closeSession(uid)

	if err := taskDocs.DeleteUserTasks(r.Context(), uid); err != nil {
		utilities.LogError(err, "Erro ao excluir tarefas do usuário")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := database.DeleteUser(db, uid); err != nil {
		utilities.LogError(err, "Erro ao excluir usuário do PostgreSQL")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := firebase.DeleteUser(r.Context(), authClient, uid); err != nil {
		utilities.LogError(err, "Erro ao excluir usuário do Firebase")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Conta do usuário %s excluída com sucesso", uid)
	w.WriteHeader(http.StatusNoContent)
}
