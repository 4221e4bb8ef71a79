package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"

	"firebase.google.com/go/v4/auth"

	"planer-backend/firebase"
	"planer-backend/tasks"
	"planer-backend/utilities"
)

// Serviços compartilhados pelos handlers, injetados na inicialização
var (
	db            *sql.DB
	authClient    *auth.Client
	taskDocs      *firebase.TaskDocs
	categoryDocs  *firebase.CategoryDocs
	serverContext = context.Background()

	sessionsMu sync.Mutex
	sessions   = map[string]*tasks.Session{}
)

// InitServices injeta as dependências construídas no main
func InitServices(ctx context.Context, database *sql.DB, authCli *auth.Client, docs *firebase.TaskDocs, categories *firebase.CategoryDocs) {
	serverContext = ctx
	db = database
	authClient = authCli
	taskDocs = docs
	categoryDocs = categories
}

// sessionFor retorna a sessão ativa do usuário, abrindo uma nova quando
// necessário (por exemplo após reinício do servidor)
func sessionFor(uid string) (*tasks.Session, error) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	if session, ok := sessions[uid]; ok {
		return session, nil
	}

	session, err := tasks.StartSession(serverContext, uid, taskDocs, categoryDocs, tasks.LogReminderScheduler{})
	if err != nil {
		return nil, err
	}
	sessions[uid] = session
	return session, nil
}

// closeSession encerra e descarta a sessão do usuário, se houver
func closeSession(uid string) {
	sessionsMu.Lock()
	session, ok := sessions[uid]
	delete(sessions, uid)
	sessionsMu.Unlock()

	if ok {
		session.Close()
	}
}

type contextKey string

const userUIDKey contextKey = "userUID"

// userUID extrai o UID autenticado colocado no contexto pelo AuthMiddleware
func userUID(r *http.Request) string {
	uid, _ := r.Context().Value(userUIDKey).(string)
	return uid
}

// writeTaskError mapeia a taxonomia de erros do núcleo para códigos HTTP
func writeTaskError(w http.ResponseWriter, err error) {
	var validationErr *tasks.ValidationError
	var notFoundErr *tasks.NotFoundError
	var duplicateErr *tasks.DuplicateError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		http.Error(w, notFoundErr.Error(), http.StatusNotFound)
	case errors.As(err, &duplicateErr):
		http.Error(w, duplicateErr.Error(), http.StatusConflict)
	default:
		utilities.LogError(err, "Erro interno na operação de tarefas")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
