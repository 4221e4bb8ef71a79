package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"planer-backend/handlers"
	"planer-backend/utilities"
)

func LoadRoutes() {
	// Inicializar o sistema de logs
	utilities.InitLogger()

	r := mux.NewRouter()

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	// --- Rotas de Autenticação ---
	r.HandleFunc("/auth/finalize-login", handlers.FinalizeLoginHandler).Methods("POST")
	r.HandleFunc("/auth/logout", handlers.AuthMiddleware(handlers.LogoutHandler)).Methods("POST")

	// --- Rotas de Usuário ---
	r.HandleFunc("/user/info", handlers.AuthMiddleware(handlers.UserHandler)).Methods("GET")
	r.HandleFunc("/user/delete", handlers.AuthMiddleware(handlers.DeleteUserHandler)).Methods("DELETE")
	r.HandleFunc("/users/info/{id}", handlers.AuthMiddleware(handlers.GetUserHandler)).Methods("GET")
	r.HandleFunc("/users/follow/{id}", handlers.AuthMiddleware(handlers.FollowHandler)).Methods("POST")
	r.HandleFunc("/users/unfollow/{id}", handlers.AuthMiddleware(handlers.UnfollowHandler)).Methods("DELETE")

	// --- Rotas de Tarefas (protegidas) ---
	r.HandleFunc("/task/create", handlers.AuthMiddleware(handlers.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/task/list", handlers.AuthMiddleware(handlers.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/task/update/{task_id}", handlers.AuthMiddleware(handlers.UpdateTaskHandler)).Methods("PUT")
	r.HandleFunc("/task/delete/{task_id}", handlers.AuthMiddleware(handlers.DeleteTaskHandler)).Methods("DELETE")
	r.HandleFunc("/task/toggle/{task_id}", handlers.AuthMiddleware(handlers.ToggleTaskHandler)).Methods("POST")
	r.HandleFunc("/task/archive/{task_id}", handlers.AuthMiddleware(handlers.ArchiveTaskHandler)).Methods("POST")

	// --- Compartilhamento: feed público, cópia e deep link ---
	r.HandleFunc("/tasks/public", handlers.AuthMiddleware(handlers.PublicTasksHandler)).Methods("GET")
	r.HandleFunc("/task/copy", handlers.AuthMiddleware(handlers.CopyTaskHandler)).Methods("POST")
	r.HandleFunc("/task/from-link", handlers.AuthMiddleware(handlers.TaskFromLinkHandler)).Methods("POST")

	// --- Categorias customizadas ---
	r.HandleFunc("/categories/list", handlers.AuthMiddleware(handlers.ListCategoriesHandler)).Methods("GET")
	r.HandleFunc("/categories/add", handlers.AuthMiddleware(handlers.AddCategoryHandler)).Methods("POST")
	r.HandleFunc("/categories/remove/{name}", handlers.AuthMiddleware(handlers.RemoveCategoryHandler)).Methods("DELETE")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	allowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if allowedOriginsEnv == "" {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	} else {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	handler := gorillahandlers.CORS(headers, methods, origins)(r)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.LogInfo("Servidor iniciado na porta %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
