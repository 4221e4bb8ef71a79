package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"planer-backend/firebase"
	"planer-backend/utilities"
)

// LoggingMiddleware registra informações sobre cada requisição HTTP
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Criar um ResponseWriter personalizado para capturar o status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		utilities.LogRequest(r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, duration)
	})
}

// responseWriter é um wrapper para http.ResponseWriter que captura o status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captura o status code antes de escrevê-lo
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// AuthMiddleware verifica o token Firebase e coloca o UID no contexto
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utilities.LogError(fmt.Errorf("header de autorização ausente"), "Autenticação falhou")
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		verifiedToken, err := firebase.VerifyUserToken(r.Context(), authClient, tokenString)
		if err != nil {
			utilities.LogError(err, "Token inválido")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userUIDKey, verifiedToken.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
