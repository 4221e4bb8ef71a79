package tasks

import (
	"context"

	"planer-backend/utilities"
)

// Session reúne os serviços de uma sessão de usuário com ciclo de vida
// explícito: tudo é construído no login e desfeito no logout. O contexto da
// sessão delimita todas as escutas e a varredura de retenção.
type Session struct {
	UserID     string
	Tasks      *TaskStore
	Sync       *SyncEngine
	Sharing    *SharingResolver
	Categories *CategoryService

	cancel context.CancelFunc
}

// StartSession constrói e inicia os serviços da sessão de um usuário
func StartSession(ctx context.Context, userID string, docs DocStore, categories CategoryStore, reminders ReminderScheduler) (*Session, error) {
	sessionCtx, cancel := context.WithCancel(ctx)

	store := NewTaskStore(userID, docs, reminders)
	sync := NewSyncEngine(userID, docs, store)
	sharing := NewSharingResolver(userID, docs, store)
	catService := NewCategoryService(userID, categories)

	if err := sync.Start(sessionCtx); err != nil {
		cancel()
		return nil, err
	}
	if err := catService.Start(sessionCtx); err != nil {
		sync.Stop()
		cancel()
		return nil, err
	}

	NewRetentionSweeper(store).Start(sessionCtx)

	utilities.LogInfo("Sessão iniciada para o usuário %s", userID)
	return &Session{
		UserID:     userID,
		Tasks:      store,
		Sync:       sync,
		Sharing:    sharing,
		Categories: catService,
		cancel:     cancel,
	}, nil
}

// Close encerra deterministicamente todas as escutas e rotinas da sessão
func (s *Session) Close() {
	s.Sync.Stop()
	s.Categories.Stop()
	s.cancel()
	utilities.LogInfo("Sessão encerrada para o usuário %s", s.UserID)
}
