package tasks

import (
	"context"
	"sync"

	"planer-backend/models"
	"planer-backend/utilities"
)

// SyncEngine mantém o estado local consistente com o armazenamento e propaga
// mudanças de tarefas originais para as cópias derivadas do usuário.
//
// São duas escutas fixas por sessão (tarefas próprias e feed público) mais
// uma escuta por tarefa original distinta referenciada por alguma cópia
// local. Cópias duplicadas do mesmo original compartilham uma única escuta;
// escutas órfãs são desfeitas quando a última cópia some.
type SyncEngine struct {
	userID string
	store  DocStore
	tasks  *TaskStore

	mu              sync.Mutex
	publicTasks     []models.TaskItem
	ownCancel       CancelFunc
	publicCancel    CancelFunc
	originListeners map[string]CancelFunc
}

func NewSyncEngine(userID string, store DocStore, tasks *TaskStore) *SyncEngine {
	return &SyncEngine{
		userID:          userID,
		store:           store,
		tasks:           tasks,
		originListeners: map[string]CancelFunc{},
	}
}

// Start abre as escutas de tarefas próprias e públicas. O contexto delimita
// a vida da sessão: seu cancelamento encerra todas as escutas.
func (e *SyncEngine) Start(ctx context.Context) error {
	ownCancel, err := e.store.ListenOwned(ctx, e.userID, func(snaps []Snapshot) {
		e.onOwnSnapshot(ctx, snaps)
	})
	if err != nil {
		return &StoreError{Op: "listenOwned", Err: err}
	}

	publicCancel, err := e.store.ListenPublic(ctx, e.userID, func(snaps []Snapshot) {
		e.onPublicSnapshot(snaps)
	})
	if err != nil {
		ownCancel()
		return &StoreError{Op: "listenPublic", Err: err}
	}

	e.mu.Lock()
	e.ownCancel = ownCancel
	e.publicCancel = publicCancel
	e.mu.Unlock()

	utilities.LogInfo("Sincronização iniciada para o usuário %s", e.userID)
	return nil
}

// Stop encerra todas as escutas ativas, inclusive as de tarefas originais
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ownCancel != nil {
		e.ownCancel()
		e.ownCancel = nil
	}
	if e.publicCancel != nil {
		e.publicCancel()
		e.publicCancel = nil
	}
	for id, cancel := range e.originListeners {
		cancel()
		delete(e.originListeners, id)
	}
}

// PublicTasks retorna a visão somente-leitura do feed de tarefas públicas
func (e *SyncEngine) PublicTasks() []models.TaskItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.TaskItem, len(e.publicTasks))
	copy(out, e.publicTasks)
	return out
}

// OriginListenerCount expõe o tamanho do registro de escutas por original
func (e *SyncEngine) OriginListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.originListeners)
}

// onOwnSnapshot substitui a coleção local pelo batch recém-decodificado e
// rederiva o conjunto de escutas por tarefa original
func (e *SyncEngine) onOwnSnapshot(ctx context.Context, snaps []Snapshot) {
	decoded := make([]models.TaskItem, 0, len(snaps))
	for _, snap := range snaps {
		decoded = append(decoded, models.TaskFromDoc(snap.ID, snap.Data))
	}
	e.tasks.replaceAll(decoded)
	e.syncOriginListeners(ctx)
}

func (e *SyncEngine) onPublicSnapshot(snaps []Snapshot) {
	decoded := make([]models.TaskItem, 0, len(snaps))
	for _, snap := range snaps {
		decoded = append(decoded, models.TaskFromDoc(snap.ID, snap.Data))
	}

	e.mu.Lock()
	e.publicTasks = decoded
	e.mu.Unlock()
}

// syncOriginListeners garante exatamente uma escuta viva por tarefa original
// distinta referenciada por alguma cópia local
func (e *SyncEngine) syncOriginListeners(ctx context.Context) {
	referenced := map[string]bool{}
	for _, task := range e.tasks.Tasks() {
		if task.IsCopy() {
			referenced[task.OriginalTaskID] = true
		}
	}

	e.mu.Lock()
	// escutas órfãs: nenhuma cópia local referencia mais o original
	for id, cancel := range e.originListeners {
		if !referenced[id] {
			cancel()
			delete(e.originListeners, id)
			utilities.LogDebug("Escuta da tarefa original %s encerrada", id)
		}
	}

	pending := []string{}
	for id := range referenced {
		if _, ok := e.originListeners[id]; !ok {
			pending = append(pending, id)
		}
	}
	e.mu.Unlock()

	for _, originalID := range pending {
		id := originalID
		cancel, err := e.store.ListenDoc(ctx, id, func(snap Snapshot) {
			e.reconcile(ctx, snap)
		})
		if err != nil {
			// escuta será tentada de novo no próximo snapshot de tarefas próprias
			utilities.LogError(err, "Erro ao escutar tarefa original "+id)
			continue
		}

		e.mu.Lock()
		if _, ok := e.originListeners[id]; ok {
			// snapshot concorrente já registrou a escuta deste original
			e.mu.Unlock()
			cancel()
			continue
		}
		e.originListeners[id] = cancel
		e.mu.Unlock()
	}
}

// reconcile aplica uma mudança da tarefa original a todas as cópias locais
// que a referenciam: o conteúdo segue o original, mas privacidade, conclusão,
// arquivamento e proveniência continuam sendo da cópia.
func (e *SyncEngine) reconcile(ctx context.Context, original Snapshot) {
	if !original.Exists {
		// original removida: as cópias ficam como estão
		utilities.LogDebug("Tarefa original %s foi removida", original.ID)
		return
	}

	for _, copied := range e.tasks.Tasks() {
		if copied.OriginalTaskID != original.ID {
			continue
		}

		merged := models.TaskFromDoc(copied.ID, original.Data)
		merged.UserID = e.userID
		merged.IsPrivate = copied.IsPrivate
		merged.IsCompleted = copied.IsCompleted
		merged.CompletedAt = copied.CompletedAt
		merged.IsArchived = copied.IsArchived
		merged.ArchivedAt = copied.ArchivedAt
		merged.OriginalTaskID = copied.OriginalTaskID
		merged.OriginalUserID = copied.OriginalUserID

		if err := e.store.Set(ctx, merged.ID, merged.Doc()); err != nil {
			// falha de fundo: loga e espera o próximo evento da escuta
			utilities.LogError(err, "Erro ao atualizar cópia "+merged.ID+" a partir do original "+original.ID)
			continue
		}

		e.tasks.reflect(merged)
		utilities.LogDebug("Cópia %s atualizada a partir do original %s", merged.ID, original.ID)
	}
}
