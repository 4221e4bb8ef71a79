package tasks

import (
	"context"
	"net/url"

	"planer-backend/models"
	"planer-backend/utilities"

	"github.com/google/uuid"
)

// CopyState são os estados de uma tentativa de cópia de tarefa compartilhada
type CopyState string

const (
	StateRequested         CopyState = "requested"
	StateCheckingDuplicate CopyState = "checking_duplicate"
	StateDuplicateRejected CopyState = "duplicate_rejected"
	StateFetchingOriginal  CopyState = "fetching_original"
	StateCopying           CopyState = "copying"
	StateCopied            CopyState = "copied"
	StateNotFound          CopyState = "not_found"
	StateFailed            CopyState = "failed"
)

// Esquema e host aceitos nos links de compartilhamento de tarefa
const (
	taskLinkScheme = "planerapp"
	taskLinkHost   = "task"
)

// SharingResolver transforma a referência a uma tarefa pública de outro
// usuário em uma nova tarefa privada do usuário da sessão.
type SharingResolver struct {
	userID string
	store  DocStore
	tasks  *TaskStore
}

func NewSharingResolver(userID string, store DocStore, tasks *TaskStore) *SharingResolver {
	return &SharingResolver{userID: userID, store: store, tasks: tasks}
}

// Copy executa a máquina de estados da cópia:
// requested → checking_duplicate → {duplicate_rejected | fetching_original}
// → {copying → copied} | not_found → failed.
// A cópia nasce privada, não concluída e com a proveniência apontando para a
// original; a tarefa original nunca é sobrescrita.
func (r *SharingResolver) Copy(ctx context.Context, originalTaskID, originalUserID string) (models.TaskItem, error) {
	if originalTaskID == "" || originalUserID == "" {
		return models.TaskItem{}, &ValidationError{Reason: "referência de tarefa compartilhada incompleta"}
	}

	state := StateCheckingDuplicate
	utilities.LogDebug("Cópia da tarefa %s: %s", originalTaskID, state)

	existing, err := r.store.FindCopies(ctx, r.userID, originalTaskID)
	if err != nil {
		utilities.LogError(err, "Erro ao verificar existência de cópia da tarefa "+originalTaskID)
		return models.TaskItem{}, &StoreError{Op: "checkDuplicate", Err: err}
	}
	if len(existing) > 0 {
		state = StateDuplicateRejected
		utilities.LogDebug("Cópia da tarefa %s: %s", originalTaskID, state)
		return models.TaskItem{}, &DuplicateError{OriginalTaskID: originalTaskID}
	}

	state = StateFetchingOriginal
	utilities.LogDebug("Cópia da tarefa %s: %s", originalTaskID, state)

	original, err := r.store.Get(ctx, originalTaskID)
	if err != nil {
		return models.TaskItem{}, &StoreError{Op: "fetchOriginal", Err: err}
	}
	if !original.Exists {
		utilities.LogDebug("Cópia da tarefa %s: %s", originalTaskID, StateNotFound)
		return models.TaskItem{}, &NotFoundError{ID: originalTaskID}
	}

	state = StateCopying
	utilities.LogDebug("Cópia da tarefa %s: %s", originalTaskID, state)

	copied := models.TaskFromDoc(originalTaskID, original.Data)
	copied.ID = copyTaskID(r.userID, originalTaskID)
	copied.UserID = r.userID
	copied.IsPrivate = true
	copied.IsCompleted = false
	copied.CompletedAt = nil
	copied.OriginalTaskID = originalTaskID
	copied.OriginalUserID = originalUserID

	if err := r.store.Set(ctx, copied.ID, copied.Doc()); err != nil {
		utilities.LogError(err, "Erro ao salvar cópia da tarefa "+originalTaskID)
		return models.TaskItem{}, &StoreError{Op: "copy", Err: err}
	}

	// reflete de imediato; a escuta de tarefas próprias confirmará em seguida
	r.tasks.reflect(copied)

	utilities.LogInfo("Tarefa %s copiada com sucesso como %s", originalTaskID, copied.ID)
	utilities.LogDebug("Cópia da tarefa %s: %s", originalTaskID, StateCopied)
	return copied, nil
}

// CopyFromLink resolve um deep link de compartilhamento e entra na máquina
// de estados direto na verificação de duplicata
func (r *SharingResolver) CopyFromLink(ctx context.Context, rawLink string) (models.TaskItem, error) {
	taskID, userID, err := ParseTaskLink(rawLink)
	if err != nil {
		return models.TaskItem{}, err
	}
	return r.Copy(ctx, taskID, userID)
}

// ParseTaskLink valida um link planerapp://task?taskId=..&userId=.. e extrai
// os parâmetros. Links malformados são rejeitados sem nenhum efeito colateral.
func ParseTaskLink(rawLink string) (taskID, userID string, err error) {
	parsed, parseErr := url.Parse(rawLink)
	if parseErr != nil {
		return "", "", &ValidationError{Reason: "link de tarefa malformado"}
	}
	if parsed.Scheme != taskLinkScheme {
		return "", "", &ValidationError{Reason: "esquema de link desconhecido: " + parsed.Scheme}
	}
	if parsed.Host != taskLinkHost {
		return "", "", &ValidationError{Reason: "host de link desconhecido: " + parsed.Host}
	}

	query := parsed.Query()
	taskID = query.Get("taskId")
	userID = query.Get("userId")
	if taskID == "" || userID == "" {
		return "", "", &ValidationError{Reason: "link de tarefa sem parâmetros obrigatórios"}
	}
	return taskID, userID, nil
}

// copyTaskID deriva o id da cópia de forma determinística a partir do par
// (dono, tarefa original): duas tentativas simultâneas do mesmo usuário
// escrevem o mesmo documento e convergem para uma única cópia.
func copyTaskID(ownerID, originalTaskID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(taskLinkScheme+"://copy/"+ownerID+"/"+originalTaskID)).String()
}
