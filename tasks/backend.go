package tasks

import "context"

// Snapshot é o estado corrente de um documento de tarefa no armazenamento.
// Exists é false quando o documento não existe (ou foi removido).
type Snapshot struct {
	ID     string
	Data   map[string]interface{}
	Exists bool
}

// CancelFunc encerra uma escuta ativa. Chamadas repetidas são inofensivas.
type CancelFunc func()

// DocStore é o contrato do armazenamento de documentos de tarefas.
//
// As escutas entregam o conjunto de resultados completo a cada mudança (o
// modelo de snapshot listener do Firestore), na ordem de chegada dentro de
// uma mesma escuta; entre escutas distintas não há garantia de ordem.
// Update aplica atualização parcial por campo; um valor nil remove o campo
// do documento (ausência explícita em vez de zero).
type DocStore interface {
	// Get busca um documento por id; ausência não é erro (Exists == false)
	Get(ctx context.Context, id string) (Snapshot, error)

	// Set grava o documento inteiro, criando ou sobrescrevendo
	Set(ctx context.Context, id string, doc map[string]interface{}) error

	// Update aplica somente os campos informados; nil remove o campo
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete remove o documento; remover um id inexistente não é erro
	Delete(ctx context.Context, id string) error

	// FindCopies busca as tarefas de ownerID que referenciam originalTaskID
	FindCopies(ctx context.Context, ownerID, originalTaskID string) ([]Snapshot, error)

	// ListenOwned escuta as tarefas cujo userId == ownerID
	ListenOwned(ctx context.Context, ownerID string, fn func([]Snapshot)) (CancelFunc, error)

	// ListenPublic escuta as tarefas públicas de outros usuários
	// (isPrivate == false e userId != ownerID)
	ListenPublic(ctx context.Context, ownerID string, fn func([]Snapshot)) (CancelFunc, error)

	// ListenDoc escuta um único documento, inclusive sua remoção
	ListenDoc(ctx context.Context, id string, fn func(Snapshot)) (CancelFunc, error)
}
