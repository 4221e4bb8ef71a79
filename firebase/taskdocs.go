package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"planer-backend/tasks"
	"planer-backend/utilities"
)

const tasksCollection = "tasks"

// TaskDocs implementa o contrato tasks.DocStore sobre o Firestore.
// As escutas usam os snapshot listeners nativos, que entregam o conjunto de
// resultados completo a cada mudança.
type TaskDocs struct {
	client *firestore.Client
}

func NewTaskDocs(client *firestore.Client) *TaskDocs {
	return &TaskDocs{client: client}
}

func (d *TaskDocs) Get(ctx context.Context, id string) (tasks.Snapshot, error) {
	doc, err := d.client.Collection(tasksCollection).Doc(id).Get(ctx)
	if err != nil {
		// o cliente retorna o snapshot mesmo quando o documento não existe
		if doc != nil && !doc.Exists() {
			return tasks.Snapshot{ID: id, Exists: false}, nil
		}
		return tasks.Snapshot{}, fmt.Errorf("erro ao buscar tarefa %s: %w", id, err)
	}
	return tasks.Snapshot{ID: doc.Ref.ID, Data: doc.Data(), Exists: true}, nil
}

func (d *TaskDocs) Set(ctx context.Context, id string, doc map[string]interface{}) error {
	if _, err := d.client.Collection(tasksCollection).Doc(id).Set(ctx, doc); err != nil {
		return fmt.Errorf("erro ao gravar tarefa %s: %w", id, err)
	}
	return nil
}

// Update aplica atualização parcial por campo; valor nil apaga o campo
func (d *TaskDocs) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		if value == nil {
			value = firestore.Delete
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	if _, err := d.client.Collection(tasksCollection).Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("erro ao atualizar campos da tarefa %s: %w", id, err)
	}
	return nil
}

func (d *TaskDocs) Delete(ctx context.Context, id string) error {
	// Delete no Firestore já é idempotente: id inexistente não é erro
	if _, err := d.client.Collection(tasksCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("erro ao excluir tarefa %s: %w", id, err)
	}
	return nil
}

func (d *TaskDocs) FindCopies(ctx context.Context, ownerID, originalTaskID string) ([]tasks.Snapshot, error) {
	iter := d.client.Collection(tasksCollection).
		Where("userId", "==", ownerID).
		Where("originalTaskId", "==", originalTaskID).
		Documents(ctx)
	defer iter.Stop()

	snaps := []tasks.Snapshot{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao buscar cópias da tarefa %s: %w", originalTaskID, err)
		}
		snaps = append(snaps, tasks.Snapshot{ID: doc.Ref.ID, Data: doc.Data(), Exists: true})
	}
	return snaps, nil
}

func (d *TaskDocs) ListenOwned(ctx context.Context, ownerID string, fn func([]tasks.Snapshot)) (tasks.CancelFunc, error) {
	query := d.client.Collection(tasksCollection).Where("userId", "==", ownerID)
	return d.listenQuery(ctx, query, fn)
}

func (d *TaskDocs) ListenPublic(ctx context.Context, ownerID string, fn func([]tasks.Snapshot)) (tasks.CancelFunc, error) {
	query := d.client.Collection(tasksCollection).
		Where("isPrivate", "==", false).
		Where("userId", "!=", ownerID)
	return d.listenQuery(ctx, query, fn)
}

func (d *TaskDocs) listenQuery(ctx context.Context, query firestore.Query, fn func([]tasks.Snapshot)) (tasks.CancelFunc, error) {
	listenCtx, cancel := context.WithCancel(ctx)
	snapIter := query.Snapshots(listenCtx)

	go func() {
		for {
			qsnap, err := snapIter.Next()
			if err != nil {
				if listenCtx.Err() == nil {
					utilities.LogError(err, "Escuta de consulta de tarefas encerrada com erro")
				}
				return
			}

			snaps := []tasks.Snapshot{}
			docIter := qsnap.Documents
			for {
				doc, err := docIter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					utilities.LogError(err, "Erro ao iterar documentos do snapshot de tarefas")
					break
				}
				snaps = append(snaps, tasks.Snapshot{ID: doc.Ref.ID, Data: doc.Data(), Exists: true})
			}
			fn(snaps)
		}
	}()

	return func() {
		cancel()
		snapIter.Stop()
	}, nil
}

func (d *TaskDocs) ListenDoc(ctx context.Context, id string, fn func(tasks.Snapshot)) (tasks.CancelFunc, error) {
	listenCtx, cancel := context.WithCancel(ctx)
	snapIter := d.client.Collection(tasksCollection).Doc(id).Snapshots(listenCtx)

	go func() {
		for {
			doc, err := snapIter.Next()
			if err != nil {
				if listenCtx.Err() == nil {
					utilities.LogError(err, "Escuta do documento "+id+" encerrada com erro")
				}
				return
			}
			if doc.Exists() {
				fn(tasks.Snapshot{ID: id, Data: doc.Data(), Exists: true})
			} else {
				fn(tasks.Snapshot{ID: id, Exists: false})
			}
		}
	}()

	return func() {
		cancel()
		snapIter.Stop()
	}, nil
}

// DeleteUserTasks exclui em lotes todas as tarefas de um usuário. Usado na
// exclusão de conta. O Firestore recomenda lotes de até 500 operações.
func (d *TaskDocs) DeleteUserTasks(ctx context.Context, ownerID string) error {
	batchSize := 500

	for {
		iter := d.client.Collection(tasksCollection).
			Where("userId", "==", ownerID).
			Limit(batchSize).
			Documents(ctx)

		numDeleted := 0
		batch := d.client.Batch()
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("erro ao iterar tarefas do usuário %s para exclusão: %w", ownerID, err)
			}
			batch.Delete(doc.Ref)
			numDeleted++
		}

		if numDeleted == 0 {
			break
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("erro ao excluir lote de tarefas do usuário %s: %w", ownerID, err)
		}
		utilities.LogInfo("Excluídas %d tarefa(s) do usuário %s", numDeleted, ownerID)
	}

	return nil
}
