package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"planer-backend/models"
	"planer-backend/utilities"

	"github.com/google/uuid"
)

// ReminderScheduler é o colaborador de notificações. A chamada é
// fire-and-forget: o agendamento nunca bloqueia nem falha uma mutação.
type ReminderScheduler interface {
	Schedule(task models.TaskItem)
}

// TaskStore é a fonte única de verdade da coleção de tarefas de um usuário.
// Toda mutação da coleção em memória (operações do usuário, substituição de
// snapshot do SyncEngine e a varredura de retenção) passa pelo mutex interno.
type TaskStore struct {
	mu        sync.Mutex
	userID    string
	store     DocStore
	reminders ReminderScheduler
	now       func() time.Time
	tasks     []models.TaskItem
}

func NewTaskStore(userID string, store DocStore, reminders ReminderScheduler) *TaskStore {
	return &TaskStore{
		userID:    userID,
		store:     store,
		reminders: reminders,
		now:       time.Now,
	}
}

// Add valida, atribui id e dono, adiciona localmente e persiste a tarefa
func (s *TaskStore) Add(ctx context.Context, task models.TaskItem) (models.TaskItem, error) {
	if strings.TrimSpace(task.Title) == "" {
		return models.TaskItem{}, &ValidationError{Reason: "título da tarefa não pode ser vazio"}
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Category == "" {
		task.Category = models.CategoryStudy
	}
	if task.ReminderType == "" {
		task.ReminderType = models.ReminderNone
	}
	if err := task.Validate(); err != nil {
		return models.TaskItem{}, &ValidationError{Reason: err.Error()}
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.UserID = s.userID

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	if err := s.store.Set(ctx, task.ID, task.Doc()); err != nil {
		utilities.LogError(err, "Erro ao salvar tarefa no armazenamento")
		return task, &StoreError{Op: "add", Err: err}
	}

	s.scheduleReminder(task)
	utilities.LogInfo("Tarefa criada com sucesso: %s (ID: %s)", task.Title, task.ID)
	return task, nil
}

// Update sobrescreve integralmente o registro de um id existente.
// Se o id não estiver na coleção local a operação não é erro, mas a
// gravação persistida acontece mesmo assim.
func (s *TaskStore) Update(ctx context.Context, task models.TaskItem) error {
	if err := task.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	task.UserID = s.userID

	s.mu.Lock()
	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i] = task
	}
	s.mu.Unlock()

	if err := s.store.Set(ctx, task.ID, task.Doc()); err != nil {
		utilities.LogError(err, "Erro ao atualizar tarefa no armazenamento")
		return &StoreError{Op: "update", Err: err}
	}

	s.scheduleReminder(task)
	utilities.LogInfo("Tarefa atualizada com sucesso: %s", task.ID)
	return nil
}

// Delete remove a tarefa localmente e no armazenamento; id ausente não é erro
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		utilities.LogError(err, "Erro ao excluir tarefa do armazenamento")
		return &StoreError{Op: "delete", Err: err}
	}

	utilities.LogInfo("Tarefa excluída com sucesso: %s", id)
	return nil
}

// ToggleCompletion inverte a conclusão da tarefa e ajusta completedAt junto
// com a flag. Persiste somente os dois campos alterados para não sobrescrever
// edições concorrentes dos demais campos.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) (models.TaskItem, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.TaskItem{}, &NotFoundError{ID: id}
	}

	s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
	var completedAt interface{}
	if s.tasks[i].IsCompleted {
		ts := s.now()
		s.tasks[i].CompletedAt = &ts
		completedAt = ts
	} else {
		s.tasks[i].CompletedAt = nil
		completedAt = nil
	}
	task := s.tasks[i]
	s.mu.Unlock()

	err := s.store.Update(ctx, id, map[string]interface{}{
		"isCompleted": task.IsCompleted,
		"completedAt": completedAt,
	})
	if err != nil {
		utilities.LogError(err, "Erro ao atualizar status da tarefa")
		return task, &StoreError{Op: "toggleCompletion", Err: err}
	}

	s.scheduleReminder(task)
	return task, nil
}

// Archive marca a tarefa como arquivada com o instante corrente.
// Arquivar uma tarefa já arquivada é um no-op e preserva o archivedAt.
func (s *TaskStore) Archive(ctx context.Context, id string) (models.TaskItem, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.TaskItem{}, &NotFoundError{ID: id}
	}
	if s.tasks[i].IsArchived {
		task := s.tasks[i]
		s.mu.Unlock()
		return task, nil
	}

	ts := s.now()
	s.tasks[i].IsArchived = true
	s.tasks[i].ArchivedAt = &ts
	task := s.tasks[i]
	s.mu.Unlock()

	err := s.store.Update(ctx, id, map[string]interface{}{
		"isArchived": true,
		"archivedAt": ts,
	})
	if err != nil {
		utilities.LogError(err, "Erro ao arquivar tarefa")
		return task, &StoreError{Op: "archive", Err: err}
	}

	utilities.LogInfo("Tarefa arquivada: %s", id)
	return task, nil
}

// Tasks retorna uma cópia da coleção completa
func (s *TaskStore) Tasks() []models.TaskItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TaskItem, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// ActiveTasks retorna as tarefas não concluídas e não arquivadas
func (s *TaskStore) ActiveTasks() []models.TaskItem {
	return s.filter(func(t models.TaskItem) bool { return !t.IsCompleted && !t.IsArchived })
}

// CompletedTasks retorna as tarefas concluídas e não arquivadas
func (s *TaskStore) CompletedTasks() []models.TaskItem {
	return s.filter(func(t models.TaskItem) bool { return t.IsCompleted && !t.IsArchived })
}

// ArchivedTasks retorna as tarefas arquivadas
func (s *TaskStore) ArchivedTasks() []models.TaskItem {
	return s.filter(func(t models.TaskItem) bool { return t.IsArchived })
}

// Get busca uma tarefa da coleção local por id
func (s *TaskStore) Get(id string) (models.TaskItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.TaskItem{}, false
}

func (s *TaskStore) filter(keep func(models.TaskItem) bool) []models.TaskItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.TaskItem{}
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// replaceAll substitui a coleção inteira pelo batch recém-decodificado de um
// snapshot do armazenamento. Usado somente pelo SyncEngine.
func (s *TaskStore) replaceAll(tasks []models.TaskItem) {
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
}

// reflect grava uma tarefa na coleção local sem persistir (o registro já
// está no armazenamento); insere quando o id ainda não existe localmente
func (s *TaskStore) reflect(task models.TaskItem) {
	s.mu.Lock()
	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i] = task
	} else {
		s.tasks = append(s.tasks, task)
	}
	s.mu.Unlock()
}

// indexOf deve ser chamado com o mutex em posse
func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) scheduleReminder(task models.TaskItem) {
	if s.reminders != nil {
		s.reminders.Schedule(task)
	}
}

// SortByPriority ordena de forma estável: toda high antes de toda medium,
// que vem antes de toda low
func SortByPriority(tasks []models.TaskItem) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.SortOrder() < tasks[j].Priority.SortOrder()
	})
}

// SortByDueDate ordena pelo prazo crescente
func SortByDueDate(tasks []models.TaskItem) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
}

// FilterByCategory filtra pela categoria; a sentinela "all" retorna tudo
func FilterByCategory(tasks []models.TaskItem, category models.TaskCategory) []models.TaskItem {
	if category == "" || category == models.CategoryAll {
		return tasks
	}
	out := []models.TaskItem{}
	for _, t := range tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
