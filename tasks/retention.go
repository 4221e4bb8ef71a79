package tasks

import (
	"context"
	"time"

	"planer-backend/utilities"
)

// Janela de retenção de tarefas arquivadas e intervalo da varredura diária
const (
	RetentionAge  = 30 * 24 * time.Hour
	SweepInterval = 24 * time.Hour
)

// RetentionSweeper remove periodicamente as tarefas arquivadas há mais de
// trinta dias, pelo mesmo caminho de exclusão usado pela remoção manual.
type RetentionSweeper struct {
	tasks    *TaskStore
	interval time.Duration
	age      time.Duration
	now      func() time.Time
}

func NewRetentionSweeper(tasks *TaskStore) *RetentionSweeper {
	return &RetentionSweeper{
		tasks:    tasks,
		interval: SweepInterval,
		age:      RetentionAge,
		now:      time.Now,
	}
}

// Start dispara a varredura em intervalo fixo até o contexto ser cancelado
func (s *RetentionSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep exclui as tarefas arquivadas com archivedAt além da janela de
// retenção. Falhas de exclusão são logadas e o item fica para o próximo ciclo.
func (s *RetentionSweeper) Sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.age)

	removed := 0
	for _, task := range s.tasks.ArchivedTasks() {
		if task.ArchivedAt == nil || !task.ArchivedAt.Before(cutoff) {
			continue
		}
		if err := s.tasks.Delete(ctx, task.ID); err != nil {
			utilities.LogError(err, "Erro na varredura de retenção ao excluir tarefa "+task.ID)
			continue
		}
		removed++
	}

	if removed > 0 {
		utilities.LogInfo("Varredura de retenção removeu %d tarefa(s) arquivada(s)", removed)
	}
}
