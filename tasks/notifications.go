package tasks

import (
	"time"

	"planer-backend/models"
	"planer-backend/utilities"
)

// ReminderTriggerTime calcula o instante de disparo do lembrete de uma
// tarefa: o prazo menos a antecedência configurada. Quando esse instante já
// passou, o lembrete dispara imediatamente.
func ReminderTriggerTime(task models.TaskItem, now time.Time) (time.Time, bool) {
	if task.ReminderType == models.ReminderNone || task.ID == "" {
		return time.Time{}, false
	}

	trigger := task.DueDate.Add(-task.ReminderType.Offset())
	if trigger.Before(now) {
		return now, true
	}
	return trigger, true
}

// LogReminderScheduler é a implementação padrão do colaborador de lembretes.
// A entrega de push fica fora deste serviço; aqui o (re)agendamento é apenas
// registrado no log.
type LogReminderScheduler struct{}

func (LogReminderScheduler) Schedule(task models.TaskItem) {
	trigger, ok := ReminderTriggerTime(task, time.Now())
	if !ok {
		return
	}
	utilities.LogDebug("Lembrete da tarefa %s agendado para %s", task.ID, trigger.Format(time.RFC3339))
}
