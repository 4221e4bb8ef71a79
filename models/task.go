package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskPriority representa a prioridade de uma tarefa
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// SortOrder define a ordem de exibição: high < medium < low
func (p TaskPriority) SortOrder() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TaskCategory é o identificador da categoria de uma tarefa.
// Categorias customizadas são codificadas como "custom_<nome>".
// O valor "all" é reservado para filtragem e nunca é gravado em uma tarefa.
type TaskCategory string

const (
	CategoryAll      TaskCategory = "all"
	CategoryStudy    TaskCategory = "study"
	CategoryWork     TaskCategory = "work"
	CategoryPersonal TaskCategory = "personal"
	CategoryHealth   TaskCategory = "health"
	CategoryShopping TaskCategory = "shopping"
)

const customCategoryPrefix = "custom_"

// CustomCategory monta o identificador de uma categoria customizada
func CustomCategory(name string) TaskCategory {
	return TaskCategory(customCategoryPrefix + name)
}

func (c TaskCategory) IsCustom() bool {
	return strings.HasPrefix(string(c), customCategoryPrefix)
}

// CustomName retorna o nome livre de uma categoria customizada
func (c TaskCategory) CustomName() string {
	return strings.TrimPrefix(string(c), customCategoryPrefix)
}

func StandardCategories() []TaskCategory {
	return []TaskCategory{CategoryStudy, CategoryWork, CategoryPersonal, CategoryHealth, CategoryShopping}
}

// Storable indica se a categoria pode ser gravada em uma tarefa
func (c TaskCategory) Storable() bool {
	if c == CategoryAll {
		return false
	}
	if c.IsCustom() {
		return c.CustomName() != ""
	}
	for _, std := range StandardCategories() {
		if c == std {
			return true
		}
	}
	return false
}

// ReminderType define a antecedência do lembrete em relação ao prazo
type ReminderType string

const (
	ReminderNone       ReminderType = "none"
	ReminderTenMinutes ReminderType = "ten_minutes"
	ReminderOneHour    ReminderType = "one_hour"
	ReminderOneDay     ReminderType = "one_day"
)

// Offset retorna a antecedência do lembrete; zero para ReminderNone
func (r ReminderType) Offset() time.Duration {
	switch r {
	case ReminderTenMinutes:
		return 10 * time.Minute
	case ReminderOneHour:
		return time.Hour
	case ReminderOneDay:
		return 24 * time.Hour
	}
	return 0
}

func (r ReminderType) IsValid() bool {
	switch r {
	case ReminderNone, ReminderTenMinutes, ReminderOneHour, ReminderOneDay:
		return true
	}
	return false
}

// Location é a localização opcional de uma tarefa
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// TaskItem é a entidade central do planejador.
// OriginalTaskID/OriginalUserID formam a proveniência de uma cópia derivada:
// quando preenchidos, privacidade, conclusão e arquivamento pertencem à cópia
// e os demais campos de conteúdo espelham a tarefa original.
type TaskItem struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	DueDate        time.Time    `json:"dueDate"`
	Priority       TaskPriority `json:"priority"`
	Category       TaskCategory `json:"category"`
	IsCompleted    bool         `json:"isCompleted"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
	UserID         string       `json:"userId"`
	Location       *Location    `json:"location,omitempty"`
	IsPrivate      bool         `json:"isPrivate"`
	ReminderType   ReminderType `json:"reminderType"`
	OriginalTaskID string       `json:"originalTaskId,omitempty"`
	OriginalUserID string       `json:"originalUserId,omitempty"`
	IsArchived     bool         `json:"isArchived"`
	ArchivedAt     *time.Time   `json:"archivedAt,omitempty"`
}

// IsCopy indica se a tarefa é uma cópia derivada de uma tarefa original
func (t TaskItem) IsCopy() bool {
	return t.OriginalTaskID != ""
}

// Validate verifica as pré-condições do modelo antes de qualquer gravação
func (t TaskItem) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("título da tarefa não pode ser vazio")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("prioridade inválida: %s", t.Priority)
	}
	if t.Category != "" && !t.Category.Storable() {
		return fmt.Errorf("categoria inválida: %s", t.Category)
	}
	if t.ReminderType != "" && !t.ReminderType.IsValid() {
		return fmt.Errorf("tipo de lembrete inválido: %s", t.ReminderType)
	}
	return nil
}

// Doc serializa a tarefa para o formato de documento do Firestore.
// Campos opcionais ausentes não são gravados (ausência explícita, não zero).
func (t TaskItem) Doc() map[string]interface{} {
	doc := map[string]interface{}{
		"title":        t.Title,
		"description":  t.Description,
		"dueDate":      t.DueDate,
		"priority":     string(t.Priority),
		"category":     string(t.Category),
		"isCompleted":  t.IsCompleted,
		"userId":       t.UserID,
		"isPrivate":    t.IsPrivate,
		"reminderType": string(t.ReminderType),
		"isArchived":   t.IsArchived,
	}

	if t.OriginalTaskID != "" {
		doc["originalTaskId"] = t.OriginalTaskID
		doc["originalUserId"] = t.OriginalUserID
	}
	if t.Location != nil {
		doc["location"] = map[string]interface{}{
			"latitude":  t.Location.Latitude,
			"longitude": t.Location.Longitude,
			"address":   t.Location.Address,
		}
	}
	if t.CompletedAt != nil {
		doc["completedAt"] = *t.CompletedAt
	}
	if t.ArchivedAt != nil {
		doc["archivedAt"] = *t.ArchivedAt
	}

	return doc
}

// TaskFromDoc reconstrói uma tarefa a partir de um documento do Firestore.
// Campos ausentes ou com tipo inesperado recebem os mesmos padrões do app.
func TaskFromDoc(id string, doc map[string]interface{}) TaskItem {
	task := TaskItem{
		ID:           id,
		Title:        docString(doc, "title"),
		Description:  docString(doc, "description"),
		DueDate:      docTime(doc, "dueDate"),
		Priority:     PriorityMedium,
		Category:     CategoryStudy,
		IsCompleted:  docBool(doc, "isCompleted"),
		UserID:       docString(doc, "userId"),
		IsPrivate:    true,
		ReminderType: ReminderNone,
	}

	if p := TaskPriority(docString(doc, "priority")); p.IsValid() {
		task.Priority = p
	}
	if c := TaskCategory(docString(doc, "category")); c.Storable() {
		task.Category = c
	}
	if r := ReminderType(docString(doc, "reminderType")); r.IsValid() {
		task.ReminderType = r
	}
	if v, ok := doc["isPrivate"].(bool); ok {
		task.IsPrivate = v
	}

	task.OriginalTaskID = docString(doc, "originalTaskId")
	task.OriginalUserID = docString(doc, "originalUserId")
	task.IsArchived = docBool(doc, "isArchived")

	if ts := docTime(doc, "completedAt"); !ts.IsZero() {
		task.CompletedAt = &ts
	}
	if ts := docTime(doc, "archivedAt"); !ts.IsZero() {
		task.ArchivedAt = &ts
	}

	if loc, ok := doc["location"].(map[string]interface{}); ok {
		task.Location = &Location{
			Latitude:  docFloat(loc, "latitude"),
			Longitude: docFloat(loc, "longitude"),
			Address:   docString(loc, "address"),
		}
	}

	return task
}

func docString(doc map[string]interface{}, key string) string {
	v, _ := doc[key].(string)
	return v
}

func docBool(doc map[string]interface{}, key string) bool {
	v, _ := doc[key].(bool)
	return v
}

func docFloat(doc map[string]interface{}, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func docTime(doc map[string]interface{}, key string) time.Time {
	v, _ := doc[key].(time.Time)
	return v
}
