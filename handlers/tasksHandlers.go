package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"planer-backend/models"
	"planer-backend/tasks"
	"planer-backend/utilities"
)

// CreateTaskHandler cria uma nova tarefa para o usuário autenticado
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")
	uid := userUID(r)

	var task models.TaskItem
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da tarefa")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	created, err := session.Tasks.Add(r.Context(), task)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ListTasksHandler lista as tarefas do usuário conforme a visão pedida:
// ?filter=active|completed|archived (padrão: todas), ?category=<id>,
// ?sort=priority|dueDate
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas")
	uid := userUID(r)

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	queryParams := r.URL.Query()

	var list []models.TaskItem
	switch queryParams.Get("filter") {
	case "active":
		list = session.Tasks.ActiveTasks()
	case "completed":
		list = session.Tasks.CompletedTasks()
	case "archived":
		list = session.Tasks.ArchivedTasks()
	case "":
		list = session.Tasks.Tasks()
	default:
		http.Error(w, "Filtro inválido", http.StatusBadRequest)
		return
	}

	list = tasks.FilterByCategory(list, models.TaskCategory(queryParams.Get("category")))

	switch queryParams.Get("sort") {
	case "priority":
		tasks.SortByPriority(list)
	case "dueDate":
		tasks.SortByDueDate(list)
	}

	utilities.LogInfo("Tarefas listadas com sucesso - total: %d", len(list))
	json.NewEncoder(w).Encode(list)
}

// UpdateTaskHandler sobrescreve integralmente uma tarefa existente
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando atualização de tarefa")
	uid := userUID(r)
	taskID := mux.Vars(r)["task_id"]

	var task models.TaskItem
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON de atualização")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task.ID = taskID

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	if err := session.Tasks.Update(r.Context(), task); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTaskHandler remove uma tarefa; id inexistente também responde 204
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando exclusão de tarefa")
	uid := userUID(r)
	taskID := mux.Vars(r)["task_id"]

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	if err := session.Tasks.Delete(r.Context(), taskID); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleTaskHandler inverte a conclusão de uma tarefa
func ToggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	taskID := mux.Vars(r)["task_id"]

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	task, err := session.Tasks.ToggleCompletion(r.Context(), taskID)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	json.NewEncoder(w).Encode(task)
}

// ArchiveTaskHandler arquiva uma tarefa; arquivar de novo é um no-op
func ArchiveTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	taskID := mux.Vars(r)["task_id"]

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	task, err := session.Tasks.Archive(r.Context(), taskID)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	json.NewEncoder(w).Encode(task)
}

// PublicTasksHandler retorna o feed somente-leitura de tarefas públicas de
// outros usuários
func PublicTasksHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	json.NewEncoder(w).Encode(session.Sync.PublicTasks())
}

type CopyTaskInput struct {
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
}

// CopyTaskHandler copia a tarefa pública de outro usuário para a lista do
// usuário autenticado ("adicionar às minhas tarefas")
func CopyTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando cópia de tarefa compartilhada")
	uid := userUID(r)

	var input CopyTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da cópia")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	copied, err := session.Sharing.Copy(r.Context(), input.TaskID, input.UserID)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(copied)
}

type TaskLinkInput struct {
	URL string `json:"url"`
}

// TaskFromLinkHandler resolve um deep link planerapp://task?taskId=..&userId=..
// e entra no mesmo fluxo de cópia
func TaskFromLinkHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Recebido deep link de tarefa compartilhada")
	uid := userUID(r)

	var input TaskLinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON do deep link")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	copied, err := session.Sharing.CopyFromLink(r.Context(), input.URL)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(copied)
}

// ListCategoriesHandler retorna as categorias fixas e as customizadas do usuário
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	standard := []string{}
	for _, c := range models.StandardCategories() {
		standard = append(standard, string(c))
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"standard": standard,
		"custom":   session.Categories.Categories(),
	})
}

type CategoryInput struct {
	Name string `json:"name"`
}

// AddCategoryHandler cria uma categoria customizada para o usuário
func AddCategoryHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)

	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da categoria")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	if err := session.Categories.Add(r.Context(), input.Name); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RemoveCategoryHandler remove uma categoria customizada do usuário
func RemoveCategoryHandler(w http.ResponseWriter, r *http.Request) {
	uid := userUID(r)
	name := mux.Vars(r)["name"]

	session, err := sessionFor(uid)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	if err := session.Categories.Remove(r.Context(), name); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
