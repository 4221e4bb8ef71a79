package tasks

import (
	"context"
	"strings"
	"sync"

	"planer-backend/models"
	"planer-backend/utilities"
)

// CategoryStore é o contrato do armazenamento de categorias customizadas,
// mantidas por usuário como strings livres.
type CategoryStore interface {
	Add(ctx context.Context, userID, name string) error
	Remove(ctx context.Context, userID, name string) error
	Listen(ctx context.Context, userID string, fn func([]string)) (CancelFunc, error)
}

// CategoryService mantém as categorias customizadas do usuário da sessão.
// É um serviço construído e injetado por sessão, sem estado global.
type CategoryService struct {
	userID string
	store  CategoryStore

	mu     sync.Mutex
	names  []string
	cancel CancelFunc
}

func NewCategoryService(userID string, store CategoryStore) *CategoryService {
	return &CategoryService{userID: userID, store: store}
}

// Start abre a escuta da lista de categorias do usuário
func (s *CategoryService) Start(ctx context.Context) error {
	cancel, err := s.store.Listen(ctx, s.userID, func(names []string) {
		s.mu.Lock()
		s.names = names
		s.mu.Unlock()
	})
	if err != nil {
		return &StoreError{Op: "listenCategories", Err: err}
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

func (s *CategoryService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Categories retorna as categorias customizadas correntes
func (s *CategoryService) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *CategoryService) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Add cria uma categoria customizada; nomes das categorias fixas e a
// sentinela "all" são rejeitados
func (s *CategoryService) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Reason: "nome de categoria não pode ser vazio"}
	}
	if models.TaskCategory(name) == models.CategoryAll {
		return &ValidationError{Reason: "nome de categoria reservado: " + name}
	}
	for _, std := range models.StandardCategories() {
		if string(std) == name {
			return &ValidationError{Reason: "nome de categoria reservado: " + name}
		}
	}

	if err := s.store.Add(ctx, s.userID, name); err != nil {
		utilities.LogError(err, "Erro ao adicionar categoria customizada")
		return &StoreError{Op: "addCategory", Err: err}
	}
	return nil
}

func (s *CategoryService) Remove(ctx context.Context, name string) error {
	if err := s.store.Remove(ctx, s.userID, name); err != nil {
		utilities.LogError(err, "Erro ao remover categoria customizada")
		return &StoreError{Op: "removeCategory", Err: err}
	}
	return nil
}
