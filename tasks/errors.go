package tasks

import "fmt"

// ValidationError indica dado de entrada que falhou uma pré-condição.
// É rejeitado antes de qualquer acesso ao armazenamento.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validação falhou: %s", e.Reason)
}

// NotFoundError indica que o id referenciado não existe no armazenamento
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tarefa %s não encontrada", e.ID)
}

// DuplicateError indica tentativa de copiar uma tarefa já copiada pelo usuário
type DuplicateError struct {
	OriginalTaskID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("tarefa %s já foi adicionada à sua lista", e.OriginalTaskID)
}

// StoreError envolve falhas de persistência ou rede do armazenamento
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("erro de armazenamento em %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
