package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planer-backend/models"
)

func archivedTask(t *testing.T, store *TaskStore, title string, archivedAgo time.Duration, now time.Time) models.TaskItem {
	t.Helper()
	created, err := store.Add(context.Background(), models.TaskItem{Title: title})
	require.NoError(t, err)

	store.now = func() time.Time { return now.Add(-archivedAgo) }
	archived, err := store.Archive(context.Background(), created.ID)
	require.NoError(t, err)
	return archived
}

// Lei da retenção: arquivada há 31 dias é removida pela varredura;
// arquivada há 29 dias permanece.
func TestSweepRemovesOnlyPastRetentionWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mem := newMemStore()
	store := NewTaskStore("user-a", mem, nil)

	old := archivedTask(t, store, "velha", 31*24*time.Hour, now)
	recent := archivedTask(t, store, "recente", 29*24*time.Hour, now)
	active, err := store.Add(context.Background(), models.TaskItem{Title: "ativa"})
	require.NoError(t, err)

	sweeper := NewRetentionSweeper(store)
	sweeper.now = func() time.Time { return now }
	sweeper.Sweep(context.Background())

	_, ok := store.Get(old.ID)
	assert.False(t, ok, "arquivada há 31 dias deve sumir")
	assert.NotContains(t, mem.docs, old.ID, "exclusão pelo mesmo caminho da remoção manual")

	_, ok = store.Get(recent.ID)
	assert.True(t, ok, "arquivada há 29 dias permanece")
	_, ok = store.Get(active.ID)
	assert.True(t, ok)
}

func TestSweepExactBoundaryIsKept(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mem := newMemStore()
	store := NewTaskStore("user-a", mem, nil)

	boundary := archivedTask(t, store, "no limite", RetentionAge, now)

	sweeper := NewRetentionSweeper(store)
	sweeper.now = func() time.Time { return now }
	sweeper.Sweep(context.Background())

	// archivedAt == limite não é "mais velho que" o limite
	_, ok := store.Get(boundary.ID)
	assert.True(t, ok)
}

func TestSweepFailureLeavesItemForNextCycle(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mem := newMemStore()
	store := NewTaskStore("user-a", mem, nil)

	old := archivedTask(t, store, "teimosa", 40*24*time.Hour, now)

	sweeper := NewRetentionSweeper(store)
	sweeper.now = func() time.Time { return now }

	mem.failDelete = fmt.Errorf("indisponível")
	sweeper.Sweep(context.Background())
	assert.Contains(t, mem.docs, old.ID, "falha de fundo não escala, item fica")

	mem.failDelete = nil
	// o item removido localmente na primeira tentativa volta pelo snapshot;
	// aqui recolocamos direto para simular o próximo ciclo
	store.reflect(old)
	sweeper.Sweep(context.Background())
	assert.NotContains(t, mem.docs, old.ID)
}
