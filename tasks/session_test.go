package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planer-backend/models"
)

func TestStartSessionWiresServicesForOneUser(t *testing.T) {
	mem := newMemStore()
	cats := newMemCategoryStore()
	scheduler := &recordingScheduler{}

	session, err := StartSession(context.Background(), "user-a", mem, cats, scheduler)
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, "user-a", session.UserID)
	assert.Len(t, mem.ownedListeners, 1)
	assert.Len(t, mem.publicListeners, 1)
	assert.Len(t, cats.listeners, 1)

	// os serviços compartilham a mesma coleção local
	created, err := session.Tasks.Add(context.Background(), models.TaskItem{Title: "Comprar pão"})
	require.NoError(t, err)
	_, ok := session.Tasks.Get(created.ID)
	assert.True(t, ok)
	assert.Len(t, scheduler.scheduled, 1)
}

func TestSessionCloseTearsDownAllListeners(t *testing.T) {
	mem := newMemStore()
	cats := newMemCategoryStore()

	session, err := StartSession(context.Background(), "user-a", mem, cats, nil)
	require.NoError(t, err)

	other := NewTaskStore("user-b", mem, nil)
	shared, err := other.Add(context.Background(), models.TaskItem{Title: "Pública", IsPrivate: false})
	require.NoError(t, err)
	_, err = session.Sharing.Copy(context.Background(), shared.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, 1, session.Sync.OriginListenerCount())

	session.Close()

	assert.Empty(t, mem.ownedListeners)
	assert.Empty(t, mem.publicListeners)
	assert.Empty(t, mem.docListeners)
	assert.Empty(t, cats.listeners)
	assert.Equal(t, 0, session.Sync.OriginListenerCount())
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	mem := newMemStore()
	cats := newMemCategoryStore()

	alice, err := StartSession(context.Background(), "user-a", mem, cats, nil)
	require.NoError(t, err)
	defer alice.Close()
	bob, err := StartSession(context.Background(), "user-b", mem, cats, nil)
	require.NoError(t, err)
	defer bob.Close()

	created, err := alice.Tasks.Add(context.Background(), models.TaskItem{Title: "Minha", IsPrivate: true})
	require.NoError(t, err)

	_, ok := bob.Tasks.Get(created.ID)
	assert.False(t, ok, "tarefa privada de outro usuário não entra na coleção")
	assert.Empty(t, bob.Sync.PublicTasks())
}
