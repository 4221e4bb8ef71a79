package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planer-backend/models"
)

// userFixture monta loja, engine e resolver de um usuário sobre o mesmo
// armazenamento compartilhado, como duas sessões contra o mesmo backend
type userFixture struct {
	store   *TaskStore
	sync    *SyncEngine
	sharing *SharingResolver
}

func newUserFixture(t *testing.T, mem *memStore, userID string) *userFixture {
	t.Helper()
	store := NewTaskStore(userID, mem, nil)
	engine := NewSyncEngine(userID, mem, store)
	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(engine.Stop)
	return &userFixture{
		store:   store,
		sync:    engine,
		sharing: NewSharingResolver(userID, mem, store),
	}
}

func TestOwnSnapshotReplacesCollection(t *testing.T) {
	mem := newMemStore()
	userA := newUserFixture(t, mem, "user-a")

	// gravação vinda de outra sessão do mesmo usuário
	task := models.TaskItem{ID: "t1", Title: "De outro dispositivo", UserID: "user-a", Priority: models.PriorityHigh}
	require.NoError(t, mem.Set(context.Background(), task.ID, task.Doc()))

	got, ok := userA.store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "De outro dispositivo", got.Title)

	require.NoError(t, mem.Delete(context.Background(), "t1"))
	_, ok = userA.store.Get("t1")
	assert.False(t, ok)
}

func TestPublicFeedExcludesPrivateAndOwnTasks(t *testing.T) {
	mem := newMemStore()
	userA := newUserFixture(t, mem, "user-a")
	userB := newUserFixture(t, mem, "user-b")

	_, err := userA.store.Add(context.Background(), models.TaskItem{Title: "Pública de A", IsPrivate: false})
	require.NoError(t, err)
	_, err = userA.store.Add(context.Background(), models.TaskItem{Title: "Privada de A", IsPrivate: true})
	require.NoError(t, err)
	_, err = userB.store.Add(context.Background(), models.TaskItem{Title: "Pública de B", IsPrivate: false})
	require.NoError(t, err)

	feedB := userB.sync.PublicTasks()
	require.Len(t, feedB, 1)
	assert.Equal(t, "Pública de A", feedB[0].Title)

	feedA := userA.sync.PublicTasks()
	require.Len(t, feedA, 1)
	assert.Equal(t, "Pública de B", feedA[0].Title)
}

// Lei de posse de campos da cópia: depois de uma mudança no original, o
// conteúdo da cópia segue o original, mas privacidade, conclusão,
// arquivamento e proveniência continuam os da cópia.
func TestReconcilePreservesCopyLocalFields(t *testing.T) {
	mem := newMemStore()
	userA := newUserFixture(t, mem, "user-a")
	userB := newUserFixture(t, mem, "user-b")

	original, err := userA.store.Add(context.Background(), models.TaskItem{
		Title:     "Plano de treino",
		DueDate:   time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC),
		Priority:  models.PriorityMedium,
		IsPrivate: false,
	})
	require.NoError(t, err)

	copied, err := userB.sharing.Copy(context.Background(), original.ID, "user-a")
	require.NoError(t, err)
	assert.True(t, copied.IsPrivate)

	// estado local da cópia: concluída e arquivada por B
	_, err = userB.store.ToggleCompletion(context.Background(), copied.ID)
	require.NoError(t, err)
	archived, err := userB.store.Archive(context.Background(), copied.ID)
	require.NoError(t, err)
	require.NotNil(t, archived.ArchivedAt)

	// A edita o original
	original.Title = "Plano de treino v2"
	original.Description = "Agora com aquecimento"
	original.Priority = models.PriorityHigh
	require.NoError(t, userA.store.Update(context.Background(), original))

	got, ok := userB.store.Get(copied.ID)
	require.True(t, ok)

	// conteúdo segue o original
	assert.Equal(t, "Plano de treino v2", got.Title)
	assert.Equal(t, "Agora com aquecimento", got.Description)
	assert.Equal(t, models.PriorityHigh, got.Priority)

	// estado local da cópia é preservado
	assert.True(t, got.IsPrivate)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.IsArchived)
	require.NotNil(t, got.ArchivedAt)
	assert.Equal(t, original.ID, got.OriginalTaskID)
	assert.Equal(t, "user-a", got.OriginalUserID)
	assert.Equal(t, "user-b", got.UserID)

	// o original nunca é tocado pela reconciliação
	originalDoc, err := mem.Get(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-a", originalDoc.Data["userId"])
	assert.Equal(t, false, originalDoc.Data["isPrivate"])
}

func TestOriginListenersAreRefCountedPerOriginal(t *testing.T) {
	mem := newMemStore()
	userA := newUserFixture(t, mem, "user-a")
	userB := newUserFixture(t, mem, "user-b")

	first, err := userA.store.Add(context.Background(), models.TaskItem{Title: "Original 1", IsPrivate: false})
	require.NoError(t, err)
	second, err := userA.store.Add(context.Background(), models.TaskItem{Title: "Original 2", IsPrivate: false})
	require.NoError(t, err)

	copy1, err := userB.sharing.Copy(context.Background(), first.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 1, userB.sync.OriginListenerCount())

	copy2, err := userB.sharing.Copy(context.Background(), second.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, userB.sync.OriginListenerCount())

	// remover uma cópia derruba a escuta órfã correspondente
	require.NoError(t, userB.store.Delete(context.Background(), copy1.ID))
	assert.Equal(t, 1, userB.sync.OriginListenerCount())

	require.NoError(t, userB.store.Delete(context.Background(), copy2.ID))
	assert.Equal(t, 0, userB.sync.OriginListenerCount())
}

func TestOriginalDeletionKeepsCopies(t *testing.T) {
	mem := newMemStore()
	userA := newUserFixture(t, mem, "user-a")
	userB := newUserFixture(t, mem, "user-b")

	original, err := userA.store.Add(context.Background(), models.TaskItem{Title: "Efêmera", IsPrivate: false})
	require.NoError(t, err)

	copied, err := userB.sharing.Copy(context.Background(), original.ID, "user-a")
	require.NoError(t, err)

	require.NoError(t, userA.store.Delete(context.Background(), original.ID))

	got, ok := userB.store.Get(copied.ID)
	require.True(t, ok)
	assert.Equal(t, "Efêmera", got.Title)
	assert.Equal(t, original.ID, got.OriginalTaskID)
}

func TestStopTearsDownAllListeners(t *testing.T) {
	mem := newMemStore()
	userA := newUserFixture(t, mem, "user-a")
	userB := newUserFixture(t, mem, "user-b")

	original, err := userA.store.Add(context.Background(), models.TaskItem{Title: "Original", IsPrivate: false})
	require.NoError(t, err)
	_, err = userB.sharing.Copy(context.Background(), original.ID, "user-a")
	require.NoError(t, err)
	require.Equal(t, 1, userB.sync.OriginListenerCount())

	userB.sync.Stop()
	assert.Equal(t, 0, userB.sync.OriginListenerCount())

	// depois do teardown, mudanças no armazenamento não chegam mais
	before := len(userB.store.Tasks())
	task := models.TaskItem{ID: "novo", Title: "Tarde demais", UserID: "user-b"}
	require.NoError(t, mem.Set(context.Background(), task.ID, task.Doc()))
	assert.Len(t, userB.store.Tasks(), before)
}
