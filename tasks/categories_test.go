package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryFixture(t *testing.T, userID string, store *memCategoryStore) *CategoryService {
	t.Helper()
	svc := NewCategoryService(userID, store)
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(svc.Stop)
	return svc
}

func TestCategoryAddPropagatesThroughListener(t *testing.T) {
	mem := newMemCategoryStore()
	svc := newCategoryFixture(t, "user-a", mem)

	assert.Empty(t, svc.Categories())

	require.NoError(t, svc.Add(context.Background(), "Jardinagem"))
	assert.True(t, svc.Exists("Jardinagem"))
	assert.Equal(t, []string{"Jardinagem"}, svc.Categories())

	require.NoError(t, svc.Remove(context.Background(), "Jardinagem"))
	assert.False(t, svc.Exists("Jardinagem"))
}

func TestCategoryNamesAreScopedPerUser(t *testing.T) {
	mem := newMemCategoryStore()
	alice := newCategoryFixture(t, "user-a", mem)
	bob := newCategoryFixture(t, "user-b", mem)

	require.NoError(t, alice.Add(context.Background(), "Horta"))

	assert.True(t, alice.Exists("Horta"))
	assert.False(t, bob.Exists("Horta"))
}

func TestCategoryAddRejectsReservedNames(t *testing.T) {
	mem := newMemCategoryStore()
	svc := newCategoryFixture(t, "user-a", mem)

	for _, name := range []string{"", "   ", "all", "work", "personal", "study", "health", "shopping"} {
		err := svc.Add(context.Background(), name)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "nome %q", name)
	}
	assert.Empty(t, svc.Categories())
}

func TestCategoryStopDetachesListener(t *testing.T) {
	mem := newMemCategoryStore()
	svc := NewCategoryService("user-a", mem)
	require.NoError(t, svc.Start(context.Background()))

	require.NoError(t, svc.Add(context.Background(), "Viagem"))
	svc.Stop()

	require.NoError(t, mem.Add(context.Background(), "user-a", "Fantasma"))
	assert.False(t, svc.Exists("Fantasma"), "após Stop nenhuma atualização chega")
	assert.True(t, svc.Exists("Viagem"))
}
