package services

import (
	"context"
	"sync"
	"testing"

	"agency-crm/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAllocateSerial_EmptyKeyRejected(t *testing.T) {
	s := NewSequenceService(nil)
	_, err := s.AllocateSerial(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocateSerial_FreshKeyStartsAtOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}

func TestAllocateSerial_IndependentKeys(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)

	first, err := env.sequence.AllocateSerial(ctx, "employeeId")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
}

func TestAllocateSerial_ConcurrentCallersGetUniqueContiguousValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const callers = 50
	results := make(chan int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := env.sequence.AllocateSerial(ctx, "projectId")
			assert.NoError(t, err)
			results <- value
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for value := range results {
		assert.False(t, seen[value], "serial %d issued twice", value)
		seen[value] = true
	}
	require.Len(t, seen, callers)
	// No gaps: exactly 1..callers.
	for v := int64(1); v <= callers; v++ {
		assert.True(t, seen[v], "serial %d missing", v)
	}
}

func TestCurrentValue_DoesNotAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	value, err := env.sequence.CurrentValue(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)

	_, err = env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)

	value, err = env.sequence.CurrentValue(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)

	next, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}

func TestResetCounter_RefusesWhenCollectionNotEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)

	_, err = env.db.Collection("projects").InsertOne(ctx, models.Project{
		ID:       primitive.NewObjectID(),
		SerialID: 1,
		Name:     "existing",
		IsActive: true,
	})
	require.NoError(t, err)

	err = env.sequence.ResetCounter(ctx, "projectId", env.db.Collection("projects"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	// The cursor must be unchanged.
	value, err := env.sequence.CurrentValue(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestResetCounter_AllowsEmptyCollection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)

	err = env.sequence.ResetCounter(ctx, "projectId", env.db.Collection("projects"))
	require.NoError(t, err)

	first, err := env.sequence.AllocateSerial(ctx, "projectId")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
}
