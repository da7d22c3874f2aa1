package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetMaterializesDefaults(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "high", p.Preferences.EvidenceLevel)

	again, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, p.CreatedAt, again.CreatedAt)
}

func TestMemoryUpdateUnknownUserStartsFromDefaults(t *testing.T) {
	repo := NewMemoryRepository()

	specialty := "Cardiology"
	updated, err := repo.Update(context.Background(), "user-2", Update{Specialty: &specialty})
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", updated.Specialty)
	assert.Equal(t, 10, updated.Preferences.ResultLimit)
}

func TestMemoryPutOverwrites(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "user-3", Profile{DisplayName: "First"}))
	require.NoError(t, repo.Put(ctx, "user-3", Profile{DisplayName: "Second"}))

	got, err := repo.Get(ctx, "user-3")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.DisplayName)
	assert.Equal(t, "user-3", got.UserID)
}
