package povs_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-gg/pov-archive/pkg/ident"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
	"github.com/eclipse-gg/pov-archive/services/povs"
)

func setupMirror(t *testing.T) *mirror.Store {
	t.Helper()

	store, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// The service degrades to mirror-only mode when the document store was never
// configured. Most tests exercise exactly that mode.
func setupService(t *testing.T, ids ident.Generator) *povs.POVService {
	t.Helper()
	return povs.NewPOVService(docstore.New(nil), setupMirror(t), ids)
}

func TestCreateThenGetByMatch(t *testing.T) {
	service := setupService(t, ident.Fixed("pov-1"))
	ctx := context.Background()

	created := service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{
		PlayerName: "Fenix",
		Title:      "Zone hold",
		Date:       "2024-03-12",
		YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID:    "dQw4w9WgXcQ",
	})

	assert.Equal(t, "pov-1", created.ID)
	assert.Equal(t, "slot-1", created.SlotID)
	assert.Equal(t, "match-1", created.MatchID)
	assert.NotEmpty(t, created.CreatedAt)

	list := service.GetByMatch(ctx, "slot-1", "match-1")
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestGetByMatchScopesToMatch(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "one", VideoID: "aaaaaaaaaaa"})
	service.Create(ctx, "slot-1", "match-2", povs.CreatePOVRequest{PlayerName: "Zed", Title: "two", VideoID: "bbbbbbbbbbb"})

	list := service.GetByMatch(ctx, "slot-1", "match-1")
	require.Len(t, list, 1)
	assert.Equal(t, "Fenix", list[0].PlayerName)

	assert.Empty(t, service.GetByMatch(ctx, "slot-1", "match-3"))
}

func TestGetByMatchUnknownScopeReturnsEmptyList(t *testing.T) {
	service := setupService(t, ident.Fixed("a"))

	list := service.GetByMatch(context.Background(), "slot-x", "match-x")
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDeleteRemovesPOV(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "one"})
	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Zed", Title: "two"})

	service.Delete(ctx, "slot-1", "match-1", "a")

	list := service.GetByMatch(ctx, "slot-1", "match-1")
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestGetAllFlattenedSpansMatches(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b", "c"))
	ctx := context.Background()

	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "one"})
	service.Create(ctx, "slot-1", "match-2", povs.CreatePOVRequest{PlayerName: "Zed", Title: "two"})
	service.Create(ctx, "slot-2", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "three"})

	list := service.GetAllFlattened(ctx)
	require.Len(t, list, 3)
}

func TestGetAllPlayersDistinctSorted(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b", "c"))
	ctx := context.Background()

	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Zed", Title: "one"})
	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "two"})
	service.Create(ctx, "slot-1", "match-2", povs.CreatePOVRequest{PlayerName: "Zed", Title: "three"})

	assert.Equal(t, []string{"Fenix", "Zed"}, service.GetAllPlayers(ctx))
}

func TestGetByPlayer(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "one"})
	service.Create(ctx, "slot-1", "match-2", povs.CreatePOVRequest{PlayerName: "Zed", Title: "two"})

	list := service.GetByPlayer(ctx, "Fenix")
	require.Len(t, list, 1)
	assert.Equal(t, "one", list[0].Title)

	assert.Empty(t, service.GetByPlayer(ctx, "Nobody"))
}

func TestDeleteBulkSpansMatches(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b", "c"))
	ctx := context.Background()

	service.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "one"})
	service.Create(ctx, "slot-1", "match-2", povs.CreatePOVRequest{PlayerName: "Zed", Title: "two"})
	service.Create(ctx, "slot-2", "match-1", povs.CreatePOVRequest{PlayerName: "astro", Title: "three"})

	deleted := service.DeleteBulk(ctx, []povs.POVRef{
		{SlotID: "slot-1", MatchID: "match-1", ID: "a"},
		{SlotID: "slot-2", MatchID: "match-1", ID: "c"},
	})
	assert.Equal(t, 2, deleted)

	remaining := service.GetAllFlattened(ctx)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].ID)
}

func TestRemoteListFailureFallsBackToMirror(t *testing.T) {
	store := setupMirror(t)
	ctx := context.Background()

	seed := povs.NewPOVService(docstore.New(nil), store, ident.Fixed("a", "b"))
	seed.Create(ctx, "slot-1", "match-1", povs.CreatePOVRequest{PlayerName: "Fenix", Title: "one"})
	seed.Create(ctx, "slot-1", "match-2", povs.CreatePOVRequest{PlayerName: "Zed", Title: "two"})

	failing := povs.NewPOVService(&docstore.Mock{Err: docstore.ErrTimeout}, store, ident.Fixed("c"))

	list := failing.GetByMatch(ctx, "slot-1", "match-1")
	require.Len(t, list, 1)
	assert.Equal(t, "Fenix", list[0].PlayerName)

	assert.Len(t, failing.GetAllFlattened(ctx), 2)
}
