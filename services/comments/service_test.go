package comments_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-gg/pov-archive/pkg/ident"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
	"github.com/eclipse-gg/pov-archive/services/comments"
)

func setupMirror(t *testing.T) *mirror.Store {
	t.Helper()

	store, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func setupService(t *testing.T, ids ident.Generator) *comments.CommentsService {
	t.Helper()
	return comments.NewCommentsService(docstore.New(nil), setupMirror(t), ids)
}

func TestAddAssignsFixedAuthor(t *testing.T) {
	service := setupService(t, ident.Fixed("c-1"))

	comment := service.Add(context.Background(), "slot-1", "match-1", "pov-1", "nice rotation")

	assert.Equal(t, "c-1", comment.ID)
	assert.Equal(t, "nice rotation", comment.Text)
	assert.Equal(t, "Anonymous", comment.Author)
	assert.NotEmpty(t, comment.CreatedAt)
}

func TestAddThenGet(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Add(ctx, "slot-1", "match-1", "pov-1", "first")
	service.Add(ctx, "slot-1", "match-1", "pov-1", "second")

	list := service.Get(ctx, "slot-1", "match-1", "pov-1")
	require.Len(t, list, 2)
}

func TestGetScopesToPOV(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Add(ctx, "slot-1", "match-1", "pov-1", "here")
	service.Add(ctx, "slot-1", "match-1", "pov-2", "elsewhere")

	list := service.Get(ctx, "slot-1", "match-1", "pov-1")
	require.Len(t, list, 1)
	assert.Equal(t, "here", list[0].Text)

	assert.Empty(t, service.Get(ctx, "slot-1", "match-1", "pov-3"))
}

func TestRemoteListFailureFallsBackToMirror(t *testing.T) {
	store := setupMirror(t)
	ctx := context.Background()

	seed := comments.NewCommentsService(docstore.New(nil), store, ident.Fixed("a"))
	seed.Add(ctx, "slot-1", "match-1", "pov-1", "kept")

	failing := comments.NewCommentsService(&docstore.Mock{Err: docstore.ErrTimeout}, store, ident.Fixed("b"))
	list := failing.Get(ctx, "slot-1", "match-1", "pov-1")
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Text)
}
