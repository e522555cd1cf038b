package slots_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"

	"github.com/eclipse-gg/pov-archive/pkg/ident"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
	"github.com/eclipse-gg/pov-archive/services/slots"
)

func setupMirror(t *testing.T) *mirror.Store {
	t.Helper()

	store, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func setupService(t *testing.T, ids ident.Generator) *slots.SlotService {
	t.Helper()
	return slots.NewSlotService(docstore.New(nil), setupMirror(t), ids)
}

func TestCreateReturnsClientSideID(t *testing.T) {
	service := setupService(t, ident.Fixed("slot-1"))

	created := service.Create(context.Background(), slots.CreateSlotRequest{
		Name: "Scrim block week 12",
		Date: "2024-03-12",
	})

	assert.Equal(t, "slot-1", created.ID)
	assert.Equal(t, "Scrim block week 12", created.Name)
	assert.NotEmpty(t, created.CreatedAt)
}

func TestCreateThenGetAll(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Create(ctx, slots.CreateSlotRequest{Name: "first"})
	service.Create(ctx, slots.CreateSlotRequest{Name: "second"})

	list := service.GetAll(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
}

func TestGetByID(t *testing.T) {
	service := setupService(t, ident.Fixed("a"))
	ctx := context.Background()

	service.Create(ctx, slots.CreateSlotRequest{Name: "only"})

	slot, err := service.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "only", slot.Name)
}

func TestGetByIDNotFound(t *testing.T) {
	service := setupService(t, ident.Fixed("a"))

	_, err := service.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestUpdateMergesPartialFields(t *testing.T) {
	service := setupService(t, ident.Fixed("a"))
	ctx := context.Background()

	service.Create(ctx, slots.CreateSlotRequest{
		Name:        "before",
		Description: "keep me",
		Date:        "2024-03-12",
	})

	service.Update(ctx, "a", slots.UpdateSlotRequest{Name: pointer.String("after")})

	slot, err := service.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "after", slot.Name)
	assert.Equal(t, "keep me", slot.Description)
	assert.Equal(t, "2024-03-12", slot.Date)
}

func TestDeleteRemovesSlot(t *testing.T) {
	service := setupService(t, ident.Fixed("a", "b"))
	ctx := context.Background()

	service.Create(ctx, slots.CreateSlotRequest{Name: "stays"})
	service.Create(ctx, slots.CreateSlotRequest{Name: "goes"})

	service.Delete(ctx, "b")

	list := service.GetAll(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestRemoteListFailureFallsBackToMirror(t *testing.T) {
	store := setupMirror(t)
	ctx := context.Background()

	seed := slots.NewSlotService(docstore.New(nil), store, ident.Fixed("a"))
	seed.Create(ctx, slots.CreateSlotRequest{Name: "kept"})

	failing := slots.NewSlotService(&docstore.Mock{Err: docstore.ErrTimeout}, store, ident.Fixed("b"))
	list := failing.GetAll(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Name)
}

func TestRemoteLookupFailureScansMirror(t *testing.T) {
	store := setupMirror(t)
	ctx := context.Background()

	seed := slots.NewSlotService(docstore.New(nil), store, ident.Fixed("a"))
	seed.Create(ctx, slots.CreateSlotRequest{Name: "mirrored"})

	failing := slots.NewSlotService(&docstore.Mock{Err: docstore.ErrTimeout}, store, ident.Fixed("b"))
	slot, err := failing.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "mirrored", slot.Name)

	// A miss in the mirror surfaces the original remote error.
	_, err = failing.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, docstore.ErrTimeout))
}
