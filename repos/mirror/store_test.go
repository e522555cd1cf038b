package mirror_test

import (
	"path/filepath"
	"testing"

	"github.com/eclipse-gg/pov-archive/repos/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *mirror.Store {
	t.Helper()

	store, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

type record struct {
	ID   string
	Name string
}

func TestReadMissingKeyLeavesOutputEmpty(t *testing.T) {
	store := setupTestStore(t)

	var out []record
	store.Read("eclipse_slots", &out)
	assert.Empty(t, out)
}

func TestWriteThenRead(t *testing.T) {
	store := setupTestStore(t)

	in := []record{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}
	store.Write(mirror.SlotsKey, in)

	var out []record
	store.Read(mirror.SlotsKey, &out)
	assert.Equal(t, in, out)
}

func TestWriteOverwritesWholeContainer(t *testing.T) {
	store := setupTestStore(t)

	store.Write(mirror.SlotsKey, []record{{ID: "1"}, {ID: "2"}})
	store.Write(mirror.SlotsKey, []record{{ID: "3"}})

	var out []record
	store.Read(mirror.SlotsKey, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

func TestMapContainers(t *testing.T) {
	store := setupTestStore(t)

	in := map[string][]record{
		"slot-1": {{ID: "a"}},
		"slot-2": {{ID: "b"}, {ID: "c"}},
	}
	store.Write(mirror.MatchesKey, in)

	var out map[string][]record
	store.Read(mirror.MatchesKey, &out)
	assert.Equal(t, in, out)
}

func TestKeys(t *testing.T) {
	store := setupTestStore(t)

	store.Write("eclipse_backup_1", []record{})
	store.Write("eclipse_backup_2", []record{})

	assert.Equal(t, []string{"eclipse_backup_1", "eclipse_backup_2"}, store.Keys())
}
