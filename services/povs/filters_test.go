package povs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-gg/pov-archive/services/povs"
)

func archive() []povs.POV {
	return []povs.POV{
		{ID: "1", PlayerName: "Fenix", Title: "Erangle zone hold", Date: "2024-03-12"},
		{ID: "2", PlayerName: "astro", Title: "Miramar bridge fight", Date: "2024-03-12"},
		{ID: "3", PlayerName: "Zed", Title: "Final circle clutch", Date: "2024-03-14"},
		{ID: "4", PlayerName: "Fenix", Title: "Scrim review", Date: "2024-03-15"},
	}
}

func TestFilterBySearchMatchesTitleAndPlayer(t *testing.T) {
	out := povs.FilterBySearch(archive(), "fenix")
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "4", out[1].ID)

	out = povs.FilterBySearch(archive(), "MIRAMAR")
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}

func TestFilterBySearchBlankQueryIsNoop(t *testing.T) {
	list := archive()
	assert.Equal(t, list, povs.FilterBySearch(list, ""))
	assert.Equal(t, list, povs.FilterBySearch(list, "   "))
}

func TestFilterBySearchEmptyList(t *testing.T) {
	assert.Empty(t, povs.FilterBySearch([]povs.POV{}, "anything"))
}

func TestFilterByPlayersExactNames(t *testing.T) {
	out := povs.FilterByPlayers(archive(), []string{"Fenix", "Zed"})
	require.Len(t, out, 3)

	// Matching is exact, not case-folded.
	assert.Empty(t, povs.FilterByPlayers(archive(), []string{"fenix"}))
}

func TestFilterByPlayersEmptySelectionIsNoop(t *testing.T) {
	list := archive()
	assert.Equal(t, list, povs.FilterByPlayers(list, nil))
}

func TestFilterByDateRangeInclusiveBounds(t *testing.T) {
	out := povs.FilterByDateRange(archive(), "2024-03-12", "2024-03-14")
	require.Len(t, out, 3)

	out = povs.FilterByDateRange(archive(), "2024-03-14", "")
	require.Len(t, out, 2)

	out = povs.FilterByDateRange(archive(), "", "2024-03-12")
	require.Len(t, out, 2)
}

func TestFilterByDateRangeExcludesUnparseableDates(t *testing.T) {
	list := append(archive(), povs.POV{ID: "5", Date: "sometime last week"})
	out := povs.FilterByDateRange(list, "2024-01-01", "2024-12-31")
	for _, pov := range out {
		assert.NotEqual(t, "5", pov.ID)
	}
}

func TestApplyFiltersCombines(t *testing.T) {
	out := povs.ApplyFilters(archive(), povs.Filters{
		Search:   "fenix",
		DateFrom: "2024-03-13",
	})
	require.Len(t, out, 1)
	assert.Equal(t, "4", out[0].ID)
}

func TestCountActiveFilters(t *testing.T) {
	assert.Equal(t, 0, povs.CountActiveFilters(povs.Filters{}))
	assert.Equal(t, 1, povs.CountActiveFilters(povs.Filters{Search: "x"}))
	assert.Equal(t, 2, povs.CountActiveFilters(povs.Filters{Search: "x", DateTo: "2024-03-14"}))
	assert.Equal(t, 3, povs.CountActiveFilters(povs.Filters{
		Search:   "x",
		Players:  []string{"Fenix"},
		DateFrom: "2024-03-12",
	}))
}

func TestSortPOVsByDate(t *testing.T) {
	newest := povs.SortPOVs(archive(), "newest")
	assert.Equal(t, "4", newest[0].ID)
	assert.Equal(t, "3", newest[1].ID)

	oldest := povs.SortPOVs(archive(), "oldest")
	assert.Equal(t, "4", oldest[len(oldest)-1].ID)
}

func TestSortPOVsByPlayerIgnoresCase(t *testing.T) {
	sorted := povs.SortPOVs(archive(), "player-az")
	assert.Equal(t, "astro", sorted[0].PlayerName)
	assert.Equal(t, "Zed", sorted[len(sorted)-1].PlayerName)

	reversed := povs.SortPOVs(archive(), "player-za")
	assert.Equal(t, "Zed", reversed[0].PlayerName)
}

func TestSortPOVsUnknownKeyKeepsOrder(t *testing.T) {
	list := archive()
	assert.Equal(t, list, povs.SortPOVs(list, "shuffled"))
}

func TestSortPOVsIsIdempotent(t *testing.T) {
	once := povs.SortPOVs(archive(), "newest")
	twice := povs.SortPOVs(once, "newest")
	assert.Equal(t, once, twice)
}

func TestSortPOVsDoesNotMutateInput(t *testing.T) {
	list := archive()
	povs.SortPOVs(list, "oldest")
	assert.Equal(t, archive(), list)
}

func TestGroupPOVsByDate(t *testing.T) {
	grouped := povs.GroupPOVsByDate(archive())
	require.Len(t, grouped, 3)
	assert.Len(t, grouped["March 12, 2024"], 2)
	assert.Len(t, grouped["March 14, 2024"], 1)
	assert.Len(t, grouped["March 15, 2024"], 1)
}

func TestGroupPOVsByDateUnparseable(t *testing.T) {
	grouped := povs.GroupPOVsByDate([]povs.POV{{ID: "1", Date: "not a date"}})
	require.Len(t, grouped, 1)
	assert.Len(t, grouped["not a date"], 1)
}
