package povs

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eclipse-gg/pov-archive/pkg/dateutil"
)

// Pure helpers over an already-fetched POV list. They never mutate their
// input; a no-op filter returns the input slice unchanged.

var playerCollator = collate.New(language.English, collate.IgnoreCase)

// FilterBySearch keeps POVs whose title or player name contains the query,
// case-insensitively. A blank query is a no-op.
func FilterBySearch(list []POV, query string) []POV {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}

	out := []POV{}
	for _, pov := range list {
		if strings.Contains(strings.ToLower(pov.Title), query) ||
			strings.Contains(strings.ToLower(pov.PlayerName), query) {
			out = append(out, pov)
		}
	}
	return out
}

// FilterByPlayers keeps POVs whose player name matches one of names exactly.
// An empty selection is a no-op.
func FilterByPlayers(list []POV, names []string) []POV {
	if len(names) == 0 {
		return list
	}

	wanted := map[string]bool{}
	for _, name := range names {
		wanted[name] = true
	}

	out := []POV{}
	for _, pov := range list {
		if wanted[pov.PlayerName] {
			out = append(out, pov)
		}
	}
	return out
}

// FilterByDateRange keeps POVs whose date falls inclusively between from and
// to. Either bound may be empty; both empty is a no-op.
func FilterByDateRange(list []POV, from, to string) []POV {
	if from == "" && to == "" {
		return list
	}

	out := []POV{}
	for _, pov := range list {
		if dateutil.InRange(pov.Date, from, to) {
			out = append(out, pov)
		}
	}
	return out
}

// ApplyFilters runs search, then players, then date range. The filters are
// independent predicates, but the order is fixed.
func ApplyFilters(list []POV, f Filters) []POV {
	filtered := list
	if f.Search != "" {
		filtered = FilterBySearch(filtered, f.Search)
	}
	if len(f.Players) > 0 {
		filtered = FilterByPlayers(filtered, f.Players)
	}
	if f.DateFrom != "" || f.DateTo != "" {
		filtered = FilterByDateRange(filtered, f.DateFrom, f.DateTo)
	}
	return filtered
}

// CountActiveFilters reports how many filter groups are in effect.
func CountActiveFilters(f Filters) int {
	count := 0
	if strings.TrimSpace(f.Search) != "" {
		count++
	}
	if len(f.Players) > 0 {
		count++
	}
	if f.DateFrom != "" || f.DateTo != "" {
		count++
	}
	return count
}

// SortPOVs returns a sorted copy. newest/oldest compare the date field, not
// createdAt; player-az/player-za compare player names locale-aware. An
// unknown key returns the input order unchanged.
func SortPOVs(list []POV, key string) []POV {
	sorted := make([]POV, len(list))
	copy(sorted, list)

	switch key {
	case "newest":
		sort.SliceStable(sorted, func(i, j int) bool {
			return dateLess(sorted[j].Date, sorted[i].Date)
		})
	case "oldest":
		sort.SliceStable(sorted, func(i, j int) bool {
			return dateLess(sorted[i].Date, sorted[j].Date)
		})
	case "player-az":
		sort.SliceStable(sorted, func(i, j int) bool {
			return playerCollator.CompareString(sorted[i].PlayerName, sorted[j].PlayerName) < 0
		})
	case "player-za":
		sort.SliceStable(sorted, func(i, j int) bool {
			return playerCollator.CompareString(sorted[j].PlayerName, sorted[i].PlayerName) < 0
		})
	}
	return sorted
}

func dateLess(a, b string) bool {
	ta, oka := dateutil.Parse(a)
	tb, okb := dateutil.Parse(b)
	if !oka || !okb {
		return !oka && okb
	}
	return ta.Before(tb)
}

// GroupPOVsByDate buckets POVs by long-form calendar date. Bucket order when
// rendered descending uses the first item's raw date as the sort key.
func GroupPOVsByDate(list []POV) map[string][]POV {
	grouped := map[string][]POV{}
	for _, pov := range list {
		key := dateutil.FormatLong(pov.Date)
		grouped[key] = append(grouped[key], pov)
	}
	return grouped
}
