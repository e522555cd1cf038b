package stats

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-gg/pov-archive/services/povs"
)

func TestComputeEmptyArchive(t *testing.T) {
	got := compute(nil)

	assert.Equal(t, 0, got.Total)
	assert.Empty(t, got.PlayerCounts)
	assert.Empty(t, got.MostActiveDays)
}

func TestComputeCountsPerPlayer(t *testing.T) {
	got := compute([]povs.POV{
		{PlayerName: "Fenix", Date: "2024-03-12"},
		{PlayerName: "Fenix", Date: "2024-03-12"},
		{PlayerName: "Zed", Date: "2024-03-14"},
	})

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, map[string]int{"Fenix": 2, "Zed": 1}, got.PlayerCounts)
}

func TestComputeMostActiveDays(t *testing.T) {
	got := compute([]povs.POV{
		{PlayerName: "a", Date: "2024-03-12"},
		{PlayerName: "b", Date: "2024-03-12"},
		{PlayerName: "c", Date: "2024-03-12"},
		{PlayerName: "d", Date: "2024-03-14"},
		{PlayerName: "e", Date: "2024-03-14"},
		{PlayerName: "f", Date: "2024-03-15"},
	})

	require.Len(t, got.MostActiveDays, 3)
	assert.Equal(t, DayCount{Date: "3/12/2024", Count: 3}, got.MostActiveDays[0])
	assert.Equal(t, DayCount{Date: "3/14/2024", Count: 2}, got.MostActiveDays[1])
	assert.Equal(t, DayCount{Date: "3/15/2024", Count: 1}, got.MostActiveDays[2])
}

func TestComputeTopFiveDaysOnly(t *testing.T) {
	list := []povs.POV{}
	for day := 10; day < 17; day++ {
		list = append(list, povs.POV{PlayerName: "x", Date: "2024-03-" + strconv.Itoa(day)})
	}

	got := compute(list)
	assert.Len(t, got.MostActiveDays, 5)
}

// Tie order between equally active days is unspecified, so compare as a set.
func TestComputeTiedDays(t *testing.T) {
	got := compute([]povs.POV{
		{PlayerName: "a", Date: "2024-03-12"},
		{PlayerName: "b", Date: "2024-03-14"},
	})

	require.Len(t, got.MostActiveDays, 2)
	days := map[string]int{}
	for _, day := range got.MostActiveDays {
		days[day.Date] = day.Count
	}
	assert.Equal(t, map[string]int{"3/12/2024": 1, "3/14/2024": 1}, days)
}
