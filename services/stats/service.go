package stats

import (
	"context"
	"sort"

	"github.com/eclipse-gg/pov-archive/pkg/dateutil"
	"github.com/eclipse-gg/pov-archive/services/povs"
)

// Lister is the slice of the POV service the statistics need.
type Lister interface {
	GetAllFlattened(ctx context.Context) []povs.POV
}

type StatsService struct {
	povService Lister
}

func NewStatsService(povService Lister) *StatsService {
	return &StatsService{
		povService: povService,
	}
}

// GetStatistics aggregates the flattened archive: total count, per-player
// counts and the top five most active calendar days.
func (s *StatsService) GetStatistics(ctx context.Context) Statistics {
	return compute(s.povService.GetAllFlattened(ctx))
}

func compute(list []povs.POV) Statistics {
	playerCounts := map[string]int{}
	dayCounts := map[string]int{}
	for _, pov := range list {
		playerCounts[pov.PlayerName]++
		dayCounts[dateutil.LocaleDay(pov.Date)]++
	}

	days := make([]DayCount, 0, len(dayCounts))
	for day, count := range dayCounts {
		days = append(days, DayCount{Date: day, Count: count})
	}
	// Descending by count. The order within a tie is unspecified.
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Count > days[j].Count
	})
	if len(days) > 5 {
		days = days[:5]
	}

	return Statistics{
		Total:          len(list),
		PlayerCounts:   playerCounts,
		MostActiveDays: days,
	}
}
