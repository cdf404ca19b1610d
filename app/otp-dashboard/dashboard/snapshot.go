package dashboard

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
)

// Snapshot holds the static reference data and the default aggregate result,
// loaded once at startup and passed into the handlers. It is never mutated
// after construction.
type Snapshot struct {
	Stations      []regional.StationInfo
	Route         []regional.RoutePoint
	DefaultFilter regional.DelayFilter
	DefaultDelays []regional.StationDelaySummary
}

// defaultFilter is the query the dashboard opens with: southbound, every
// weekday, every precipitation category.
func defaultFilter() regional.DelayFilter {
	return regional.DelayFilter{
		Direction: regional.Southbound,
		WeekDays: []string{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		PrecipTypes: []string{regional.PrecipNone, regional.PrecipRain, regional.PrecipSnow},
	}
}

// LoadSnapshot reads the reference tables and runs the default aggregate
// query once. Missing reference data is a startup error; an empty default
// aggregate is not, since a fresh store has no fact rows yet.
func LoadSnapshot(log *log.Logger, db *sqlx.DB) (*Snapshot, error) {
	stations, err := regional.GetAllStationInfo(db)
	if err != nil {
		return nil, fmt.Errorf("loading station info: %w", err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("station_info table is empty, load reference data first")
	}

	route, err := regional.GetRegionalRoute(db)
	if err != nil {
		return nil, fmt.Errorf("loading route geometry: %w", err)
	}
	if len(route) == 0 {
		return nil, fmt.Errorf("regional_route table is empty, load reference data first")
	}

	filter := defaultFilter()
	delays, err := regional.AggregateDelays(db, filter)
	if err != nil {
		return nil, fmt.Errorf("running default aggregate query: %w", err)
	}

	log.Printf("snapshot loaded: %d stations, %d route points, %d default aggregate rows",
		len(stations), len(route), len(delays))

	return &Snapshot{
		Stations:      stations,
		Route:         route,
		DefaultFilter: filter,
		DefaultDelays: delays,
	}, nil
}
