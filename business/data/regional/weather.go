package regional

import (
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Precipitation categories derived from an hourly weather observation.
const (
	PrecipNone = "None"
	PrecipRain = "Rain"
	PrecipSnow = "Snow"
)

// WeatherObservation contains one hourly reading at one weather reporting
// location. Rows missing temperature, precipitation or cloud cover are
// discarded before they reach this type.
type WeatherObservation struct {
	Location      string    `db:"location"`
	ObsDatetime   time.Time `db:"obs_datetime"`
	Temperature   float64   `db:"temperature"`
	Precipitation float64   `db:"precipitation"`
	CloudCover    float64   `db:"cloud_cover"`
	WeatherType   string    `db:"weather_type"`
}

const insertWeatherStatement = "insert into weather_hourly ( " +
	"location, " +
	"obs_datetime, " +
	"temperature, " +
	"precipitation, " +
	"cloud_cover, " +
	"weather_type) " +
	"values (" +
	":location, " +
	":obs_datetime, " +
	":temperature, " +
	":precipitation, " +
	":cloud_cover, " +
	":weather_type) " +
	"on conflict do nothing"

// RecordWeatherObservations saves observations to the staging table with an
// insert-ignore policy keyed on (location, obs_datetime). Observation
// timestamps are truncated to the hour on write. A failed row is logged and
// skipped without losing rows already inserted in this run.
// Returns the number of rows newly inserted.
func RecordWeatherObservations(log *log.Logger, db *sqlx.DB, observations []*WeatherObservation) int {
	statementString := db.Rebind(insertWeatherStatement)
	inserted := 0
	for _, obs := range observations {
		obs.ObsDatetime = obs.ObsDatetime.Truncate(time.Hour)
		result, err := db.NamedExec(statementString, obs)
		if err != nil {
			log.Printf("error inserting weather observation for %s at %s, error: %v",
				obs.Location, formatTime(obs.ObsDatetime), err)
			continue
		}
		count, err := result.RowsAffected()
		if err == nil {
			inserted += int(count)
		}
	}
	return inserted
}

// PrecipCategory classifies an observation into None, Rain or Snow.
// A snow marker in the weather type text wins over a rain marker. When the
// text carries no marker the numeric precipitation amount decides: zero
// means no precipitation, a nonzero amount is rain at or above freezing and
// snow below it. Every input maps to exactly one category.
func PrecipCategory(weatherType string, precipitation float64, temperature float64) string {
	switch {
	case strings.Contains(weatherType, "Snow"):
		return PrecipSnow
	case strings.Contains(weatherType, "Rain"):
		return PrecipRain
	case precipitation > 0:
		if temperature >= 32 {
			return PrecipRain
		}
		return PrecipSnow
	default:
		return PrecipNone
	}
}
