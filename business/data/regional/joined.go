package regional

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// JoinedStop is the durable fact table row combining a Stop with its
// co-located, co-temporal WeatherObservation plus the derived precipitation
// category and the station's stop-order indexes. Rows are appended by the
// join step and never updated or deleted afterwards.
type JoinedStop struct {
	Stop
	CrewChange    int     `db:"crew_change"`
	NbStopNum     int     `db:"nb_stop_num"`
	SbStopNum     int     `db:"sb_stop_num"`
	Temperature   float64 `db:"temperature"`
	Precipitation float64 `db:"precipitation"`
	CloudCover    float64 `db:"cloud_cover"`
	WeatherType   string  `db:"weather_type"`
	PrecipType    *string `db:"precip_type"`
}

// joinStatement matches each staged stop to the weather observation at the
// station's mapped location and the stop's actual hour.
const joinStatement = `
insert into stops_joined (
	stop_id,
	arrival_or_departure,
	train_num,
	station_code,
	direction,
	origin_date,
	origin_year,
	origin_month,
	origin_week_day,
	full_sched_datetime,
	sched_date,
	sched_week_day,
	sched_time,
	act_time,
	full_act_datetime,
	timedelta_from_sched,
	service_disruption,
	cancellations,
	crew_change,
	nb_stop_num,
	sb_stop_num,
	temperature,
	precipitation,
	cloud_cover,
	weather_type)
select
	s.stop_id,
	s.arrival_or_departure,
	s.train_num,
	s.station_code,
	s.direction,
	s.origin_date,
	s.origin_year,
	s.origin_month,
	s.origin_week_day,
	s.full_sched_datetime,
	s.sched_date,
	s.sched_week_day,
	s.sched_time,
	s.act_time,
	s.full_act_datetime,
	s.timedelta_from_sched,
	s.service_disruption,
	s.cancellations,
	si.crew_change,
	si.nb_stop_num,
	si.sb_stop_num,
	wh.temperature,
	wh.precipitation,
	wh.cloud_cover,
	wh.weather_type
from stops s
	inner join station_info si on s.station_code = si.station_code
	inner join weather_hourly wh on wh.location = si.weather_location_name
		and date_trunc('hour', s.full_act_datetime) = wh.obs_datetime
order by s.full_sched_datetime
on conflict do nothing`

// removeDuplicatesStatement deletes all but the lowest stop_id for each
// (origin_date, train_num, station_code, arrival_or_departure) key.
const removeDuplicatesStatement = `
delete from stops_joined
where stops_joined.stop_id in (
	select sj_stop_id
	from (
		select
			sj.stop_id as sj_stop_id,
			row_number() over (
				partition by
					origin_date,
					train_num,
					station_code,
					arrival_or_departure
				order by stop_id
			) as row_num
		from stops_joined sj
	) ranked
	where row_num >= 2
)`

// JoinStopsAndWeather produces fact rows from the staged stops and weather
// tables, deduplicates them by natural key, classifies precipitation per
// joined row and finally clears both staging tables. The join is
// consume-and-clear, not a durable view.
func JoinStopsAndWeather(log *log.Logger, db *sqlx.DB) error {
	result, err := db.Exec(joinStatement)
	if err != nil {
		return fmt.Errorf("joining stops and weather: %w", err)
	}
	joined, _ := result.RowsAffected()

	result, err = db.Exec(removeDuplicatesStatement)
	if err != nil {
		return fmt.Errorf("removing duplicate joined stops: %w", err)
	}
	removed, _ := result.RowsAffected()

	classified, err := classifyPrecipitation(db)
	if err != nil {
		return fmt.Errorf("classifying precipitation: %w", err)
	}

	if _, err = db.Exec("truncate table stops"); err != nil {
		return fmt.Errorf("clearing stops staging table: %w", err)
	}
	if _, err = db.Exec("truncate table weather_hourly"); err != nil {
		return fmt.Errorf("clearing weather staging table: %w", err)
	}

	log.Printf("joined %d stops with weather, removed %d duplicates, classified %d rows",
		joined, removed, classified)
	return nil
}

// classifyPrecipitation assigns a precipitation category to every joined row
// that does not have one yet.
func classifyPrecipitation(db *sqlx.DB) (int, error) {
	type unclassifiedRow struct {
		StopId        int64   `db:"stop_id"`
		WeatherType   string  `db:"weather_type"`
		Precipitation float64 `db:"precipitation"`
		Temperature   float64 `db:"temperature"`
	}

	var rows []unclassifiedRow
	err := db.Select(&rows,
		"select stop_id, weather_type, precipitation, temperature "+
			"from stops_joined where precip_type is null")
	if err != nil {
		return 0, err
	}

	updateStatement := db.Rebind("update stops_joined set precip_type = ? where stop_id = ?")
	classified := 0
	for _, row := range rows {
		category := PrecipCategory(row.WeatherType, row.Precipitation, row.Temperature)
		if _, err = db.Exec(updateStatement, category, row.StopId); err != nil {
			return classified, err
		}
		classified++
	}
	return classified, nil
}
