package regional

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/foundation/database"
)

// DelayFilter holds the user-selected filters for an aggregate delay query.
// WeekDays and PrecipTypes select full day names and precipitation
// categories. MinDelay and MaxDelay bound timedelta_from_sched in minutes
// when set. ExcludeDisruptions and ExcludeCancellations drop rows flagged
// with a service disruption or cancellation.
type DelayFilter struct {
	Direction            string
	WeekDays             []string
	PrecipTypes          []string
	MinDelay             *int
	MaxDelay             *int
	ExcludeDisruptions   bool
	ExcludeCancellations bool
}

// StationDelaySummary is one aggregate row per (station, arrival-or-departure):
// the record count and integer mean delay, with the stop-order index for the
// filtered direction.
type StationDelaySummary struct {
	Direction          string `db:"direction" json:"direction"`
	StationCode        string `db:"station_code" json:"station_code"`
	StopNum            int    `db:"stop_num" json:"stop_num"`
	ArrivalOrDeparture string `db:"arrival_or_departure" json:"arrival_or_departure"`
	AverageDelay       int    `db:"average_delay" json:"average_delay"`
	NumRecords         int    `db:"num_records" json:"num_records"`
}

// AggregateDelays builds and runs the parameterized aggregate query for the
// filter, returning one row per (station, arrival-or-departure) ordered by
// the direction's stop index.
func AggregateDelays(db *sqlx.DB, filter DelayFilter) ([]StationDelaySummary, error) {
	stopNum := StopNumColumn(filter.Direction)

	statementString := "select " +
		"direction, " +
		"station_code, " +
		stopNum + " as stop_num, " +
		"arrival_or_departure, " +
		"cast(avg(timedelta_from_sched) as integer) as average_delay, " +
		"count(*) as num_records " +
		"from stops_joined " +
		"where direction = :direction " +
		"and sched_week_day in (:week_days) " +
		"and precip_type in (:precip_types) "

	args := map[string]interface{}{
		"direction":    filter.Direction,
		"week_days":    filter.WeekDays,
		"precip_types": filter.PrecipTypes,
	}
	if filter.MinDelay != nil {
		statementString += "and timedelta_from_sched >= :min_delay "
		args["min_delay"] = *filter.MinDelay
	}
	if filter.MaxDelay != nil {
		statementString += "and timedelta_from_sched <= :max_delay "
		args["max_delay"] = *filter.MaxDelay
	}
	if filter.ExcludeDisruptions {
		statementString += "and service_disruption = 0 "
	}
	if filter.ExcludeCancellations {
		statementString += "and cancellations = 0 "
	}
	statementString += "group by station_code, direction, " + stopNum + ", arrival_or_departure " +
		"order by " + stopNum + " asc"

	rows, err := database.PrepareNamedQueryRowsFromMap(statementString, db, args)
	if err != nil {
		return nil, fmt.Errorf("running aggregate delay query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []StationDelaySummary
	for rows.Next() {
		summary := StationDelaySummary{}
		if err = rows.StructScan(&summary); err != nil {
			return nil, err
		}
		results = append(results, summary)
	}
	return results, rows.Err()
}

// TrainNumsOnDate retrieves the distinct train numbers present in the fact
// table for one origin date, ascending.
func TrainNumsOnDate(db *sqlx.DB, originDate time.Time) ([]int, error) {
	query := db.Rebind("select distinct train_num from stops_joined " +
		"where origin_date = ? order by train_num asc")
	var results []int
	err := db.Select(&results, query, originDate)
	return results, err
}

// TripStop is one stop of a single trip lookup, with the weather attached
// by the join step.
type TripStop struct {
	StationCode        string  `db:"station_code" json:"station_code"`
	StopNum            int     `db:"stop_num" json:"stop_num"`
	SchedTime          string  `db:"sched_time" json:"sched_time"`
	ActTime            string  `db:"act_time" json:"act_time"`
	ArrivalOrDeparture string  `db:"arrival_or_departure" json:"arrival_or_departure"`
	Temperature        float64 `db:"temperature" json:"temperature"`
	Precipitation      float64 `db:"precipitation" json:"precipitation"`
	TimedeltaFromSched int     `db:"timedelta_from_sched" json:"timedelta_from_sched"`
}

// SingleTripStops retrieves the stops for one train on one origin date in
// stop order for the train's direction.
func SingleTripStops(db *sqlx.DB, originDate time.Time, trainNum int) ([]TripStop, error) {
	stopNum := StopNumColumn(DirectionForTrain(trainNum))
	query := db.Rebind("select " +
		"station_code, " +
		stopNum + " as stop_num, " +
		"sched_time, " +
		"act_time, " +
		"arrival_or_departure, " +
		"temperature, " +
		"precipitation, " +
		"timedelta_from_sched " +
		"from stops_joined " +
		"where origin_date = ? and train_num = ? " +
		"order by " + stopNum + " asc, arrival_or_departure asc")
	var results []TripStop
	err := db.Select(&results, query, originDate, trainNum)
	return results, err
}

// HistoricalAverage is one aggregate row of the historical comparison: the
// mean delay with quartiles per (station, arrival-or-departure) for a train
// number over a range of origin years.
type HistoricalAverage struct {
	StationCode        string  `db:"station_code" json:"station_code"`
	StopNum            int     `db:"stop_num" json:"stop_num"`
	ArrivalOrDeparture string  `db:"arrival_or_departure" json:"arrival_or_departure"`
	AverageDelay       float64 `db:"average_delay" json:"average_delay"`
	FirstQuartile      float64 `db:"first_quartile" json:"first_quartile"`
	Median             float64 `db:"median" json:"median"`
	ThirdQuartile      float64 `db:"third_quartile" json:"third_quartile"`
	NumRecords         int     `db:"num_records" json:"num_records"`
}

// HistoricalAverages retrieves per-station delay statistics for one train
// number across origin years firstYear through lastYear inclusive.
func HistoricalAverages(db *sqlx.DB, trainNum int, firstYear int, lastYear int) ([]HistoricalAverage, error) {
	stopNum := StopNumColumn(DirectionForTrain(trainNum))
	query := db.Rebind("select " +
		"station_code, " +
		stopNum + " as stop_num, " +
		"arrival_or_departure, " +
		"round(avg(timedelta_from_sched), 1) as average_delay, " +
		"round(percentile_cont(0.25) within group (order by timedelta_from_sched)) as first_quartile, " +
		"round(percentile_cont(0.50) within group (order by timedelta_from_sched)) as median, " +
		"round(percentile_cont(0.75) within group (order by timedelta_from_sched)) as third_quartile, " +
		"count(*) as num_records " +
		"from stops_joined " +
		"where train_num = ? and origin_year between ? and ? " +
		"group by station_code, " + stopNum + ", arrival_or_departure " +
		"order by " + stopNum + " asc, arrival_or_departure asc")
	var results []HistoricalAverage
	err := db.Select(&results, query, trainNum, firstYear, lastYear)
	return results, err
}
