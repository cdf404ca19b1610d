package regional

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

// Stop contains one arrival or departure event for one train at one station
// on one origin date, as scraped from the train status archive.
type Stop struct {
	StopId             int64     `db:"stop_id"`
	ArrivalOrDeparture string    `db:"arrival_or_departure"`
	TrainNum           int       `db:"train_num"`
	StationCode        string    `db:"station_code"`
	Direction          string    `db:"direction"`
	OriginDate         time.Time `db:"origin_date"`
	OriginYear         int       `db:"origin_year"`
	OriginMonth        int       `db:"origin_month"`
	OriginWeekDay      string    `db:"origin_week_day"`
	FullSchedDatetime  time.Time `db:"full_sched_datetime"`
	SchedDate          time.Time `db:"sched_date"`
	SchedWeekDay       string    `db:"sched_week_day"`
	SchedTime          string    `db:"sched_time"`
	ActTime            string    `db:"act_time"`
	FullActDatetime    time.Time `db:"full_act_datetime"`
	TimedeltaFromSched int       `db:"timedelta_from_sched"`
	ServiceDisruption  int       `db:"service_disruption"`
	Cancellations      int       `db:"cancellations"`
}

func (s Stop) String() string {
	return fmt.Sprintf("Stop train:%d station:%s %s origin:%s sched:%s act:%s delay:%d",
		s.TrainNum, s.StationCode, s.ArrivalOrDeparture, s.OriginDate.Format("2006-01-02"),
		formatTime(s.FullSchedDatetime), formatTime(s.FullActDatetime), s.TimedeltaFromSched)
}

const insertStopStatement = "insert into stops ( " +
	"arrival_or_departure, " +
	"train_num, " +
	"station_code, " +
	"direction, " +
	"origin_date, " +
	"origin_year, " +
	"origin_month, " +
	"origin_week_day, " +
	"full_sched_datetime, " +
	"sched_date, " +
	"sched_week_day, " +
	"sched_time, " +
	"act_time, " +
	"full_act_datetime, " +
	"timedelta_from_sched, " +
	"service_disruption, " +
	"cancellations) " +
	"values (" +
	":arrival_or_departure, " +
	":train_num, " +
	":station_code, " +
	":direction, " +
	":origin_date, " +
	":origin_year, " +
	":origin_month, " +
	":origin_week_day, " +
	":full_sched_datetime, " +
	":sched_date, " +
	":sched_week_day, " +
	":sched_time, " +
	":act_time, " +
	":full_act_datetime, " +
	":timedelta_from_sched, " +
	":service_disruption, " +
	":cancellations) " +
	"on conflict do nothing"

// RecordStops saves stops to the staging table with an insert-ignore policy
// keyed on (arrival_or_departure, train_num, station_code, origin_date), so
// re-running the same day's scrape is a no-op for rows already present.
// Each row is inserted in its own implicit transaction. A failed row is
// logged and skipped without losing rows already inserted in this run.
// Returns the number of rows newly inserted.
func RecordStops(log *log.Logger, db *sqlx.DB, stops []*Stop) int {
	statementString := db.Rebind(insertStopStatement)
	inserted := 0
	for _, stop := range stops {
		result, err := db.NamedExec(statementString, stop)
		if err != nil {
			log.Printf("error inserting stop %s, error: %v", stop, err)
			continue
		}
		count, err := result.RowsAffected()
		if err == nil {
			inserted += int(count)
		}
	}
	return inserted
}
