package regional

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// schemaStatements creates the staging tables, the fact table and the static
// reference tables. The unique constraints on stops and weather_hourly are
// the natural keys that make the conflict-ignore inserts idempotent.
var schemaStatements = []string{
	`create table if not exists stops (
		stop_id bigserial primary key,
		arrival_or_departure text not null,
		train_num integer not null,
		station_code text not null,
		direction text not null,
		origin_date date not null,
		origin_year integer not null,
		origin_month integer not null,
		origin_week_day text not null,
		full_sched_datetime timestamp not null,
		sched_date date not null,
		sched_week_day text not null,
		sched_time text not null,
		act_time text not null,
		full_act_datetime timestamp not null,
		timedelta_from_sched integer not null,
		service_disruption integer not null,
		cancellations integer not null,
		unique (arrival_or_departure, train_num, station_code, origin_date)
	)`,
	`create table if not exists weather_hourly (
		location text not null,
		obs_datetime timestamp not null,
		temperature double precision not null,
		precipitation double precision not null,
		cloud_cover double precision not null,
		weather_type text not null default '',
		unique (location, obs_datetime)
	)`,
	`create table if not exists station_info (
		station_code text primary key,
		station_name text not null,
		longitude double precision not null,
		latitude double precision not null,
		nb_mile double precision not null,
		sb_mile double precision not null,
		nb_stop_num integer not null,
		sb_stop_num integer not null,
		weather_location_name text not null,
		crew_change integer not null default 0
	)`,
	`create table if not exists regional_route (
		longitude double precision not null,
		latitude double precision not null,
		path_group integer not null,
		connecting_path text not null,
		nb_station_group text not null,
		sb_station_group text not null,
		unique (longitude, latitude, path_group)
	)`,
	`create table if not exists stops_joined (
		stop_id bigint primary key,
		arrival_or_departure text not null,
		train_num integer not null,
		station_code text not null,
		direction text not null,
		origin_date date not null,
		origin_year integer not null,
		origin_month integer not null,
		origin_week_day text not null,
		full_sched_datetime timestamp not null,
		sched_date date not null,
		sched_week_day text not null,
		sched_time text not null,
		act_time text not null,
		full_act_datetime timestamp not null,
		timedelta_from_sched integer not null,
		service_disruption integer not null,
		cancellations integer not null,
		crew_change integer not null default 0,
		nb_stop_num integer not null,
		sb_stop_num integer not null,
		temperature double precision not null,
		precipitation double precision not null,
		cloud_cover double precision not null,
		weather_type text not null default '',
		precip_type text
	)`,
	`create table if not exists query_logs (
		log_id bigserial primary key,
		submit_datetime timestamptz not null,
		sql_content text not null,
		unique (submit_datetime, sql_content)
	)`,
}

// CreateSchema creates all tables if they do not already exist.
func CreateSchema(log *log.Logger, db *sqlx.DB) error {
	for _, statement := range schemaStatements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	log.Printf("schema is in place, %d tables checked", len(schemaStatements))
	return nil
}
