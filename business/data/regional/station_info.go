package regional

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// StationInfo describes one station on the line: coordinates, mile markers
// and stop-order index per direction, and the name of the nearest weather
// reporting location. Loaded once at startup, read-only at runtime.
type StationInfo struct {
	StationCode         string  `db:"station_code" json:"station_code"`
	StationName         string  `db:"station_name" json:"station_name"`
	Longitude           float64 `db:"longitude" json:"longitude"`
	Latitude            float64 `db:"latitude" json:"latitude"`
	NbMile              float64 `db:"nb_mile" json:"nb_mile"`
	SbMile              float64 `db:"sb_mile" json:"sb_mile"`
	NbStopNum           int     `db:"nb_stop_num" json:"nb_stop_num"`
	SbStopNum           int     `db:"sb_stop_num" json:"sb_stop_num"`
	WeatherLocationName string  `db:"weather_location_name" json:"weather_location_name"`
	CrewChange          int     `db:"crew_change" json:"crew_change"`
}

// RoutePoint is one vertex of the line geometry used by the map view.
// Points sharing a connecting path form one drawable segment; the station
// group columns assign each segment to the station it is colored by.
type RoutePoint struct {
	Longitude      float64 `db:"longitude" json:"longitude"`
	Latitude       float64 `db:"latitude" json:"latitude"`
	PathGroup      int     `db:"path_group" json:"path_group"`
	ConnectingPath string  `db:"connecting_path" json:"connecting_path"`
	NbStationGroup string  `db:"nb_station_group" json:"nb_station_group"`
	SbStationGroup string  `db:"sb_station_group" json:"sb_station_group"`
}

// GetAllStationInfo retrieves every station ordered along the southbound run.
func GetAllStationInfo(db *sqlx.DB) ([]StationInfo, error) {
	query := "select * from station_info order by sb_stop_num"
	var results []StationInfo
	err := db.Select(&results, query)
	return results, err
}

// GetRegionalRoute retrieves the full line geometry.
func GetRegionalRoute(db *sqlx.DB) ([]RoutePoint, error) {
	query := "select * from regional_route order by path_group"
	var results []RoutePoint
	err := db.Select(&results, query)
	return results, err
}

const insertStationInfoStatement = "insert into station_info ( " +
	"station_code, " +
	"station_name, " +
	"longitude, " +
	"latitude, " +
	"nb_mile, " +
	"sb_mile, " +
	"nb_stop_num, " +
	"sb_stop_num, " +
	"weather_location_name, " +
	"crew_change) " +
	"values (" +
	":station_code, " +
	":station_name, " +
	":longitude, " +
	":latitude, " +
	":nb_mile, " +
	":sb_mile, " +
	":nb_stop_num, " +
	":sb_stop_num, " +
	":weather_location_name, " +
	":crew_change) " +
	"on conflict do nothing"

const insertRoutePointStatement = "insert into regional_route ( " +
	"longitude, " +
	"latitude, " +
	"path_group, " +
	"connecting_path, " +
	"nb_station_group, " +
	"sb_station_group) " +
	"values (" +
	":longitude, " +
	":latitude, " +
	":path_group, " +
	":connecting_path, " +
	":nb_station_group, " +
	":sb_station_group) " +
	"on conflict do nothing"

// RecordStationInfo saves station reference rows with an insert-ignore policy.
// Returns the number of rows newly inserted.
func RecordStationInfo(log *log.Logger, db *sqlx.DB, stations []*StationInfo) int {
	statementString := db.Rebind(insertStationInfoStatement)
	inserted := 0
	for _, station := range stations {
		result, err := db.NamedExec(statementString, station)
		if err != nil {
			log.Printf("error inserting station %s, error: %v", station.StationCode, err)
			continue
		}
		count, err := result.RowsAffected()
		if err == nil {
			inserted += int(count)
		}
	}
	return inserted
}

// RecordRoutePoints saves route geometry rows with an insert-ignore policy.
// Returns the number of rows newly inserted.
func RecordRoutePoints(log *log.Logger, db *sqlx.DB, points []*RoutePoint) int {
	statementString := db.Rebind(insertRoutePointStatement)
	inserted := 0
	for _, point := range points {
		result, err := db.NamedExec(statementString, point)
		if err != nil {
			log.Printf("error inserting route point in path group %d, error: %v", point.PathGroup, err)
			continue
		}
		count, err := result.RowsAffected()
		if err == nil {
			inserted += int(count)
		}
	}
	return inserted
}
