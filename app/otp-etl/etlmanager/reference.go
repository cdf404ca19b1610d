package etlmanager

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
)

// LoadStationInfoFile reads station reference data from a csv file and
// records it. Expected headers: station_code, station_name, longitude,
// latitude, nb_mile, sb_mile, nb_stop_num, sb_stop_num,
// weather_location_name, crew_change.
func LoadStationInfoFile(log *log.Logger, db *sqlx.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening station info file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	parser, err := makeCSVFileParser(file, path)
	if err != nil {
		return err
	}

	var stations []*regional.StationInfo
	for {
		err = parser.nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		station := regional.StationInfo{
			StationCode:         parser.getString("station_code", false),
			StationName:         parser.getString("station_name", false),
			Longitude:           parser.getFloat64("longitude", false),
			Latitude:            parser.getFloat64("latitude", false),
			NbMile:              parser.getFloat64("nb_mile", false),
			SbMile:              parser.getFloat64("sb_mile", false),
			NbStopNum:           parser.getInt("nb_stop_num", false),
			SbStopNum:           parser.getInt("sb_stop_num", false),
			WeatherLocationName: parser.getString("weather_location_name", false),
			CrewChange:          parser.getInt("crew_change", true),
		}
		if err = parser.getError(); err != nil {
			return err
		}
		stations = append(stations, &station)
	}

	inserted := regional.RecordStationInfo(log, db, stations)
	log.Printf("loaded %d station info rows, %d newly inserted", len(stations), inserted)
	return nil
}

// LoadRouteFile reads line geometry from a csv file and records it.
// Expected headers: longitude, latitude, path_group, connecting_path,
// nb_station_group, sb_station_group.
func LoadRouteFile(log *log.Logger, db *sqlx.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening route file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	parser, err := makeCSVFileParser(file, path)
	if err != nil {
		return err
	}

	var points []*regional.RoutePoint
	for {
		err = parser.nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		point := regional.RoutePoint{
			Longitude:      parser.getFloat64("longitude", false),
			Latitude:       parser.getFloat64("latitude", false),
			PathGroup:      parser.getInt("path_group", false),
			ConnectingPath: parser.getString("connecting_path", false),
			NbStationGroup: parser.getString("nb_station_group", false),
			SbStationGroup: parser.getString("sb_station_group", false),
		}
		if err = parser.getError(); err != nil {
			return err
		}
		points = append(points, &point)
	}

	inserted := regional.RecordRoutePoints(log, db, points)
	log.Printf("loaded %d route points, %d newly inserted", len(points), inserted)
	return nil
}
