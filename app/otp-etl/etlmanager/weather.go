package etlmanager

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
	"github.com/nerail/regionalotp/foundation/httpclient"
)

// weatherLocations are the weather reporting locations nearest to the
// stations on the line, north to south. station_info.weather_location_name
// references these by their address form ("Boston, MA").
var weatherLocations = []string{
	"Boston,MA", "Providence,RI", "Kingston,RI", "Westerly,RI", "Mystic,CT",
	"New London,CT", "Old Saybrook,CT", "New Haven,CT", "Bridgeport,CT",
	"Stamford,CT", "New Rochelle,NY", "Manhattan,NY", "Newark,NJ", "Iselin,NJ",
	"Trenton,NJ", "Philadelphia,PA", "Wilmington,DE", "Aberdeen,MD", "Baltimore,MD",
	"Baltimore BWI Airport,MD", "New Carrollton,MD", "Washington,DC",
}

// hourlySlots is the number of hourly rows one day of observations can hold.
const hourlySlots = 24

var weatherTimestampLayouts = []string{
	"01/02/2006 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// weatherFileName converts a location to its file name form,
// "New London,CT" becomes "New_London_CT".
func weatherFileName(location string) string {
	name := strings.ReplaceAll(location, " ", "_")
	return strings.ReplaceAll(name, ",", "_")
}

// weatherRequestURL builds the history request for one day of hourly
// observations at one location.
func weatherRequestURL(baseURL string, token string, location string, day time.Time) string {
	date := day.Format("2006-01-02")
	return baseURL + "/weatherdata/history?&aggregateHours=1" +
		"&startDateTime=" + date + "T00:00:00" +
		"&endDateTime=" + date + "T23:59:00" +
		"&collectStationContributions=true&unitGroup=us&contentType=csv" +
		"&location=" + strings.ReplaceAll(location, " ", "%20") +
		"&key=" + token
}

// parseWeatherCSV reads one location's raw response and filters it: any
// hourly row missing temperature, precipitation or cloud cover is dropped.
// Returns the kept observations and the count of rows seen.
func parseWeatherCSV(r io.Reader, filename string) ([]*regional.WeatherObservation, int, error) {
	parser, err := makeCSVFileParser(r, filename)
	if err != nil {
		return nil, 0, err
	}

	var kept []*regional.WeatherObservation
	total := 0
	for {
		err = parser.nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, total, err
		}
		total++

		address := strings.ReplaceAll(parser.getString("Address", true), ",", ", ")
		obsTime := parser.getDateTimePointer("Date time", weatherTimestampLayouts)
		temperature := parser.getFloat64Pointer("Temperature", true)
		precipitation := parser.getFloat64Pointer("Precipitation", true)
		cloudCover := parser.getFloat64Pointer("Cloud Cover", true)
		weatherType := parser.getString("Weather Type", true)
		parser.errors = nil

		if address == "" || obsTime == nil || temperature == nil || precipitation == nil || cloudCover == nil {
			continue
		}
		kept = append(kept, &regional.WeatherObservation{
			Location:      address,
			ObsDatetime:   *obsTime,
			Temperature:   *temperature,
			Precipitation: *precipitation,
			CloudCover:    *cloudCover,
			WeatherType:   weatherType,
		})
	}
	return kept, total, nil
}

// RunWeatherETL requests one day of hourly observations for every location,
// writes each raw response to tempDir, filters incomplete rows and records
// the remainder. An HTTP error for one location is logged and that location
// is skipped; it does not abort the others.
func RunWeatherETL(log *log.Logger,
	db *sqlx.DB,
	client *http.Client,
	baseURL string,
	token string,
	tempDir string,
	day time.Time) error {

	if token == "" {
		return fmt.Errorf("weather api token is required")
	}

	for _, location := range weatherLocations {
		fileName := weatherFileName(location)
		destination := filepath.Join(tempDir,
			fmt.Sprintf("%s_weather_%s.csv", fileName, day.Format("2006-01-02")))

		url := weatherRequestURL(baseURL, token, location, day)
		downloaded, err := httpclient.DownloadRemoteFile(client, destination, url)
		if err != nil {
			log.Printf("error retrieving weather data for %s: %v", fileName, err)
			continue
		}

		file, err := os.Open(downloaded.LocalFilePath)
		if err != nil {
			log.Printf("unable to open downloaded weather file %s: %v", downloaded.LocalFilePath, err)
			continue
		}
		observations, _, err := parseWeatherCSV(file, filepath.Base(downloaded.LocalFilePath))
		_ = file.Close()
		if err != nil {
			log.Printf("unable to parse weather file for %s: %v", fileName, err)
			continue
		}

		inserted := regional.RecordWeatherObservations(log, db, observations)
		log.Printf("weather ETL for %s kept %d/%d hourly rows, %d newly inserted",
			fileName, len(observations), hourlySlots, inserted)
	}
	return nil
}
