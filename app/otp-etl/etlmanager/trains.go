package etlmanager

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
	"github.com/nerail/regionalotp/foundation/httpclient"
)

// RunTrainETL scrapes the status archive for every station and train group
// over the date range, normalizes the parsed rows into stops and records
// them. Requests are issued serially with the client's fixed timeout and no
// retry; a failed page fetch is recorded and the batch proceeds without
// that station's data.
func RunTrainETL(log *log.Logger,
	db *sqlx.DB,
	client *http.Client,
	baseURL string,
	start time.Time,
	end time.Time) error {

	requests := buildStatusRequests(baseURL, northboundTrainGroups, southboundTrainGroups, start, end)
	startTime := time.Now()

	for _, arrivalOrDeparture := range []string{regional.Departure, regional.Arrival} {
		var stops []*regional.Stop
		var failed []stationRequest
		totalRows := 0

		for _, request := range requests[arrivalOrDeparture] {
			body, err := httpclient.Get(client, request.url)
			if err != nil {
				failed = append(failed, request)
				continue
			}

			table, err := parseStatusPage(bytes.NewReader(body))
			if err != nil {
				log.Printf("STATION: %s (%s) | unable to parse page: %v",
					request.stationCode, arrivalOrDeparture, err)
				continue
			}
			if table == nil {
				log.Printf("STATION: %s (%s) | no data for time period, or an error occurred during data retrieval",
					request.stationCode, arrivalOrDeparture)
				continue
			}

			for _, cells := range table.rows {
				totalRows++
				stop, err := buildStop(arrivalOrDeparture, request.stationCode, table, cells)
				if err != nil {
					// malformed source row, dropped and counted via kept/total
					continue
				}
				stops = append(stops, stop)
			}
		}

		if len(failed) > 0 {
			log.Printf("failed to retrieve train data for the following stations:")
			for _, request := range failed {
				log.Printf("        STATION: %s", request.stationCode)
				log.Printf("        URL: %s", request.url)
			}
		}

		inserted := regional.RecordStops(log, db, stops)
		log.Printf("%s ETL kept %d/%d rows, %d newly inserted",
			arrivalOrDeparture, len(stops), totalRows, inserted)
	}

	log.Printf("train data retrieval complete in %s", time.Since(startTime))
	return nil
}
