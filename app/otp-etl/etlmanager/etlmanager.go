// Package etlmanager implements the daily scrape-and-join pipeline: train
// status scraping, weather retrieval and the join step that feeds the fact
// table.
package etlmanager

import (
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
	"github.com/nerail/regionalotp/foundation/httpclient"
)

// Config carries the external endpoints and tuning for one ETL run.
type Config struct {
	StatusArchiveURL string
	WeatherAPIURL    string
	WeatherAPIToken  string
	TempDir          string
	RequestTimeout   time.Duration
}

// RunDailyETL runs the full pipeline for one day: train scrape, weather
// fetch, then the join step. A failure in the train or weather stage is
// logged and the remaining stages still run, so a partial day degrades by
// omission instead of aborting.
func RunDailyETL(log *log.Logger, db *sqlx.DB, cfg Config, day time.Time) error {
	client := httpclient.New(cfg.RequestTimeout)

	if err := RunTrainETL(log, db, client, cfg.StatusArchiveURL, day, day); err != nil {
		log.Printf("train ETL failed for %s: %v", day.Format("2006-01-02"), err)
	}
	if err := RunWeatherETL(log, db, client, cfg.WeatherAPIURL, cfg.WeatherAPIToken, cfg.TempDir, day); err != nil {
		log.Printf("weather ETL failed for %s: %v", day.Format("2006-01-02"), err)
	}
	return regional.JoinStopsAndWeather(log, db)
}

// RunAutoLoop triggers RunDailyETL for the previous day once per day at
// runHour local time, until a shutdown signal arrives.
func RunAutoLoop(log *log.Logger,
	db *sqlx.DB,
	cfg Config,
	runHour int,
	shutdownSignal chan os.Signal) error {

	sleepChan := make(chan bool)

	for {
		sleep := untilNextRun(time.Now(), runHour)
		log.Printf("next ETL run in %s", sleep)

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("exiting on shutdown signal")
			return nil
		case <-sleepChan:
			break
		}

		yesterday := time.Now().AddDate(0, 0, -1)
		if err := RunDailyETL(log, db, cfg, yesterday); err != nil {
			log.Printf("daily ETL run failed: %v", err)
		}
	}
}

// untilNextRun computes the wait until the next occurrence of runHour.
func untilNextRun(now time.Time, runHour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), runHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
