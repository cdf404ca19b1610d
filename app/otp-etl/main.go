package main

import (
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/nerail/regionalotp/app/otp-etl/etlmanager"
	"github.com/nerail/regionalotp/business/data/regional"
	"github.com/nerail/regionalotp/foundation/database"
	"github.com/nerail/regionalotp/foundation/httpclient"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "OTP_ETL : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:false"`
		}
		Scrape struct {
			StatusArchiveURL      string `conf:"default:https://juckins.net/amtrak_status/archive/html/history.php"`
			RequestTimeoutSeconds int    `conf:"default:30"`
		}
		Weather struct {
			URL     string `conf:"default:https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services"`
			VCToken string `conf:"noprint"`
		}
		ETL struct {
			TempDir string `conf:"default:/tmp"`
			RunHour int    `conf:"default:8"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Daily train status and weather ETL for the regional on-time performance store"
	const prefix = "OTP_ETL"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	etlConfig := etlmanager.Config{
		StatusArchiveURL: cfg.Scrape.StatusArchiveURL,
		WeatherAPIURL:    cfg.Weather.URL,
		WeatherAPIToken:  cfg.Weather.VCToken,
		TempDir:          cfg.ETL.TempDir,
		RequestTimeout:   time.Duration(cfg.Scrape.RequestTimeoutSeconds) * time.Second,
	}

	yesterday := time.Now().AddDate(0, 0, -1)

	switch cfg.Args.Num(0) {
	case "weather", "daily", "auto":
		if cfg.Weather.VCToken == "" {
			return fmt.Errorf("OTP_ETL_WEATHER_VC_TOKEN is required with command %s", cfg.Args.Num(0))
		}
	}

	switch cfg.Args.Num(0) {
	case "initdb":
		return regional.CreateSchema(log, db)

	case "stations":
		stationPath := cfg.Args.Num(1)
		routePath := cfg.Args.Num(2)
		if stationPath == "" || routePath == "" {
			return fmt.Errorf("expected station info and route csv paths with command stations")
		}
		if err = etlmanager.LoadStationInfoFile(log, db, stationPath); err != nil {
			return err
		}
		return etlmanager.LoadRouteFile(log, db, routePath)

	case "trains":
		start, end, err := parseDateRangeArgs(cfg.Args.Num(1), cfg.Args.Num(2), yesterday)
		if err != nil {
			return err
		}
		client := httpclient.New(etlConfig.RequestTimeout)
		return etlmanager.RunTrainETL(log, db, client, etlConfig.StatusArchiveURL, start, end)

	case "weather":
		day, err := parseDateArg(cfg.Args.Num(1), yesterday)
		if err != nil {
			return err
		}
		client := httpclient.New(etlConfig.RequestTimeout)
		return etlmanager.RunWeatherETL(log, db, client, etlConfig.WeatherAPIURL,
			etlConfig.WeatherAPIToken, etlConfig.TempDir, day)

	case "join":
		return regional.JoinStopsAndWeather(log, db)

	case "daily":
		day, err := parseDateArg(cfg.Args.Num(1), yesterday)
		if err != nil {
			return err
		}
		return etlmanager.RunDailyETL(log, db, etlConfig, day)

	case "auto":
		// Make a channel to listen for an interrupt or terminate signal from the OS.
		// Use a buffered channel because the signal package requires it.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		return etlmanager.RunAutoLoop(log, db, etlConfig, cfg.ETL.RunHour, shutdown)

	default:
		fmt.Println("initdb: create the database schema")
		fmt.Println("stations <station_csv> <route_csv>: load static station and route reference data")
		fmt.Println("trains [start] [end]: scrape and load train status data (default yesterday)")
		fmt.Println("weather [date]: fetch and load hourly weather data (default yesterday)")
		fmt.Println("join: join staged stops and weather into the fact table")
		fmt.Println("daily [date]: trains + weather + join for one day (default yesterday)")
		fmt.Println("auto: run the daily pipeline on a schedule until interrupted")
		usage, err := conf.Usage(prefix, &cfg)
		if err != nil {
			return fmt.Errorf("generating config usage: %w", err)
		}
		fmt.Println(usage)
	}
	return nil
}

// parseDateArg parses a YYYY-MM-DD argument, falling back to def when empty.
func parseDateArg(arg string, def time.Time) (time.Time, error) {
	if arg == "" {
		return def, nil
	}
	day, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q, expected YYYY-MM-DD: %w", arg, err)
	}
	return day, nil
}

// parseDateRangeArgs parses optional start and end date arguments. With no
// arguments both default to def; with only a start the end matches it.
func parseDateRangeArgs(startArg string, endArg string, def time.Time) (time.Time, time.Time, error) {
	start, err := parseDateArg(startArg, def)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateArg(endArg, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
