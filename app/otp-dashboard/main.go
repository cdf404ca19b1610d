package main

import (
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	"github.com/nerail/regionalotp/app/otp-dashboard/dashboard"
	"github.com/nerail/regionalotp/foundation/database"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "OTP_DASH : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		DB struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:false"`
		}
		Web struct {
			HTTPPort        int     `conf:"default:8080"`
			MapboxToken     string  `conf:"required,noprint"`
			MinRowCount     int     `conf:"default:1"`
			DelayUpperBound float64 `conf:"default:20"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Query service for the regional on-time performance dashboard"
	const prefix = "OTP_DASH"
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

	snapshot, err := dashboard.LoadSnapshot(log, db)
	if err != nil {
		return fmt.Errorf("loading dashboard snapshot: %w", err)
	}

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	dashboard.StartService(log, db, snapshot, dashboard.WebConfig{
		HTTPPort:        cfg.Web.HTTPPort,
		MapboxToken:     cfg.Web.MapboxToken,
		MinRowCount:     cfg.Web.MinRowCount,
		DelayUpperBound: cfg.Web.DelayUpperBound,
	}, shutdown)

	return nil
}
