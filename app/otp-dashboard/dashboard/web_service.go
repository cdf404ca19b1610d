// Package dashboard serves the on-time performance query API: station and
// route reference data, filtered delay aggregates, single trip lookups and
// historical averages.
package dashboard

import (
	"context"
	logger "log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
)

// WebConfig carries the server tunables.
type WebConfig struct {
	HTTPPort        int
	MapboxToken     string
	MinRowCount     int
	DelayUpperBound float64
}

// defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

// ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

// stationsHandler serves the static station reference rows.
type stationsHandler struct {
	log      *logger.Logger
	stations []regional.StationInfo
}

func (h *stationsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(h.log, w, map[string]interface{}{"stations": h.stations})
}

// routeHandler serves the static route geometry rows.
type routeHandler struct {
	log   *logger.Logger
	route []regional.RoutePoint
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(h.log, w, map[string]interface{}{"route": h.route})
}

// mapConfigHandler serves the client map settings: the access token, the
// delay color ceiling and the filter the view opens with.
type mapConfigHandler struct {
	log             *logger.Logger
	mapboxToken     string
	delayUpperBound float64
	defaultFilter   regional.DelayFilter
}

func (h *mapConfigHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(h.log, w, map[string]interface{}{
		"mapbox_token":      h.mapboxToken,
		"delay_upper_bound": h.delayUpperBound,
		"default_filter":    h.defaultFilter,
	})
}

// createServer wires the handlers into a configured http.Server.
func createServer(log *logger.Logger,
	db *sqlx.DB,
	snapshot *Snapshot,
	cfg WebConfig) *http.Server {

	delaysService := makeDelaysHandler(log, db, snapshot, cfg.MinRowCount, cfg.DelayUpperBound)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/api/stations", &stationsHandler{log: log, stations: snapshot.Stations}).Methods(http.MethodGet)
	r.Handle("/api/route", &routeHandler{log: log, route: snapshot.Route}).Methods(http.MethodGet)
	r.Handle("/api/mapconfig", &mapConfigHandler{
		log:             log,
		mapboxToken:     cfg.MapboxToken,
		delayUpperBound: cfg.DelayUpperBound,
		defaultFilter:   snapshot.DefaultFilter,
	}).Methods(http.MethodGet)
	r.Handle("/api/delays", delaysService).Methods(http.MethodPost)
	r.Handle("/api/trains", &trainsHandler{log: log, db: db}).Methods(http.MethodGet)
	r.Handle("/api/trip", &tripHandler{log: log, db: db}).Methods(http.MethodPost)
	r.Handle("/api/historical", &historicalHandler{log: log, db: db}).Methods(http.MethodPost)

	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(cfg.HTTPPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

// StartService brings up the web service and exits on a shutdown signal.
func StartService(log *logger.Logger,
	db *sqlx.DB,
	snapshot *Snapshot,
	cfg WebConfig,
	shutdownSignal chan os.Signal) {

	wg := sync.WaitGroup{}

	webServiceShutdown := make(chan bool, 1)

	go runWebService(log, &wg, db, snapshot, cfg, webServiceShutdown)

	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, shutting down subroutines")
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Subroutines shut down, exiting dashboard service")
}

// runWebService starts the dashboard web service and terminates on a
// shutdown signal.
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	db *sqlx.DB,
	snapshot *Snapshot,
	cfg WebConfig,
	shutdownSignal chan bool,
) {
	wg.Add(1)
	defer wg.Done()
	srv := createServer(log, db, snapshot, cfg)
	log.Printf("Starting server on port %d", cfg.HTTPPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()

	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
