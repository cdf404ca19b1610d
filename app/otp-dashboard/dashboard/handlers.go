package dashboard

import (
	"encoding/json"
	logger "log"
	"net/http"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nerail/regionalotp/business/data/regional"
)

// delayRequest is the filter surface of the map view.
type delayRequest struct {
	Direction            string   `json:"direction"`
	WeekDays             []string `json:"week_days"`
	PrecipTypes          []string `json:"precip_types"`
	MinDelay             *int     `json:"min_delay"`
	MaxDelay             *int     `json:"max_delay"`
	ExcludeDisruptions   bool     `json:"exclude_disruptions"`
	ExcludeCancellations bool     `json:"exclude_cancellations"`
}

// delayResponse carries the aggregate rows plus the per-station colors for
// the map. Retained marks a soft no-op: the filter matched too few rows and
// the previously served result is returned unchanged.
type delayResponse struct {
	Direction  string                         `json:"direction"`
	ColorGroup string                         `json:"color_group"`
	Rows       []regional.StationDelaySummary `json:"rows"`
	Colors     map[string]string              `json:"colors"`
	NumRecords int                            `json:"num_records"`
	Retained   bool                           `json:"retained"`
}

// delaysHandler answers aggregate delay queries. It keeps the last usable
// response so an empty or below-threshold result can be served as a no-op
// instead of an error.
type delaysHandler struct {
	log             *logger.Logger
	db              *sqlx.DB
	route           []regional.RoutePoint
	minRowCount     int
	delayUpperBound float64

	mu           sync.Mutex
	lastResponse *delayResponse
}

func makeDelaysHandler(log *logger.Logger,
	db *sqlx.DB,
	snapshot *Snapshot,
	minRowCount int,
	delayUpperBound float64) *delaysHandler {

	h := &delaysHandler{
		log:             log,
		db:              db,
		route:           snapshot.Route,
		minRowCount:     minRowCount,
		delayUpperBound: delayUpperBound,
	}
	if len(snapshot.DefaultDelays) > 0 {
		h.lastResponse = h.buildResponse(snapshot.DefaultFilter.Direction, snapshot.DefaultDelays)
	}
	return h
}

func (h *delaysHandler) buildResponse(direction string, rows []regional.StationDelaySummary) *delayResponse {
	numRecords := 0
	for _, row := range rows {
		numRecords += row.NumRecords
	}
	return &delayResponse{
		Direction:  direction,
		ColorGroup: colorGroupColumn(direction),
		Rows:       rows,
		Colors:     stationColors(h.route, rows, direction, h.delayUpperBound),
		NumRecords: numRecords,
	}
}

// ServeHTTP implements the delay aggregate endpoint.
func (h *delaysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request delayRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if request.Direction != regional.Northbound && request.Direction != regional.Southbound {
		http.Error(w, "direction must be Northbound or Southbound", http.StatusBadRequest)
		return
	}
	if len(request.WeekDays) == 0 || len(request.PrecipTypes) == 0 {
		http.Error(w, "week_days and precip_types must not be empty", http.StatusBadRequest)
		return
	}

	filter := regional.DelayFilter{
		Direction:            request.Direction,
		WeekDays:             request.WeekDays,
		PrecipTypes:          request.PrecipTypes,
		MinDelay:             request.MinDelay,
		MaxDelay:             request.MaxDelay,
		ExcludeDisruptions:   request.ExcludeDisruptions,
		ExcludeCancellations: request.ExcludeCancellations,
	}
	logQuery(h.log, h.db, "delays", request)

	rows, err := regional.AggregateDelays(h.db, filter)
	if err != nil {
		h.log.Printf("aggregate delay query failed: %v", err)
		http.Error(w, "error serving request", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(rows) < h.minRowCount {
		// too little data to display, keep showing the previous result
		if h.lastResponse == nil {
			writeJSON(h.log, w, delayResponse{Retained: true})
			return
		}
		retained := *h.lastResponse
		retained.Retained = true
		writeJSON(h.log, w, retained)
		return
	}

	response := h.buildResponse(request.Direction, rows)
	h.lastResponse = response
	writeJSON(h.log, w, *response)
}

// tripRequest selects a single past trip by origin date and train number.
type tripRequest struct {
	OriginDate string `json:"origin_date"`
	TrainNum   int    `json:"train_num"`
}

// tripHandler answers single trip lookups.
type tripHandler struct {
	log *logger.Logger
	db  *sqlx.DB
}

func (h *tripHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request tripRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	originDate, err := time.Parse("2006-01-02", request.OriginDate)
	if err != nil {
		http.Error(w, "origin_date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	logQuery(h.log, h.db, "trip", request)

	stops, err := regional.SingleTripStops(h.db, originDate, request.TrainNum)
	if err != nil {
		h.log.Printf("single trip query failed: %v", err)
		http.Error(w, "error serving request", http.StatusInternalServerError)
		return
	}
	writeJSON(h.log, w, map[string]interface{}{
		"origin_date": request.OriginDate,
		"train_num":   request.TrainNum,
		"direction":   regional.DirectionForTrain(request.TrainNum),
		"stops":       stops,
	})
}

// historicalRequest selects the historical comparison for one train number
// over an inclusive range of origin years.
type historicalRequest struct {
	TrainNum  int `json:"train_num"`
	FirstYear int `json:"first_year"`
	LastYear  int `json:"last_year"`
}

// historicalHandler answers historical average queries.
type historicalHandler struct {
	log *logger.Logger
	db  *sqlx.DB
}

func (h *historicalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request historicalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if request.FirstYear > request.LastYear {
		http.Error(w, "first_year must not be after last_year", http.StatusBadRequest)
		return
	}
	logQuery(h.log, h.db, "historical", request)

	averages, err := regional.HistoricalAverages(h.db, request.TrainNum, request.FirstYear, request.LastYear)
	if err != nil {
		h.log.Printf("historical average query failed: %v", err)
		http.Error(w, "error serving request", http.StatusInternalServerError)
		return
	}
	writeJSON(h.log, w, map[string]interface{}{
		"train_num": request.TrainNum,
		"direction": regional.DirectionForTrain(request.TrainNum),
		"rows":      averages,
	})
}

// trainsHandler lists the train numbers available for one origin date.
type trainsHandler struct {
	log *logger.Logger
	db  *sqlx.DB
}

func (h *trainsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dateValue := r.FormValue("date")
	originDate, err := time.Parse("2006-01-02", dateValue)
	if err != nil {
		http.Error(w, "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	trainNums, err := regional.TrainNumsOnDate(h.db, originDate)
	if err != nil {
		h.log.Printf("train number query failed: %v", err)
		http.Error(w, "error serving request", http.StatusInternalServerError)
		return
	}
	if trainNums == nil {
		trainNums = []int{}
	}
	writeJSON(h.log, w, map[string]interface{}{
		"date":       dateValue,
		"train_nums": trainNums,
	})
}

// logQuery records a user-submitted primary query. Logging failures do not
// affect the request being served.
func logQuery(log *logger.Logger, db *sqlx.DB, endpoint string, request interface{}) {
	content, err := json.Marshal(request)
	if err != nil {
		return
	}
	if err = regional.RecordQueryLog(db, endpoint+" "+string(content)); err != nil {
		log.Printf("unable to record query log entry: %v", err)
	}
}

func writeJSON(log *logger.Logger, w http.ResponseWriter, payload interface{}) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		log.Printf("error marshaling response to json: %v", err)
		http.Error(w, "error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(jsonData); err != nil {
		log.Printf("error writing json response: %v", err)
	}
}
