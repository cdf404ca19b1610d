package etlmanager

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nerail/regionalotp/business/data/regional"
)

// Default train number groups per direction. Short date ranges can be
// queried with a single group; long historical pulls should use smaller
// groups to bound the size of each response.
var northboundTrainGroups = [][]int{
	{66, 82, 86, 88, 94, 132, 96, 176, 178, 190, 194, 150, 160, 162, 164, 166, 168, 170, 172, 174},
}

var southboundTrainGroups = [][]int{
	{67, 83, 93, 95, 99, 135, 65, 149, 169, 177, 137, 139, 161, 163, 165, 167, 171, 173, 175, 195},
}

// Stations queried for arrival events. The direction's terminal (BOS
// northbound, WAS southbound) is appended per group.
var arriveStations = []string{"NYP", "NHV", "PHL"}

// Stations queried for departure events, north to south. The opposite
// terminal is appended per group.
var departStations = []string{
	"BBY", "RTE", "PVD", "KIN", "WLY", "MYS", "NLC", "OSB", "NHV",
	"BRP", "STM", "NRO", "NYP", "NWK", "EWR", "MET", "TRE", "PHL",
	"WIL", "ABE", "BAL", "BWI", "NCR",
}

// stationRequest pairs a station code with the archive request URL that
// covers it.
type stationRequest struct {
	stationCode string
	url         string
}

// trainNumsParam encodes a train number group for the archive query string.
func trainNumsParam(trainNums []int) string {
	parts := make([]string, 0, len(trainNums))
	for _, num := range trainNums {
		parts = append(parts, strconv.Itoa(num))
	}
	return strings.Join(parts, "%2C")
}

// datesParam encodes the requested date range for the archive query string.
func datesParam(start time.Time, end time.Time) string {
	return fmt.Sprintf("&date_start=%d%%2F%d%%2F%d&date_end=%d%%2F%d%%2F%d",
		start.Month(), start.Day(), start.Year(),
		end.Month(), end.Day(), end.Year())
}

// buildStatusRequests produces one request per (station, train group,
// arrival-or-departure) for the date range. Pure string construction, no
// network I/O. The result maps regional.Arrival and regional.Departure to
// lists of station requests.
func buildStatusRequests(baseURL string,
	northbound [][]int,
	southbound [][]int,
	start time.Time,
	end time.Time) map[string][]stationRequest {

	const dayFilters = "&df1=1&df2=1&df3=1&df4=1&df5=1&df6=1&df7=1"
	const sortArrivals = "&sort=schAr"
	const sortDepartures = "&sort=schDp"
	const urlEnd = "&sort_dir=ASC&co=gt&limit_mins=&dfon=1"
	dates := datesParam(start, end)

	requests := map[string][]stationRequest{
		regional.Arrival:   {},
		regional.Departure: {},
	}

	addGroup := func(trains string, arriveTerminal string, departTerminal string) {
		for _, station := range append(append([]string{}, departStations...), departTerminal) {
			url := baseURL + "?train_num=" + trains + dates + "&station=" + station +
				dayFilters + sortDepartures + urlEnd
			requests[regional.Departure] = append(requests[regional.Departure],
				stationRequest{stationCode: station, url: url})
		}
		for _, station := range append(append([]string{}, arriveStations...), arriveTerminal) {
			url := baseURL + "?train_num=" + trains + dates + "&station=" + station +
				dayFilters + sortArrivals + urlEnd
			requests[regional.Arrival] = append(requests[regional.Arrival],
				stationRequest{stationCode: station, url: url})
		}
	}

	for _, trainGroup := range northbound {
		addGroup(trainNumsParam(trainGroup), "BOS", "WAS")
	}
	for _, trainGroup := range southbound {
		addGroup(trainNumsParam(trainGroup), "WAS", "BOS")
	}
	return requests
}
