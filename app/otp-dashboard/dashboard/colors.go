package dashboard

import (
	"fmt"

	"github.com/nerail/regionalotp/business/data/regional"
)

// defaultStationColor is the neutral line color used for stations with no
// data in the current result.
const defaultStationColor = "rgb(0, 30, 105)"

// divergingScale is the red-yellow-green diverging colorscale used for the
// map view, evenly spaced over [0, 1] from worst to best.
var divergingScale = []struct {
	cutoff float64
	r      float64
	g      float64
	b      float64
}{
	{0.0, 165, 0, 38},
	{0.1, 215, 48, 39},
	{0.2, 244, 109, 67},
	{0.3, 253, 174, 97},
	{0.4, 254, 224, 139},
	{0.5, 255, 255, 191},
	{0.6, 217, 239, 139},
	{0.7, 166, 217, 106},
	{0.8, 102, 189, 99},
	{0.9, 26, 152, 80},
	{1.0, 0, 104, 55},
}

// continuousColor computes the intermediate color for a value in [0, 1] on
// the diverging scale. Values outside the range clamp to the scale ends.
func continuousColor(intermed float64) string {
	first := divergingScale[0]
	last := divergingScale[len(divergingScale)-1]
	if intermed <= first.cutoff {
		return rgbString(first.r, first.g, first.b)
	}
	if intermed >= last.cutoff {
		return rgbString(last.r, last.g, last.b)
	}

	low := first
	for _, entry := range divergingScale[1:] {
		if intermed > entry.cutoff {
			low = entry
			continue
		}
		fraction := (intermed - low.cutoff) / (entry.cutoff - low.cutoff)
		return rgbString(
			low.r+(entry.r-low.r)*fraction,
			low.g+(entry.g-low.g)*fraction,
			low.b+(entry.b-low.b)*fraction)
	}
	return rgbString(last.r, last.g, last.b)
}

func rgbString(r float64, g float64, b float64) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", int(r+0.5), int(g+0.5), int(b+0.5))
}

// delayColor maps a mean delay in minutes to a color: zero or early delays
// sit at the green end, delays at or beyond upperBound at the red end.
// upperBound is a display tunable, not a data contract.
func delayColor(delayMinutes float64, upperBound float64) string {
	return continuousColor((upperBound - delayMinutes) / upperBound)
}

// colorGroupColumn names the route geometry grouping column matching the
// queried direction.
func colorGroupColumn(direction string) string {
	if direction == regional.Northbound {
		return "nb_station_group"
	}
	return "sb_station_group"
}

// stationColors assigns a color per station group for the map. Groups with
// no result rows keep the neutral default. For each station the departure
// aggregate is used, except the direction's arrival terminal which only has
// arrivals.
func stationColors(route []regional.RoutePoint,
	rows []regional.StationDelaySummary,
	direction string,
	upperBound float64) map[string]string {

	arrivalStation := "WAS"
	if direction == regional.Northbound {
		arrivalStation = "BOS"
	}

	colors := make(map[string]string)
	for _, point := range route {
		group := point.SbStationGroup
		if direction == regional.Northbound {
			group = point.NbStationGroup
		}
		colors[group] = defaultStationColor
	}

	for _, row := range rows {
		wantEvent := regional.Departure
		if row.StationCode == arrivalStation {
			wantEvent = regional.Arrival
		}
		if row.ArrivalOrDeparture != wantEvent {
			continue
		}
		colors[row.StationCode] = delayColor(float64(row.AverageDelay), upperBound)
	}
	return colors
}
