package dashboard

import (
	"testing"

	"github.com/matryer/is"
	"github.com/nerail/regionalotp/business/data/regional"
)

func Test_continuousColor(t *testing.T) {
	tests := []struct {
		name     string
		intermed float64
		want     string
	}{
		{name: "bottom of scale", intermed: 0.0, want: "rgb(165, 0, 38)"},
		{name: "below scale clamps", intermed: -0.75, want: "rgb(165, 0, 38)"},
		{name: "top of scale", intermed: 1.0, want: "rgb(0, 104, 55)"},
		{name: "above scale clamps", intermed: 2.5, want: "rgb(0, 104, 55)"},
		{name: "exact midpoint", intermed: 0.5, want: "rgb(255, 255, 191)"},
		{name: "between midpoint and next cutoff", intermed: 0.55, want: "rgb(236, 247, 165)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := continuousColor(tt.intermed); got != tt.want {
				t.Errorf("continuousColor(%v) = %v, want %v", tt.intermed, got, tt.want)
			}
		})
	}
}

func Test_delayColor(t *testing.T) {
	is := is.New(t)
	upperBound := 20.0

	// on time is the green end, at or past the bound is the red end
	is.Equal(delayColor(0, upperBound), "rgb(0, 104, 55)")
	is.Equal(delayColor(-5, upperBound), "rgb(0, 104, 55)")
	is.Equal(delayColor(20, upperBound), "rgb(165, 0, 38)")
	is.Equal(delayColor(45, upperBound), "rgb(165, 0, 38)")
	is.Equal(delayColor(10, upperBound), "rgb(255, 255, 191)")
}

func Test_colorGroupColumn(t *testing.T) {
	if got := colorGroupColumn(regional.Northbound); got != "nb_station_group" {
		t.Errorf("colorGroupColumn(Northbound) = %v, want nb_station_group", got)
	}
	if got := colorGroupColumn(regional.Southbound); got != "sb_station_group" {
		t.Errorf("colorGroupColumn(Southbound) = %v, want sb_station_group", got)
	}
}

func Test_stationColors(t *testing.T) {
	is := is.New(t)
	route := []regional.RoutePoint{
		{NbStationGroup: "BOS", SbStationGroup: "BOS"},
		{NbStationGroup: "PVD", SbStationGroup: "PVD"},
		{NbStationGroup: "NHV", SbStationGroup: "NHV"},
		{NbStationGroup: "WAS", SbStationGroup: "WAS"},
	}
	rows := []regional.StationDelaySummary{
		{Direction: regional.Northbound, StationCode: "PVD", ArrivalOrDeparture: regional.Departure, AverageDelay: 0, NumRecords: 40},
		{Direction: regional.Northbound, StationCode: "NHV", ArrivalOrDeparture: regional.Arrival, AverageDelay: 10, NumRecords: 35},
		{Direction: regional.Northbound, StationCode: "BOS", ArrivalOrDeparture: regional.Arrival, AverageDelay: 20, NumRecords: 38},
	}

	colors := stationColors(route, rows, regional.Northbound, 20)

	is.Equal(len(colors), 4)
	// departure aggregates drive the color
	is.Equal(colors["PVD"], "rgb(0, 104, 55)")
	// NHV only has an arrival row, which is ignored off the arrival terminal
	is.Equal(colors["NHV"], defaultStationColor)
	// the northbound arrival terminal uses its arrival aggregate
	is.Equal(colors["BOS"], "rgb(165, 0, 38)")
	// no data at all keeps the default line color
	is.Equal(colors["WAS"], defaultStationColor)
}
