package regional

import (
	"testing"
)

func TestDirectionForTrain(t *testing.T) {
	tests := []struct {
		trainNum int
		want     string
	}{
		{trainNum: 66, want: Northbound},
		{trainNum: 172, want: Northbound},
		{trainNum: 95, want: Southbound},
		{trainNum: 135, want: Southbound},
	}
	for _, tt := range tests {
		if got := DirectionForTrain(tt.trainNum); got != tt.want {
			t.Errorf("DirectionForTrain(%d) = %v, want %v", tt.trainNum, got, tt.want)
		}
	}
}

func TestStopNumColumn(t *testing.T) {
	if got := StopNumColumn(Northbound); got != "nb_stop_num" {
		t.Errorf("StopNumColumn(Northbound) = %v, want nb_stop_num", got)
	}
	if got := StopNumColumn(Southbound); got != "sb_stop_num" {
		t.Errorf("StopNumColumn(Southbound) = %v, want sb_stop_num", got)
	}
}

func TestPrecipCategory(t *testing.T) {
	tests := []struct {
		name          string
		weatherType   string
		precipitation float64
		temperature   float64
		want          string
	}{
		{
			name:        "rain marker",
			weatherType: "Light Rain",
			want:        PrecipRain,
		},
		{
			name:        "snow marker",
			weatherType: "Snow, Blowing Or Drifting Snow",
			want:        PrecipSnow,
		},
		{
			name:        "snow marker wins over rain marker",
			weatherType: "Rain, Snow",
			want:        PrecipSnow,
		},
		{
			name: "dry hour",
			want: PrecipNone,
		},
		{
			name:        "marker without measured precipitation",
			weatherType: "Light Rain",
			want:        PrecipRain,
		},
		{
			name:          "unmarked precipitation above freezing",
			weatherType:   "Fog",
			precipitation: 0.04,
			temperature:   41.3,
			want:          PrecipRain,
		},
		{
			name:          "unmarked precipitation at freezing",
			precipitation: 0.01,
			temperature:   32.0,
			want:          PrecipRain,
		},
		{
			name:          "unmarked precipitation below freezing",
			precipitation: 0.02,
			temperature:   28.6,
			want:          PrecipSnow,
		},
		{
			name:        "markerless text without precipitation",
			weatherType: "Mist",
			temperature: 55.0,
			want:        PrecipNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrecipCategory(tt.weatherType, tt.precipitation, tt.temperature)
			if got != tt.want {
				t.Errorf("PrecipCategory(%q, %v, %v) = %v, want %v",
					tt.weatherType, tt.precipitation, tt.temperature, got, tt.want)
			}
		})
	}
}
