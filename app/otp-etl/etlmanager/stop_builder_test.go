package etlmanager

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/nerail/regionalotp/business/data/regional"
)

func getTestTime(str string) time.Time {
	result, _ := time.Parse("2006-01-02 15:04", str)
	return result
}

func Test_composeActualDateTime(t *testing.T) {
	tests := []struct {
		name     string
		sched    time.Time
		actClock time.Time
		want     time.Time
	}{
		{
			name:     "same day on time",
			sched:    getTestTime("2021-07-04 14:30"),
			actClock: getTestTime("0000-01-01 14:35"),
			want:     getTestTime("2021-07-04 14:35"),
		},
		{
			name:     "same day early",
			sched:    getTestTime("2021-07-04 14:30"),
			actClock: getTestTime("0000-01-01 14:21"),
			want:     getTestTime("2021-07-04 14:21"),
		},
		{
			name:     "actual rolled past midnight",
			sched:    getTestTime("2021-07-04 23:55"),
			actClock: getTestTime("0000-01-01 00:10"),
			want:     getTestTime("2021-07-05 00:10"),
		},
		{
			name:     "actual before midnight of early morning schedule",
			sched:    getTestTime("2021-07-05 00:10"),
			actClock: getTestTime("0000-01-01 23:55"),
			want:     getTestTime("2021-07-04 23:55"),
		},
		{
			name:     "large same day delay is not shifted",
			sched:    getTestTime("2021-07-04 06:00"),
			actClock: getTestTime("0000-01-01 15:30"),
			want:     getTestTime("2021-07-04 15:30"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := composeActualDateTime(tt.sched, tt.actClock)
			if !got.Equal(tt.want) {
				t.Errorf("composeActualDateTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_delayMinutes(t *testing.T) {
	tests := []struct {
		name  string
		sched time.Time
		act   time.Time
		want  int
	}{
		{
			name:  "on time",
			sched: getTestTime("2021-07-04 14:30"),
			act:   getTestTime("2021-07-04 14:30"),
			want:  0,
		},
		{
			name:  "late across midnight",
			sched: getTestTime("2021-07-04 23:55"),
			act:   getTestTime("2021-07-05 00:10"),
			want:  15,
		},
		{
			name:  "early",
			sched: getTestTime("2021-07-04 14:30"),
			act:   getTestTime("2021-07-04 14:22"),
			want:  -8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := delayMinutes(tt.sched, tt.act); got != tt.want {
				t.Errorf("delayMinutes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_parseArchiveDateTime(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		want        time.Time
		expectError bool
	}{
		{
			name:  "plain",
			value: "7/4/2021 11:55 PM",
			want:  getTestTime("2021-07-04 23:55"),
		},
		{
			name:  "trailing weekday annotation",
			value: "7/4/2021 11:55 PM (Su)",
			want:  getTestTime("2021-07-04 23:55"),
		},
		{
			name:  "no space before meridiem",
			value: "12/31/2021 8:05AM",
			want:  getTestTime("2021-12-31 08:05"),
		},
		{
			name:        "date only",
			value:       "7/4/2021",
			expectError: true,
		},
		{
			name:        "empty",
			value:       "",
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArchiveDateTime(tt.value)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error parsing %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error parsing %q: %v", tt.value, err)
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseArchiveDateTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_parseArchiveTime(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		wantClock   string
		expectError bool
	}{
		{
			name:      "no space",
			value:     "12:10AM",
			wantClock: "00:10",
		},
		{
			name:      "with space",
			value:     "3:47 PM",
			wantClock: "15:47",
		},
		{
			name:        "empty",
			value:       "",
			expectError: true,
		},
		{
			name:        "marker text",
			value:       "SD",
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArchiveTime(tt.value)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error parsing %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error parsing %q: %v", tt.value, err)
				return
			}
			if got.Format("15:04") != tt.wantClock {
				t.Errorf("parseArchiveTime() = %v, want %v", got.Format("15:04"), tt.wantClock)
			}
		})
	}
}

func Test_parseFlag(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		marker      string
		want        int
		expectError bool
	}{
		{name: "empty", value: "", marker: "SD", want: 0},
		{name: "disruption marker", value: "SD", marker: "SD", want: 1},
		{name: "cancellation marker", value: "C", marker: "C", want: 1},
		{name: "wrong marker", value: "C", marker: "SD", expectError: true},
		{name: "garbage", value: "yes", marker: "C", expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlag(tt.value, tt.marker)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for flag value %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error for flag value %q: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("parseFlag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_buildStop(t *testing.T) {
	is := is.New(t)
	table := &statusTable{
		trainNum:  95,
		direction: regional.Southbound,
		headers: []string{"Train #", "Origin Date", "Sch Dp", "Act Dp",
			"Comments", "Service Disruption", "Cancellations"},
	}

	cells := []string{"95", "7/4/2021", "7/4/2021 11:55 PM (Su)", "12:10AM", "Departed: 15 min late.", "", ""}
	stop, err := buildStop(regional.Departure, "NHV", table, cells)
	is.NoErr(err)

	is.Equal(stop.ArrivalOrDeparture, regional.Departure)
	is.Equal(stop.TrainNum, 95)
	is.Equal(stop.StationCode, "NHV")
	is.Equal(stop.Direction, regional.Southbound)
	is.Equal(stop.OriginDate, getTestTime("2021-07-04 00:00"))
	is.Equal(stop.OriginYear, 2021)
	is.Equal(stop.OriginMonth, 7)
	is.Equal(stop.OriginWeekDay, "Sunday")
	is.Equal(stop.FullSchedDatetime, getTestTime("2021-07-04 23:55"))
	is.Equal(stop.SchedDate, getTestTime("2021-07-04 00:00"))
	is.Equal(stop.SchedWeekDay, "Sunday")
	is.Equal(stop.SchedTime, "23:55")
	is.Equal(stop.ActTime, "00:10")
	// actual crossed midnight, so the delay is 15 minutes not -23 hours
	is.Equal(stop.FullActDatetime, getTestTime("2021-07-05 00:10"))
	is.Equal(stop.TimedeltaFromSched, 15)
	is.Equal(stop.ServiceDisruption, 0)
	is.Equal(stop.Cancellations, 0)
}

func Test_buildStop_flagsAndErrors(t *testing.T) {
	table := &statusTable{
		trainNum:  172,
		direction: regional.Northbound,
		headers: []string{"Train #", "Origin Date", "Sch Ar", "Act Ar",
			"Comments", "Service Disruption", "Cancellations"},
	}
	tests := []struct {
		name           string
		cells          []string
		wantDisruption int
		wantCancelled  int
		expectError    bool
	}{
		{
			name:           "disrupted arrival",
			cells:          []string{"172", "3/15/2022", "3/15/2022 6:40 PM", "7:02PM", "", "SD", ""},
			wantDisruption: 1,
			wantCancelled:  0,
		},
		{
			name:          "cancelled arrival",
			cells:         []string{"172", "3/15/2022", "3/15/2022 6:40 PM", "6:40PM", "", "", "C"},
			wantCancelled: 1,
		},
		{
			name:        "missing actual time",
			cells:       []string{"172", "3/15/2022", "3/15/2022 6:40 PM", "", "", "", ""},
			expectError: true,
		},
		{
			name:        "unparsable origin date",
			cells:       []string{"172", "soon", "3/15/2022 6:40 PM", "6:40PM", "", "", ""},
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stop, err := buildStop(regional.Arrival, "BOS", table, tt.cells)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error building stop from %v", tt.cells)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error building stop: %v", err)
				return
			}
			if stop.ServiceDisruption != tt.wantDisruption {
				t.Errorf("ServiceDisruption = %v, want %v", stop.ServiceDisruption, tt.wantDisruption)
			}
			if stop.Cancellations != tt.wantCancelled {
				t.Errorf("Cancellations = %v, want %v", stop.Cancellations, tt.wantCancelled)
			}
		})
	}
}
