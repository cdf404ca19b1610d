package etlmanager

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func Test_weatherFileName(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{location: "Boston,MA", want: "Boston_MA"},
		{location: "New London,CT", want: "New_London_CT"},
		{location: "Baltimore BWI Airport,MD", want: "Baltimore_BWI_Airport_MD"},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := weatherFileName(tt.location); got != tt.want {
				t.Errorf("weatherFileName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_weatherRequestURL(t *testing.T) {
	is := is.New(t)
	day := time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC)
	url := weatherRequestURL("https://example.com/rest/services", "testtoken", "New London,CT", day)

	is.True(strings.HasPrefix(url, "https://example.com/rest/services/weatherdata/history?"))
	is.True(strings.Contains(url, "&aggregateHours=1"))
	is.True(strings.Contains(url, "&startDateTime=2021-07-04T00:00:00"))
	is.True(strings.Contains(url, "&endDateTime=2021-07-04T23:59:00"))
	is.True(strings.Contains(url, "&contentType=csv"))
	is.True(strings.Contains(url, "&location=New%20London,CT"))
	is.True(strings.HasSuffix(url, "&key=testtoken"))
}

const testWeatherCSV = `Address,Date time,Minimum Temperature,Maximum Temperature,Temperature,Precipitation,Cloud Cover,Weather Type
"New London,CT",07/04/2021 00:00:00,68.1,68.1,68.1,0.0,25.0,
"New London,CT",07/04/2021 01:00:00,67.5,67.5,67.5,0.02,88.2,Light Rain
"New London,CT",07/04/2021 02:00:00,67.2,67.2,,0.0,90.1,
"New London,CT",07/04/2021 03:00:00,66.8,66.8,66.8,0.0,,Fog
"New London,CT",07/04/2021 04:00:00,66.1,66.1,66.1,0.0,95.0,Fog
`

func Test_parseWeatherCSV(t *testing.T) {
	is := is.New(t)
	observations, total, err := parseWeatherCSV(strings.NewReader(testWeatherCSV), "test.csv")
	is.NoErr(err)

	// rows missing temperature or cloud cover are dropped
	is.Equal(total, 5)
	is.Equal(len(observations), 3)

	first := observations[0]
	is.Equal(first.Location, "New London, CT")
	is.Equal(first.ObsDatetime, time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC))
	is.Equal(first.Temperature, 68.1)
	is.Equal(first.Precipitation, 0.0)
	is.Equal(first.CloudCover, 25.0)
	is.Equal(first.WeatherType, "")

	second := observations[1]
	is.Equal(second.Precipitation, 0.02)
	is.Equal(second.WeatherType, "Light Rain")

	third := observations[2]
	is.Equal(third.ObsDatetime, time.Date(2021, 7, 4, 4, 0, 0, 0, time.UTC))
	is.Equal(third.WeatherType, "Fog")
}

func Test_parseWeatherCSV_isoTimestamps(t *testing.T) {
	is := is.New(t)
	contents := "Address,Date time,Temperature,Precipitation,Cloud Cover,Weather Type\n" +
		"\"Boston,MA\",2021-07-04T13:00:00,75.2,0.0,10.0,\n"
	observations, total, err := parseWeatherCSV(strings.NewReader(contents), "test.csv")
	is.NoErr(err)
	is.Equal(total, 1)
	is.Equal(len(observations), 1)
	is.Equal(observations[0].Location, "Boston, MA")
	is.Equal(observations[0].ObsDatetime, time.Date(2021, 7, 4, 13, 0, 0, 0, time.UTC))
}
