package etlmanager

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/nerail/regionalotp/business/data/regional"
)

const testStatusPage = `<html><body>
<table>
<tr><td colspan="7">Train 95 Status History</td></tr>
<tr><th>Train #</th><th>Origin Date</th><th>Sch Dp</th><th>Act Dp</th>
<th>Comments</th><th>Service Disruption</th><th>Cancellations</th></tr>
<tr><td>95</td><td>7/4/2021</td><td>7/4/2021 11:55 PM (Su)</td><td>12:10AM</td>
<td>Departed: 15 min late.</td><td></td><td></td></tr>
<tr><td>95</td><td>7/5/2021</td><td>7/5/2021 11:55 PM (Mo)</td><td>11:52PM</td>
<td>Departed: 3 min early.</td><td></td><td></td></tr>
<tr><td>95</td><td>7/6/2021</td></tr>
<tr><td colspan="7">Page generated in 0.1 seconds</td></tr>
</table>
</body></html>`

const testEmptyStatusPage = `<html><body>
<table>
<tr><td>Train 95 Status History</td></tr>
<tr><th>Train #</th></tr>
<tr><td>No data found for this time period</td></tr>
</table>
</body></html>`

const testNoTrainNumPage = `<html><body>
<table>
<tr><td>Status History</td></tr>
<tr><th>Train #</th></tr>
<tr><td>a</td></tr>
<tr><td>b</td></tr>
</table>
</body></html>`

func Test_parseStatusPage(t *testing.T) {
	is := is.New(t)

	table, err := parseStatusPage(strings.NewReader(testStatusPage))
	is.NoErr(err)
	is.True(table != nil)

	is.Equal(table.trainNum, 95)
	is.Equal(table.direction, regional.Southbound)
	is.Equal(len(table.headers), 7)
	is.Equal(table.headers[0], "Train #")
	is.Equal(table.headers[2], "Sch Dp")

	// the short row and the footer row are dropped, two data rows remain
	is.Equal(len(table.rows), 2)
	is.Equal(table.cellValue(table.rows[0], "Origin Date"), "7/4/2021")
	is.Equal(table.cellValue(table.rows[0], "Act Dp"), "12:10AM")
	is.Equal(table.cellValue(table.rows[1], "Act Dp"), "11:52PM")
	is.Equal(table.cellValue(table.rows[1], "Not A Header"), "")
}

func Test_parseStatusPage_noData(t *testing.T) {
	is := is.New(t)
	table, err := parseStatusPage(strings.NewReader(testEmptyStatusPage))
	is.NoErr(err)
	is.True(table == nil)
}

func Test_parseStatusPage_missingTrainNum(t *testing.T) {
	_, err := parseStatusPage(strings.NewReader(testNoTrainNumPage))
	if err == nil {
		t.Errorf("expected error parsing page with no train number in title")
	}
}
