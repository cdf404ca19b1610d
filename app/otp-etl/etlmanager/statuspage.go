package etlmanager

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nerail/regionalotp/business/data/regional"
)

// statusColumnCount is the cell count of a well formed data row in the
// archive's status table. Rows with any other cell count are partial or
// malformed and are skipped.
const statusColumnCount = 7

var numberPattern = regexp.MustCompile(`[0-9]+`)

// statusTable is the parsed form of one archive page: the direction derived
// from the train number in the table title, the header names from the second
// row, and the usable data rows.
type statusTable struct {
	trainNum  int
	direction string
	headers   []string
	rows      [][]string
}

// parseStatusPage extracts the status table from one fetched HTML page.
// The first table row holds the page title containing the train number, the
// second row holds the column headers, all later rows are data. Data rows
// whose cell count differs from statusColumnCount are skipped silently.
// Returns nil without error when the page holds no usable rows, which is
// the archive's shape for a station with no data in the period.
func parseStatusPage(r io.Reader) (*statusTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing status page html: %w", err)
	}

	tableRows := doc.Find("tr")
	if tableRows.Length() <= 3 {
		return nil, nil
	}

	title := tableRows.Eq(0).Text()
	numString := numberPattern.FindString(title)
	if numString == "" {
		return nil, fmt.Errorf("no train number found in table title %q", strings.TrimSpace(title))
	}
	trainNum, err := strconv.Atoi(numString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse train number from table title %q: %w", title, err)
	}

	var headers []string
	tableRows.Eq(1).Children().Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})

	table := statusTable{
		trainNum:  trainNum,
		direction: regional.DirectionForTrain(trainNum),
		headers:   headers,
	}

	for i := 2; i < tableRows.Length(); i++ {
		var cells []string
		tableRows.Eq(i).Children().Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) != statusColumnCount {
			continue
		}
		table.rows = append(table.rows, cells)
	}
	return &table, nil
}

// cellValue retrieves the cell under the named header.
// returns empty string if the header is not present.
func (t *statusTable) cellValue(cells []string, name string) string {
	for i, header := range t.headers {
		if header == name && i < len(cells) {
			return cells[i]
		}
	}
	return ""
}
