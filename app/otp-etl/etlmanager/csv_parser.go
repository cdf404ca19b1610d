package etlmanager

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvFileParser reads a csv file with a header row and provides typed column
// access by header name for the current row. Errors while extracting data
// types are stored with the line number they happened on.
type csvFileParser struct {
	filename       string
	line           int
	csvReader      *csv.Reader
	headers        []string
	currentRecords []string
	errors         []error
}

// makeCSVFileParser creates a new csvFileParser from an io.Reader, consuming
// the header row. Rows with varying field counts are tolerated; short rows
// surface as missing values.
func makeCSVFileParser(r io.Reader, filename string) (*csvFileParser, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to load header in %s: %v", filename, err)
	}
	removeBOMIfPresent(headers)

	return &csvFileParser{
		filename:       filename,
		line:           1,
		csvReader:      csvReader,
		headers:        headers,
		currentRecords: headers,
	}, nil
}

func removeBOMIfPresent(headers []string) {
	if len(headers) < 1 || len(headers[0]) < 1 {
		return
	}
	runes := []rune(headers[0])
	if runes[0] == '\uFEFF' {
		headers[0] = string(runes[1:])
	}
}

// nextLine moves csvReader one line forward
func (C *csvFileParser) nextLine() error {
	var err error
	C.currentRecords, err = C.csvReader.Read()
	C.line += 1
	return err
}

// getError retrieves the accumulated errors encountered while parsing
func (C *csvFileParser) getError() error {
	if len(C.errors) > 0 {
		return fmt.Errorf("in file %v, line %v: %v", C.filename, C.line, C.errors)
	}
	return nil
}

// getString retrieves a string column from the current row
// returns empty string if missing
func (C *csvFileParser) getString(name string, optional bool) string {
	result, err := findValue(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
	}
	if result == nil {
		return ""
	}
	return *result
}

// getInt retrieves an int column from the current row
// returns 0 if missing
func (C *csvFileParser) getInt(name string, optional bool) int {
	value, err := findValue(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
		return 0
	}
	if value == nil || len(*value) == 0 {
		return 0
	}
	result, err := strconv.Atoi(*value)
	if err != nil {
		C.errors = append(C.errors, csvError(name, err))
		return 0
	}
	return result
}

// getFloat64 retrieves a float64 column from the current row
// returns 0 if missing
func (C *csvFileParser) getFloat64(name string, optional bool) float64 {
	result := C.getFloat64Pointer(name, optional)
	if result == nil {
		return 0
	}
	return *result
}

// getFloat64Pointer retrieves a float64 pointer from the current row
// returns nil if the value is missing or empty
func (C *csvFileParser) getFloat64Pointer(name string, optional bool) *float64 {
	value, err := findValue(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
		return nil
	}
	if value == nil || len(*value) == 0 {
		return nil
	}
	result, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		C.errors = append(C.errors, csvError(name, err))
		return nil
	}
	return &result
}

// getDateTimePointer retrieves a timestamp column from the current row,
// trying the accepted layouts in order
// returns nil if the value is missing or unparseable
func (C *csvFileParser) getDateTimePointer(name string, layouts []string) *time.Time {
	value, err := findValue(name, C.currentRecords, C.headers, true)
	if err != nil {
		C.errors = append(C.errors, err)
		return nil
	}
	if value == nil || len(*value) == 0 {
		return nil
	}
	for _, layout := range layouts {
		if result, err := time.Parse(layout, *value); err == nil {
			return &result
		}
	}
	C.errors = append(C.errors, csvError(name, fmt.Errorf("unrecognized timestamp %q", *value)))
	return nil
}

// find index of elements that matches name string. returns -1 if not found
func indexOf(name string, elements []string) int {
	for i, value := range elements {
		if name == value {
			return i
		}
	}
	return -1
}

// findValue retrieves string value from csv records
// returns nil if record isn't present and optional is true
func findValue(name string, records []string, headers []string, optional bool) (*string, error) {
	index := indexOf(name, headers)
	if index < 0 {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to find header: %s", name)
	}
	if len(records) <= index {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("records are too short to find header at %v named %s", index, name)
	}
	value := records[index]
	if len(value) == 0 && !optional {
		return nil, fmt.Errorf("missing required value in column %v", name)
	}
	return &value, nil
}

// csvError convenience method for formatting an error and column name in csv file.
func csvError(name string, err error) error {
	return fmt.Errorf("unable to parse column %s, error: %v ", name, err)
}
