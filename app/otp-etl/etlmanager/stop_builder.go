package etlmanager

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nerail/regionalotp/business/data/regional"
)

// maxExpectedDelay bounds the plausible distance between scheduled and
// actual time. Because the archive reports actual time without a date, a
// naive delta beyond this threshold means the actual event crossed midnight
// relative to the scheduled date and the calendar date must be shifted.
const maxExpectedDelay = 10 * time.Hour

// Tolerant extraction patterns. Archive cells can carry trailing
// annotations such as a weekday abbreviation after the timestamp.
var (
	datePattern     = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	dateTimePattern = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2} ?[AP]M`)
	timePattern     = regexp.MustCompile(`\d{1,2}:\d{2} ?[AP]M`)
)

// parseArchiveDate parses a date-only archive cell such as "7/4/2021".
func parseArchiveDate(value string) (time.Time, error) {
	match := datePattern.FindString(value)
	if match == "" {
		return time.Time{}, fmt.Errorf("no date found in %q", value)
	}
	return time.Parse("1/2/2006", match)
}

// parseArchiveDateTime parses a date plus 12-hour-time archive cell such as
// "7/4/2021 11:55 PM (Su)".
func parseArchiveDateTime(value string) (time.Time, error) {
	match := dateTimePattern.FindString(value)
	if match == "" {
		return time.Time{}, fmt.Errorf("no datetime found in %q", value)
	}
	if t, err := time.Parse("1/2/2006 3:04 PM", match); err == nil {
		return t, nil
	}
	return time.Parse("1/2/2006 3:04PM", match)
}

// parseArchiveTime parses a time-only archive cell such as "12:10AM".
func parseArchiveTime(value string) (time.Time, error) {
	match := timePattern.FindString(value)
	if match == "" {
		return time.Time{}, fmt.Errorf("no time found in %q", value)
	}
	if t, err := time.Parse("3:04PM", strings.ReplaceAll(match, " ", "")); err == nil {
		return t, nil
	}
	return time.Parse("3:04 PM", match)
}

// composeActualDateTime combines the scheduled calendar date with the
// actual clock time, then corrects for midnight rollover: when the naive
// delta is more than maxExpectedDelay behind schedule the actual event
// happened after midnight, so a day is added; when it is more than
// maxExpectedDelay ahead the event happened before midnight, so a day is
// subtracted. Applied per row since only rows near midnight are affected.
func composeActualDateTime(sched time.Time, actClock time.Time) time.Time {
	act := time.Date(sched.Year(), sched.Month(), sched.Day(),
		actClock.Hour(), actClock.Minute(), 0, 0, sched.Location())

	delta := act.Sub(sched)
	if delta < -maxExpectedDelay {
		act = act.AddDate(0, 0, 1)
	} else if delta > maxExpectedDelay {
		act = act.AddDate(0, 0, -1)
	}
	return act
}

// delayMinutes is the signed delay in whole minutes, negative when early.
func delayMinutes(sched time.Time, act time.Time) int {
	return int(math.Round(act.Sub(sched).Seconds() / 60))
}

// parseFlag maps the archive's textual event markers to integer flags:
// the marker text is 1, empty string is 0, anything else is malformed.
func parseFlag(value string, marker string) (int, error) {
	switch value {
	case "":
		return 0, nil
	case marker:
		return 1, nil
	default:
		return 0, fmt.Errorf("unexpected %s flag value %q", marker, value)
	}
}

// buildStop normalizes one parsed table row into a regional.Stop.
// Returns an error when any required field cannot be parsed; the caller
// drops such rows rather than storing partial records.
func buildStop(arrivalOrDeparture string,
	stationCode string,
	table *statusTable,
	cells []string) (*regional.Stop, error) {

	schedHeader, actHeader := "Sch Dp", "Act Dp"
	if arrivalOrDeparture == regional.Arrival {
		schedHeader, actHeader = "Sch Ar", "Act Ar"
	}

	trainNum, err := strconv.Atoi(strings.TrimSpace(table.cellValue(cells, "Train #")))
	if err != nil {
		return nil, fmt.Errorf("unable to parse train number: %w", err)
	}

	originDate, err := parseArchiveDate(table.cellValue(cells, "Origin Date"))
	if err != nil {
		return nil, fmt.Errorf("unable to parse origin date: %w", err)
	}

	sched, err := parseArchiveDateTime(table.cellValue(cells, schedHeader))
	if err != nil {
		return nil, fmt.Errorf("unable to parse scheduled time: %w", err)
	}

	actClock, err := parseArchiveTime(table.cellValue(cells, actHeader))
	if err != nil {
		return nil, fmt.Errorf("unable to parse actual time: %w", err)
	}

	serviceDisruption, err := parseFlag(table.cellValue(cells, "Service Disruption"), "SD")
	if err != nil {
		return nil, err
	}
	cancellations, err := parseFlag(table.cellValue(cells, "Cancellations"), "C")
	if err != nil {
		return nil, err
	}

	act := composeActualDateTime(sched, actClock)

	stop := regional.Stop{
		ArrivalOrDeparture: arrivalOrDeparture,
		TrainNum:           trainNum,
		StationCode:        stationCode,
		Direction:          table.direction,
		OriginDate:         originDate,
		OriginYear:         originDate.Year(),
		OriginMonth:        int(originDate.Month()),
		OriginWeekDay:      originDate.Weekday().String(),
		FullSchedDatetime:  sched,
		SchedDate:          time.Date(sched.Year(), sched.Month(), sched.Day(), 0, 0, 0, 0, sched.Location()),
		SchedWeekDay:       sched.Weekday().String(),
		SchedTime:          sched.Format("15:04"),
		ActTime:            act.Format("15:04"),
		FullActDatetime:    act,
		TimedeltaFromSched: delayMinutes(sched, act),
		ServiceDisruption:  serviceDisruption,
		Cancellations:      cancellations,
	}
	return &stop, nil
}
