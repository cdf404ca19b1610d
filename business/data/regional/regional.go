// Package regional provides CRUD functionality for Northeast Regional
// on-time performance and weather data.
package regional

import (
	"time"
)

// Arrival or departure markers for a Stop. A stop record describes exactly
// one of the two events.
const (
	Arrival   = "Arrival"
	Departure = "Departure"
)

// Travel directions along the line.
const (
	Northbound = "Northbound"
	Southbound = "Southbound"
)

// DirectionForTrain derives travel direction from a train number.
// Even numbered trains run northbound, odd numbered trains run southbound.
func DirectionForTrain(trainNum int) string {
	if trainNum%2 == 0 {
		return Northbound
	}
	return Southbound
}

// StopNumColumn returns the stop-order column used to sort stations along
// the line for the given direction.
func StopNumColumn(direction string) string {
	if direction == Northbound {
		return "nb_stop_num"
	}
	return "sb_stop_num"
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
