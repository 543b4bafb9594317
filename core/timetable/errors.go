package timetable

import (
	"errors"
	"fmt"
)

var (
	// errors
	ErrNotFound = errors.New("entry not found")
)

// InvalidRangeError is returned when a time axis cannot be generated.
type InvalidRangeError struct {
	Start       TimeSlot
	End         TimeSlot
	Granularity int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf(
		"invalid time range %s-%s: end must be after start and the range a whole number of %d minute slots",
		e.Start, e.End, e.Granularity,
	)
}

// InvalidIntervalError is returned for an entry whose interval is empty, reversed or off the slot grid.
type InvalidIntervalError struct {
	Start       TimeSlot
	End         TimeSlot
	Granularity int
}

func (e *InvalidIntervalError) Error() string {
	if e.End <= e.Start {
		return fmt.Sprintf("invalid interval %s-%s: end_time must be after start_time", e.Start, e.End)
	}
	return fmt.Sprintf("invalid interval %s-%s: times must be aligned to %d minutes", e.Start, e.End, e.Granularity)
}

// Conflict dimensions
const (
	DimensionTeacher = "teacher"
	DimensionRoom    = "room"
)

// ConflictError names the existing entry blocking a create or update.
type ConflictError struct {
	Entry     Entry
	Dimension string
}

func (e *ConflictError) Error() string {
	var msg string
	if e.Dimension == DimensionRoom {
		msg = fmt.Sprintf("room %q is already booked on %s %s-%s", e.Entry.Room, e.Entry.Day, e.Entry.StartTime, e.Entry.EndTime)
	} else {
		msg = fmt.Sprintf("teacher %d is already booked on %s %s-%s", e.Entry.TeacherID, e.Entry.Day, e.Entry.StartTime, e.Entry.EndTime)
	}
	// the colliding entry is not always known: a concurrent booking caught by the database
	if e.Entry.ID != 0 {
		msg += fmt.Sprintf(" (entry %d)", e.Entry.ID)
	}
	return msg
}
