package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	minutesPerDay = 24 * 60

	DefaultGranularity = 15
	DefaultWindowStart = TimeSlot(8 * 60)
	DefaultWindowEnd   = TimeSlot(20 * 60)
)

// TimeSlot is a point on the day's time axis, in minutes since midnight.
type TimeSlot int

func NewTimeSlot(hour, minute int) TimeSlot {
	return TimeSlot(hour*60 + minute)
}

// ParseTimeSlot parses "HH:MM" (24h clock, two digits each). "24:00" is accepted as the end of the day.
func ParseTimeSlot(s string) (TimeSlot, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return NewTimeSlot(h, m), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (ts TimeSlot) Hour() int   { return int(ts) / 60 }
func (ts TimeSlot) Minute() int { return int(ts) % 60 }

func (ts TimeSlot) Valid() bool {
	return ts >= 0 && ts <= minutesPerDay
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", ts.Hour(), ts.Minute())
}

func (ts TimeSlot) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts *TimeSlot) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeSlot(string(text))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// UnmarshalParam lets echo bind "HH:MM" query & path params.
func (ts *TimeSlot) UnmarshalParam(param string) error {
	return ts.UnmarshalText([]byte(param))
}

// GenerateSlots returns the ordered time axis [start, end) stepping by granularity minutes.
func GenerateSlots(start, end TimeSlot, granularity int) ([]TimeSlot, error) {
	if end <= start || granularity <= 0 || int(end-start)%granularity != 0 {
		return nil, &InvalidRangeError{Start: start, End: end, Granularity: granularity}
	}
	slots := make([]TimeSlot, 0, int(end-start)/granularity)
	for ts := start; ts < end; ts += TimeSlot(granularity) {
		slots = append(slots, ts)
	}
	return slots, nil
}

// Axis is the visible window of a timetable.
type Axis struct {
	Start       TimeSlot `json:"start"`
	End         TimeSlot `json:"end"`
	Granularity int      `json:"granularity"`
}

func DefaultAxis() Axis {
	return Axis{Start: DefaultWindowStart, End: DefaultWindowEnd, Granularity: DefaultGranularity}
}

// ParseAxis builds an Axis from "HH:MM" bounds.
func ParseAxis(start, end string, granularity int) (Axis, error) {
	s, err := ParseTimeSlot(start)
	if err != nil {
		return Axis{}, err
	}
	e, err := ParseTimeSlot(end)
	if err != nil {
		return Axis{}, err
	}
	axis := Axis{Start: s, End: e, Granularity: granularity}
	if _, err = axis.Slots(); err != nil {
		return Axis{}, err
	}
	return axis, nil
}

func (a Axis) Slots() ([]TimeSlot, error) {
	return GenerateSlots(a.Start, a.End, a.Granularity)
}

// Weekday is one of the school days, numbered like time.Weekday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
}

// Weekdays returns the fixed, ordered set of school days. Sunday is not a school day.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays() {
		if strings.EqualFold(s, weekdayNames[d]) || strings.EqualFold(s, weekdayNames[d][:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day %q: expected Monday to Saturday", s)
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Weekday) UnmarshalParam(param string) error {
	return d.UnmarshalText([]byte(param))
}
