package timetable

// Validator gates every create & update of an Entry.
type Validator struct {
	Granularity int
	CheckRooms  bool
}

func NewValidator(granularity int, checkRooms bool) Validator {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	return Validator{Granularity: granularity, CheckRooms: checkRooms}
}

func (v Validator) granularity() int {
	if v.Granularity <= 0 {
		return DefaultGranularity
	}
	return v.Granularity
}

// CheckInterval requires start < end, both within the day and aligned to the granularity.
func (v Validator) CheckInterval(e Entry) error {
	g := v.granularity()
	if e.EndTime <= e.StartTime ||
		!e.StartTime.Valid() || !e.EndTime.Valid() ||
		int(e.StartTime)%g != 0 || int(e.EndTime)%g != 0 {
		return &InvalidIntervalError{Start: e.StartTime, End: e.EndTime, Granularity: g}
	}
	return nil
}

// CheckConflicts looks for an entry of the same scope & day, other than c itself,
// booked for the same teacher (or room, when enabled) over an overlapping interval.
// Teacher collisions are reported before room ones, then the earliest start, then the lowest id.
func (v Validator) CheckConflicts(c Entry, existing []Entry) error {
	var conflict *ConflictError
	for _, e := range existing {
		if (c.ID != 0 && e.ID == c.ID) || e.Day != c.Day || e.Scope != c.Scope || !c.Overlaps(e) {
			continue
		}

		var dim string
		switch {
		case e.TeacherID == c.TeacherID:
			dim = DimensionTeacher
		case v.CheckRooms && c.sameRoom(e):
			dim = DimensionRoom
		default:
			continue
		}

		if conflict == nil || reportsBefore(dim, e, conflict) {
			conflict = &ConflictError{Entry: e, Dimension: dim}
		}
	}
	if conflict != nil {
		return conflict
	}
	return nil
}

// Validate runs CheckInterval then CheckConflicts.
func (v Validator) Validate(c Entry, existing []Entry) error {
	if err := v.CheckInterval(c); err != nil {
		return err
	}
	return v.CheckConflicts(c, existing)
}

func reportsBefore(dim string, e Entry, curr *ConflictError) bool {
	if dim != curr.Dimension {
		return dim == DimensionTeacher
	}
	if e.StartTime != curr.Entry.StartTime {
		return e.StartTime < curr.Entry.StartTime
	}
	return e.ID < curr.Entry.ID
}
