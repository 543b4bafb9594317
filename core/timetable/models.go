package timetable

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
)

// Entry types. They only affect rendering, never conflict rules.
const (
	TypeLecture  EntryType = "lecture"
	TypeLab      EntryType = "lab"
	TypeTutorial EntryType = "tutorial"
	TypeExam     EntryType = "exam"
)

var EntryTypes = []EntryType{TypeLecture, TypeLab, TypeTutorial, TypeExam}

type EntryType string

// Scope identifies the class a timetable belongs to.
// SessionID, SectionID & Semester are either all set (subdivided program) or all zero (program-only scope).
type Scope struct {
	ProgramID int64 `json:"program_id" query:"program_id" validate:"required,gt=0"`
	SessionID int64 `json:"session_id,omitempty" query:"session_id" validate:"omitempty,gt=0"`
	SectionID int64 `json:"section_id,omitempty" query:"section_id" validate:"omitempty,gt=0"`
	Semester  int   `json:"semester,omitempty" query:"semester" validate:"omitempty,gt=0"`
}

// Subdivided reports whether the scope uses the session/section/semester subdivision.
func (s Scope) Subdivided() bool {
	return s.SessionID != 0 || s.SectionID != 0 || s.Semester != 0
}

func (s Scope) complete() bool {
	return s.SessionID != 0 && s.SectionID != 0 && s.Semester != 0
}

// Valid checks the scope shape without a validator, for callers outside the API boundary.
func (s Scope) Valid() bool {
	return s.ProgramID > 0 && (!s.Subdivided() || s.complete())
}

func (s Scope) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}

// Entry is a booked class occupying [StartTime, EndTime) on Day for a teacher within a Scope.
type Entry struct {
	ID        int64    `json:"id"`
	SubjectID int64    `json:"subject_id"`
	TeacherID int64    `json:"teacher_id"`
	Day       Weekday  `json:"day"`
	StartTime TimeSlot `json:"start_time"`
	EndTime   TimeSlot `json:"end_time"`
	Room      string   `json:"room,omitempty"`
	Scope
	Type      EntryType `json:"type"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Overlaps uses half-open intervals: entries sharing a boundary do not overlap.
func (e Entry) Overlaps(o Entry) bool {
	return e.StartTime < o.EndTime && o.StartTime < e.EndTime
}

// Span is the number of slots the entry covers.
func (e Entry) Span(granularity int) int {
	if granularity <= 0 {
		return 0
	}
	return int(e.EndTime-e.StartTime) / granularity
}

func (e Entry) sameRoom(o Entry) bool {
	r1 := core.CleanString(e.Room, true /* lower */)
	return r1 != "" && r1 == core.CleanString(o.Room, true /* lower */)
}

// NewEntry contains information needed to create a new Entry.
type NewEntry struct {
	SubjectID int64     `json:"subject_id" validate:"required,gt=0"`
	TeacherID int64     `json:"teacher_id" validate:"required,gt=0"`
	Day       Weekday   `json:"day" validate:"required,weekday"`
	StartTime *TimeSlot `json:"start_time" validate:"required"`
	EndTime   *TimeSlot `json:"end_time" validate:"required"`
	Room      string    `json:"room" validate:"omitempty,max=64,room"`
	Scope
	Type EntryType `json:"type" validate:"required,entrytype"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Room = core.CleanString(ne.Room)
	ne.Type = EntryType(core.CleanString(string(ne.Type), true /* lower */))
	return validate.Struct(ne)
}

func (ne NewEntry) entry() Entry {
	e := Entry{
		SubjectID: ne.SubjectID,
		TeacherID: ne.TeacherID,
		Day:       ne.Day,
		Room:      ne.Room,
		Scope:     ne.Scope,
		Type:      ne.Type,
	}
	if ne.StartTime != nil {
		e.StartTime = *ne.StartTime
	}
	if ne.EndTime != nil {
		e.EndTime = *ne.EndTime
	}
	return e
}

// UpdateEntry replaces every mutable field of an existing Entry.
type UpdateEntry NewEntry

func (ue *UpdateEntry) Validate(validate *validator.Validate) error {
	ue.Room = core.CleanString(ue.Room)
	ue.Type = EntryType(core.CleanString(string(ue.Type), true /* lower */))
	return validate.Struct(ue)
}

func (ue UpdateEntry) apply(orig Entry) Entry {
	e := NewEntry(ue).entry()
	e.ID = orig.ID
	e.CreatedAt = orig.CreatedAt
	return e
}

// QueryFilter applies AND operation on the set fields. Zero values are ignored,
// unless Exact is set in which case the scope fields must match as given.
type QueryFilter struct {
	IDs       []int64 `query:"id"`
	ProgramID int64   `query:"program_id"`
	SessionID int64   `query:"session_id"`
	SectionID int64   `query:"section_id"`
	Semester  int     `query:"semester"`
	TeacherID int64   `query:"teacher_id"`
	Day       Weekday `query:"day"`
	Exact     bool    `query:"-"`
}

// ScopeFilter matches the entries of exactly one scope, optionally on the given days.
func ScopeFilter(s Scope, day ...Weekday) QueryFilter {
	f := QueryFilter{
		ProgramID: s.ProgramID,
		SessionID: s.SessionID,
		SectionID: s.SectionID,
		Semester:  s.Semester,
		Exact:     true,
	}
	if len(day) > 0 {
		f.Day = day[0]
	}
	return f
}

func (qf QueryFilter) Scope() Scope {
	return Scope{ProgramID: qf.ProgramID, SessionID: qf.SessionID, SectionID: qf.SectionID, Semester: qf.Semester}
}

func (qf QueryFilter) IsEmpty() bool {
	return !qf.Exact && len(qf.IDs) == 0 && qf.Scope() == (Scope{}) && qf.TeacherID == 0 && qf.Day == 0
}

func (qf QueryFilter) matchID(id int64) bool {
	if len(qf.IDs) == 0 {
		return true
	}
	for _, fid := range qf.IDs {
		if fid == id {
			return true
		}
	}
	return false
}

func (qf QueryFilter) Match(e Entry) bool {
	if !qf.matchID(e.ID) {
		return false
	}
	if qf.Exact {
		if e.Scope != qf.Scope() {
			return false
		}
	} else {
		if qf.ProgramID != 0 && e.ProgramID != qf.ProgramID {
			return false
		}
		if qf.SessionID != 0 && e.SessionID != qf.SessionID {
			return false
		}
		if qf.SectionID != 0 && e.SectionID != qf.SectionID {
			return false
		}
		if qf.Semester != 0 && e.Semester != qf.Semester {
			return false
		}
	}
	if qf.TeacherID != 0 && e.TeacherID != qf.TeacherID {
		return false
	}
	return qf.Day == 0 || e.Day == qf.Day
}

type entryCmp func(e1, e2 *Entry) int

var orderableFields = map[string]entryCmp{
	"id":         func(e1, e2 *Entry) int { return cmpInt64(e1.ID, e2.ID) },
	"day":        func(e1, e2 *Entry) int { return cmpInt64(int64(e1.Day), int64(e2.Day)) },
	"start_time": func(e1, e2 *Entry) int { return cmpInt64(int64(e1.StartTime), int64(e2.StartTime)) },
	"end_time":   func(e1, e2 *Entry) int { return cmpInt64(int64(e1.EndTime), int64(e2.EndTime)) },
	"teacher_id": func(e1, e2 *Entry) int { return cmpInt64(e1.TeacherID, e2.TeacherID) },
	"subject_id": func(e1, e2 *Entry) int { return cmpInt64(e1.SubjectID, e2.SubjectID) },
	"room": func(e1, e2 *Entry) int {
		return strings.Compare(strings.ToLower(e1.Room), strings.ToLower(e2.Room))
	},
	"created_at": func(e1, e2 *Entry) int {
		switch {
		case e1.CreatedAt.Before(e2.CreatedAt):
			return -1
		case e1.CreatedAt.After(e2.CreatedAt):
			return 1
		}
		return 0
	},
}

// defaultOrdering is the chronological order of a week.
var defaultOrdering = []core.DBOrdering{
	{Field: "day", Ascending: true},
	{Field: "start_time", Ascending: true},
	{Field: "id", Ascending: true},
}

// IsOrderable reports whether entries can be ordered by field.
func IsOrderable(field string) bool {
	_, ok := orderableFields[field]
	return ok
}

// SortEntries sorts entries in place. Unknown fields are ignored and ties fall back to the chronological order.
func SortEntries(entries []Entry, ordering []core.DBOrdering) {
	ords := make([]core.DBOrdering, 0, len(ordering)+len(defaultOrdering))
	for _, ord := range ordering {
		if IsOrderable(ord.Field) {
			ords = append(ords, ord)
		}
	}
	ords = append(ords, defaultOrdering...)

	sort.SliceStable(entries, func(i, j int) bool {
		for _, ord := range ords {
			c := orderableFields[ord.Field](&entries[i], &entries[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
