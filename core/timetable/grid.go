package timetable

import (
	"sort"
)

// Cell is one (day, slot) position of the grid.
// The first slot of an entry carries it with its Span; the slots it also covers are marked Covered.
type Cell struct {
	Slot    TimeSlot `json:"slot"`
	Entry   *Entry   `json:"entry"`
	Span    int      `json:"span,omitempty"`
	Covered bool     `json:"covered,omitempty"`
}

func (c Cell) Empty() bool {
	return c.Entry == nil && !c.Covered
}

type DayGrid struct {
	Day   Weekday `json:"day"`
	Cells []Cell  `json:"cells"`
	// Overflow lists the entries that could not be placed: outside the window
	// or colliding with an entry already placed that day.
	Overflow []Entry `json:"overflow,omitempty"`
}

type Grid struct {
	Granularity int        `json:"granularity"`
	Slots       []TimeSlot `json:"slots"`
	Days        []DayGrid  `json:"days"`
}

// Day returns the grid of the given day, if any.
func (g Grid) Day(day Weekday) (DayGrid, bool) {
	for _, dg := range g.Days {
		if dg.Day == day {
			return dg, true
		}
	}
	return DayGrid{}, false
}

// Lookup returns the entry occupying slot on day, including slots covered by a span.
func (g Grid) Lookup(day Weekday, slot TimeSlot) (*Entry, bool) {
	dg, ok := g.Day(day)
	if !ok {
		return nil, false
	}
	idx := sort.Search(len(g.Slots), func(i int) bool { return g.Slots[i] >= slot })
	if idx == len(g.Slots) || g.Slots[idx] != slot {
		return nil, false
	}
	for i := idx; i >= 0; i-- {
		if c := dg.Cells[i]; c.Entry != nil {
			if i+c.Span > idx {
				return c.Entry, true
			}
			return nil, false
		} else if !c.Covered {
			return nil, false
		}
	}
	return nil, false
}

// Projector turns a flat entry set into the weekly grid of an Axis.
type Projector struct {
	axis  Axis
	slots []TimeSlot
}

func NewProjector(axis Axis) (*Projector, error) {
	slots, err := axis.Slots()
	if err != nil {
		return nil, err
	}
	return &Projector{axis: axis, slots: slots}, nil
}

func (p *Projector) Axis() Axis { return p.axis }

// Project is pure: the same entries always give the same grid.
// Entries crossing the window bounds are clipped to it.
func (p *Projector) Project(entries []Entry) Grid {
	byDay := make(map[Weekday][]Entry, len(Weekdays()))
	for _, e := range entries {
		byDay[e.Day] = append(byDay[e.Day], e)
	}

	slots := make([]TimeSlot, len(p.slots))
	copy(slots, p.slots)
	grid := Grid{
		Granularity: p.axis.Granularity,
		Slots:       slots,
		Days:        make([]DayGrid, 0, len(Weekdays())),
	}
	for _, day := range Weekdays() {
		grid.Days = append(grid.Days, p.projectDay(day, byDay[day]))
	}
	return grid
}

func (p *Projector) projectDay(day Weekday, entries []Entry) DayGrid {
	n := len(p.slots)
	dg := DayGrid{Day: day, Cells: make([]Cell, n)}
	for i, ts := range p.slots {
		dg.Cells[i].Slot = ts
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].ID < entries[j].ID
	})

	occupiedUntil := 0 // index of the first free slot
	for _, e := range entries {
		first := sort.Search(n, func(i int) bool { return p.slots[i] >= e.StartTime })
		end := sort.Search(n, func(i int) bool { return p.slots[i] >= e.EndTime })
		if first > 0 && e.StartTime < p.slots[first-1]+TimeSlot(p.axis.Granularity) {
			first-- // start falls inside a slot
		}
		if first >= end || first < occupiedUntil {
			dg.Overflow = append(dg.Overflow, e)
			continue
		}

		entry := e
		dg.Cells[first].Entry = &entry
		dg.Cells[first].Span = end - first
		for i := first + 1; i < end; i++ {
			dg.Cells[i].Covered = true
		}
		occupiedUntil = end
	}
	return dg
}
