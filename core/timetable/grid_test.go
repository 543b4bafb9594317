package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProjector(t *testing.T) *Projector {
	p, err := NewProjector(DefaultAxis())
	require.NoError(t, err)
	return p
}

func nonEmptyCells(dg DayGrid) []Cell {
	cells := make([]Cell, 0)
	for _, c := range dg.Cells {
		if c.Entry != nil {
			cells = append(cells, c)
		}
	}
	return cells
}

func TestProjector_Project(t *testing.T) {
	p := newTestProjector(t)
	entries := []Entry{
		newTestEntry(2, 1, Monday, "10:30", "11:30"),
		newTestEntry(1, 1, Monday, "09:00", "10:30"),
		newTestEntry(3, 2, Monday, "13:00", "13:15"),
	}

	grid := p.Project(entries)
	require.Len(t, grid.Slots, 48)
	require.Len(t, grid.Days, 6)
	assert.Equal(t, 15, grid.Granularity)

	monday, ok := grid.Day(Monday)
	require.True(t, ok)
	require.Len(t, monday.Cells, 48)

	cells := nonEmptyCells(monday)
	require.Len(t, cells, len(entries))
	for _, c := range cells {
		assert.Equal(t, c.Entry.StartTime, c.Slot)
		assert.Equal(t, c.Entry.Span(15), c.Span)
	}
	assert.Equal(t, 6, cells[0].Span)
	assert.Equal(t, 4, cells[1].Span)
	assert.Equal(t, 1, cells[2].Span)
	assert.Empty(t, monday.Overflow)

	// every other cell is either covered by a span or empty
	var covered int
	for _, c := range monday.Cells {
		if c.Covered {
			covered++
			assert.Nil(t, c.Entry)
		}
	}
	assert.Equal(t, 5+3+0, covered)

	for _, dg := range grid.Days {
		if dg.Day == Monday {
			continue
		}
		for _, c := range dg.Cells {
			assert.True(t, c.Empty(), "%s %s", dg.Day, c.Slot)
		}
	}
}

func TestProjector_Project_idempotent(t *testing.T) {
	p := newTestProjector(t)
	entries := []Entry{
		newTestEntry(1, 1, Monday, "09:00", "10:30"),
		newTestEntry(2, 2, Thursday, "15:00", "17:00"),
	}
	assert.Equal(t, p.Project(entries), p.Project(entries))
}

func TestProjector_Project_afterRemove(t *testing.T) {
	store := NewStore(NewValidator(15, true))
	p := newTestProjector(t)

	idA, err := store.Add(newTestEntry(0, 1, Monday, "09:00", "10:30"))
	require.NoError(t, err)
	_, err = store.Add(newTestEntry(0, 1, Monday, "10:30", "11:30"))
	require.NoError(t, err)

	before := p.Project(store.ListByScope(testScope))
	require.NoError(t, store.Remove(idA))
	after := p.Project(store.ListByScope(testScope))

	mb, _ := before.Day(Monday)
	ma, _ := after.Day(Monday)
	for i := range mb.Cells {
		cb, ca := mb.Cells[i], ma.Cells[i]
		inA := cb.Slot >= hm("09:00") && cb.Slot < hm("10:30")
		if inA {
			assert.True(t, ca.Empty(), "cell %s must be freed", cb.Slot)
		} else {
			assert.Equal(t, cb, ca, "cell %s must be unchanged", cb.Slot)
		}
	}
}

func TestProjector_Project_overflowAndClipping(t *testing.T) {
	p := newTestProjector(t)
	entries := []Entry{
		newTestEntry(1, 1, Monday, "07:00", "09:00"), // clipped to 08:00
		newTestEntry(2, 2, Monday, "08:30", "09:30"), // collides with 1 once clipped
		newTestEntry(3, 1, Monday, "19:30", "21:00"), // clipped to 20:00
		newTestEntry(4, 1, Monday, "06:00", "07:30"), // outside the window
		newTestEntry(5, 1, Tuesday, "20:00", "21:00"),
	}
	grid := p.Project(entries)

	monday, _ := grid.Day(Monday)
	assert.Equal(t, int64(1), monday.Cells[0].Entry.ID)
	assert.Equal(t, 4, monday.Cells[0].Span)
	assert.Equal(t, int64(3), monday.Cells[46].Entry.ID)
	assert.Equal(t, 2, monday.Cells[46].Span)

	overflow := make([]int64, 0)
	for _, e := range monday.Overflow {
		overflow = append(overflow, e.ID)
	}
	assert.ElementsMatch(t, []int64{2, 4}, overflow)

	tuesday, _ := grid.Day(Tuesday)
	assert.Empty(t, nonEmptyCells(tuesday))
	require.Len(t, tuesday.Overflow, 1)
	assert.Equal(t, int64(5), tuesday.Overflow[0].ID)
}

func TestGrid_Lookup(t *testing.T) {
	p := newTestProjector(t)
	grid := p.Project([]Entry{newTestEntry(1, 1, Monday, "09:00", "10:30")})

	tests := []struct {
		day    Weekday
		slot   string
		wantID int64
	}{
		{day: Monday, slot: "09:00", wantID: 1},
		{day: Monday, slot: "10:15", wantID: 1},
		{day: Monday, slot: "10:30"},
		{day: Monday, slot: "08:45"},
		{day: Tuesday, slot: "09:00"},
		{day: Monday, slot: "09:10"}, // not a slot
	}
	for _, tt := range tests {
		t.Run(tt.day.String()+" "+tt.slot, func(t *testing.T) {
			e, ok := grid.Lookup(tt.day, hm(tt.slot))
			if tt.wantID == 0 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, e.ID)
		})
	}
}
