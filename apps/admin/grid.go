package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

const (
	defaultTermWidth = 120
	slotColWidth     = 6 // "HH:MM "
	minDayColWidth   = 8
)

var termWidthFunc = func() int { // mockable
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

func (cli *commandLine) grid(scope timetable.Scope) error {
	g, err := cli.ttSvc.Grid(context.Background(), scope)
	if err != nil {
		return err
	}
	renderGrid(cli.out, g, termWidthFunc())
	return nil
}

func entryLabel(e *timetable.Entry) string {
	return strings.TrimSpace(fmt.Sprintf("s%d t%d %s", e.SubjectID, e.TeacherID, e.Room))
}

// fit truncates or pads s to exactly w columns, keeping one blank column as separator.
func fit(s string, w int) string {
	if len(s) > w-1 {
		s = s[:w-1]
	}
	return s + strings.Repeat(" ", w-len(s))
}

// renderGrid prints one row per slot & one column per day.
// An entry is labelled on its first slot, the slots it also covers show "|".
func renderGrid(w io.Writer, g timetable.Grid, width int) {
	if len(g.Days) == 0 {
		return
	}
	colWidth := (width - slotColWidth) / len(g.Days)
	if colWidth < minDayColWidth {
		colWidth = minDayColWidth
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", slotColWidth))
	for _, dg := range g.Days {
		sb.WriteString(fit(dg.Day.String(), colWidth))
	}
	fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))

	for i, slot := range g.Slots {
		sb.Reset()
		sb.WriteString(fit(slot.String(), slotColWidth))
		for _, dg := range g.Days {
			cell := dg.Cells[i]
			switch {
			case cell.Entry != nil:
				sb.WriteString(fit(entryLabel(cell.Entry), colWidth))
			case cell.Covered:
				sb.WriteString(fit("|", colWidth))
			default:
				sb.WriteString(fit(".", colWidth))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	for _, dg := range g.Days {
		for _, e := range dg.Overflow {
			e := e
			fmt.Fprintf(w, "off grid: %s %s-%s %s\n", dg.Day, e.StartTime, e.EndTime, entryLabel(&e))
		}
	}
}
