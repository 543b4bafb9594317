package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database"
)

// NewValidator returns a validator with every custom rule & translation registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)
	return validate
}

// Slot parses "HH:MM", failing the test on bad input.
func Slot(t *testing.T, s string) *timetable.TimeSlot {
	t.Helper()
	ts, err := timetable.ParseTimeSlot(s)
	if err != nil {
		t.Fatalf("Slot(%q) failed: %v", s, err)
	}
	return &ts
}

func NewEntry(
	t *testing.T,
	scope timetable.Scope,
	teacherID int64,
	day timetable.Weekday,
	start, end string,
	room ...string,
) timetable.NewEntry {
	ne := timetable.NewEntry{
		SubjectID: 1,
		TeacherID: teacherID,
		Day:       day,
		StartTime: Slot(t, start),
		EndTime:   Slot(t, end),
		Scope:     scope,
		Type:      timetable.TypeLecture,
	}
	if len(room) > 0 {
		ne.Room = room[0]
	}
	return ne
}

func CreateEntry(
	t *testing.T,
	svc *timetable.Service,
	scope timetable.Scope,
	teacherID int64,
	day timetable.Weekday,
	start, end string,
	room ...string,
) timetable.Entry {
	t.Helper()
	e, err := svc.Create(context.Background(), NewEntry(t, scope, teacherID, day, start, end, room...))
	if err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}
	return e
}

// PrepareDB opens the postgres test database, migrates it and empties it.
// The test is skipped outside of TEST mode or when the configuration uses in-memory storage.
func PrepareDB(t *testing.T, conf *core.Config) *sql.DB {
	t.Helper()
	if !conf.TestMode || conf.Database.InMemory {
		t.Skip("postgres tests disabled: run with ENV=TEST TEST_DATABASE_INMEMORY=false")
	}

	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ResetDB(t, db)
	return db
}

func ResetDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec("TRUNCATE timetable_entries RESTART IDENTITY"); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
