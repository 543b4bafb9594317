package sqlxrepos

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/tests"
)

// Run against postgres with: ENV=TEST TEST_DATABASE_INMEMORY=false go test ./storage/...
func newDBService(t *testing.T) (*timetable.Service, *timetableRepository) {
	conf := core.NewConfig()
	db := testutil.PrepareDB(t, conf)
	repo := NewTimetableRepository(db)
	svc, err := timetable.NewService(db, repo, nil, conf)
	require.NoError(t, err)
	return svc, repo
}

var dbScope = timetable.Scope{ProgramID: 1, SessionID: 2, SectionID: 3, Semester: 1}

func TestTimetableRepository_service(t *testing.T) {
	svc, _ := newDBService(t)
	ctx := context.Background()

	a := testutil.CreateEntry(t, svc, dbScope, 1, timetable.Monday, "09:00", "10:30", "B12")
	assert.NotZero(t, a.ID)
	assert.Equal(t, "B12", a.Room)

	_, err := svc.Create(ctx, testutil.NewEntry(t, dbScope, 1, timetable.Monday, "10:00", "11:00"))
	cErr, ok := errors.Cause(err).(*timetable.ConflictError)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, a.ID, cErr.Entry.ID)

	c := testutil.CreateEntry(t, svc, dbScope, 1, timetable.Monday, "10:30", "11:30")
	program := testutil.CreateEntry(t, svc, timetable.Scope{ProgramID: 1}, 1, timetable.Monday, "10:00", "11:00")

	got, err := svc.Get(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, timetable.Scope{ProgramID: 1}, got.Scope)
	assert.Equal(t, "", got.Room)

	entries, err := svc.ListByScope(ctx, dbScope)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []int64{a.ID, c.ID}, []int64{entries[0].ID, entries[1].ID})

	byIDs, err := svc.Query(ctx, timetable.QueryFilter{IDs: []int64{a.ID, program.ID}}, nil)
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	_, err = svc.Update(ctx, a.ID, timetable.UpdateEntry(testutil.NewEntry(t, dbScope, 1, timetable.Monday, "11:30", "12:00")))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Equal(t, timetable.ErrNotFound, errors.Cause(svc.Delete(ctx, c.ID)))
	_, err = svc.Get(ctx, c.ID)
	assert.Equal(t, timetable.ErrNotFound, errors.Cause(err))
}

func TestTimetableRepository_concurrentCreate(t *testing.T) {
	svc, _ := newDBService(t)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), testutil.NewEntry(t, dbScope, 7, timetable.Friday, "13:00", "14:00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created int
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.IsType(t, &timetable.ConflictError{}, errors.Cause(err))
	}
	assert.Equal(t, 1, created, "exactly one of the racing bookings wins")
}

func TestTimetableRepository_exclusionConflict(t *testing.T) {
	svc, repo := newDBService(t)
	ctx := context.Background()

	a := testutil.CreateEntry(t, svc, dbScope, 1, timetable.Tuesday, "09:00", "10:30")

	// straight to the repository: only the exclusion constraint stands in the way
	clash := a
	clash.ID = 0
	clash.StartTime, clash.EndTime = 600, 660
	_, err := repo.CreateEntry(ctx, clash)
	cErr, ok := errors.Cause(err).(*timetable.ConflictError)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, a.ID, cErr.Entry.ID)
	assert.Equal(t, a.StartTime, cErr.Entry.StartTime)
}
